package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/99minutos/cargo-tracking/internal/api/metrics"
	"github.com/99minutos/cargo-tracking/internal/core/ports"
)

const (
	defaultWorkers      = 8
	channelBuffer       = 256
	DefaultDrainTimeout = 10 * time.Second
)

// ErrClosed is returned for updates offered after shutdown has begun.
var ErrClosed = errors.New("dispatcher closed")

// Processor handles one location update. ports.TrackingService satisfies it.
type Processor interface {
	Process(ctx context.Context, in ports.LocationUpdateInput) error
}

// job is one queued update. result, when set, receives the processing error.
type job struct {
	in     ports.LocationUpdateInput
	result chan<- error
}

func (j job) reply(err error) {
	if j.result != nil {
		j.result <- err
	}
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithDrainTimeout bounds how long buffered updates may take to finish once
// shutdown starts.
func WithDrainTimeout(d time.Duration) Option {
	return func(disp *Dispatcher) {
		if d > 0 {
			disp.drainTimeout = d
		}
	}
}

// Dispatcher routes location updates to a fixed set of workers using
// consistent hashing on the shipment id. Updates for the same shipment are
// always handled by the same worker, in arrival order.
//
// When the context given to Run is cancelled the dispatcher stops accepting
// updates and drains what is already buffered within the drain timeout.
type Dispatcher struct {
	workers      []chan job
	service      Processor
	log          zerolog.Logger
	drainTimeout time.Duration

	// mu guards closed and the closing of the worker channels. Senders hold
	// the read lock.
	mu       sync.RWMutex
	closed   bool
	stopping chan struct{}
	stopOnce sync.Once
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service Processor, log zerolog.Logger, opts ...Option) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:      make([]chan job, numWorkers),
		service:      service,
		log:          log,
		drainTimeout: DefaultDrainTimeout,
		stopping:     make(chan struct{}),
	}
	for i := range d.workers {
		d.workers[i] = make(chan job, channelBuffer)
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run starts all workers and blocks until ctx is cancelled and the buffered
// updates have been drained or the drain timeout has passed.
func (d *Dispatcher) Run(ctx context.Context) error {
	// Processing outlives ctx so that the drain can finish its work.
	procCtx, cancelProc := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelProc()

	var g errgroup.Group
	for i, ch := range d.workers {
		i, ch := i, ch
		g.Go(func() error {
			d.runWorker(procCtx, i, ch)
			return nil
		})
	}

	<-ctx.Done()
	d.closeIntake()
	d.log.Info().
		Int("pending", d.pending()).
		Dur("drain_timeout", d.drainTimeout).
		Msg("dispatcher draining")

	timer := time.AfterFunc(d.drainTimeout, cancelProc)
	defer timer.Stop()

	err := g.Wait()
	d.log.Info().Msg("dispatcher stopped")
	return err
}

// Enqueue sends an update to the worker responsible for its shipment. It
// blocks while that worker's buffer is full, until ctx is done or shutdown
// begins.
func (d *Dispatcher) Enqueue(ctx context.Context, in ports.LocationUpdateInput) error {
	return d.enqueue(ctx, job{in: in})
}

// Submit enqueues an update and waits until it has been processed. It returns
// the processing error, ErrClosed, or ctx.Err() if ctx ends first; in the
// last case the update may still be processed later.
func (d *Dispatcher) Submit(ctx context.Context, in ports.LocationUpdateInput) error {
	result := make(chan error, 1)
	if err := d.enqueue(ctx, job{in: in, result: result}); err != nil {
		return err
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// EnqueueBatch enqueues multiple updates preserving per-shipment ordering. It
// stops at the first failure and returns how many updates were accepted
// before it; those are not rolled back.
func (d *Dispatcher) EnqueueBatch(ctx context.Context, batch []ports.LocationUpdateInput) (int, error) {
	for i, in := range batch {
		if err := d.Enqueue(ctx, in); err != nil {
			return i, err
		}
	}
	return len(batch), nil
}

func (d *Dispatcher) enqueue(ctx context.Context, j job) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}

	idx := d.shardIndex(j.in.ShipmentID)
	select {
	case d.workers[idx] <- j:
		metrics.QueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return nil
	case <-d.stopping:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// closeIntake rejects new updates and closes the worker channels so that
// workers exit once their buffers are empty.
func (d *Dispatcher) closeIntake() {
	d.stopOnce.Do(func() {
		// Release senders blocked on a full buffer before taking the write lock.
		close(d.stopping)
		d.mu.Lock()
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
		d.mu.Unlock()
	})
}

func (d *Dispatcher) pending() int {
	n := 0
	for _, ch := range d.workers {
		n += len(ch)
	}
	return n
}

// shardIndex maps a shipment id deterministically to a worker index.
func (d *Dispatcher) shardIndex(shipmentID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(shipmentID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan job) {
	label := strconv.Itoa(id)
	dropped := 0
	for j := range ch {
		metrics.QueueDepth.WithLabelValues(label).Set(float64(len(ch)))

		if err := ctx.Err(); err != nil {
			dropped++
			j.reply(err)
			continue
		}

		err := d.service.Process(ctx, j.in)
		if err != nil {
			d.log.Error().Err(err).
				Str("shipment_id", j.in.ShipmentID).
				Int("worker_id", id).
				Msg("location update failed")
		}
		j.reply(err)
	}
	if dropped > 0 {
		d.log.Warn().
			Int("worker_id", id).
			Int("dropped", dropped).
			Msg("drain timeout exceeded, buffered updates dropped")
	}
}
