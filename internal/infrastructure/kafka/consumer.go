// Package kafka feeds location updates published on a Kafka topic into the
// tracking dispatcher.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/99minutos/cargo-tracking/internal/core/domain"
	"github.com/99minutos/cargo-tracking/internal/core/ports"
)

const sourceKafka = "kafka"

// Submitter processes a location update and reports the outcome.
// queue.Dispatcher satisfies it.
type Submitter interface {
	Submit(ctx context.Context, in ports.LocationUpdateInput) error
}

// Retrier re-runs a failed submission while its error is transient.
type Retrier interface {
	ExecuteWithContext(ctx context.Context, fn func(context.Context) error) error
}

// ShouldRetry reports whether a failed submission is worth retrying. Rejected
// updates and shutdown are final.
func ShouldRetry(err error) bool {
	return !domain.IsRejection(err) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

type Config struct {
	Brokers []string
	Topic   string
	GroupID string
}

// locationMessage is the JSON payload of a location-update message.
type locationMessage struct {
	EventID    string `json:"event_id"`
	ShipmentID string `json:"shipment_id"`
	Location   struct {
		Name        string `json:"name"`
		Address     string `json:"address"`
		Coordinates struct {
			Latitude  *float64 `json:"latitude"`
			Longitude *float64 `json:"longitude"`
		} `json:"coordinates"`
	} `json:"location"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}

// Consumer reads location updates from a consumer group. A message's offset
// is committed only after its update has been processed or rejected, so
// delivery is at-least-once; redeliveries are caught by the event id dedup.
type Consumer struct {
	reader  *kafkago.Reader
	queue   Submitter
	retrier Retrier
	log     zerolog.Logger
}

func NewConsumer(cfg Config, queue Submitter, retrier Retrier, log zerolog.Logger) *Consumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.Topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	return &Consumer{
		reader:  reader,
		queue:   queue,
		retrier: retrier,
		log:     log.With().Str("topic", cfg.Topic).Logger(),
	}
}

// Run consumes until ctx is cancelled or an update keeps failing for a
// transient reason; the uncommitted message is then redelivered after restart.
func (c *Consumer) Run(ctx context.Context) error {
	defer func() {
		if err := c.reader.Close(); err != nil {
			c.log.Warn().Err(err).Msg("failed to close kafka reader")
		}
	}()

	c.log.Info().Msg("kafka consumer started")
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("fetch message: %w", err)
		}

		if err := c.handle(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("commit message: %w", err)
		}
	}
}

// handle processes one message. A nil return means the offset may be
// committed: the update was applied, rejected, or the payload is malformed.
func (c *Consumer) handle(ctx context.Context, msg kafkago.Message) error {
	log := c.log.With().Int("partition", msg.Partition).Int64("offset", msg.Offset).Logger()

	in, err := decodeLocationMessage(msg.Value)
	if err != nil {
		log.Warn().Err(err).Msg("discarding malformed location update")
		return nil
	}
	if in.EventID == "" {
		in.EventID = messageID(msg)
	}

	err = c.retrier.ExecuteWithContext(ctx, func(ctx context.Context) error {
		return c.queue.Submit(ctx, in)
	})
	switch {
	case err == nil:
		return nil
	case domain.IsRejection(err):
		log.Warn().Err(err).Str("shipment_id", in.ShipmentID).Msg("location update rejected")
		return nil
	default:
		return fmt.Errorf("process offset %d: %w", msg.Offset, err)
	}
}

// messageID is the broker coordinate of msg, stable across redeliveries.
func messageID(msg kafkago.Message) string {
	return msg.Topic + "/" + strconv.Itoa(msg.Partition) + "/" + strconv.FormatInt(msg.Offset, 10)
}

func decodeLocationMessage(data []byte) (ports.LocationUpdateInput, error) {
	var m locationMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return ports.LocationUpdateInput{}, fmt.Errorf("decode: %w", err)
	}
	if m.ShipmentID == "" {
		return ports.LocationUpdateInput{}, errors.New("missing shipment_id")
	}
	if m.Location.Coordinates.Latitude == nil || m.Location.Coordinates.Longitude == nil {
		return ports.LocationUpdateInput{}, errors.New("missing coordinates")
	}

	source := m.Source
	if source == "" {
		source = sourceKafka
	}

	return ports.LocationUpdateInput{
		EventID:    m.EventID,
		ShipmentID: m.ShipmentID,
		Location: ports.LocationInput{
			Name:    m.Location.Name,
			Address: m.Location.Address,
			Coordinates: ports.CoordinatesInput{
				Latitude:  *m.Location.Coordinates.Latitude,
				Longitude: *m.Location.Coordinates.Longitude,
			},
		},
		Status:    m.Status,
		Notes:     m.Notes,
		Timestamp: m.Timestamp,
		Source:    source,
	}, nil
}
