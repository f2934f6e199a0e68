package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/cargo-tracking/internal/api/metrics"
	"github.com/99minutos/cargo-tracking/internal/core/domain"
	"github.com/99minutos/cargo-tracking/internal/core/geo"
	"github.com/99minutos/cargo-tracking/internal/core/ports"
	"github.com/99minutos/cargo-tracking/internal/core/tracking"
)

// DedupChecker abstracts the idempotency store (Redis). Keys are scoped to a
// shipment.
type DedupChecker interface {
	IsDuplicate(ctx context.Context, shipmentID, key string) (bool, error)
	Mark(ctx context.Context, shipmentID, key string) error
}

// Retrier re-runs an operation while it fails with a retryable error.
type Retrier interface {
	ExecuteWithContext(ctx context.Context, fn func(context.Context) error) error
}

// IsRetryable reports whether a failed location update should be re-applied on
// a freshly loaded shipment.
func IsRetryable(err error) bool {
	return errors.Is(err, domain.ErrConflict)
}

type trackingService struct {
	shipmentRepo ports.ShipmentRepository
	eventRepo    ports.LocationEventRepository
	dedup        DedupChecker
	engine       *tracking.Engine
	policy       tracking.Policy
	retrier      Retrier
	clock        ports.Clock
	log          zerolog.Logger
}

// NewTrackingService returns a TrackingService implementation.
func NewTrackingService(
	shipmentRepo ports.ShipmentRepository,
	eventRepo ports.LocationEventRepository,
	dedup DedupChecker,
	engine *tracking.Engine,
	policy tracking.Policy,
	retrier Retrier,
	clock ports.Clock,
	log zerolog.Logger,
) ports.TrackingService {
	return &trackingService{
		shipmentRepo: shipmentRepo,
		eventRepo:    eventRepo,
		dedup:        dedup,
		engine:       engine,
		policy:       policy,
		retrier:      retrier,
		clock:        clock,
		log:          log,
	}
}

// UpdateLocation loads the shipment, checks the update against the policy,
// applies it and saves the result. A concurrent write makes the save fail with
// domain.ErrConflict; the whole load-apply-save cycle is then retried on the
// fresh record.
func (s *trackingService) UpdateLocation(ctx context.Context, in ports.LocationUpdateInput) (*domain.Shipment, error) {
	start := time.Now()

	upd, now, err := s.toUpdate(in)
	if err != nil {
		s.observe(start, err)
		return nil, fmt.Errorf("update location: %w", err)
	}

	var saved *domain.Shipment
	err = s.retrier.ExecuteWithContext(ctx, func(ctx context.Context) error {
		current, err := s.shipmentRepo.FindByID(ctx, in.ShipmentID)
		if err != nil {
			return err
		}

		if err := s.policy.Check(current, upd, now); err != nil {
			return err
		}

		next := s.engine.ApplyLocationUpdate(current, upd, now)
		if next.Status == domain.StatusDelivered && next.ActualArrival == nil {
			arrived := now
			next.ActualArrival = &arrived
		}

		if err := s.shipmentRepo.Save(ctx, next); err != nil {
			if IsRetryable(err) {
				metrics.SaveConflictsTotal.Inc()
				s.log.Debug().Str("shipment_id", in.ShipmentID).Msg("save conflict, reloading")
			}
			return err
		}
		saved = next
		return nil
	})
	if err != nil {
		s.observe(start, err)
		return nil, fmt.Errorf("update location: %w", err)
	}

	// Audit trail is best-effort.
	event := &domain.LocationEvent{
		ShipmentID: saved.ShipmentID,
		Location:   saved.CurrentLocation,
		Status:     upd.Status,
		Notes:      in.Notes,
		Source:     sourceOrDefault(in.Source),
		Timestamp:  now,
	}
	if err := s.eventRepo.InsertEvent(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("shipment_id", saved.ShipmentID).Msg("failed to insert audit event")
	}

	statusLabel := string(upd.Status)
	if statusLabel == "" {
		statusLabel = "unchanged"
	}
	metrics.LocationUpdatesTotal.WithLabelValues(statusLabel, event.Source).Inc()
	metrics.RemainingDistanceKm.Observe(geo.Distance(saved.CurrentLocation.Coordinates, saved.Destination.Coordinates))
	s.observe(start, nil)

	s.log.Info().
		Str("shipment_id", saved.ShipmentID).
		Str("status", string(saved.Status)).
		Int("route_len", len(saved.Route)).
		Time("eta", saved.EstimatedArrival).
		Msg("location updated")

	return saved, nil
}

// Process deduplicates and applies a single asynchronous location update.
// Updates that carry neither an event id nor a timestamp cannot be told apart
// from a new report at the same point, so they are always applied.
func (s *trackingService) Process(ctx context.Context, in ports.LocationUpdateInput) error {
	key, ok := dedupKey(in)
	if !ok {
		metrics.LocationUpdateDedupTotal.WithLabelValues("skipped").Inc()
		if _, err := s.UpdateLocation(ctx, in); err != nil {
			return fmt.Errorf("process location update: %w", err)
		}
		return nil
	}

	// 1. Idempotency check: skip duplicates.
	isDup, err := s.dedup.IsDuplicate(ctx, in.ShipmentID, key)
	if err != nil {
		s.log.Warn().Err(err).Str("shipment_id", in.ShipmentID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		metrics.LocationUpdateDedupTotal.WithLabelValues("hit").Inc()
		s.log.Debug().Str("shipment_id", in.ShipmentID).Str("dedup_key", key).Msg("duplicate location update skipped")
		return nil
	}
	metrics.LocationUpdateDedupTotal.WithLabelValues("miss").Inc()

	// 2. Apply and persist.
	if _, err := s.UpdateLocation(ctx, in); err != nil {
		return fmt.Errorf("process location update: %w", err)
	}

	// 3. Mark only after a successful write so that failed events can be redelivered.
	if err := s.dedup.Mark(ctx, in.ShipmentID, key); err != nil {
		s.log.Warn().Err(err).Str("shipment_id", in.ShipmentID).Msg("failed to set dedup key")
	}
	return nil
}

func (s *trackingService) toUpdate(in ports.LocationUpdateInput) (tracking.LocationUpdate, time.Time, error) {
	upd := tracking.LocationUpdate{
		Location: toLocation(in.Location),
		Notes:    in.Notes,
	}
	if in.Status != "" {
		status, err := domain.ParseStatus(in.Status)
		if err != nil {
			return upd, time.Time{}, err
		}
		upd.Status = status
	}
	if err := upd.Location.Validate(); err != nil {
		return upd, time.Time{}, err
	}

	now := in.Timestamp
	if now.IsZero() {
		now = s.clock.Now()
	}
	return upd, now.UTC(), nil
}

func (s *trackingService) observe(start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		metrics.LocationUpdateErrorsTotal.WithLabelValues(errorReason(err)).Inc()
	}
	metrics.LocationUpdateDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrShipmentNotFound):
		return "shipment_not_found"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrTerminalStatus):
		return "terminal_status"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrStaleUpdate):
		return "stale_update"
	case errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidCoordinate),
		errors.Is(err, domain.ErrInvalidLocation):
		return "invalid_input"
	default:
		return "update_failed"
	}
}

// dedupKey identifies a redelivery of the same report. An event id wins;
// otherwise status, point and reported second must all match.
func dedupKey(in ports.LocationUpdateInput) (string, bool) {
	if in.EventID != "" {
		return "id:" + in.EventID, true
	}
	if in.Timestamp.IsZero() {
		return "", false
	}
	return fmt.Sprintf("%s:%g:%g@%d",
		in.Status,
		in.Location.Coordinates.Latitude,
		in.Location.Coordinates.Longitude,
		in.Timestamp.Unix(),
	), true
}

func sourceOrDefault(source string) string {
	if source == "" {
		return "api"
	}
	return source
}
