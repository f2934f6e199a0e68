package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/cargo-tracking/internal/api/metrics"
	"github.com/99minutos/cargo-tracking/internal/core/domain"
	"github.com/99minutos/cargo-tracking/internal/core/ports"
	"github.com/99minutos/cargo-tracking/internal/core/tracking"
)

const (
	maxIDAttempts = 3

	defaultPageLimit = 10
	maxPageLimit     = 100
)

type ShipmentService struct {
	repo   ports.ShipmentRepository
	engine *tracking.Engine
	ids    ports.IDGenerator
	clock  ports.Clock
	logger zerolog.Logger
}

func NewShipmentService(
	repo ports.ShipmentRepository,
	engine *tracking.Engine,
	ids ports.IDGenerator,
	clock ports.Clock,
	logger zerolog.Logger,
) *ShipmentService {
	return &ShipmentService{repo: repo, engine: engine, ids: ids, clock: clock, logger: logger}
}

// CreateShipment validates the input, builds a pending shipment at its origin
// and stores it. A shipment id collision reported by the store is retried with
// a fresh id.
func (s *ShipmentService) CreateShipment(ctx context.Context, input ports.CreateShipmentInput) (*domain.Shipment, error) {
	origin := toLocation(input.Origin)
	destination := toLocation(input.Destination)
	if err := origin.Validate(); err != nil {
		return nil, fmt.Errorf("origin: %w", err)
	}
	if err := destination.Validate(); err != nil {
		return nil, fmt.Errorf("destination: %w", err)
	}

	now := s.clock.Now()
	var shipment *domain.Shipment

	for attempt := 1; ; attempt++ {
		shipment = s.engine.Create(tracking.NewShipment{
			ShipmentID:       s.ids.NewID(),
			ContainerID:      input.ContainerID,
			Origin:           origin,
			Destination:      destination,
			Cargo:            toCargo(input.Cargo),
			Carrier:          toCarrier(input.Carrier),
			EstimatedArrival: input.EstimatedArrival,
		}, now)

		err := s.repo.Create(ctx, shipment)
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrDuplicateShipment) && attempt < maxIDAttempts {
			s.logger.Warn().Str("shipment_id", shipment.ShipmentID).Int("attempt", attempt).Msg("shipment id collision, regenerating")
			continue
		}
		s.logger.Error().Err(err).Msg("failed to create shipment")
		return nil, fmt.Errorf("create shipment: %w", err)
	}

	metrics.ShipmentsCreatedTotal.WithLabelValues(shipment.Cargo.Category).Inc()
	s.logger.Info().
		Str("shipment_id", shipment.ShipmentID).
		Str("container_id", shipment.ContainerID).
		Msg("shipment created")

	return shipment, nil
}

func (s *ShipmentService) GetShipment(ctx context.Context, id string) (*domain.Shipment, error) {
	return s.repo.FindByID(ctx, id)
}

// ListShipments returns one page of shipments. Limit defaults to 10 and is capped at 100.
func (s *ShipmentService) ListShipments(ctx context.Context, input ports.ListShipmentsInput) (*ports.ListShipmentsResult, error) {
	if input.Status != "" {
		if _, err := domain.ParseStatus(input.Status); err != nil {
			return nil, err
		}
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	items, total, err := s.repo.List(ctx, ports.ListShipmentsFilter{
		Status:      input.Status,
		ContainerID: input.ContainerID,
		Page:        page,
		Limit:       limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}

	return &ports.ListShipmentsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

// UpdateShipment replaces mutable fields of a shipment. An explicit
// EstimatedArrival overrides the derived value until the next location update.
func (s *ShipmentService) UpdateShipment(ctx context.Context, id string, input ports.UpdateShipmentInput) (*domain.Shipment, error) {
	var status domain.ShipmentStatus
	if input.Status != nil {
		parsed, err := domain.ParseStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next := current.Clone()
	if status != "" {
		next.Status = status
	}
	if input.EstimatedArrival != nil {
		next.EstimatedArrival = *input.EstimatedArrival
	}
	if input.ActualArrival != nil {
		t := *input.ActualArrival
		next.ActualArrival = &t
	}
	if input.Cargo != nil {
		next.Cargo = toCargo(*input.Cargo)
	}
	if input.Carrier != nil {
		next.Carrier = toCarrier(*input.Carrier)
	}
	next.UpdatedAt = s.clock.Now()

	if err := s.repo.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("update shipment: %w", err)
	}

	s.logger.Info().Str("shipment_id", next.ShipmentID).Msg("shipment updated")
	return next, nil
}

func (s *ShipmentService) DeleteShipment(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("id", id).Msg("shipment deleted")
	return nil
}

// GetETA recomputes the arrival estimate from the shipment's current position.
func (s *ShipmentService) GetETA(ctx context.Context, id string) (*ports.ETAResult, error) {
	shipment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	view := s.engine.ComputeETAView(shipment, s.clock.Now())
	return &ports.ETAResult{
		EstimatedArrival:    view.EstimatedArrival,
		CurrentETA:          shipment.EstimatedArrival,
		DistanceRemainingKm: view.DistanceRemainingKm,
		CurrentLocation:     shipment.CurrentLocation,
		Destination:         shipment.Destination,
	}, nil
}

func toLocation(in ports.LocationInput) domain.Location {
	return domain.Location{
		Name:    in.Name,
		Address: in.Address,
		Coordinates: domain.Coordinates{
			Latitude:  in.Coordinates.Latitude,
			Longitude: in.Coordinates.Longitude,
		},
		Timestamp: in.Timestamp,
	}
}

func toCargo(in ports.CargoInput) domain.CargoInfo {
	return domain.CargoInfo{
		Description: in.Description,
		Weight:      in.Weight,
		Value:       in.Value,
		Category:    in.Category,
	}
}

func toCarrier(in ports.CarrierInput) domain.CarrierInfo {
	return domain.CarrierInfo{Name: in.Name, Contact: in.Contact}
}
