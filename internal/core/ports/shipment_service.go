package ports

import (
	"context"
	"time"

	"github.com/99minutos/cargo-tracking/internal/core/domain"
)

// CoordinatesInput holds geographic coordinates.
type CoordinatesInput struct {
	Latitude  float64
	Longitude float64
}

// LocationInput holds a named point.
type LocationInput struct {
	Name        string
	Address     string
	Coordinates CoordinatesInput
	Timestamp   time.Time // optional
}

// CargoInput holds cargo details.
type CargoInput struct {
	Description string
	Weight      float64
	Value       float64
	Category    string
}

// CarrierInput holds carrier contact details.
type CarrierInput struct {
	Name    string
	Contact string
}

// CreateShipmentInput carries all data needed to create a new shipment.
type CreateShipmentInput struct {
	ContainerID      string
	Origin           LocationInput
	Destination      LocationInput
	Cargo            CargoInput
	Carrier          CarrierInput
	EstimatedArrival *time.Time // optional; defaults to the configured transit window
}

// UpdateShipmentInput replaces mutable fields of a shipment. Nil fields are kept.
type UpdateShipmentInput struct {
	Status           *string
	EstimatedArrival *time.Time
	ActualArrival    *time.Time
	Cargo            *CargoInput
	Carrier          *CarrierInput
}

// ListShipmentsInput carries all parameters for the list endpoint.
type ListShipmentsInput struct {
	Status      string
	ContainerID string
	Page        int
	Limit       int
}

// ListShipmentsResult is returned by ListShipments.
type ListShipmentsResult struct {
	Items      []*domain.Shipment
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ETAResult is the on-demand arrival estimate of a shipment.
type ETAResult struct {
	// EstimatedArrival is recomputed from the current position at query time.
	EstimatedArrival time.Time
	// CurrentETA is the value stored on the shipment.
	CurrentETA          time.Time
	DistanceRemainingKm int64
	CurrentLocation     domain.Location
	Destination         domain.Location
}

// ShipmentService defines use-case operations for shipments.
type ShipmentService interface {
	CreateShipment(ctx context.Context, input CreateShipmentInput) (*domain.Shipment, error)
	GetShipment(ctx context.Context, id string) (*domain.Shipment, error)
	ListShipments(ctx context.Context, input ListShipmentsInput) (*ListShipmentsResult, error)
	UpdateShipment(ctx context.Context, id string, input UpdateShipmentInput) (*domain.Shipment, error)
	DeleteShipment(ctx context.Context, id string) error
	GetETA(ctx context.Context, id string) (*ETAResult, error)
}
