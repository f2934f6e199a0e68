package ports

import (
	"context"
	"time"

	"github.com/99minutos/cargo-tracking/internal/core/domain"
)

// LocationUpdateInput is the DTO passed from the transport layer to TrackingService.
type LocationUpdateInput struct {
	ShipmentID string
	Location   LocationInput
	Status     string    // optional
	Notes      string    // optional
	Timestamp  time.Time // optional; the service clock is used when zero
	Source     string    // optional: who reported the update
	// EventID identifies one report from its producer (a client-supplied id, or
	// topic/partition/offset for Kafka). Redeliveries share it.
	EventID string
}

// TrackingService applies location updates to shipments.
type TrackingService interface {
	// UpdateLocation applies the update and returns the persisted shipment.
	UpdateLocation(ctx context.Context, in LocationUpdateInput) (*domain.Shipment, error)
	// Process is the asynchronous entry point: duplicates are skipped silently.
	Process(ctx context.Context, in LocationUpdateInput) error
}
