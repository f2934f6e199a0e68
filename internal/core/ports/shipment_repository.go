package ports

import (
	"context"

	"github.com/99minutos/cargo-tracking/internal/core/domain"
)

// ListShipmentsFilter carries all query parameters for listing shipments.
type ListShipmentsFilter struct {
	Status      string // optional: exact status match
	ContainerID string // optional: case-insensitive partial match
	Page        int    // 1-based
	Limit       int    // max rows per page (capped at 100 by service)
}

// ShipmentRepository defines persistence operations for shipments.
//
// Save is optimistic: it succeeds only when the stored version equals
// s.Version, bumps the version on success and returns domain.ErrConflict
// otherwise. This gives at most one writer per shipment.
type ShipmentRepository interface {
	// Create inserts s and assigns its storage key. A shipment id collision
	// returns domain.ErrDuplicateShipment.
	Create(ctx context.Context, s *domain.Shipment) error
	// FindByID resolves either the storage key or the shipment id.
	FindByID(ctx context.Context, id string) (*domain.Shipment, error)
	Save(ctx context.Context, s *domain.Shipment) error
	Delete(ctx context.Context, id string) error
	// List returns a page of shipments matching filter, newest first, and the total count.
	List(ctx context.Context, filter ListShipmentsFilter) ([]*domain.Shipment, int64, error)
}

// LocationEventRepository persists the audit trail of applied location updates.
type LocationEventRepository interface {
	InsertEvent(ctx context.Context, event *domain.LocationEvent) error
}
