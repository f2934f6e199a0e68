package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/cargo-tracking/internal/core/domain"
	"github.com/99minutos/cargo-tracking/internal/core/ports"
)

const collectionLocationEvents = "location_events"

// EventRepository implements ports.LocationEventRepository using MongoDB.
type EventRepository struct {
	db *mongo.Database
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *mongo.Database) ports.LocationEventRepository {
	return &EventRepository{db: db}
}

// InsertEvent persists an applied location update to the audit collection.
func (r *EventRepository) InsertEvent(ctx context.Context, event *domain.LocationEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"shipment_id": event.ShipmentID,
		"location": bson.M{
			"name":    event.Location.Name,
			"address": event.Location.Address,
			"coordinates": bson.M{
				"latitude":  event.Location.Coordinates.Latitude,
				"longitude": event.Location.Coordinates.Longitude,
			},
		},
		"timestamp":    event.Timestamp.UTC(),
		"source":       event.Source,
		"processed_at": time.Now().UTC(),
	}
	if event.Status != "" {
		doc["status"] = string(event.Status)
	}
	if event.Notes != "" {
		doc["notes"] = event.Notes
	}

	_, err := r.db.Collection(collectionLocationEvents).InsertOne(ctx, doc)
	return err
}
