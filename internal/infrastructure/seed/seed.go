// Package seed loads demo shipments through the regular services, so seeded
// records carry the same ETA, route and history a live shipment would.
package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/cargo-tracking/internal/core/ports"
)

const sourceSeed = "seed"

// Stop is one location update replayed after the shipment is created.
type Stop struct {
	Location ports.LocationInput
	Status   string
	Notes    string
}

// Sample is a shipment to create and the stops it has already passed.
type Sample struct {
	ContainerID string
	Origin      ports.LocationInput
	Destination ports.LocationInput
	Cargo       ports.CargoInput
	Carrier     ports.CarrierInput
	Stops       []Stop
}

// Result summarises a seeding run.
type Result struct {
	Created  int
	Replaced int
	Skipped  int
}

type Seeder struct {
	shipments ports.ShipmentService
	tracking  ports.TrackingService
	log       zerolog.Logger
}

func New(shipments ports.ShipmentService, tracking ports.TrackingService, log zerolog.Logger) *Seeder {
	return &Seeder{shipments: shipments, tracking: tracking, log: log}
}

// Run creates every sample whose container is not stored yet. With reset,
// existing shipments for a sample's container are deleted and recreated.
func (s *Seeder) Run(ctx context.Context, samples []Sample, reset bool) (Result, error) {
	var res Result
	for _, sample := range samples {
		existing, err := s.findByContainer(ctx, sample.ContainerID)
		if err != nil {
			return res, err
		}

		if len(existing) > 0 && !reset {
			s.log.Info().Str("container_id", sample.ContainerID).Msg("already seeded, skipping")
			res.Skipped++
			continue
		}
		for _, id := range existing {
			if err := s.shipments.DeleteShipment(ctx, id); err != nil {
				return res, fmt.Errorf("seed %s: delete %s: %w", sample.ContainerID, id, err)
			}
		}

		shipmentID, err := s.create(ctx, sample)
		if err != nil {
			return res, err
		}
		if len(existing) > 0 {
			res.Replaced++
		} else {
			res.Created++
		}
		s.log.Info().
			Str("container_id", sample.ContainerID).
			Str("shipment_id", shipmentID).
			Int("stops", len(sample.Stops)).
			Msg("shipment seeded")
	}
	return res, nil
}

func (s *Seeder) create(ctx context.Context, sample Sample) (string, error) {
	shipment, err := s.shipments.CreateShipment(ctx, ports.CreateShipmentInput{
		ContainerID: sample.ContainerID,
		Origin:      sample.Origin,
		Destination: sample.Destination,
		Cargo:       sample.Cargo,
		Carrier:     sample.Carrier,
	})
	if err != nil {
		return "", fmt.Errorf("seed %s: create: %w", sample.ContainerID, err)
	}

	for i, stop := range sample.Stops {
		_, err := s.tracking.UpdateLocation(ctx, ports.LocationUpdateInput{
			ShipmentID: shipment.ShipmentID,
			Location:   stop.Location,
			Status:     stop.Status,
			Notes:      stop.Notes,
			Source:     sourceSeed,
		})
		if err != nil {
			return "", fmt.Errorf("seed %s: stop %d: %w", sample.ContainerID, i+1, err)
		}
	}
	return shipment.ShipmentID, nil
}

// findByContainer returns the ids of shipments whose container id matches
// exactly; the list filter itself is a partial match.
func (s *Seeder) findByContainer(ctx context.Context, containerID string) ([]string, error) {
	res, err := s.shipments.ListShipments(ctx, ports.ListShipmentsInput{ContainerID: containerID, Page: 1, Limit: 100})
	if err != nil {
		return nil, fmt.Errorf("seed %s: lookup: %w", containerID, err)
	}
	var ids []string
	for _, item := range res.Items {
		if item.ContainerID == containerID {
			ids = append(ids, item.ShipmentID)
		}
	}
	return ids, nil
}
