// Package tracking derives new shipment states from location-update events.
//
// Every function here is a pure transform: the caller supplies the current
// record and the time, and persists whatever comes back. Nothing reads the
// wall clock and no input shipment is ever modified in place.
package tracking

import (
	"math"
	"time"

	"github.com/99minutos/cargo-tracking/internal/core/domain"
	"github.com/99minutos/cargo-tracking/internal/core/geo"
)

const (
	CreatedEntryStatus = "Shipment created"
	CreatedEntryNotes  = "Shipment has been created and is pending pickup"

	LocationUpdatedStatus = "Location updated"
	LocationUpdatedNotes  = "Location has been updated"

	DefaultTransit = 7 * 24 * time.Hour
)

// Config tunes the ETA derivation.
type Config struct {
	AverageSpeedKmh float64
	// DefaultTransit is the ETA offset used when a shipment is created without one.
	DefaultTransit time.Duration
}

// Engine applies creation and location-update events to shipments.
type Engine struct {
	speed   float64
	transit time.Duration
}

func NewEngine(cfg Config) *Engine {
	if cfg.AverageSpeedKmh <= 0 {
		cfg.AverageSpeedKmh = geo.DefaultAverageSpeedKmh
	}
	if cfg.DefaultTransit <= 0 {
		cfg.DefaultTransit = DefaultTransit
	}
	return &Engine{speed: cfg.AverageSpeedKmh, transit: cfg.DefaultTransit}
}

// NewShipment carries the creation parameters of a shipment.
type NewShipment struct {
	ShipmentID       string
	ContainerID      string
	Origin           domain.Location
	Destination      domain.Location
	Cargo            domain.CargoInfo
	Carrier          domain.CarrierInfo
	EstimatedArrival *time.Time // optional
}

// LocationUpdate is an incoming location report.
type LocationUpdate struct {
	Location domain.Location
	Status   domain.ShipmentStatus // empty leaves the status untouched
	Notes    string
}

// ETAView is a read-only arrival estimate.
type ETAView struct {
	EstimatedArrival    time.Time
	DistanceRemainingKm int64
}

// Create builds a pending shipment positioned at its origin.
func (e *Engine) Create(in NewShipment, now time.Time) *domain.Shipment {
	origin := stamp(in.Origin, now)

	eta := now.Add(e.transit)
	if in.EstimatedArrival != nil {
		eta = *in.EstimatedArrival
	}

	return &domain.Shipment{
		ShipmentID:       in.ShipmentID,
		ContainerID:      in.ContainerID,
		Origin:           origin,
		Destination:      stamp(in.Destination, now),
		CurrentLocation:  origin,
		Route:            []domain.Location{origin},
		Status:           domain.StatusPending,
		EstimatedArrival: eta,
		Cargo:            in.Cargo,
		Carrier:          in.Carrier,
		TrackingHistory: []domain.TrackingEntry{{
			Location:  origin,
			Status:    CreatedEntryStatus,
			Notes:     CreatedEntryNotes,
			Timestamp: now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ApplyLocationUpdate returns the state that results from applying upd to s at now.
// The route only grows when the reported coordinates differ exactly from the
// last waypoint; the tracking history always grows by one entry.
func (e *Engine) ApplyLocationUpdate(s *domain.Shipment, upd LocationUpdate, now time.Time) *domain.Shipment {
	next := s.Clone()
	loc := stamp(upd.Location, now)

	next.CurrentLocation = loc

	if last, ok := next.LastWaypoint(); !ok || !last.SamePoint(loc) {
		next.Route = append(next.Route, loc)
	}

	entryStatus := LocationUpdatedStatus
	if upd.Status != "" {
		next.Status = upd.Status
		entryStatus = string(upd.Status)
	}

	notes := upd.Notes
	if notes == "" {
		notes = LocationUpdatedNotes
	}

	next.TrackingHistory = append(next.TrackingHistory, domain.TrackingEntry{
		Location:  loc,
		Status:    entryStatus,
		Notes:     notes,
		Timestamp: now,
	})

	next.EstimatedArrival = geo.EstimateArrival(loc.Coordinates, next.Destination.Coordinates, now, e.speed)
	next.UpdatedAt = now

	return next
}

// ComputeETAView recomputes the arrival estimate from the current position
// without touching s.
func (e *Engine) ComputeETAView(s *domain.Shipment, now time.Time) ETAView {
	km := geo.Distance(s.CurrentLocation.Coordinates, s.Destination.Coordinates)
	return ETAView{
		EstimatedArrival:    geo.EstimateArrival(s.CurrentLocation.Coordinates, s.Destination.Coordinates, now, e.speed),
		DistanceRemainingKm: int64(math.Round(km)),
	}
}

// stamp defaults an unset location timestamp to now.
func stamp(l domain.Location, now time.Time) domain.Location {
	if l.Timestamp.IsZero() {
		l.Timestamp = now
	}
	return l
}
