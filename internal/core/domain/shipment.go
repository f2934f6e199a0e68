package domain

import (
	"fmt"
	"math"
	"time"
)

// ShipmentStatus represents the lifecycle state of a shipment.
type ShipmentStatus string

const (
	StatusPending   ShipmentStatus = "pending"
	StatusInTransit ShipmentStatus = "in_transit"
	StatusDelivered ShipmentStatus = "delivered"
	StatusDelayed   ShipmentStatus = "delayed"
	StatusCancelled ShipmentStatus = "cancelled"
)

// validTransitions defines the allowed state machine transitions.
// delivered and cancelled are terminal and have no outgoing edges.
var validTransitions = map[ShipmentStatus][]ShipmentStatus{
	StatusPending:   {StatusInTransit, StatusCancelled},
	StatusInTransit: {StatusDelivered, StatusDelayed, StatusCancelled},
	StatusDelayed:   {StatusInTransit, StatusDelivered, StatusCancelled},
}

// ParseStatus converts a raw string into a ShipmentStatus.
func ParseStatus(s string) (ShipmentStatus, error) {
	status := ShipmentStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// IsValid reports whether s is one of the known statuses.
func (s ShipmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInTransit, StatusDelivered, StatusDelayed, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further location updates are expected.
func (s ShipmentStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether a transition from current status to next is valid.
// Staying in the same non-terminal status is always allowed.
func (s ShipmentStatus) CanTransitionTo(next ShipmentStatus) bool {
	if s == next {
		return !s.IsTerminal()
	}
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Coordinates represents a geographic point.
type Coordinates struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// Validate checks the coordinate ranges.
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) ||
		math.IsInf(c.Latitude, 0) || math.IsInf(c.Longitude, 0) {
		return fmt.Errorf("%w: non-finite value", ErrInvalidCoordinate)
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range [-90,90]", ErrInvalidCoordinate, c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range [-180,180]", ErrInvalidCoordinate, c.Longitude)
	}
	return nil
}

// Equal compares both axes with exact floating-point equality.
func (c Coordinates) Equal(o Coordinates) bool {
	return c.Latitude == o.Latitude && c.Longitude == o.Longitude
}

// Location is a named, addressed point in time.
type Location struct {
	Name        string      `json:"name" bson:"name"`
	Coordinates Coordinates `json:"coordinates" bson:"coordinates"`
	Address     string      `json:"address" bson:"address"`
	Timestamp   time.Time   `json:"timestamp" bson:"timestamp"`
}

// Validate requires a name, an address and valid coordinates.
func (l Location) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidLocation)
	}
	if l.Address == "" {
		return fmt.Errorf("%w: address is required", ErrInvalidLocation)
	}
	return l.Coordinates.Validate()
}

// SamePoint reports whether both locations share coordinates. Name and address are ignored.
func (l Location) SamePoint(o Location) bool {
	return l.Coordinates.Equal(o.Coordinates)
}

// CargoInfo describes what is being shipped.
type CargoInfo struct {
	Description string  `json:"description" bson:"description"`
	Weight      float64 `json:"weight" bson:"weight"`
	Value       float64 `json:"value" bson:"value"`
	Category    string  `json:"category" bson:"category"`
}

// CarrierInfo identifies who is moving the cargo.
type CarrierInfo struct {
	Name    string `json:"name" bson:"name"`
	Contact string `json:"contact" bson:"contact"`
}

// TrackingEntry records a single status or location event on a shipment.
type TrackingEntry struct {
	Location  Location  `json:"location" bson:"location"`
	Status    string    `json:"status" bson:"status"`
	Notes     string    `json:"notes,omitempty" bson:"notes,omitempty"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// Shipment is the core aggregate root.
type Shipment struct {
	ID               string          `json:"id" bson:"_id,omitempty"`
	ShipmentID       string          `json:"shipment_id" bson:"shipment_id"`
	ContainerID      string          `json:"container_id" bson:"container_id"`
	Origin           Location        `json:"origin" bson:"origin"`
	Destination      Location        `json:"destination" bson:"destination"`
	CurrentLocation  Location        `json:"current_location" bson:"current_location"`
	Route            []Location      `json:"route" bson:"route"`
	Status           ShipmentStatus  `json:"status" bson:"status"`
	EstimatedArrival time.Time       `json:"estimated_arrival" bson:"estimated_arrival"`
	ActualArrival    *time.Time      `json:"actual_arrival,omitempty" bson:"actual_arrival,omitempty"`
	Cargo            CargoInfo       `json:"cargo" bson:"cargo"`
	Carrier          CarrierInfo     `json:"carrier" bson:"carrier"`
	TrackingHistory  []TrackingEntry `json:"tracking_history" bson:"tracking_history"`
	CreatedAt        time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" bson:"updated_at"`
	Version          int64           `json:"version" bson:"version"`
}

// LastWaypoint returns the most recent route entry.
func (s *Shipment) LastWaypoint() (Location, bool) {
	if len(s.Route) == 0 {
		return Location{}, false
	}
	return s.Route[len(s.Route)-1], true
}

// Clone returns a deep copy of the shipment so that callers can derive a new
// state without touching the original.
func (s *Shipment) Clone() *Shipment {
	c := *s
	c.Route = append([]Location(nil), s.Route...)
	c.TrackingHistory = append([]TrackingEntry(nil), s.TrackingHistory...)
	if s.ActualArrival != nil {
		t := *s.ActualArrival
		c.ActualArrival = &t
	}
	return &c
}
