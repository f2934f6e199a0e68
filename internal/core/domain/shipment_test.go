package domain

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestShipmentStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to ShipmentStatus
		want     bool
	}{
		{StatusPending, StatusInTransit, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusDelivered, false},
		{StatusInTransit, StatusDelivered, true},
		{StatusInTransit, StatusDelayed, true},
		{StatusInTransit, StatusCancelled, true},
		{StatusInTransit, StatusPending, false},
		{StatusDelayed, StatusInTransit, true},
		{StatusDelayed, StatusDelivered, true},
		{StatusInTransit, StatusInTransit, true},
		{StatusDelivered, StatusInTransit, false},
		{StatusDelivered, StatusDelivered, false},
		{StatusCancelled, StatusPending, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestShipmentStatus_IsTerminal(t *testing.T) {
	for _, s := range []ShipmentStatus{StatusDelivered, StatusCancelled} {
		if !s.IsTerminal() {
			t.Errorf("%s must be terminal", s)
		}
	}
	for _, s := range []ShipmentStatus{StatusPending, StatusInTransit, StatusDelayed} {
		if s.IsTerminal() {
			t.Errorf("%s must not be terminal", s)
		}
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("delayed")
	if err != nil || s != StatusDelayed {
		t.Fatalf("expected delayed, got %q (%v)", s, err)
	}

	if _, err := ParseStatus("lost"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestCoordinates_Validate(t *testing.T) {
	valid := []Coordinates{
		{Latitude: 0, Longitude: 0},
		{Latitude: 90, Longitude: 180},
		{Latitude: -90, Longitude: -180},
		{Latitude: 33.7361, Longitude: -118.2639},
	}
	for _, c := range valid {
		if err := c.Validate(); err != nil {
			t.Errorf("%+v: unexpected error %v", c, err)
		}
	}

	invalid := []Coordinates{
		{Latitude: 90.0001, Longitude: 0},
		{Latitude: -91, Longitude: 0},
		{Latitude: 0, Longitude: 180.5},
		{Latitude: 0, Longitude: -181},
		{Latitude: math.NaN(), Longitude: 0},
		{Latitude: 0, Longitude: math.Inf(1)},
	}
	for _, c := range invalid {
		if err := c.Validate(); !errors.Is(err, ErrInvalidCoordinate) {
			t.Errorf("%+v: expected ErrInvalidCoordinate, got %v", c, err)
		}
	}
}

func TestLocation_Validate(t *testing.T) {
	loc := Location{Name: "Port of LA", Address: "San Pedro, CA", Coordinates: Coordinates{Latitude: 33.7, Longitude: -118.2}}
	if err := loc.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	noName := loc
	noName.Name = ""
	if err := noName.Validate(); !errors.Is(err, ErrInvalidLocation) {
		t.Errorf("expected ErrInvalidLocation, got %v", err)
	}

	noAddress := loc
	noAddress.Address = ""
	if err := noAddress.Validate(); !errors.Is(err, ErrInvalidLocation) {
		t.Errorf("expected ErrInvalidLocation, got %v", err)
	}

	badCoords := loc
	badCoords.Coordinates.Latitude = 120
	if err := badCoords.Validate(); !errors.Is(err, ErrInvalidCoordinate) {
		t.Errorf("expected ErrInvalidCoordinate, got %v", err)
	}
}

func TestLocation_SamePointIgnoresNameAndAddress(t *testing.T) {
	a := Location{Name: "A", Address: "x", Coordinates: Coordinates{Latitude: 1, Longitude: 2}}
	b := Location{Name: "B", Address: "y", Coordinates: Coordinates{Latitude: 1, Longitude: 2}}
	c := Location{Name: "A", Address: "x", Coordinates: Coordinates{Latitude: 1, Longitude: 2.0000001}}

	if !a.SamePoint(b) {
		t.Error("expected same point for equal coordinates")
	}
	if a.SamePoint(c) {
		t.Error("expected different point for unequal coordinates")
	}
}

func TestShipment_CloneDoesNotAlias(t *testing.T) {
	arrived := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	s := &Shipment{
		Route:           []Location{{Name: "A"}},
		TrackingHistory: []TrackingEntry{{Status: "Shipment created"}},
		ActualArrival:   &arrived,
	}

	c := s.Clone()
	c.Route = append(c.Route, Location{Name: "B"})
	c.Route[0].Name = "changed"
	c.TrackingHistory[0].Status = "changed"
	*c.ActualArrival = arrived.Add(time.Hour)

	if len(s.Route) != 1 || s.Route[0].Name != "A" {
		t.Errorf("original route mutated: %+v", s.Route)
	}
	if s.TrackingHistory[0].Status != "Shipment created" {
		t.Errorf("original history mutated: %+v", s.TrackingHistory)
	}
	if !s.ActualArrival.Equal(arrived) {
		t.Errorf("original actual arrival mutated: %v", s.ActualArrival)
	}
}

func TestIsRejection(t *testing.T) {
	for _, err := range []error{ErrInvalidCoordinate, ErrShipmentNotFound, ErrInvalidTransition, ErrTerminalStatus, ErrStaleUpdate} {
		if !IsRejection(errors.Join(errors.New("update location"), err)) {
			t.Errorf("expected %v to be a rejection", err)
		}
	}
	for _, err := range []error{ErrConflict, errors.New("connection reset"), nil} {
		if IsRejection(err) {
			t.Errorf("expected %v not to be a rejection", err)
		}
	}
}
