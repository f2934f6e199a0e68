package domain

import "time"

// LocationEvent is the audit record of an applied location update.
type LocationEvent struct {
	ShipmentID string
	Location   Location
	Status     ShipmentStatus // empty when the update did not change the status
	Notes      string
	Source     string
	Timestamp  time.Time
}
