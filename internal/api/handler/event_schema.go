package handler

import "time"

type locationEventRequest struct {
	// EventID lets a producer mark retries of the same report.
	EventID    string          `json:"event_id"    validate:"omitempty,max=128"`
	ShipmentID string          `json:"shipment_id" validate:"required"`
	Location   locationRequest `json:"location"    validate:"required"`
	Status     string          `json:"status"      validate:"omitempty,oneof=pending in_transit delivered delayed cancelled"`
	Notes      string          `json:"notes"`
	Timestamp  *time.Time      `json:"timestamp,omitempty"`
	Source     string          `json:"source"`
}

type acceptedResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}
