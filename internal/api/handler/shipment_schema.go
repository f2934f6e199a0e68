package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// --- Request / Response types ---

type coordinatesRequest struct {
	Latitude  *float64 `json:"latitude"  validate:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" validate:"required,min=-180,max=180"`
}

type locationRequest struct {
	Name        string             `json:"name"        validate:"required"`
	Address     string             `json:"address"     validate:"required"`
	Coordinates coordinatesRequest `json:"coordinates" validate:"required"`
	Timestamp   *time.Time         `json:"timestamp,omitempty"`
}

type cargoRequest struct {
	Description string  `json:"description" validate:"required"`
	Weight      float64 `json:"weight"      validate:"gte=0"`
	Value       float64 `json:"value"       validate:"gte=0"`
	Category    string  `json:"category"`
}

type carrierRequest struct {
	Name    string `json:"name"    validate:"required"`
	Contact string `json:"contact"`
}

type createShipmentRequest struct {
	ContainerID      string          `json:"container_id"      validate:"required"`
	Origin           locationRequest `json:"origin"            validate:"required"`
	Destination      locationRequest `json:"destination"       validate:"required"`
	Cargo            cargoRequest    `json:"cargo"             validate:"required"`
	Carrier          carrierRequest  `json:"carrier"           validate:"required"`
	EstimatedArrival *time.Time      `json:"estimated_arrival,omitempty"`
}

type updateShipmentRequest struct {
	Status           *string         `json:"status,omitempty"            validate:"omitempty,oneof=pending in_transit delivered delayed cancelled"`
	EstimatedArrival *time.Time      `json:"estimated_arrival,omitempty"`
	ActualArrival    *time.Time      `json:"actual_arrival,omitempty"`
	Cargo            *cargoRequest   `json:"cargo,omitempty"`
	Carrier          *carrierRequest `json:"carrier,omitempty"`
}

type updateLocationRequest struct {
	Location locationRequest `json:"location" validate:"required"`
	Status   string          `json:"status"   validate:"omitempty,oneof=pending in_transit delivered delayed cancelled"`
	Notes    string          `json:"notes"`
}

type listShipmentsQuery struct {
	Status      string `query:"status"       validate:"omitempty,oneof=pending in_transit delivered delayed cancelled"`
	ContainerID string `query:"container_id"`
	Page        int    `query:"page"         validate:"gte=0"`
	Limit       int    `query:"limit"        validate:"gte=0"`
}

// Response-only types owned by the transport layer.
// These are intentionally separate from ports/domain types so the JSON
// contract is not coupled to internal service changes.

type coordinatesResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type locationResponse struct {
	Name        string              `json:"name"`
	Address     string              `json:"address"`
	Coordinates coordinatesResponse `json:"coordinates"`
	Timestamp   time.Time           `json:"timestamp"`
}

type cargoResponse struct {
	Description string  `json:"description"`
	Weight      float64 `json:"weight"`
	Value       float64 `json:"value"`
	Category    string  `json:"category"`
}

type carrierResponse struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

type trackingEntryResponse struct {
	Location  locationResponse `json:"location"`
	Status    string           `json:"status"`
	Notes     string           `json:"notes,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

type shipmentLinks struct {
	Self  string `json:"self"`
	ETA   string `json:"eta"`
	Route string `json:"route"`
}

type shipmentResponse struct {
	ID               string                  `json:"id"`
	ShipmentID       string                  `json:"shipment_id"`
	ContainerID      string                  `json:"container_id"`
	Status           string                  `json:"status"`
	Origin           locationResponse        `json:"origin"`
	Destination      locationResponse        `json:"destination"`
	CurrentLocation  locationResponse        `json:"current_location"`
	Route            []locationResponse      `json:"route"`
	EstimatedArrival time.Time               `json:"estimated_arrival"`
	ActualArrival    *time.Time              `json:"actual_arrival,omitempty"`
	Cargo            cargoResponse           `json:"cargo"`
	Carrier          carrierResponse         `json:"carrier"`
	TrackingHistory  []trackingEntryResponse `json:"tracking_history"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
	Links            shipmentLinks           `json:"_links"`
}

// shipmentSummaryResponse is the lightweight item used in list responses.
// It omits route and tracking_history to keep payloads small.
type shipmentSummaryResponse struct {
	ID               string           `json:"id"`
	ShipmentID       string           `json:"shipment_id"`
	ContainerID      string           `json:"container_id"`
	Status           string           `json:"status"`
	Origin           locationResponse `json:"origin"`
	Destination      locationResponse `json:"destination"`
	CurrentLocation  locationResponse `json:"current_location"`
	EstimatedArrival time.Time        `json:"estimated_arrival"`
	CreatedAt        time.Time        `json:"created_at"`
	Links            shipmentLinks    `json:"_links"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listShipmentsResponse struct {
	Data       []shipmentSummaryResponse `json:"data"`
	Pagination paginationResponse        `json:"pagination"`
}

type etaResponse struct {
	EstimatedArrival    time.Time        `json:"estimated_arrival"`
	CurrentETA          time.Time        `json:"current_eta"`
	DistanceRemainingKm int64            `json:"distance_remaining_km"`
	CurrentLocation     locationResponse `json:"current_location"`
	Destination         locationResponse `json:"destination"`
}
