package handler

import (
	"time"

	"github.com/99minutos/cargo-tracking/internal/core/domain"
	"github.com/99minutos/cargo-tracking/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createShipmentRequest) ports.CreateShipmentInput {
	return ports.CreateShipmentInput{
		ContainerID:      req.ContainerID,
		Origin:           toLocationInput(req.Origin),
		Destination:      toLocationInput(req.Destination),
		Cargo:            toCargoInput(req.Cargo),
		Carrier:          toCarrierInput(req.Carrier),
		EstimatedArrival: utcPtr(req.EstimatedArrival),
	}
}

func toUpdateInput(req updateShipmentRequest) ports.UpdateShipmentInput {
	in := ports.UpdateShipmentInput{
		Status:           req.Status,
		EstimatedArrival: utcPtr(req.EstimatedArrival),
		ActualArrival:    utcPtr(req.ActualArrival),
	}
	if req.Cargo != nil {
		cargo := toCargoInput(*req.Cargo)
		in.Cargo = &cargo
	}
	if req.Carrier != nil {
		carrier := toCarrierInput(*req.Carrier)
		in.Carrier = &carrier
	}
	return in
}

func toLocationUpdateInput(shipmentID string, req updateLocationRequest) ports.LocationUpdateInput {
	return ports.LocationUpdateInput{
		ShipmentID: shipmentID,
		Location:   toLocationInput(req.Location),
		Status:     req.Status,
		Notes:      req.Notes,
		Source:     "api",
	}
}

func toEventInput(r locationEventRequest) ports.LocationUpdateInput {
	in := ports.LocationUpdateInput{
		EventID:    r.EventID,
		ShipmentID: r.ShipmentID,
		Location:   toLocationInput(r.Location),
		Status:     r.Status,
		Notes:      r.Notes,
		Source:     r.Source,
	}
	if r.Timestamp != nil {
		in.Timestamp = r.Timestamp.UTC()
	}
	return in
}

// toLocationInput expects a validated request; coordinates are non-nil.
func toLocationInput(l locationRequest) ports.LocationInput {
	in := ports.LocationInput{
		Name:    l.Name,
		Address: l.Address,
	}
	if l.Coordinates.Latitude != nil {
		in.Coordinates.Latitude = *l.Coordinates.Latitude
	}
	if l.Coordinates.Longitude != nil {
		in.Coordinates.Longitude = *l.Coordinates.Longitude
	}
	if l.Timestamp != nil {
		in.Timestamp = l.Timestamp.UTC()
	}
	return in
}

func toCargoInput(c cargoRequest) ports.CargoInput {
	return ports.CargoInput{
		Description: c.Description,
		Weight:      c.Weight,
		Value:       c.Value,
		Category:    c.Category,
	}
}

func toCarrierInput(c carrierRequest) ports.CarrierInput {
	return ports.CarrierInput{Name: c.Name, Contact: c.Contact}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// --- Service result → HTTP response ---

func linksFor(s *domain.Shipment) shipmentLinks {
	base := "/v1/shipments/" + s.ShipmentID
	return shipmentLinks{
		Self:  base,
		ETA:   base + "/eta",
		Route: base + "/route",
	}
}

func toShipmentResponse(s *domain.Shipment) shipmentResponse {
	route := make([]locationResponse, len(s.Route))
	for i, l := range s.Route {
		route[i] = toLocationResponse(l)
	}
	history := make([]trackingEntryResponse, len(s.TrackingHistory))
	for i, e := range s.TrackingHistory {
		history[i] = trackingEntryResponse{
			Location:  toLocationResponse(e.Location),
			Status:    e.Status,
			Notes:     e.Notes,
			Timestamp: e.Timestamp.UTC(),
		}
	}

	return shipmentResponse{
		ID:               s.ID,
		ShipmentID:       s.ShipmentID,
		ContainerID:      s.ContainerID,
		Status:           string(s.Status),
		Origin:           toLocationResponse(s.Origin),
		Destination:      toLocationResponse(s.Destination),
		CurrentLocation:  toLocationResponse(s.CurrentLocation),
		Route:            route,
		EstimatedArrival: s.EstimatedArrival.UTC(),
		ActualArrival:    utcPtr(s.ActualArrival),
		Cargo: cargoResponse{
			Description: s.Cargo.Description,
			Weight:      s.Cargo.Weight,
			Value:       s.Cargo.Value,
			Category:    s.Cargo.Category,
		},
		Carrier:         carrierResponse{Name: s.Carrier.Name, Contact: s.Carrier.Contact},
		TrackingHistory: history,
		CreatedAt:       s.CreatedAt.UTC(),
		UpdatedAt:       s.UpdatedAt.UTC(),
		Links:           linksFor(s),
	}
}

func toLocationResponse(l domain.Location) locationResponse {
	return locationResponse{
		Name:    l.Name,
		Address: l.Address,
		Coordinates: coordinatesResponse{
			Latitude:  l.Coordinates.Latitude,
			Longitude: l.Coordinates.Longitude,
		},
		Timestamp: l.Timestamp.UTC(),
	}
}

func toListResponse(r *ports.ListShipmentsResult) listShipmentsResponse {
	items := make([]shipmentSummaryResponse, len(r.Items))
	for i, s := range r.Items {
		items[i] = shipmentSummaryResponse{
			ID:               s.ID,
			ShipmentID:       s.ShipmentID,
			ContainerID:      s.ContainerID,
			Status:           string(s.Status),
			Origin:           toLocationResponse(s.Origin),
			Destination:      toLocationResponse(s.Destination),
			CurrentLocation:  toLocationResponse(s.CurrentLocation),
			EstimatedArrival: s.EstimatedArrival.UTC(),
			CreatedAt:        s.CreatedAt.UTC(),
			Links:            linksFor(s),
		}
	}
	return listShipmentsResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
		},
	}
}

func toETAResponse(r *ports.ETAResult) etaResponse {
	return etaResponse{
		EstimatedArrival:    r.EstimatedArrival.UTC(),
		CurrentETA:          r.CurrentETA.UTC(),
		DistanceRemainingKm: r.DistanceRemainingKm,
		CurrentLocation:     toLocationResponse(r.CurrentLocation),
		Destination:         toLocationResponse(r.Destination),
	}
}
