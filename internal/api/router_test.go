package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/99minutos/cargo-tracking/internal/core/domain"
	"github.com/99minutos/cargo-tracking/internal/core/ports"
)

// failingShipments returns err from every operation.
type failingShipments struct{ err error }

func (s failingShipments) CreateShipment(context.Context, ports.CreateShipmentInput) (*domain.Shipment, error) {
	return nil, s.err
}

func (s failingShipments) GetShipment(context.Context, string) (*domain.Shipment, error) {
	return nil, s.err
}

func (s failingShipments) ListShipments(context.Context, ports.ListShipmentsInput) (*ports.ListShipmentsResult, error) {
	return nil, s.err
}

func (s failingShipments) UpdateShipment(context.Context, string, ports.UpdateShipmentInput) (*domain.Shipment, error) {
	return nil, s.err
}

func (s failingShipments) DeleteShipment(context.Context, string) error { return s.err }

func (s failingShipments) GetETA(context.Context, string) (*ports.ETAResult, error) {
	return nil, s.err
}

type failingTracking struct{ err error }

func (s failingTracking) UpdateLocation(context.Context, ports.LocationUpdateInput) (*domain.Shipment, error) {
	return nil, s.err
}

func (s failingTracking) Process(context.Context, ports.LocationUpdateInput) error { return s.err }

type nopDispatcher struct{}

func (nopDispatcher) Enqueue(context.Context, ports.LocationUpdateInput) error { return nil }

func (nopDispatcher) EnqueueBatch(_ context.Context, batch []ports.LocationUpdateInput) (int, error) {
	return len(batch), nil
}

func newTestRouter(err error) http.Handler {
	return NewRouter(Deps{
		Shipments:  failingShipments{err: err},
		Tracking:   failingTracking{err: err},
		Dispatcher: nopDispatcher{},
		Logger:     zerolog.Nop(),
		Registry:   prometheus.NewRegistry(),
	})
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
		kind string
	}{
		{domain.ErrShipmentNotFound, http.StatusNotFound, "shipment_not_found"},
		{fmt.Errorf("update location: %w", domain.ErrConflict), http.StatusConflict, "concurrent_update"},
		{domain.ErrDuplicateShipment, http.StatusConflict, "duplicate_shipment"},
		{domain.ErrInvalidCoordinate, http.StatusBadRequest, "invalid_coordinate"},
		{domain.ErrInvalidLocation, http.StatusBadRequest, "invalid_location"},
		{domain.ErrInvalidStatus, http.StatusBadRequest, "invalid_status"},
		{fmt.Errorf("update location: %w", domain.ErrInvalidTransition), http.StatusUnprocessableEntity, "invalid_transition"},
		{domain.ErrTerminalStatus, http.StatusUnprocessableEntity, "terminal_status"},
		{domain.ErrStaleUpdate, http.StatusUnprocessableEntity, "stale_update"},
		{errors.New("socket closed"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			newTestRouter(tc.err).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/shipments/SH1", nil))

			if rec.Code != tc.code {
				t.Errorf("expected %d, got %d", tc.code, rec.Code)
			}

			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Error == "" {
				t.Error("expected error message in envelope")
			}
			if resp.Code != tc.kind {
				t.Errorf("expected code %q, got %q", tc.kind, resp.Code)
			}
			if resp.RequestID == "" {
				t.Error("expected request id in envelope")
			}
			if tc.code == http.StatusInternalServerError && resp.Error != "internal server error" {
				t.Errorf("internal errors must not leak, got %q", resp.Error)
			}
		})
	}
}

func TestRouter_UpdateLocationPolicyRejection(t *testing.T) {
	rec := httptest.NewRecorder()
	body := `{"location": {"name": "Phoenix Hub", "address": "Phoenix, AZ", "coordinates": {"latitude": 33.4484, "longitude": -112.074}}, "status": "in_transit"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/shipments/SH1/update-location", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	newTestRouter(domain.ErrTerminalStatus).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}
}

func TestRouter_ValidationIs400(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/shipments", strings.NewReader(`{"container_id": "X"}`))
	req.Header.Set("Content-Type", "application/json")

	newTestRouter(nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestRouter_UnknownRouteIs404(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v2/nothing", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestRouter_EventsAccepted(t *testing.T) {
	rec := httptest.NewRecorder()
	body := `{"shipment_id": "SH1", "location": {"name": "Phoenix Hub", "address": "Phoenix, AZ", "coordinates": {"latitude": 33.4484, "longitude": -112.074}}}`
	req := httptest.NewRequest(http.MethodPost, "/v1/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	newTestRouter(nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Errorf("expected 202, got %d", rec.Code)
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	router := newTestRouter(domain.ErrShipmentNotFound)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/shipments/SH1", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "requests_total") {
		t.Errorf("expected HTTP request metrics, got:\n%s", rec.Body.String())
	}
}
