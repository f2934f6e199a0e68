package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/99minutos/cargo-tracking/internal/core/domain"
	"github.com/99minutos/cargo-tracking/internal/core/ports"
)

type stubDispatcher struct {
	enqueued []ports.LocationUpdateInput
	err      error
	// failAfter lets this many updates through before err is returned.
	failAfter int
}

func (d *stubDispatcher) Enqueue(_ context.Context, in ports.LocationUpdateInput) error {
	if d.err != nil && len(d.enqueued) >= d.failAfter {
		return d.err
	}
	d.enqueued = append(d.enqueued, in)
	return nil
}

func (d *stubDispatcher) EnqueueBatch(ctx context.Context, batch []ports.LocationUpdateInput) (int, error) {
	for i, in := range batch {
		if err := d.Enqueue(ctx, in); err != nil {
			return i, err
		}
	}
	return len(batch), nil
}

type stubTrackingService struct {
	updateFn func(ctx context.Context, in ports.LocationUpdateInput) (*domain.Shipment, error)
}

func (s *stubTrackingService) UpdateLocation(ctx context.Context, in ports.LocationUpdateInput) (*domain.Shipment, error) {
	return s.updateFn(ctx, in)
}

func (s *stubTrackingService) Process(ctx context.Context, in ports.LocationUpdateInput) error {
	_, err := s.updateFn(ctx, in)
	return err
}

const validEventBody = `{
	"shipment_id": "SH1",
	"location": {"name": "Phoenix Hub", "address": "Phoenix, AZ", "coordinates": {"latitude": 33.4484, "longitude": -112.074}},
	"status": "in_transit",
	"timestamp": "2026-03-01T14:00:00-06:00",
	"source": "gps_feed"
}`

func TestEventHandler_Receive_Accepted(t *testing.T) {
	e := newTestEcho()
	d := &stubDispatcher{}
	h := NewEventHandler(d)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/v1/events", validEventBody), rec)

	if err := h.Receive(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if len(d.enqueued) != 1 {
		t.Fatalf("expected 1 enqueued update, got %d", len(d.enqueued))
	}

	got := d.enqueued[0]
	if got.ShipmentID != "SH1" || got.Source != "gps_feed" || got.Status != "in_transit" {
		t.Errorf("unexpected input: %+v", got)
	}
	if got.Timestamp.Location().String() != "UTC" || got.Timestamp.Hour() != 20 {
		t.Errorf("expected timestamp normalised to UTC, got %v", got.Timestamp)
	}
}

func TestEventHandler_Receive_InvalidStatus(t *testing.T) {
	e := newTestEcho()
	d := &stubDispatcher{}
	h := NewEventHandler(d)

	body := strings.Replace(validEventBody, `"in_transit"`, `"teleported"`, 1)
	c := e.NewContext(jsonRequest(http.MethodPost, "/v1/events", body), httptest.NewRecorder())

	if code := httpErrorCode(t, h.Receive(c)); code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", code)
	}
	if len(d.enqueued) != 0 {
		t.Error("invalid event must not be enqueued")
	}
}

func TestEventHandler_Receive_QueueUnavailable(t *testing.T) {
	e := newTestEcho()
	h := NewEventHandler(&stubDispatcher{err: context.Canceled})
	c := e.NewContext(jsonRequest(http.MethodPost, "/v1/events", validEventBody), httptest.NewRecorder())

	if code := httpErrorCode(t, h.Receive(c)); code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", code)
	}
}

func TestEventHandler_ReceiveBatch(t *testing.T) {
	e := newTestEcho()
	d := &stubDispatcher{}
	h := NewEventHandler(d)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/v1/events/batch", "["+validEventBody+","+validEventBody+"]"), rec)

	if err := h.ReceiveBatch(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted || len(d.enqueued) != 2 {
		t.Errorf("expected 202 with 2 enqueued, got %d with %d", rec.Code, len(d.enqueued))
	}
	if !strings.Contains(rec.Body.String(), `"count":2`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestEventHandler_ReceiveBatch_RejectsWholeBatch(t *testing.T) {
	e := newTestEcho()
	d := &stubDispatcher{}
	h := NewEventHandler(d)

	bad := strings.Replace(validEventBody, `"shipment_id": "SH1",`, ``, 1)
	c := e.NewContext(jsonRequest(http.MethodPost, "/v1/events/batch", "["+validEventBody+","+bad+"]"), httptest.NewRecorder())

	err := h.ReceiveBatch(c)
	if code := httpErrorCode(t, err); code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", code)
	}
	if !strings.Contains(err.Error(), "event[1]") {
		t.Errorf("expected error to name the failing index, got %v", err)
	}
	if len(d.enqueued) != 0 {
		t.Error("no event of a rejected batch may be enqueued")
	}
}

func TestEventHandler_ReceiveBatch_TooLarge(t *testing.T) {
	e := newTestEcho()
	d := &stubDispatcher{}
	h := NewEventHandler(d)

	events := make([]string, maxBatchSize+1)
	for i := range events {
		events[i] = validEventBody
	}
	c := e.NewContext(jsonRequest(http.MethodPost, "/v1/events/batch", "["+strings.Join(events, ",")+"]"), httptest.NewRecorder())

	err := h.ReceiveBatch(c)
	if code := httpErrorCode(t, err); code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", code)
	}
	if len(d.enqueued) != 0 {
		t.Error("an oversized batch must not be enqueued")
	}
}

func TestEventHandler_ReceiveBatch_PartialEnqueueIsReported(t *testing.T) {
	e := newTestEcho()
	d := &stubDispatcher{err: errors.New("dispatcher closed"), failAfter: 1}
	h := NewEventHandler(d)

	c := e.NewContext(jsonRequest(http.MethodPost, "/v1/events/batch", "["+validEventBody+","+validEventBody+","+validEventBody+"]"), httptest.NewRecorder())

	err := h.ReceiveBatch(c)
	if code := httpErrorCode(t, err); code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", code)
	}
	if !strings.Contains(err.Error(), "1 of 3 events accepted") {
		t.Errorf("expected the accepted count in the error, got %v", err)
	}
	if len(d.enqueued) != 1 {
		t.Errorf("expected 1 enqueued, got %d", len(d.enqueued))
	}
}

func TestEventHandler_Receive_PassesEventID(t *testing.T) {
	e := newTestEcho()
	d := &stubDispatcher{}
	h := NewEventHandler(d)

	body := strings.Replace(validEventBody, `"shipment_id": "SH1",`, `"event_id": "gps-77", "shipment_id": "SH1",`, 1)
	c := e.NewContext(jsonRequest(http.MethodPost, "/v1/events", body), httptest.NewRecorder())

	if err := h.Receive(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(d.enqueued) != 1 || d.enqueued[0].EventID != "gps-77" {
		t.Errorf("expected event id gps-77, got %+v", d.enqueued)
	}
}

func TestEventHandler_ReceiveBatch_Empty(t *testing.T) {
	e := newTestEcho()
	h := NewEventHandler(&stubDispatcher{})
	c := e.NewContext(jsonRequest(http.MethodPost, "/v1/events/batch", `[]`), httptest.NewRecorder())

	if code := httpErrorCode(t, h.ReceiveBatch(c)); code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", code)
	}
}

func TestTrackingHandler_UpdateLocation(t *testing.T) {
	e := newTestEcho()
	h := NewTrackingHandler(&stubTrackingService{
		updateFn: func(_ context.Context, in ports.LocationUpdateInput) (*domain.Shipment, error) {
			if in.ShipmentID != "SH1" || in.Location.Name != "Phoenix Hub" || in.Source != "api" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if !in.Timestamp.IsZero() {
				t.Fatalf("synchronous updates use the service clock, got %v", in.Timestamp)
			}
			return fixtureShipment(), nil
		},
	})

	rec := httptest.NewRecorder()
	body := `{"location": {"name": "Phoenix Hub", "address": "Phoenix, AZ", "coordinates": {"latitude": 33.4484, "longitude": -112.074}}, "status": "in_transit"}`
	c := e.NewContext(jsonRequest(http.MethodPost, "/", body), rec)
	c.SetParamNames("id")
	c.SetParamValues("SH1")

	if err := h.UpdateLocation(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestTrackingHandler_UpdateLocation_PropagatesPolicyError(t *testing.T) {
	e := newTestEcho()
	h := NewTrackingHandler(&stubTrackingService{
		updateFn: func(context.Context, ports.LocationUpdateInput) (*domain.Shipment, error) {
			return nil, domain.ErrTerminalStatus
		},
	})

	body := `{"location": {"name": "Phoenix Hub", "address": "Phoenix, AZ", "coordinates": {"latitude": 33.4484, "longitude": -112.074}}}`
	c := e.NewContext(jsonRequest(http.MethodPost, "/", body), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("SH1")

	if err := h.UpdateLocation(c); !errors.Is(err, domain.ErrTerminalStatus) {
		t.Errorf("expected ErrTerminalStatus, got %v", err)
	}
}
