package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/99minutos/cargo-tracking/internal/core/domain"
	"github.com/99minutos/cargo-tracking/internal/core/ports"
	"github.com/99minutos/cargo-tracking/internal/core/tracking"
	"github.com/99minutos/cargo-tracking/internal/infrastructure/clock"
	"github.com/99minutos/cargo-tracking/internal/pkg/retrier"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubEventRepo struct {
	events []*domain.LocationEvent
	err    error
}

func (r *stubEventRepo) InsertEvent(_ context.Context, e *domain.LocationEvent) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, e)
	return nil
}

type stubDedup struct {
	duplicate bool
	checkErr  error
	checks    int
	marked    []string
}

func (d *stubDedup) IsDuplicate(_ context.Context, _, _ string) (bool, error) {
	d.checks++
	return d.duplicate, d.checkErr
}

func (d *stubDedup) Mark(_ context.Context, shipmentID, key string) error {
	d.marked = append(d.marked, shipmentID+"|"+key)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type trackingFixture struct {
	repo   *stubShipmentRepo
	events *stubEventRepo
	dedup  *stubDedup
	svc    ports.TrackingService
}

func fastRetrier() *retrier.Retrier {
	cfg := retrier.DefaultConfig()
	cfg.InitialInterval = time.Millisecond
	cfg.MaxInterval = 2 * time.Millisecond
	cfg.MaxElapsedTime = 200 * time.Millisecond
	cfg.ShouldRetry = IsRetryable
	return retrier.New(cfg)
}

func newTrackingFixture(t *testing.T, strict bool) *trackingFixture {
	t.Helper()

	repo := newStubShipmentRepo()
	engine := tracking.NewEngine(tracking.Config{})
	shipments := NewShipmentService(repo, engine, &sequenceIDs{ids: []string{"SH1"}}, clock.Fixed(refTime), discardLogger)
	if _, err := shipments.CreateShipment(context.Background(), minimalInput("MSCU1234567")); err != nil {
		t.Fatalf("seed shipment: %v", err)
	}

	f := &trackingFixture{repo: repo, events: &stubEventRepo{}, dedup: &stubDedup{}}
	f.svc = NewTrackingService(
		repo, f.events, f.dedup, engine,
		tracking.Policy{StrictTransitions: strict},
		fastRetrier(),
		clock.Fixed(refTime.Add(time.Hour)),
		discardLogger,
	)
	return f
}

func phoenixUpdate(status string) ports.LocationUpdateInput {
	return ports.LocationUpdateInput{
		ShipmentID: "SH1",
		Location: ports.LocationInput{
			Name:        "Phoenix Hub",
			Address:     "Phoenix, AZ",
			Coordinates: ports.CoordinatesInput{Latitude: 33.4484, Longitude: -112.0740},
		},
		Status: status,
	}
}

// ---------------------------------------------------------------------------
// UpdateLocation tests
// ---------------------------------------------------------------------------

func TestTrackingService_UpdateLocation_Success(t *testing.T) {
	f := newTrackingFixture(t, true)

	s, err := f.svc.UpdateLocation(context.Background(), phoenixUpdate("in_transit"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Status != domain.StatusInTransit {
		t.Errorf("expected in_transit, got %q", s.Status)
	}
	if len(s.Route) != 2 || len(s.TrackingHistory) != 2 {
		t.Errorf("expected route 2 and history 2, got %d and %d", len(s.Route), len(s.TrackingHistory))
	}
	if s.TrackingHistory[1].Status != "in_transit" {
		t.Errorf("expected history entry status in_transit, got %q", s.TrackingHistory[1].Status)
	}
	if !s.UpdatedAt.Equal(refTime.Add(time.Hour)) {
		t.Errorf("expected updatedAt from the service clock, got %v", s.UpdatedAt)
	}
	if s.Version != 2 {
		t.Errorf("expected version 2, got %d", s.Version)
	}

	if len(f.events.events) != 1 {
		t.Fatalf("expected 1 audit event, got %d", len(f.events.events))
	}
	if f.events.events[0].Source != "api" {
		t.Errorf("expected default source api, got %q", f.events.events[0].Source)
	}
}

func TestTrackingService_UpdateLocation_SamePointDoesNotGrowRoute(t *testing.T) {
	f := newTrackingFixture(t, true)

	in := phoenixUpdate("")
	_, _ = f.svc.UpdateLocation(context.Background(), in)

	in.Location.Name = "Phoenix Sky Harbor"
	s, err := f.svc.UpdateLocation(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Route) != 2 {
		t.Errorf("expected route of 2, got %d", len(s.Route))
	}
	if len(s.TrackingHistory) != 3 {
		t.Errorf("expected history of 3, got %d", len(s.TrackingHistory))
	}
	if s.CurrentLocation.Name != "Phoenix Sky Harbor" {
		t.Errorf("expected current location to take the new label, got %q", s.CurrentLocation.Name)
	}
}

func TestTrackingService_UpdateLocation_DeliveredSetsActualArrival(t *testing.T) {
	f := newTrackingFixture(t, true)

	if _, err := f.svc.UpdateLocation(context.Background(), phoenixUpdate("in_transit")); err != nil {
		t.Fatalf("in_transit: %v", err)
	}
	s, err := f.svc.UpdateLocation(context.Background(), phoenixUpdate("delivered"))
	if err != nil {
		t.Fatalf("delivered: %v", err)
	}
	if s.ActualArrival == nil || !s.ActualArrival.Equal(refTime.Add(time.Hour)) {
		t.Errorf("expected actual arrival to be set, got %v", s.ActualArrival)
	}

	_, err = f.svc.UpdateLocation(context.Background(), phoenixUpdate(""))
	if !errors.Is(err, domain.ErrTerminalStatus) {
		t.Errorf("expected ErrTerminalStatus after delivery, got %v", err)
	}
}

func TestTrackingService_UpdateLocation_StrictRejectsSkippedStep(t *testing.T) {
	f := newTrackingFixture(t, true)

	_, err := f.svc.UpdateLocation(context.Background(), phoenixUpdate("delivered"))
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if f.repo.saves != 0 {
		t.Error("rejected update must not be saved")
	}
}

func TestTrackingService_UpdateLocation_PermissiveAllowsSkippedStep(t *testing.T) {
	f := newTrackingFixture(t, false)

	s, err := f.svc.UpdateLocation(context.Background(), phoenixUpdate("delivered"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Status != domain.StatusDelivered {
		t.Errorf("expected delivered, got %q", s.Status)
	}
}

func TestTrackingService_UpdateLocation_ValidationErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ports.LocationUpdateInput)
		want   error
	}{
		{"unknown status", func(in *ports.LocationUpdateInput) { in.Status = "lost" }, domain.ErrInvalidStatus},
		{"latitude out of range", func(in *ports.LocationUpdateInput) { in.Location.Coordinates.Latitude = 91 }, domain.ErrInvalidCoordinate},
		{"longitude out of range", func(in *ports.LocationUpdateInput) { in.Location.Coordinates.Longitude = -181 }, domain.ErrInvalidCoordinate},
		{"missing name", func(in *ports.LocationUpdateInput) { in.Location.Name = "" }, domain.ErrInvalidLocation},
		{"unknown shipment", func(in *ports.LocationUpdateInput) { in.ShipmentID = "SH-NOPE" }, domain.ErrShipmentNotFound},
		{"stale timestamp", func(in *ports.LocationUpdateInput) { in.Timestamp = refTime.Add(-time.Minute) }, domain.ErrStaleUpdate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newTrackingFixture(t, true)
			in := phoenixUpdate("")
			tc.mutate(&in)

			_, err := f.svc.UpdateLocation(context.Background(), in)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestTrackingService_UpdateLocation_RetriesOnConflict(t *testing.T) {
	f := newTrackingFixture(t, true)
	f.repo.saveErrs = []error{domain.ErrConflict, domain.ErrConflict}

	s, err := f.svc.UpdateLocation(context.Background(), phoenixUpdate("in_transit"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.repo.saves != 3 {
		t.Errorf("expected 3 save attempts, got %d", f.repo.saves)
	}
	if len(s.TrackingHistory) != 2 {
		t.Errorf("retries must not apply the update twice, history has %d entries", len(s.TrackingHistory))
	}
}

func TestTrackingService_UpdateLocation_NotFoundIsNotRetried(t *testing.T) {
	f := newTrackingFixture(t, true)
	in := phoenixUpdate("")
	in.ShipmentID = "SH-NOPE"

	start := time.Now()
	_, err := f.svc.UpdateLocation(context.Background(), in)
	if !errors.Is(err, domain.ErrShipmentNotFound) {
		t.Fatalf("expected ErrShipmentNotFound, got %v", err)
	}
	if time.Since(start) > 100*time.Millisecond {
		t.Error("a missing shipment must fail fast, not exhaust the retry budget")
	}
}

func TestTrackingService_UpdateLocation_AuditFailureIsNotFatal(t *testing.T) {
	f := newTrackingFixture(t, true)
	f.events.err = errors.New("mongo down")

	if _, err := f.svc.UpdateLocation(context.Background(), phoenixUpdate("")); err != nil {
		t.Fatalf("audit failure must not fail the update, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Process tests
// ---------------------------------------------------------------------------

// reportedAt is a device timestamp after the fixture's creation time.
var reportedAt = refTime.Add(30 * time.Minute)

func timedUpdate(status string) ports.LocationUpdateInput {
	in := phoenixUpdate(status)
	in.Timestamp = reportedAt
	return in
}

func TestTrackingService_Process_MarksAfterSuccess(t *testing.T) {
	f := newTrackingFixture(t, true)

	in := timedUpdate("in_transit")
	in.Source = "kafka"
	if err := f.svc.Process(context.Background(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.dedup.marked) != 1 {
		t.Fatalf("expected 1 dedup mark, got %d", len(f.dedup.marked))
	}
	if f.dedup.marked[0] != "SH1|in_transit:33.4484:-112.074@1771497000" {
		t.Errorf("unexpected dedup key %q", f.dedup.marked[0])
	}
	if f.events.events[0].Source != "kafka" {
		t.Errorf("expected source kafka, got %q", f.events.events[0].Source)
	}
}

func TestTrackingService_Process_EventIDIsTheDedupKey(t *testing.T) {
	f := newTrackingFixture(t, true)

	in := phoenixUpdate("in_transit")
	in.EventID = "shipment.location-updates/0/42"
	if err := f.svc.Process(context.Background(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.dedup.checks != 1 {
		t.Errorf("expected one dedup check, got %d", f.dedup.checks)
	}
	if len(f.dedup.marked) != 1 || f.dedup.marked[0] != "SH1|id:shipment.location-updates/0/42" {
		t.Errorf("unexpected dedup marks %v", f.dedup.marked)
	}
}

func TestTrackingService_Process_UntimedReportsAreNeverDeduplicated(t *testing.T) {
	f := newTrackingFixture(t, true)
	// Would swallow the update if it were consulted.
	f.dedup.duplicate = true

	for i := 0; i < 2; i++ {
		if err := f.svc.Process(context.Background(), phoenixUpdate("in_transit")); err != nil {
			t.Fatalf("report %d: unexpected error: %v", i+1, err)
		}
	}

	if f.dedup.checks != 0 || len(f.dedup.marked) != 0 {
		t.Errorf("dedup must not be used, got %d checks and marks %v", f.dedup.checks, f.dedup.marked)
	}
	if f.repo.saves != 2 {
		t.Errorf("expected both reports to be saved, got %d saves", f.repo.saves)
	}
	s, _ := f.repo.FindByID(context.Background(), "SH1")
	if len(s.TrackingHistory) != 3 {
		t.Errorf("expected creation entry plus two reports in history, got %d", len(s.TrackingHistory))
	}
}

func TestTrackingService_Process_SkipsDuplicate(t *testing.T) {
	f := newTrackingFixture(t, true)
	f.dedup.duplicate = true

	if err := f.svc.Process(context.Background(), timedUpdate("in_transit")); err != nil {
		t.Fatalf("duplicate must be skipped silently, got %v", err)
	}
	if f.repo.saves != 0 {
		t.Error("duplicate must not be saved")
	}
}

func TestTrackingService_Process_DedupErrorStillProcesses(t *testing.T) {
	f := newTrackingFixture(t, true)
	f.dedup.checkErr = errors.New("redis down")

	if err := f.svc.Process(context.Background(), timedUpdate("in_transit")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.repo.saves != 1 {
		t.Errorf("expected the update to be saved, got %d saves", f.repo.saves)
	}
}

func TestTrackingService_Process_FailureIsNotMarked(t *testing.T) {
	f := newTrackingFixture(t, true)

	err := f.svc.Process(context.Background(), timedUpdate("delivered"))
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if f.dedup.checks != 1 {
		t.Errorf("expected one dedup check, got %d", f.dedup.checks)
	}
	if len(f.dedup.marked) != 0 {
		t.Error("failed updates must stay redeliverable")
	}
}
