// Package metrics defines and registers all custom Prometheus metrics for the
// cargo tracking service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cargo_tracking"

// ── Location update metrics ───────────────────────────────────────────────────

// LocationUpdatesTotal counts location updates that were applied and persisted.
// Labels:
//   - status: the status carried by the update, or "unchanged"
//   - source: the reporter of the update (e.g. "api", "kafka", "gps_feed")
var LocationUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "location_updates_total",
		Help:      "Total number of location updates successfully applied.",
	},
	[]string{"status", "source"},
)

// LocationUpdateErrorsTotal counts updates that failed.
// Label:
//   - reason: short description of the failure (e.g. "terminal_status", "shipment_not_found", "conflict")
var LocationUpdateErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "location_update_errors_total",
		Help:      "Total number of location updates that failed.",
	},
	[]string{"reason"},
)

// LocationUpdateDedupTotal counts deduplication decisions on the asynchronous path.
// Label:
//   - result: "hit" (duplicate, skipped), "miss" (new event, processed) or
//     "skipped" (no event id or timestamp, processed without a check)
var LocationUpdateDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "location_update_dedup_total",
		Help:      "Total number of deduplication checks, labelled by result (hit/miss/skipped).",
	},
	[]string{"result"},
)

// SaveConflictsTotal counts optimistic-concurrency conflicts that triggered a reload.
var SaveConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "save_conflicts_total",
		Help:      "Total number of concurrent-write conflicts detected while saving a shipment.",
	},
)

// QueueDepth tracks the current number of updates waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var QueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "queue_depth",
		Help:      "Current number of location updates pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// LocationUpdateDuration measures how long a single update takes end-to-end.
// Label:
//   - outcome: "ok" or "error"
var LocationUpdateDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "location_update_duration_seconds",
		Help:      "Duration of location update processing from load to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

// RemainingDistanceKm observes the remaining great-circle distance after each update.
var RemainingDistanceKm = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "remaining_distance_km",
		Help:      "Remaining distance to destination after a location update.",
		Buckets:   []float64{0, 10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 20000},
	},
)

// ── Shipment metrics ──────────────────────────────────────────────────────────

// ShipmentsCreatedTotal counts newly created shipments.
// Label:
//   - category: the cargo category (e.g. "electronics")
var ShipmentsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shipments_created_total",
		Help:      "Total number of shipments created, by cargo category.",
	},
	[]string{"category"},
)
