// Package metrics defines the console's Prometheus metrics. All metrics are
// registered with the default registry on package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "samarth_console"

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts login submissions.
// Label:
//   - result: "success", "rejected" (authentication error) or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login submissions, by result.",
	},
	[]string{"result"},
)

// LogoutsTotal counts logouts, including forced ones after a backend 401.
var LogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of logouts.",
	},
)

// GuardDecisionsTotal counts route guard outcomes.
// Label:
//   - decision: "loading", "redirect_login", "forbidden" or "render"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions, by outcome.",
	},
	[]string{"decision"},
)

// ── Backend metrics ───────────────────────────────────────────────────────────

// BackendRequestDuration measures calls to the SAMARTH API.
// Labels:
//   - operation: gateway method name (e.g. "list_inventory")
//   - code: HTTP status code, or "error" for transport failures
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of requests to the SAMARTH API.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation", "code"},
)

// ── Sync metrics ──────────────────────────────────────────────────────────────

// SyncJobsTotal counts integration sync jobs.
// Labels:
//   - kind: "content" or "training"
//   - result: "ok" or "error"
var SyncJobsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sync_jobs_total",
		Help:      "Total number of integration sync jobs processed.",
	},
	[]string{"kind", "result"},
)

// SyncQueueDepth tracks jobs waiting in each dispatcher worker channel.
var SyncQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sync_queue_depth",
		Help:      "Current number of sync jobs pending per worker.",
	},
	[]string{"worker_id"},
)
