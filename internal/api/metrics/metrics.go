// Package metrics defines and registers all custom Prometheus metrics for the
// recruitment portal API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package init
// through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "recruitment"

// ── Application metrics ───────────────────────────────────────────────────────

// ApplicationsSubmittedTotal counts accepted application submissions.
var ApplicationsSubmittedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "applications_submitted_total",
		Help:      "Total number of applications submitted.",
	},
)

// ApplicationsRefusedTotal counts submissions refused before storage.
// Label:
//   - reason: "validation" or "duplicate_pending"
var ApplicationsRefusedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "applications_refused_total",
		Help:      "Total number of application submissions refused, by reason.",
	},
	[]string{"reason"},
)

// ApplicationsReviewedTotal counts admin review decisions.
// Label:
//   - status: "approved" or "rejected"
var ApplicationsReviewedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "applications_reviewed_total",
		Help:      "Total number of applications reviewed, by resulting status.",
	},
	[]string{"status"},
)

// RateLimitedTotal counts requests refused by a rate limiter.
// Label:
//   - route: the echo route path (e.g. "/api/applications")
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests refused by a rate limiter, by route.",
	},
	[]string{"route"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionsTotal counts session lifecycle operations.
// Labels:
//   - action: "create" or "logout"
//   - result: "ok" or "error"
var SessionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_total",
		Help:      "Total number of session operations, by action and result.",
	},
	[]string{"action", "result"},
)

// ── Event metrics ─────────────────────────────────────────────────────────────

// EventsPublishedTotal counts workflow events handed to the publisher.
// Labels:
//   - type: event type (e.g. "application.submitted")
//   - result: "ok" or "error"
var EventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Total number of workflow events published, by type and result.",
	},
	[]string{"type", "result"},
)

// EventsDroppedTotal counts events discarded because a worker buffer was full.
var EventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_dropped_total",
		Help:      "Total number of workflow events dropped on a full dispatcher buffer.",
	},
)

// EventsQueueDepth tracks the current number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var EventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// EventPublishDuration measures how long publishing a single event takes.
var EventPublishDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "event_publish_duration_seconds",
		Help:      "Duration of publishing a workflow event to the broker.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"type"},
)
