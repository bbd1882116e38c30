// Package metrics defines and registers the custom Prometheus metrics of the
// blog admin API. It is the single source of truth for metric names, labels,
// and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blogdesk"

// ── Confirmation flow ─────────────────────────────────────────────────────────

// FlowOutcomesTotal counts submissions of confirmation forms by result.
// Labels:
//   - form: logical form (e.g. "post_create", "user_update")
//   - outcome: "redirect", "invalid", "preview" or "commit"
var FlowOutcomesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "flow_outcomes_total",
		Help:      "Total number of confirmation form submissions, by form and outcome.",
	},
	[]string{"form", "outcome"},
)

// FlowResetsTotal counts confirmations cleared because the session moved to another route.
var FlowResetsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "flow_resets_total",
		Help:      "Total number of pending confirmations cleared by navigating to a different form.",
	},
)

// UploadsDiscardedTotal counts staged uploads removed without being promoted.
var UploadsDiscardedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_discarded_total",
		Help:      "Total number of staged uploads discarded on cancel or reset.",
	},
)

// ── Records ───────────────────────────────────────────────────────────────────

// PostsCreatedTotal counts persisted posts.
// Label:
//   - source: "form" or "csv"
var PostsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Total number of posts created, by source.",
	},
	[]string{"source"},
)

// CSVImportsTotal counts CSV import attempts.
// Label:
//   - result: "ok", "invalid" or "error"
var CSVImportsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "csv_imports_total",
		Help:      "Total number of CSV imports, by result.",
	},
	[]string{"result"},
)

// ── Authentication ────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok", "unknown_email", "bad_password" or "invalid"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)
