// Package metrics defines and registers all custom Prometheus metrics for
// the MBO tracker. It is the single source of truth for metric names,
// labels, and help strings. Metrics register themselves with the default
// registry via promauto at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mbo"

// ── Notification metrics ─────────────────────────────────────────────────────

// NotificationsSentTotal counts successful channel deliveries.
// Labels:
//   - event: lifecycle event (created, approved, rejected, updated, deleted)
//   - channel: "email" or "chat"
var NotificationsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_sent_total",
		Help:      "Total number of notifications delivered, by event and channel.",
	},
	[]string{"event", "channel"},
)

// NotificationsFailedTotal counts channel deliveries that errored.
var NotificationsFailedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_failed_total",
		Help:      "Total number of notification deliveries that failed, by event and channel.",
	},
	[]string{"event", "channel"},
)

// NotificationsDedupTotal counts dedup decisions.
// Label:
//   - result: "hit" (suppressed), "miss" (sent), or "error" (store failure, sent anyway)
var NotificationsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_dedup_total",
		Help:      "Total number of notification dedup checks, labelled by result.",
	},
	[]string{"result"},
)

// ── Objective metrics ────────────────────────────────────────────────────────

// ObjectivesCreatedTotal counts newly submitted objectives per category.
var ObjectivesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "objectives_created_total",
		Help:      "Total number of objectives submitted, by category.",
	},
	[]string{"category"},
)

// ObjectivesReviewedTotal counts manager approval decisions.
// Label:
//   - decision: "approved" or "rejected"
var ObjectivesReviewedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "objectives_reviewed_total",
		Help:      "Total number of approval decisions, by outcome.",
	},
	[]string{"decision"},
)

// ── Scheduler metrics ────────────────────────────────────────────────────────

// ReminderRunsTotal counts quarter-end reminder job executions.
// Label:
//   - result: "sent" (reminder day matched, mails dispatched) or "skipped"
var ReminderRunsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reminder_runs_total",
		Help:      "Total number of quarter-end reminder job runs, by result.",
	},
	[]string{"result"},
)
