// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "receipt_events_applied_total",
			Help: "Total number of events that produced a state change",
		},
		[]string{"event_type"},
	)

	EventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "receipt_events_dropped_total",
			Help: "Total number of events absorbed without a state change",
		},
		[]string{"event_type", "reason"},
	)

	EventsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "receipt_events_failed_total",
			Help: "Total number of events that failed processing and will be redelivered",
		},
		[]string{"event_type"},
	)

	EventDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "receipt_event_duration_seconds",
			Help: "Duration of event processing in seconds",
		},
		[]string{"event_type"},
	)

	AuditAppendFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "receipt_audit_append_failures_total",
			Help: "Total number of best-effort audit appends that failed",
		},
	)
)
