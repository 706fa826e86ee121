// Package metrics provides Prometheus metrics for observability.
// Metrics are organized by domain: registrations, imports, and exports.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "user_registry"
)

var (
	// Registration metrics - track AddUser outcomes
	UsersAddedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "users",
			Name:      "added_total",
			Help:      "Total number of users added by role",
		},
		[]string{"role"},
	)

	ValidationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "users",
			Name:      "validation_failures_total",
			Help:      "Total number of rejected users by reason",
		},
		[]string{"reason"},
	)

	UsersRegistered = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "users",
			Name:      "registered",
			Help:      "Number of users currently held by the most recently updated manager",
		},
	)

	// Import metrics - track batch imports
	ImportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "imports",
			Name:      "total",
			Help:      "Total number of imports by format and result",
		},
		[]string{"format", "result"},
	)

	ImportRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "imports",
			Name:      "records_total",
			Help:      "Total number of imported records by result",
		},
		[]string{"result"},
	)

	// Export metrics - track exports
	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "exports",
			Name:      "total",
			Help:      "Total number of exports by format and result",
		},
		[]string{"format", "result"},
	)

	ExportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "exports",
			Name:      "duration_seconds",
			Help:      "Export duration in seconds",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"format"},
	)

	ExportRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "exports",
			Name:      "records_total",
			Help:      "Total number of exported records by format",
		},
		[]string{"format"},
	)
)

// Validation failure reasons.
const (
	ReasonEmptyName    = "empty_name"
	ReasonInvalidEmail = "invalid_email"
	ReasonUnknownRole  = "unknown_role"
	ReasonOther        = "other"
)

// ObserveUserAdded records a successful registration and the new total.
func ObserveUserAdded(role string, total int) {
	UsersAddedTotal.WithLabelValues(role).Inc()
	UsersRegistered.Set(float64(total))
}

// ObserveValidationFailure records a rejected registration.
func ObserveValidationFailure(reason string) {
	ValidationFailuresTotal.WithLabelValues(reason).Inc()
}

// ObserveImport records metrics when an import completes
func ObserveImport(format, result string, successCount, failureCount int) {
	ImportsTotal.WithLabelValues(format, result).Inc()

	if successCount > 0 {
		ImportRecords.WithLabelValues("success").Add(float64(successCount))
	}
	if failureCount > 0 {
		ImportRecords.WithLabelValues("failure").Add(float64(failureCount))
	}
}

// ObserveExport records metrics when an export finishes.
// Duration is observed separately through a Timer on ExportDuration.
func ObserveExport(format, result string, recordCount int) {
	ExportsTotal.WithLabelValues(format, result).Inc()
	if recordCount > 0 {
		ExportRecords.WithLabelValues(format).Add(float64(recordCount))
	}
}

// Timer is a helper for measuring operation duration
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer starting now
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the elapsed time since the timer was created
func (t *Timer) ObserveDuration(observer prometheus.Observer) {
	observer.Observe(time.Since(t.start).Seconds())
}
