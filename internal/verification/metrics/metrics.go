// Package metrics provides observability for the verification module.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the verification engine's instruments. A nil *Metrics is
// safe to call, so tests and one-off tools can skip registration.
type Metrics struct {
	// Individual check latencies by data source
	CheckLatency *prometheus.HistogramVec

	// Check outcomes by type and status
	CheckOutcome *prometheus.CounterVec

	// Aggregate decisions by decision status
	DecisionOutcome *prometheus.CounterVec

	// Full run latency including aggregation
	RunLatency prometheus.Histogram

	// Panics recovered from check adapters
	CheckPanics prometheus.Counter
}

// New creates a Metrics instance with all verification metrics registered.
func New() *Metrics {
	return &Metrics{
		CheckLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "eduvet_verification_check_duration_seconds",
			Help:    "Duration of individual verification checks by data source",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),

		CheckOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "eduvet_verification_check_outcomes_total",
			Help: "Total check outcomes by check type and status",
		}, []string{"check_type", "status"}),

		DecisionOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "eduvet_verification_decisions_total",
			Help: "Total aggregate decisions by decision status",
		}, []string{"decision"}),

		RunLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "eduvet_verification_run_duration_seconds",
			Help:    "Duration of full verification runs including aggregation",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),

		CheckPanics: promauto.NewCounter(prometheus.CounterOpts{
			Name: "eduvet_verification_check_panics_total",
			Help: "Total panics recovered from check adapters",
		}),
	}
}

// ObserveCheckLatency records the duration of one check by source.
func (m *Metrics) ObserveCheckLatency(source string, d time.Duration) {
	if m != nil {
		m.CheckLatency.WithLabelValues(source).Observe(d.Seconds())
	}
}

// IncrementCheckOutcome records a check outcome.
func (m *Metrics) IncrementCheckOutcome(checkType, status string) {
	if m != nil {
		m.CheckOutcome.WithLabelValues(checkType, status).Inc()
	}
}

// IncrementDecision records an aggregate decision.
func (m *Metrics) IncrementDecision(decision string) {
	if m != nil {
		m.DecisionOutcome.WithLabelValues(decision).Inc()
	}
}

// ObserveRunLatency records the total run duration.
func (m *Metrics) ObserveRunLatency(d time.Duration) {
	if m != nil {
		m.RunLatency.Observe(d.Seconds())
	}
}

// IncrementCheckPanic records a recovered adapter panic.
func (m *Metrics) IncrementCheckPanic() {
	if m != nil {
		m.CheckPanics.Inc()
	}
}
