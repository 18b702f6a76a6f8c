// Package metrics exposes Prometheus instrumentation for the reconciliation
// engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	// ClustersProcessed counts clusters by terminal outcome status.
	ClustersProcessed *prometheus.CounterVec

	// ReservationsCreated counts reservations written to the trip store.
	ReservationsCreated prometheus.Counter

	// ReservationsSkipped counts legs skipped by the idempotency check.
	ReservationsSkipped prometheus.Counter

	// MalformedLegs counts legs rejected before clustering.
	MalformedLegs prometheus.Counter

	// ApplyDuration observes the duration of full apply runs.
	ApplyDuration prometheus.Histogram
}

// New creates metrics registered on the default Prometheus registry.
func New(namespace string) *Metrics {
	return NewWith(namespace, prometheus.DefaultRegisterer)
}

// NewWith creates metrics registered on a custom registerer. Tests use this
// to avoid duplicate-registration panics on the default registry.
func NewWith(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ClustersProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clusters_processed_total",
			Help:      "The total number of flight clusters processed, by outcome",
		}, []string{"status"}),
		ReservationsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations_created_total",
			Help:      "The total number of flight reservations written",
		}),
		ReservationsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations_skipped_total",
			Help:      "The total number of legs skipped as already-present duplicates",
		}),
		MalformedLegs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "malformed_legs_total",
			Help:      "The total number of legs rejected before clustering",
		}),
		ApplyDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "apply_duration_seconds",
			Help:      "Time taken to apply an extraction event to a trip",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// ObserveOutcome records a cluster's terminal status. Safe on a nil receiver
// so the engine can run without metrics wired.
func (m *Metrics) ObserveOutcome(status string) {
	if m == nil {
		return
	}
	m.ClustersProcessed.WithLabelValues(status).Inc()
}

// AddReservations records created and skipped reservation counts.
func (m *Metrics) AddReservations(created, skipped int) {
	if m == nil {
		return
	}
	m.ReservationsCreated.Add(float64(created))
	m.ReservationsSkipped.Add(float64(skipped))
}

// AddMalformedLegs records rejected legs.
func (m *Metrics) AddMalformedLegs(n int) {
	if m == nil {
		return
	}
	m.MalformedLegs.Add(float64(n))
}

// ObserveApplyDuration records the duration of one apply run in seconds.
func (m *Metrics) ObserveApplyDuration(seconds float64) {
	if m == nil {
		return
	}
	m.ApplyDuration.Observe(seconds)
}
