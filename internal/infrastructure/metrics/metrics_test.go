package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewWith("test", prometheus.NewRegistry())

	m.ObserveOutcome("attached")
	m.ObserveOutcome("attached")
	m.ObserveOutcome("failed")
	m.AddReservations(3, 1)
	m.AddMalformedLegs(2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ClustersProcessed.WithLabelValues("attached")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ClustersProcessed.WithLabelValues("failed")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ReservationsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReservationsSkipped))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.MalformedLegs))
}

func TestMetrics_ObserveApplyDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWith("test", reg)

	m.ObserveApplyDuration(0.25)

	count := testutil.CollectAndCount(reg, "test_apply_duration_seconds")
	assert.Equal(t, 1, count)
}

func TestMetrics_NilReceiverSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveOutcome("attached")
		m.AddReservations(1, 1)
		m.AddMalformedLegs(1)
		m.ObserveApplyDuration(0.1)
	})
}
