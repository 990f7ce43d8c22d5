package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegisterer("petshop-test", prometheus.NewRegistry())

	m.AppointmentCreated("MONETARY")
	m.AppointmentCreated("MONETARY")
	m.AppointmentRejected("schedule_conflict")
	m.PointsCredited("shop-1", 150)
	m.PointsCredited("shop-1", 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AppointmentsCreated.WithLabelValues("MONETARY")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AppointmentsRejected.WithLabelValues("schedule_conflict")))
	assert.Equal(t, 150.0, testutil.ToFloat64(m.LoyaltyPointsCredited.WithLabelValues("shop-1")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.AppointmentCreated("MONETARY")
		m.AppointmentRejected("x")
		m.PointsCredited("shop", 1)
	})
}
