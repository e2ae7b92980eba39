package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry(), "court-booking")

	m.IncBookingCreated()
	m.IncBookingTransition("confirmed")
	m.IncBookingTransition("confirmed")
	m.IncNotification("failed")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingsCreated.WithLabelValues("court-booking")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingTransitions.WithLabelValues("court-booking", "confirmed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("court-booking", "failed")))
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.IncBookingCreated()
		m.IncBookingTransition("cancelled")
		m.IncNotification("sent")
		m.IncCacheRequest("hit")
		m.IncTxRetry()
	})
	assert.Empty(t, m.ServiceName())
}
