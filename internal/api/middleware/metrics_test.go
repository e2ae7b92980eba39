package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-CourtBooking/pkg/metrics"
)

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	m := metrics.NewWithRegisterer(prometheus.NewRegistry(), "court-booking")

	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m, "court-booking"))
	r.HandleFunc("/api/v1/bookings/{bookingId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	for _, path := range []string{"/api/v1/bookings/1", "/api/v1/bookings/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	counter := m.HTTPRequestsTotal.WithLabelValues("court-booking", http.MethodGet, "/api/v1/bookings/{bookingId}", "404")
	assert.Equal(t, float64(2), testutil.ToFloat64(counter))
}
