package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "smc"

// Metrics набор prometheus метрик сервиса
// Все методы безопасны для nil receiver, поэтому при выключенных метриках можно передавать nil
type Metrics struct {
	serviceName string

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBOpenConnections *prometheus.GaugeVec
	DBInUse           *prometheus.GaugeVec
	DBIdle            *prometheus.GaugeVec
	DBWaitCount       *prometheus.GaugeVec
	DBQueryDuration   *prometheus.HistogramVec
	DBTxRetries       *prometheus.CounterVec

	BookingsCreated    *prometheus.CounterVec
	BookingTransitions *prometheus.CounterVec
	Notifications      *prometheus.CounterVec
	CacheRequests      *prometheus.CounterVec
}

// New регистрирует метрики в default registry (его отдаёт promhttp.Handler)
func New(serviceName string) *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegisterer регистрирует метрики в указанном registry
func NewWithRegisterer(reg prometheus.Registerer, serviceName string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		serviceName: serviceName,

		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),

		DBOpenConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_open_connections",
			Help:      "Number of established connections",
		}, []string{"service"}),

		DBInUse: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_in_use_connections",
			Help:      "Number of connections currently in use",
		}, []string{"service"}),

		DBIdle: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_idle_connections",
			Help:      "Number of idle connections",
		}, []string{"service"}),

		DBWaitCount: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_wait_count",
			Help:      "Total number of connections waited for",
		}, []string{"service"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "db_query_duration_seconds",
			Help:      "Database query latency",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"service", "operation"}),

		DBTxRetries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_tx_retries_total",
			Help:      "Serializable transactions retried after a serialization failure",
		}, []string{"service"}),

		BookingsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Bookings created",
		}, []string{"service"}),

		BookingTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_transitions_total",
			Help:      "Booking status transitions",
		}, []string{"service", "to"}),

		Notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Owner notifications by result",
		}, []string{"service", "result"}),

		CacheRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Cache lookups by result",
		}, []string{"service", "result"}),
	}
}

func (m *Metrics) ServiceName() string {
	if m == nil {
		return ""
	}
	return m.serviceName
}

func (m *Metrics) IncBookingCreated() {
	if m == nil {
		return
	}
	m.BookingsCreated.WithLabelValues(m.serviceName).Inc()
}

func (m *Metrics) IncBookingTransition(to string) {
	if m == nil {
		return
	}
	m.BookingTransitions.WithLabelValues(m.serviceName, to).Inc()
}

func (m *Metrics) IncNotification(result string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(m.serviceName, result).Inc()
}

func (m *Metrics) IncCacheRequest(result string) {
	if m == nil {
		return
	}
	m.CacheRequests.WithLabelValues(m.serviceName, result).Inc()
}

func (m *Metrics) IncTxRetry() {
	if m == nil {
		return
	}
	m.DBTxRetries.WithLabelValues(m.serviceName).Inc()
}
