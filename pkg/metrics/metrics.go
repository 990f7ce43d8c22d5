package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration *prometheus.HistogramVec
	DBErrorsTotal   *prometheus.CounterVec
	DBOpenConns     *prometheus.GaugeVec
	DBInUseConns    *prometheus.GaugeVec
	DBIdleConns     *prometheus.GaugeVec
	DBWaitCount     *prometheus.GaugeVec

	AppointmentsCreated   *prometheus.CounterVec
	AppointmentsRejected  *prometheus.CounterVec
	LoyaltyPointsCredited *prometheus.CounterVec
}

// New регистрирует метрики в глобальном registry
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer регистрирует метрики в переданном registry
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		DBErrorsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_errors_total",
			Help:        "Total number of database errors",
			ConstLabels: constLabels,
		}, []string{"operation"}),

		DBOpenConns: f.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBInUseConns: f.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBIdleConns: f.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBWaitCount: f.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{"db"}),

		AppointmentsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointments_created_total",
			Help:        "Confirmed appointments by payment type",
			ConstLabels: constLabels,
		}, []string{"payment_type"}),

		AppointmentsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointments_rejected_total",
			Help:        "Rejected appointment requests by reason",
			ConstLabels: constLabels,
		}, []string{"reason"}),

		LoyaltyPointsCredited: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "loyalty_points_credited_total",
			Help:        "Loyalty points credited to clients",
			ConstLabels: constLabels,
		}, []string{"pet_shop_id"}),
	}
}

// AppointmentCreated увеличивает счетчик подтвержденных записей. Безопасен для nil
func (m *Metrics) AppointmentCreated(paymentType string) {
	if m == nil {
		return
	}
	m.AppointmentsCreated.WithLabelValues(paymentType).Inc()
}

// AppointmentRejected увеличивает счетчик отклоненных запросов. Безопасен для nil
func (m *Metrics) AppointmentRejected(reason string) {
	if m == nil {
		return
	}
	m.AppointmentsRejected.WithLabelValues(reason).Inc()
}

// PointsCredited учитывает начисленные баллы лояльности. Безопасен для nil
func (m *Metrics) PointsCredited(petShopID string, points int64) {
	if m == nil || points <= 0 {
		return
	}
	m.LoyaltyPointsCredited.WithLabelValues(petShopID).Add(float64(points))
}
