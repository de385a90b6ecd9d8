// Package metrics Prometheus метрики сервиса
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор метрик сервиса: HTTP, база данных и фоновый sweeper
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueriesTotal  *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec
	dbPoolOpen      *prometheus.GaugeVec
	dbPoolInUse     *prometheus.GaugeVec
	dbPoolIdle      *prometheus.GaugeVec

	sweeperTicksTotal   *prometheus.CounterVec
	holdsExpiredTotal   *prometheus.CounterVec
	holdWarningsTotal   *prometheus.CounterVec
	sweeperErrorsTotal  *prometheus.CounterVec
	holdsCreatedTotal   *prometheus.CounterVec
	holdsCompletedTotal *prometheus.CounterVec
	holdsCancelledTotal *prometheus.CounterVec
}

// New создает и регистрирует метрики в default registry
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		dbQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: constLabels,
		}, []string{"operation", "status"}),
		dbQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"operation"}),
		dbPoolOpen: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_open_connections",
			Help:        "Number of open connections in the pool",
			ConstLabels: constLabels,
		}, []string{"db"}),
		dbPoolInUse: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{"db"}),
		dbPoolIdle: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_idle_connections",
			Help:        "Number of idle connections in the pool",
			ConstLabels: constLabels,
		}, []string{"db"}),

		sweeperTicksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "hold_sweeper_ticks_total",
			Help:        "Total number of sweeper ticks",
			ConstLabels: constLabels,
		}, []string{"result"}),
		holdsExpiredTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "holds_expired_total",
			Help:        "Total number of holds expired by the sweeper",
			ConstLabels: constLabels,
		}, []string{"phase"}),
		holdWarningsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "hold_warnings_sent_total",
			Help:        "Total number of deadline warnings sent",
			ConstLabels: constLabels,
		}, []string{"phase"}),
		sweeperErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "hold_sweeper_errors_total",
			Help:        "Total number of per-hold sweeper processing errors",
			ConstLabels: constLabels,
		}, []string{"phase"}),
		holdsCreatedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "holds_created_total",
			Help:        "Total number of slot holds created",
			ConstLabels: constLabels,
		}, []string{"station"}),
		holdsCompletedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "holds_completed_total",
			Help:        "Total number of holds converted to bookings",
			ConstLabels: constLabels,
		}, []string{"payment_method"}),
		holdsCancelledTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "holds_cancelled_total",
			Help:        "Total number of holds cancelled",
			ConstLabels: constLabels,
		}, []string{"reason"}),
	}
}

// ObserveHTTPRequest фиксирует завершённый HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует выполненный запрос к базе данных
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.dbQueriesTotal.WithLabelValues(operation, status).Inc()
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetDBPoolStats обновляет gauges состояния connection pool
func (m *Metrics) SetDBPoolStats(db string, open, inUse, idle int) {
	m.dbPoolOpen.WithLabelValues(db).Set(float64(open))
	m.dbPoolInUse.WithLabelValues(db).Set(float64(inUse))
	m.dbPoolIdle.WithLabelValues(db).Set(float64(idle))
}

// IncSweeperTick фиксирует завершённый tick sweeper'а ("ok" / "error")
func (m *Metrics) IncSweeperTick(result string) {
	m.sweeperTicksTotal.WithLabelValues(result).Inc()
}

// IncHoldExpired фиксирует перевод hold в EXPIRED ("signing" / "payment")
func (m *Metrics) IncHoldExpired(phase string) {
	m.holdsExpiredTotal.WithLabelValues(phase).Inc()
}

// IncHoldWarning фиксирует отправленное предупреждение о дедлайне
func (m *Metrics) IncHoldWarning(phase string) {
	m.holdWarningsTotal.WithLabelValues(phase).Inc()
}

// IncSweeperError фиксирует ошибку обработки отдельного hold
func (m *Metrics) IncSweeperError(phase string) {
	m.sweeperErrorsTotal.WithLabelValues(phase).Inc()
}

// IncHoldCreated фиксирует созданный hold
func (m *Metrics) IncHoldCreated(station string) {
	m.holdsCreatedTotal.WithLabelValues(station).Inc()
}

// IncHoldCompleted фиксирует hold, конвертированный в бронирование
func (m *Metrics) IncHoldCompleted(paymentMethod string) {
	m.holdsCompletedTotal.WithLabelValues(paymentMethod).Inc()
}

// IncHoldCancelled фиксирует отменённый hold
func (m *Metrics) IncHoldCancelled(reason string) {
	m.holdsCancelledTotal.WithLabelValues(reason).Inc()
}
