package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DBMetrics records query timings observed by the database client.
type DBMetrics struct {
	duration *prometheus.HistogramVec
	errors   *prometheus.CounterVec
	slow     *prometheus.CounterVec
}

// NewDBMetrics registers the database metrics on the provided registerer.
func NewDBMetrics(reg prometheus.Registerer) *DBMetrics {
	if reg == nil {
		return &DBMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
	errors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "db_query_errors_total",
		Help: "Database operations that returned an error.",
	}, []string{"operation", "table"})
	slow := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "db_slow_queries_total",
		Help: "Database operations slower than the configured threshold.",
	}, []string{"operation", "table"})
	reg.MustRegister(duration, errors, slow)
	return &DBMetrics{
		duration: duration,
		errors:   errors,
		slow:     slow,
	}
}

// ObserveQuery records the duration of one operation.
func (m *DBMetrics) ObserveQuery(operation, table string, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(operation), normalizeLabel(table)).Observe(d.Seconds())
}

// IncError counts a failed operation.
func (m *DBMetrics) IncError(operation, table string) {
	if m == nil || m.errors == nil {
		return
	}
	m.errors.WithLabelValues(normalizeLabel(operation), normalizeLabel(table)).Inc()
}

// IncSlow counts an operation over the slow threshold.
func (m *DBMetrics) IncSlow(operation, table string) {
	if m == nil || m.slow == nil {
		return
	}
	m.slow.WithLabelValues(normalizeLabel(operation), normalizeLabel(table)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
