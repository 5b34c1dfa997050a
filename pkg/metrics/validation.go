package metrics

import "github.com/prometheus/client_golang/prometheus"

// ValidationMetrics counts validation outcomes per record kind.
type ValidationMetrics struct {
	outcomes    *prometheus.CounterVec
	fieldErrors *prometheus.CounterVec
}

// NewValidationMetrics registers the validation metrics on the provided registerer.
func NewValidationMetrics(reg prometheus.Registerer) *ValidationMetrics {
	if reg == nil {
		return &ValidationMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "validation_records_total",
		Help: "Records run through the validation engine by kind and outcome.",
	}, []string{"kind", "outcome"})
	fieldErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "validation_field_errors_total",
		Help: "Field errors reported by the validation engine.",
	}, []string{"kind"})
	reg.MustRegister(outcomes, fieldErrors)
	return &ValidationMetrics{outcomes: outcomes, fieldErrors: fieldErrors}
}

// Observe records one validation result.
func (m *ValidationMetrics) Observe(kind string, valid bool, errorCount int) {
	if m == nil || m.outcomes == nil {
		return
	}
	outcome := "valid"
	if !valid {
		outcome = "invalid"
	}
	m.outcomes.WithLabelValues(normalizeLabel(kind), outcome).Inc()
	if errorCount > 0 {
		m.fieldErrors.WithLabelValues(normalizeLabel(kind)).Add(float64(errorCount))
	}
}
