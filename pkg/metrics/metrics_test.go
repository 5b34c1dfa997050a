package metrics

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestDBMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewDBMetrics(reg)
	m.ObserveQuery("query", "items", 250*time.Millisecond)
	m.IncError("query", "items")
	m.IncSlow("query", "")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "db_query_errors_total", "table", "items"); err != nil {
		t.Fatalf("fetch errors: %v", err)
	} else if got != 1 {
		t.Fatalf("expected errors=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "db_slow_queries_total", "table", "unknown"); err != nil {
		t.Fatalf("fetch slow: %v", err)
	} else if got != 1 {
		t.Fatalf("expected slow=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "db_query_duration_seconds", "operation", "query"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestValidationMetricsCountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewValidationMetrics(reg)
	m.Observe("item", true, 0)
	m.Observe("item", false, 3)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "validation_records_total", "outcome", "invalid"); err != nil {
		t.Fatalf("fetch outcomes: %v", err)
	} else if got != 1 {
		t.Fatalf("expected invalid=1, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "validation_field_errors_total", "kind", "item"); err != nil {
		t.Fatalf("fetch field errors: %v", err)
	} else if got != 3 {
		t.Fatalf("expected field errors=3, got %f", got)
	}
}

func TestHTTPMetricsObservesRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.ObserveRequest(http.MethodGet, "/api/v1/items", http.StatusOK, 10*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchHistogramSum(mfs, "http_request_duration_seconds", "route", "/api/v1/items"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var db *DBMetrics
	db.ObserveQuery("query", "items", time.Second)
	db.IncError("query", "items")
	db.IncSlow("query", "items")

	var v *ValidationMetrics
	v.Observe("item", false, 1)

	NewHTTPMetrics(nil).ObserveRequest(http.MethodGet, "/", http.StatusOK, time.Second)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
