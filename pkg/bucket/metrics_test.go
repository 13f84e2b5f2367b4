package bucket

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/tokenbucket/pkg/metrics"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		var total float64
		for _, m := range mf.GetMetric() {
			if m.GetCounter() != nil {
				total += m.GetCounter().GetValue()
			}
		}
		return total
	}
	return 0
}

func TestMetricsBucketRecordsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	clock := &MockClock{now: time.Now()}

	mb, err := NewWithConfigAndMetrics(Config{
		Rate:     1,
		Capacity: 2,
		Clock:    clock,
	}, "test", metrics.Config{Enabled: true, Registry: reg})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Two admitted, one denied.
	for i := 0; i < 3; i++ {
		if _, err := mb.Acquire(1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := counterValue(t, reg, "tokenbucket_ratelimit_acquisitions_total"); got != 3 {
		t.Errorf("acquisitions = %v, want 3", got)
	}
	if got := counterValue(t, reg, "tokenbucket_ratelimit_admitted_total"); got != 2 {
		t.Errorf("admitted = %v, want 2", got)
	}
	if got := counterValue(t, reg, "tokenbucket_ratelimit_denied_total"); got != 1 {
		t.Errorf("denied = %v, want 1", got)
	}
}

func TestMetricsBucketDisabled(t *testing.T) {
	reg := prometheus.NewRegistry()
	mb, err := NewWithConfigAndMetrics(Config{
		Rate:     10,
		Capacity: 10,
	}, "disabled", metrics.Config{Enabled: false, Registry: reg})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mb.Acquire(1)

	if got := counterValue(t, reg, "tokenbucket_ratelimit_acquisitions_total"); got != 0 {
		t.Errorf("acquisitions = %v, want 0 with metrics disabled", got)
	}

	// Validation errors propagate through the decorator.
	if _, err := mb.Acquire(-1); err == nil {
		t.Error("expected error for negative count")
	}
}

var _ metrics.Instrumentable = (*MetricsBucket)(nil)
