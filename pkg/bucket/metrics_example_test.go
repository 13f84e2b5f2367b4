package bucket

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/tokenbucket/pkg/metrics"
)

// Example_metricsBasic demonstrates metrics collection for the token bucket.
func Example_metricsBasic() {
	// Use a separate registry to avoid conflicts
	customRegistry := prometheus.NewRegistry()
	metricsConfig := metrics.Config{
		Enabled:  true,
		Registry: customRegistry,
	}

	// 5 tokens per second, capacity 3
	mb, err := NewWithConfigAndMetrics(Config{
		Rate:     5,
		Capacity: 3,
	}, "api_requests", metricsConfig)
	if err != nil {
		panic(err)
	}

	for i := 1; i <= 5; i++ {
		acq, err := mb.Acquire(1)
		if err != nil {
			panic(err)
		}
		if acq.OK() {
			fmt.Printf("Request %d: admitted\n", i)
		} else {
			fmt.Printf("Request %d: denied\n", i)
		}
	}

	fmt.Printf("Metrics enabled: %v\n", mb.MetricsEnabled())

	// Output:
	// Request 1: admitted
	// Request 2: admitted
	// Request 3: admitted
	// Request 4: denied
	// Request 5: denied
	// Metrics enabled: true
}

// Example_metricsLifecycle demonstrates runtime enable/disable of metrics.
func Example_metricsLifecycle() {
	registry := prometheus.NewRegistry()
	mb, err := NewWithConfigAndMetrics(Config{
		Rate:     10,
		Capacity: 10,
	}, "lifecycle", metrics.Config{Enabled: true, Registry: registry})
	if err != nil {
		panic(err)
	}

	mb.DisableMetrics()
	fmt.Printf("After disable: %v\n", mb.MetricsEnabled())

	mb.EnableMetrics(metrics.Config{Enabled: true, Registry: prometheus.NewRegistry()})
	fmt.Printf("After enable: %v\n", mb.MetricsEnabled())

	// Output:
	// After disable: false
	// After enable: true
}
