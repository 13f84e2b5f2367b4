// Package metrics provides Prometheus instrumentation for tokenbucket components.
//
// # Overview
//
// The metrics package provides automatic instrumentation for:
//   - Token acquisitions (attempts, admissions, denials)
//   - Current token balance per bucket
//   - Observed call-spacing rates reported by acquisitions
//   - Keyed limiter bucket counts and idle evictions
//
// # Quick Start
//
// Enable metrics by using the metrics-enabled constructors:
//
//	limiter, err := bucket.NewWithMetrics(10, 20, "api_requests")
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":8080", nil))
//
// # Custom Registry
//
// Use a custom Prometheus registry for isolation:
//
//	registry := prometheus.NewRegistry()
//	config := metrics.Config{
//		Enabled:  true,
//		Registry: registry,
//	}
//
//	limiter, err := bucket.NewWithConfigAndMetrics(
//		bucket.Config{Rate: 5, Capacity: 10},
//		"custom_limiter",
//		config,
//	)
//
// # Available Metrics
//
//   - tokenbucket_ratelimit_acquisitions_total: Total acquisition attempts
//   - tokenbucket_ratelimit_admitted_total: Total admitted acquisitions
//   - tokenbucket_ratelimit_denied_total: Total denied acquisitions
//   - tokenbucket_ratelimit_tokens_available: Tokens currently available
//   - tokenbucket_ratelimit_observed_rate_per_second: Call rate implied by acquisition spacing
//   - tokenbucket_keyed_buckets: Number of live per-key buckets
//   - tokenbucket_keyed_evictions_total: Idle per-key buckets evicted
//
// # Labels
//
//   - limiter_type: "token_bucket" or "distributed"
//   - limiter_name: User-provided name for the limiter instance
//
// # Performance
//
// Metrics collection is designed for minimal overhead:
//   - Metrics are updated only when operations occur
//   - No background goroutines or timers
//   - Conditional metrics updates based on enabled state
package metrics
