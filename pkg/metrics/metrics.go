// Package metrics provides Prometheus instrumentation for tokenbucket components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for tokenbucket components.
type Registry struct {
	// Acquisitions counts every Acquire call, admitted or not.
	Acquisitions *prometheus.CounterVec

	// Admitted counts acquisitions that were granted tokens.
	Admitted *prometheus.CounterVec

	// Denied counts acquisitions that were rate limited.
	Denied *prometheus.CounterVec

	// TokensAvailable tracks the current token balance per bucket.
	TokensAvailable *prometheus.GaugeVec

	// ObservedRate records the instantaneous call-spacing rate reported
	// by each acquisition, in calls per second.
	ObservedRate *prometheus.HistogramVec

	// KeyedBuckets tracks the number of live per-key buckets in a keyed limiter.
	KeyedBuckets *prometheus.GaugeVec

	// KeyedEvictions counts idle buckets removed by keyed limiter sweeps.
	KeyedEvictions *prometheus.CounterVec
}

// DefaultRegistry is the default metrics registry used by tokenbucket components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		Acquisitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tokenbucket",
				Subsystem: "ratelimit",
				Name:      "acquisitions_total",
				Help:      "Total number of token acquisition attempts",
			},
			[]string{"limiter_type", "limiter_name"},
		),

		Admitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tokenbucket",
				Subsystem: "ratelimit",
				Name:      "admitted_total",
				Help:      "Total number of admitted acquisitions",
			},
			[]string{"limiter_type", "limiter_name"},
		),

		Denied: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tokenbucket",
				Subsystem: "ratelimit",
				Name:      "denied_total",
				Help:      "Total number of denied acquisitions",
			},
			[]string{"limiter_type", "limiter_name"},
		),

		TokensAvailable: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "tokenbucket",
				Subsystem: "ratelimit",
				Name:      "tokens_available",
				Help:      "Number of tokens currently available",
			},
			[]string{"limiter_type", "limiter_name"},
		),

		ObservedRate: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "tokenbucket",
				Subsystem: "ratelimit",
				Name:      "observed_rate_per_second",
				Help:      "Instantaneous call rate implied by acquisition spacing",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 16),
			},
			[]string{"limiter_type", "limiter_name"},
		),

		KeyedBuckets: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "tokenbucket",
				Subsystem: "keyed",
				Name:      "buckets",
				Help:      "Number of live per-key buckets",
			},
			[]string{"limiter_name"},
		),

		KeyedEvictions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tokenbucket",
				Subsystem: "keyed",
				Name:      "evictions_total",
				Help:      "Total number of idle per-key buckets evicted",
			},
			[]string{"limiter_name"},
		),
	}
}
