/*
Package keyed provides a per-key token bucket limiter.

Each distinct key gets its own bucket, created lazily on first use, so
one limiter can rate limit many independent clients (API keys, remote
IPs) with the same rate and capacity. Idle buckets are evicted after a
configurable TTL to keep memory bounded.

Basic usage:

	limiter, err := keyed.New(5, 20) // 5 tokens/sec, capacity 20 per key
	if err != nil {
		// invalid configuration
	}

	acq, err := limiter.Acquire(clientIP, 1)
	if err != nil {
		// usage error
	}
	if !acq.OK() {
		// reject or backoff
	}

Idle eviction runs on a cron schedule:

	limiter.Start()       // sweeps on Config.SweepSchedule, "@every 1m" by default
	defer limiter.Stop()

or manually via Sweep for callers managing their own cadence.

Per-key admission semantics are exactly those of package bucket; see its
documentation for the replenishment and edge-case contract.
*/
package keyed
