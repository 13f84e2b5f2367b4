/*
Package tokenbucket provides token bucket rate limiting for Go applications.

Rate Limiting:
  - bucket: thread-safe token bucket with burst capacity and a per-call
    observed-rate diagnostic
  - keyed: one bucket per key (API key, remote IP) with idle eviction
  - distributed: a shared bucket coordinated through Redis

Observability (pkg/metrics): Prometheus instrumentation for acquisition
outcomes, token balances, and observed call rates.

Example usage:

	import "github.com/vnykmshr/tokenbucket/pkg/bucket"

	tb, err := bucket.New(10, 20) // 10 tokens/sec, capacity 20
	if err != nil {
		log.Fatal(err)
	}

	acq, err := tb.Acquire(1)
	if err != nil {
		log.Fatal(err)
	}
	if acq.OK() {
		// proceed
	}
*/
package tokenbucket
