/*
Package bucket provides a thread-safe token bucket rate limiter.

A token bucket models a reservoir that fills at a fixed rate up to a
maximum capacity and drains by the amount of each granted request. The
bucket starts full, so a fresh limiter admits an initial burst up to
its capacity before the sustained rate takes over.

Basic usage:

	tb, err := bucket.New(5.0, 100.0) // 5 tokens/sec, capacity 100
	if err != nil {
		// invalid configuration
	}

	acq, err := tb.Acquire(1.0)
	if err != nil {
		// usage error (negative count)
	}
	if acq.OK() {
		// proceed with the gated work
	} else {
		// rate limited; apply your own backoff or reject policy
	}

Every Acquire call, admitted or denied, reports the observed call rate
implied by the time gap since the previous call:

	fmt.Printf("calls arriving at %.1f/sec\n", acq.ObservedRate())

Acquisition Semantics:

Each Acquire is a single atomic state transition under the bucket's
internal mutex:

 1. Tokens owed for elapsed time are added, capped at capacity.
 2. The request is admitted if the balance covers the requested count.
 3. Tokens are deducted only on admission; replenishment and the
    bucket's timestamp are committed either way.

A denied acquisition is a normal outcome communicated through
Acquisition.OK, not an error. The bucket never blocks and prescribes no
waiting behavior; retries and backoff belong to the caller.

Edge Cases:

A clock reading earlier than the previous call (NTP adjustment) is
treated as zero elapsed time. Two calls in the same clock tick report
an observed rate of +Inf. Construction rejects non-positive or
non-finite rate and capacity; Acquire rejects negative counts.

Custom Clock:

The time source can be replaced for testing:

	tb, err := bucket.NewWithConfig(bucket.Config{
		Rate:     10,
		Capacity: 5,
		Clock:    mockClock,
	})

Thread Safety:

All operations are safe for concurrent use. At most one caller executes
the acquire state transition at a time.
*/
package bucket
