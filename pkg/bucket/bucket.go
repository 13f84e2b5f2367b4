package bucket

import (
	"math"
	"sync"
	"time"

	tberrors "github.com/vnykmshr/tokenbucket/pkg/common/errors"
)

// TokenBucket is a mutex-guarded token bucket. Tokens replenish
// continuously at the configured rate up to the configured capacity,
// and each admitted Acquire drains the requested amount. A denied
// Acquire is a normal outcome, not an error; callers apply their own
// backoff or reject policy.
type TokenBucket struct {
	mu       sync.Mutex
	rate     float64
	capacity float64
	tokens   float64
	last     time.Time
	clock    Clock
}

// Acquire attempts to take count tokens from the bucket.
//
// The call is a single atomic state transition: elapsed time since the
// previous call replenishes the bucket at the configured rate (capped
// at capacity), then the request is admitted only if the replenished
// balance covers count. Replenishment is committed and the bucket's
// timestamp advances whether or not the request is admitted; tokens are
// deducted only on admission.
//
// A clock that reports a time earlier than the previous call is treated
// as zero elapsed time rather than an error, so small backward jumps
// (NTP adjustments) degrade gracefully.
//
// A negative or NaN count is a usage error and leaves the bucket
// untouched. A zero count is trivially admitted.
func (tb *TokenBucket) Acquire(count float64) (Acquisition, error) {
	if count < 0 || math.IsNaN(count) {
		return Acquisition{}, tberrors.NewValidationError("bucket", "count", count, "cannot be negative").
			WithHint("request 0 or more tokens")
	}

	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.clock.Now()
	seconds := tb.replenish(now)

	observed := math.Inf(1)
	if seconds > 0 {
		observed = 1 / seconds
	}

	if tb.tokens >= count {
		tb.tokens -= count
		return Acquisition{ok: true, observedRate: observed}, nil
	}
	return Acquisition{ok: false, observedRate: observed}, nil
}

// Rate returns the configured refill rate in tokens per second.
func (tb *TokenBucket) Rate() float64 {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.rate
}

// Capacity returns the configured maximum number of tokens.
func (tb *TokenBucket) Capacity() float64 {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.capacity
}

// Tokens returns the number of tokens currently available, after
// applying any replenishment owed for elapsed time.
func (tb *TokenBucket) Tokens() float64 {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.replenish(tb.clock.Now())
	return tb.tokens
}

// replenish adds tokens for the time elapsed since the last update and
// advances the timestamp. It returns the elapsed time in seconds,
// clamped to zero if the clock moved backwards. Callers must hold tb.mu.
func (tb *TokenBucket) replenish(now time.Time) float64 {
	elapsed := now.Sub(tb.last)
	if elapsed < 0 {
		elapsed = 0
	}

	seconds := elapsed.Seconds()
	tb.tokens = math.Min(tb.capacity, tb.tokens+tb.rate*seconds)
	tb.last = now
	return seconds
}
