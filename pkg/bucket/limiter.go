package bucket

import (
	"math"
	"time"

	tberrors "github.com/vnykmshr/tokenbucket/pkg/common/errors"
	"github.com/vnykmshr/tokenbucket/pkg/common/validation"
)

// Every converts a minimum time interval between events to a rate in
// tokens per second. A non-positive interval yields +Inf, which New
// rejects; callers wanting an unbounded rate should not use a bucket.
func Every(interval time.Duration) float64 {
	if interval <= 0 {
		return math.Inf(1)
	}
	return float64(time.Second) / float64(interval)
}

// Acquisition is the outcome of a single Acquire call. Both admitted
// and denied acquisitions carry the observed call rate, so callers can
// inspect how fast the bucket is being hit regardless of the decision.
type Acquisition struct {
	ok           bool
	observedRate float64
}

// OK reports whether the requested tokens were granted.
func (a Acquisition) OK() bool {
	return a.ok
}

// ObservedRate returns the instantaneous call rate implied by the time
// gap since the previous Acquire, in calls per second. This is a
// diagnostic of call spacing, not the configured refill rate. Two calls
// landing in the same clock tick yield +Inf.
func (a Acquisition) ObservedRate() float64 {
	return a.observedRate
}

// Clock provides the current time. It can be mocked for testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the system time.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Config holds configuration options for creating a new TokenBucket.
type Config struct {
	// Rate is the number of tokens added per second of elapsed time.
	Rate float64

	// Capacity is the maximum number of tokens the bucket can hold.
	// It bounds how many tokens can be consumed in a single burst.
	Capacity float64

	// Clock provides the current time. If nil, SystemClock is used.
	Clock Clock
}

// New creates a token bucket that refills at rate tokens per second up
// to capacity. The bucket starts full. Non-positive or non-finite rate
// and capacity are rejected with a validation error.
func New(rate, capacity float64) (*TokenBucket, error) {
	return NewWithConfig(Config{
		Rate:     rate,
		Capacity: capacity,
		Clock:    SystemClock{},
	})
}

// NewWithConfig creates a token bucket from the given configuration.
func NewWithConfig(config Config) (*TokenBucket, error) {
	if err := validateRate("bucket", "rate", config.Rate); err != nil {
		return nil, err
	}
	if err := validateRate("bucket", "capacity", config.Capacity); err != nil {
		return nil, err
	}
	if config.Clock == nil {
		config.Clock = SystemClock{}
	}

	return &TokenBucket{
		rate:     config.Rate,
		capacity: config.Capacity,
		tokens:   config.Capacity,
		last:     config.Clock.Now(),
		clock:    config.Clock,
	}, nil
}

func validateRate(module, field string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return tberrors.NewValidationError(module, field, value, "must be finite").
			WithHint("use a positive, finite value")
	}
	return validation.ValidatePositiveFloat(module, field, value)
}
