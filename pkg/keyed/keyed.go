package keyed

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/vnykmshr/tokenbucket/pkg/bucket"
	tberrors "github.com/vnykmshr/tokenbucket/pkg/common/errors"
	"github.com/vnykmshr/tokenbucket/pkg/common/validation"
	"github.com/vnykmshr/tokenbucket/pkg/metrics"
)

const (
	defaultIdleTTL       = 10 * time.Minute
	defaultSweepSchedule = "@every 1m"
)

// Config holds configuration options for creating a keyed Limiter.
type Config struct {
	// Rate is the refill rate, in tokens per second, of each per-key bucket.
	Rate float64

	// Capacity is the maximum number of tokens each per-key bucket holds.
	Capacity float64

	// Clock provides the current time. If nil, bucket.SystemClock is used.
	Clock bucket.Clock

	// IdleTTL is how long a key may go unseen before its bucket is
	// evicted by a sweep. Defaults to 10 minutes.
	IdleTTL time.Duration

	// SweepSchedule is the cron schedule for idle-bucket sweeps started
	// by Start. Defaults to "@every 1m".
	SweepSchedule string

	// Name identifies this limiter in metrics. Defaults to "keyed".
	Name string

	// Metrics, if non-nil, receives bucket counts and eviction totals.
	Metrics *metrics.Registry
}

type entry struct {
	bucket   *bucket.TokenBucket
	lastSeen time.Time
}

// Limiter maintains one token bucket per key, creating buckets on first
// use and evicting them after IdleTTL of inactivity. All per-key
// buckets share the same rate and capacity. Typical use is one key per
// client identity (API key, remote IP).
type Limiter struct {
	mu      sync.Mutex
	config  Config
	entries map[string]*entry

	cron    *cron.Cron
	started bool
}

// New creates a keyed limiter whose per-key buckets refill at rate
// tokens per second up to capacity.
func New(rate, capacity float64) (*Limiter, error) {
	return NewWithConfig(Config{Rate: rate, Capacity: capacity})
}

// NewWithConfig creates a keyed limiter from the given configuration.
func NewWithConfig(config Config) (*Limiter, error) {
	if err := validateParam("keyed", "rate", config.Rate); err != nil {
		return nil, err
	}
	if err := validateParam("keyed", "capacity", config.Capacity); err != nil {
		return nil, err
	}
	if config.Clock == nil {
		config.Clock = bucket.SystemClock{}
	}
	if config.IdleTTL <= 0 {
		config.IdleTTL = defaultIdleTTL
	}
	if config.SweepSchedule == "" {
		config.SweepSchedule = defaultSweepSchedule
	}
	if config.Name == "" {
		config.Name = "keyed"
	}

	return &Limiter{
		config:  config,
		entries: make(map[string]*entry),
	}, nil
}

func validateParam(module, field string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return tberrors.NewValidationError(module, field, value, "must be finite").
			WithHint("use a positive, finite value")
	}
	return validation.ValidatePositiveFloat(module, field, value)
}

// Acquire attempts to take count tokens from the bucket for key,
// creating the bucket on first use. The key must be non-empty; callers
// that cannot identify a client should decide their own policy rather
// than share the empty-key bucket.
func (l *Limiter) Acquire(key string, count float64) (bucket.Acquisition, error) {
	if err := validation.ValidateNotEmpty("keyed", "key", key); err != nil {
		return bucket.Acquisition{}, err
	}

	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		tb, err := bucket.NewWithConfig(bucket.Config{
			Rate:     l.config.Rate,
			Capacity: l.config.Capacity,
			Clock:    l.config.Clock,
		})
		if err != nil {
			l.mu.Unlock()
			return bucket.Acquisition{}, err
		}
		e = &entry{bucket: tb}
		l.entries[key] = e
	}
	e.lastSeen = l.config.Clock.Now()
	size := len(l.entries)
	l.mu.Unlock()

	if l.config.Metrics != nil {
		l.config.Metrics.KeyedBuckets.WithLabelValues(l.config.Name).Set(float64(size))
	}

	return e.bucket.Acquire(count)
}

// Len returns the number of live per-key buckets.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Sweep evicts buckets whose keys have not been seen for IdleTTL and
// returns the number evicted. Start schedules this automatically; it is
// exported for callers managing their own sweep cadence.
func (l *Limiter) Sweep() int {
	now := l.config.Clock.Now()

	l.mu.Lock()
	evicted := 0
	for key, e := range l.entries {
		if now.Sub(e.lastSeen) >= l.config.IdleTTL {
			delete(l.entries, key)
			evicted++
		}
	}
	size := len(l.entries)
	l.mu.Unlock()

	if l.config.Metrics != nil && evicted > 0 {
		l.config.Metrics.KeyedEvictions.WithLabelValues(l.config.Name).Add(float64(evicted))
		l.config.Metrics.KeyedBuckets.WithLabelValues(l.config.Name).Set(float64(size))
	}

	return evicted
}

// Start schedules periodic idle-bucket sweeps on SweepSchedule.
// Calling Start on a started limiter is a no-op.
func (l *Limiter) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.started {
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(l.config.SweepSchedule, func() { l.Sweep() }); err != nil {
		return tberrors.NewOperationError("keyed", "Start", err).
			WithContext("sweep schedule " + strconv.Quote(l.config.SweepSchedule))
	}
	c.Start()

	l.cron = c
	l.started = true
	return nil
}

// Stop halts scheduled sweeps. Buckets already held remain usable.
func (l *Limiter) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.started {
		return
	}
	l.cron.Stop()
	l.cron = nil
	l.started = false
}
