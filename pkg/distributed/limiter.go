package distributed

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vnykmshr/tokenbucket/pkg/bucket"
)

// Limiter coordinates a single token bucket across multiple application
// instances using Redis as the shared backend. All instances draw from
// the same reservoir, so the configured rate bounds their combined
// throughput.
type Limiter interface {
	// Acquire attempts to take count tokens from the shared bucket.
	Acquire(ctx context.Context, count float64) (*Acquisition, error)

	// Stats returns current limiter statistics.
	Stats(ctx context.Context) (*Stats, error)

	// Reset clears the shared state (useful for testing).
	Reset(ctx context.Context) error

	// Close deregisters this instance and releases resources.
	Close() error
}

// Acquisition is the outcome of a distributed acquire. As with the
// local bucket, both admitted and denied outcomes carry the observed
// call-spacing rate of the shared bucket.
type Acquisition struct {
	Admitted     bool
	ObservedRate float64
	Tokens       float64
	InstanceID   string
}

// Stats holds distributed limiter statistics.
type Stats struct {
	Rate            float64
	Capacity        float64
	Tokens          float64
	LastUpdate      time.Time
	Acquisitions    int64
	Admitted        int64
	Denied          int64
	ActiveInstances []string
}

// Config holds configuration for the distributed limiter.
type Config struct {
	// Redis client for coordination
	Redis redis.UniversalClient

	// Key is the Redis key prefix for this limiter
	Key string

	// Rate is the number of tokens added per second
	Rate float64

	// Capacity is the maximum number of tokens the shared bucket holds
	Capacity float64

	// InstanceID uniquely identifies this application instance
	InstanceID string

	// FallbackToLocal enables local rate limiting if Redis is unavailable
	FallbackToLocal bool

	// Local is the bucket used when Redis is unavailable (if FallbackToLocal is set)
	Local *bucket.TokenBucket

	// RedisTimeout is the timeout for Redis operations
	RedisTimeout time.Duration

	// KeyTTL is how long Redis keys should live (defaults to 1 hour)
	KeyTTL time.Duration
}

// DefaultConfig returns a default distributed limiter configuration.
func DefaultConfig() Config {
	return Config{
		InstanceID:      generateInstanceID(),
		FallbackToLocal: true,
		RedisTimeout:    500 * time.Millisecond,
		KeyTTL:          time.Hour,
	}
}

// New creates a distributed token bucket limiter for the given configuration.
func New(config Config) (Limiter, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	config = applyConfigDefaults(config)
	return newRedisBucket(config)
}

func validateConfig(config Config) error {
	if config.Redis == nil {
		return &ConfigError{"redis client is required"}
	}
	if config.Key == "" {
		return &ConfigError{"key is required"}
	}
	if config.Rate <= 0 {
		return &ConfigError{"rate must be positive"}
	}
	if config.Capacity <= 0 {
		return &ConfigError{"capacity must be positive"}
	}
	if config.FallbackToLocal && config.Local == nil {
		return &ConfigError{"local bucket is required when FallbackToLocal is set"}
	}
	return nil
}

func applyConfigDefaults(config Config) Config {
	if config.InstanceID == "" {
		config.InstanceID = generateInstanceID()
	}
	if config.RedisTimeout == 0 {
		config.RedisTimeout = 500 * time.Millisecond
	}
	if config.KeyTTL == 0 {
		config.KeyTTL = time.Hour
	}
	return config
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return "distributed limiter config error: " + e.Message
}

// RedisError represents a Redis operation error.
type RedisError struct {
	Operation string
	Err       error
}

func (e *RedisError) Error() string {
	return "distributed limiter redis error in " + e.Operation + ": " + e.Err.Error()
}

func (e *RedisError) Unwrap() error {
	return e.Err
}
