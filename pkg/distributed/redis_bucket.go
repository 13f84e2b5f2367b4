package distributed

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisBucket implements Limiter using a token bucket held in Redis.
type redisBucket struct {
	config Config
	keys   map[string]string

	// Lua script for the atomic acquire state transition
	acquireScript *redis.Script
}

// newRedisBucket creates and initializes a Redis-backed token bucket.
func newRedisBucket(config Config) (Limiter, error) {
	rb := &redisBucket{
		config:        config,
		keys:          redisKeys(config.Key),
		acquireScript: redis.NewScript(luaAcquire),
	}

	if err := rb.initialize(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to initialize token bucket: %w", err)
	}

	return rb, nil
}

// initialize sets up the initial state in Redis.
func (rb *redisBucket) initialize(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, rb.config.RedisTimeout)
	defer cancel()

	pipe := rb.config.Redis.Pipeline()

	// Bucket starts full; SetNX keeps state from a previous instance.
	pipe.SetNX(ctx, rb.keys["tokens"], rb.config.Capacity, rb.config.KeyTTL)
	pipe.SetNX(ctx, rb.keys["last"], timeToFloat(time.Now()), rb.config.KeyTTL)

	pipe.HSet(ctx, rb.keys["config"], map[string]interface{}{
		"rate":     rb.config.Rate,
		"capacity": rb.config.Capacity,
	})
	pipe.Expire(ctx, rb.keys["config"], rb.config.KeyTTL)

	// Register this instance
	pipe.SAdd(ctx, rb.keys["instances"], rb.config.InstanceID)
	pipe.Expire(ctx, rb.keys["instances"], rb.config.KeyTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return &RedisError{"initialize", err}
	}

	return nil
}

// Acquire attempts to take count tokens from the shared bucket.
func (rb *redisBucket) Acquire(ctx context.Context, count float64) (*Acquisition, error) {
	if count < 0 || math.IsNaN(count) {
		return nil, &ConfigError{"count cannot be negative"}
	}

	opCtx, cancel := context.WithTimeout(ctx, rb.config.RedisTimeout)
	defer cancel()

	now := time.Now()
	result, err := rb.acquireScript.Run(opCtx, rb.config.Redis, []string{
		rb.keys["tokens"],
		rb.keys["last"],
		rb.keys["stats"],
	},
		count,
		timeToFloat(now),
		rb.config.Rate,
		rb.config.Capacity,
		int(rb.config.KeyTTL.Seconds()),
	).Result()

	if err != nil {
		if rb.config.FallbackToLocal && rb.config.Local != nil {
			acq, lerr := rb.config.Local.Acquire(count)
			if lerr != nil {
				return nil, lerr
			}
			return &Acquisition{
				Admitted:     acq.OK(),
				ObservedRate: acq.ObservedRate(),
				Tokens:       rb.config.Local.Tokens(),
				InstanceID:   rb.config.InstanceID,
			}, nil
		}
		return nil, &RedisError{"acquire", err}
	}

	// Parse Lua script result: [allowed, tokens_after, observed_rate]
	resultSlice, ok := result.([]interface{})
	if !ok || len(resultSlice) != 3 {
		return nil, fmt.Errorf("invalid script result")
	}

	allowed, _ := resultSlice[0].(int64)
	tokensAfter, _ := resultSlice[1].(string)
	observedStr, _ := resultSlice[2].(string)

	tokens, _ := strconv.ParseFloat(tokensAfter, 64)
	observed, _ := strconv.ParseFloat(observedStr, 64)
	// The script reports -1 for two calls in the same clock tick.
	if observed < 0 {
		observed = math.Inf(1)
	}

	return &Acquisition{
		Admitted:     allowed == 1,
		ObservedRate: observed,
		Tokens:       tokens,
		InstanceID:   rb.config.InstanceID,
	}, nil
}

// Stats returns current limiter statistics.
func (rb *redisBucket) Stats(ctx context.Context) (*Stats, error) {
	ctx, cancel := context.WithTimeout(ctx, rb.config.RedisTimeout)
	defer cancel()

	pipe := rb.config.Redis.Pipeline()

	tokensCmd := pipe.Get(ctx, rb.keys["tokens"])
	lastCmd := pipe.Get(ctx, rb.keys["last"])
	configCmd := pipe.HGetAll(ctx, rb.keys["config"])
	instancesCmd := pipe.SMembers(ctx, rb.keys["instances"])
	statsCmd := pipe.HGetAll(ctx, rb.keys["stats"])

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, &RedisError{"stats", err}
	}

	tokens, _ := strconv.ParseFloat(tokensCmd.Val(), 64)
	last, _ := strconv.ParseFloat(lastCmd.Val(), 64)

	configMap := configCmd.Val()
	rate, _ := strconv.ParseFloat(configMap["rate"], 64)
	capacity, _ := strconv.ParseFloat(configMap["capacity"], 64)

	statsMap := statsCmd.Val()
	acquisitions, _ := strconv.ParseInt(statsMap["acquisitions"], 10, 64)
	admitted, _ := strconv.ParseInt(statsMap["admitted"], 10, 64)
	denied, _ := strconv.ParseInt(statsMap["denied"], 10, 64)

	return &Stats{
		Rate:            rate,
		Capacity:        capacity,
		Tokens:          tokens,
		LastUpdate:      floatToTime(last),
		Acquisitions:    acquisitions,
		Admitted:        admitted,
		Denied:          denied,
		ActiveInstances: instancesCmd.Val(),
	}, nil
}

// Reset clears the limiter state and reinitializes it.
func (rb *redisBucket) Reset(ctx context.Context) error {
	opCtx, cancel := context.WithTimeout(ctx, rb.config.RedisTimeout)
	defer cancel()

	keys := make([]string, 0, len(rb.keys))
	for _, key := range rb.keys {
		keys = append(keys, key)
	}

	if err := rb.config.Redis.Del(opCtx, keys...).Err(); err != nil {
		return &RedisError{"reset", err}
	}

	return rb.initialize(ctx)
}

// Close deregisters this instance.
func (rb *redisBucket) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), rb.config.RedisTimeout)
	defer cancel()

	return rb.config.Redis.SRem(ctx, rb.keys["instances"], rb.config.InstanceID).Err()
}

// luaAcquire performs the acquire state transition atomically: clamp
// elapsed time at zero, replenish up to capacity, admit if the balance
// covers the request, deduct only on admission, always advance the
// timestamp. Mirrors the local bucket's semantics exactly.
const luaAcquire = `
-- KEYS[1]: tokens key
-- KEYS[2]: last_update key
-- KEYS[3]: stats key
-- ARGV[1]: tokens requested
-- ARGV[2]: current time (seconds)
-- ARGV[3]: refill rate
-- ARGV[4]: capacity
-- ARGV[5]: key TTL (seconds)

local tokens_key = KEYS[1]
local last_key = KEYS[2]
local stats_key = KEYS[3]

local requested = tonumber(ARGV[1])
local now = tonumber(ARGV[2])
local rate = tonumber(ARGV[3])
local capacity = tonumber(ARGV[4])
local ttl = tonumber(ARGV[5])

local tokens = tonumber(redis.call('GET', tokens_key) or capacity)
local last = tonumber(redis.call('GET', last_key) or now)

local elapsed = math.max(0, now - last)
tokens = math.min(capacity, tokens + rate * elapsed)

local observed = -1
if elapsed > 0 then
    observed = 1 / elapsed
end

local allowed = 0
if tokens >= requested then
    tokens = tokens - requested
    allowed = 1
end

redis.call('SET', tokens_key, tostring(tokens), 'EX', ttl)
redis.call('SET', last_key, tostring(now), 'EX', ttl)

redis.call('HINCRBY', stats_key, 'acquisitions', 1)
if allowed == 1 then
    redis.call('HINCRBY', stats_key, 'admitted', 1)
else
    redis.call('HINCRBY', stats_key, 'denied', 1)
end
redis.call('EXPIRE', stats_key, ttl)

return {allowed, tostring(tokens), tostring(observed)}
`
