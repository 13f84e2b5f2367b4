// Package distributed provides distributed token bucket rate limiting
// using Redis as the coordination backend.
//
// This package enables rate limiting across multiple application
// instances, enforcing one global rate rather than per-instance limits.
// All instances draw from a single bucket held in Redis; the acquire
// state transition runs as a Lua script so it stays atomic, and its
// semantics mirror the local bucket package exactly (clamped elapsed
// time, replenish-always, deduct only on admission).
//
// # Quick Start
//
//	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//
//	config := distributed.DefaultConfig()
//	config.Redis = rdb
//	config.Key = "api_limiter"
//	config.Rate = 100.0  // 100 tokens per second, shared
//	config.Capacity = 200
//	config.FallbackToLocal = false
//
//	limiter, err := distributed.New(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer limiter.Close()
//
//	acq, err := limiter.Acquire(ctx, 1)
//	if err != nil {
//		// Redis unavailable and no fallback configured
//	}
//	if acq.Admitted {
//		// Process request
//	}
//
// # Fallback Strategy
//
// When Redis is unavailable, the limiter can degrade to a local bucket
// instead of failing:
//
//	local, _ := bucket.New(100, 200)
//
//	config.FallbackToLocal = true
//	config.Local = local
//
// Each instance then enforces the full rate on its own, so the combined
// throughput can temporarily exceed the global limit; this trades
// precision for availability.
//
// # Multiple Instances
//
// Instances sharing a Key share the bucket. Each registers its
// InstanceID (auto-generated if empty) so Stats can report the active
// set:
//
//	stats, _ := limiter.Stats(ctx)
//	fmt.Println(stats.ActiveInstances)
package distributed
