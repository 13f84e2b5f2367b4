package bucket

import (
	"testing"
	"time"
)

// mustNew creates a new bucket or panics on error (for benchmarks only)
func mustNew(rate, capacity float64) *TokenBucket {
	tb, err := New(rate, capacity)
	if err != nil {
		panic(err)
	}
	return tb
}

// BenchmarkAcquire measures the performance of Acquire calls
func BenchmarkAcquire(b *testing.B) {
	tb := mustNew(1000000, 1000) // High rate so most acquisitions are admitted

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			tb.Acquire(1)
		}
	})
}

// BenchmarkAcquireDenied measures the denial path under an exhausted bucket
func BenchmarkAcquireDenied(b *testing.B) {
	tb := mustNew(0.001, 1)
	tb.Acquire(1) // drain the single token

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tb.Acquire(1)
	}
}

// BenchmarkTokens measures the performance of Tokens calls
func BenchmarkTokens(b *testing.B) {
	tb := mustNew(1000000, 1000)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			tb.Tokens()
		}
	})
}

// BenchmarkHighContention simulates many goroutines hammering one bucket
func BenchmarkHighContention(b *testing.B) {
	tb := mustNew(100, 10)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			tb.Acquire(1)
		}
	})
}

// BenchmarkTimeUpdate measures the cost of time-based token updates
func BenchmarkTimeUpdate(b *testing.B) {
	clock := &MockClock{now: time.Now()}
	tb, err := NewWithConfig(Config{
		Rate:     100,
		Capacity: 100,
		Clock:    clock,
	})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		clock.Advance(10 * time.Millisecond)
		tb.Acquire(1)
	}
}

// BenchmarkMemoryAllocation measures memory allocation patterns
func BenchmarkMemoryAllocation(b *testing.B) {
	b.ReportAllocs()

	tb := mustNew(1000, 100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tb.Acquire(1)
	}
}
