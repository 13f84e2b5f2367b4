package bucket_test

import (
	"fmt"
	"log"

	"github.com/vnykmshr/tokenbucket/pkg/bucket"
)

// Example demonstrates basic usage of the token bucket rate limiter
func Example() {
	// Create a bucket that refills 10 tokens per second with capacity 5
	tb, err := bucket.New(10, 5)
	if err != nil {
		log.Fatal(err)
	}

	acq, err := tb.Acquire(1)
	if err != nil {
		log.Fatal(err)
	}

	if acq.OK() {
		fmt.Println("Request admitted")
	} else {
		fmt.Println("Request denied")
	}

	// Output: Request admitted
}

// Example_burst demonstrates the initial burst and subsequent denial
func Example_burst() {
	// 1 token per second, capacity 3: admits a burst of 3, then denies
	tb, err := bucket.New(1, 3)
	if err != nil {
		log.Fatal(err)
	}

	for i := 1; i <= 4; i++ {
		acq, err := tb.Acquire(1)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Request %d admitted: %v\n", i, acq.OK())
	}

	// Output:
	// Request 1 admitted: true
	// Request 2 admitted: true
	// Request 3 admitted: true
	// Request 4 admitted: false
}

// Example_observedRate demonstrates the call-spacing diagnostic carried
// by every acquisition, admitted or denied
func Example_observedRate() {
	tb, err := bucket.New(1, 1)
	if err != nil {
		log.Fatal(err)
	}

	// Denied acquisitions still report how fast the bucket is being hit.
	acq, _ := tb.Acquire(5) // above capacity, always denied
	fmt.Printf("admitted: %v, diagnostic present: %v\n", acq.OK(), acq.ObservedRate() > 0)

	// Output: admitted: false, diagnostic present: true
}
