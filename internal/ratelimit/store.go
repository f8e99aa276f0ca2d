package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of one admission check.
type Decision struct {
	Allowed   bool
	Remaining float64
	// RetryAfter is a hint for rejected requests: the time until one
	// token becomes available. Zero when Allowed.
	RetryAfter time.Duration
}

// Store holds per-key bucket state and performs the atomic
// refill-and-consume sequence. Implementations must be safe for
// concurrent use: the refill and decrement for one key must not
// interleave with another caller's.
type Store interface {
	Take(ctx context.Context, key string, capacity float64, refillRate float64) (Decision, error)
}
