package ratelimit

import (
	"context"
	"errors"
)

// Limiter is a per-key token-bucket admission controller. Buckets
// start full, refill lazily at refillRate tokens per second capped at
// capacity, and each admitted request consumes one token. Rejected
// requests consume nothing. Keys never interact with each other.
//
// The bucket state lives in the injected Store, so one Limiter can be
// backed by process memory or by redis for multi-instance deployments.
type Limiter struct {
	store      Store
	capacity   float64
	refillRate float64
}

// NewLimiter creates a Limiter. Capacity is the burst size,
// refillRate the sustained tokens per second. Both are deployment
// constants, not per-request knobs.
func NewLimiter(store Store, capacity int, refillRate float64) (*Limiter, error) {
	if store == nil {
		return nil, errors.New("rate limiter store is required")
	}
	if capacity <= 0 {
		return nil, errors.New("capacity must be greater than 0")
	}
	if refillRate <= 0 {
		return nil, errors.New("refill rate must be greater than 0")
	}

	return &Limiter{
		store:      store,
		capacity:   float64(capacity),
		refillRate: refillRate,
	}, nil
}

// Allow reports whether a request for key is admitted, consuming one
// token when it is. A store error means the decision could not be
// made; callers decide how to degrade.
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	return l.store.Take(ctx, key, l.capacity, l.refillRate)
}

// Capacity returns the configured burst size.
func (l *Limiter) Capacity() int {
	return int(l.capacity)
}
