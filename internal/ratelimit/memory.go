package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store with a mutex-guarded map. Suitable for
// single-instance deployments and tests.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	idleTTL time.Duration
	timeNow func() time.Time
}

type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// NewMemoryStore creates a MemoryStore. Buckets idle longer than
// idleTTL are removed by EvictIdle; a non-positive idleTTL defaults
// to ten minutes.
func NewMemoryStore(idleTTL time.Duration) *MemoryStore {
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	return &MemoryStore{
		buckets: make(map[string]*bucket),
		idleTTL: idleTTL,
		timeNow: time.Now,
	}
}

func (s *MemoryStore) Take(_ context.Context, key string, capacity float64, refillRate float64) (Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.timeNow()

	b, ok := s.buckets[key]
	if !ok {
		b = &bucket{tokens: capacity, lastRefill: now}
		s.buckets[key] = b
	} else {
		elapsed := now.Sub(b.lastRefill).Seconds()
		if elapsed > 0 {
			b.tokens += elapsed * refillRate
			if b.tokens > capacity {
				b.tokens = capacity
			}
		}
		b.lastRefill = now
	}

	if b.tokens >= 1 {
		b.tokens--
		return Decision{Allowed: true, Remaining: b.tokens}, nil
	}

	needed := 1 - b.tokens
	retryAfter := time.Duration(needed / refillRate * float64(time.Second))

	return Decision{Allowed: false, Remaining: b.tokens, RetryAfter: retryAfter}, nil
}

// EvictIdle removes buckets that have not been touched within the
// idle TTL and returns how many were removed. Run it periodically so
// key cardinality cannot grow without bound.
func (s *MemoryStore) EvictIdle(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	threshold := now.Add(-s.idleTTL)
	evicted := 0
	for key, b := range s.buckets {
		if b.lastRefill.Before(threshold) {
			delete(s.buckets, key)
			evicted++
		}
	}
	return evicted
}

// Len returns the number of tracked keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}
