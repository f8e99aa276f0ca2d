package model

import (
	"context"
	"time"
)

// RevocationStore is a durable blacklist of revoked token IDs.
// Add must be idempotent on duplicate JTIs.
type RevocationStore interface {
	Add(ctx context.Context, token RevokedToken) error
	Exists(ctx context.Context, jti string) (bool, error)
	// DeleteExpired removes entries whose token expiry has passed and
	// returns how many were removed. Backends with native TTL may
	// implement it as a no-op.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// RevokedToken marks a JTI as no longer valid regardless of the
// token's embedded expiry. ExpiresAt is copied from the token so the
// entry can be pruned once the token would have expired anyway.
type RevokedToken struct {
	JTI       string
	ExpiresAt time.Time
	CreatedAt time.Time
}
