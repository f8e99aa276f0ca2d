package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/scholarly/auth-server/internal/model"
)

var _ model.RevocationStore = (*RevocationStore)(nil)

// RevocationStore keeps the blacklist in redis. Each entry carries a
// TTL matching the token's own expiry, so pruning is handled by redis
// and DeleteExpired is a no-op.
type RevocationStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

func NewRevocationStore(client redis.UniversalClient, keyPrefix string) *RevocationStore {
	return &RevocationStore{client: client, keyPrefix: keyPrefix}
}

func (s *RevocationStore) key(jti string) string {
	return s.keyPrefix + "revoked:" + jti
}

func (s *RevocationStore) Add(ctx context.Context, token model.RevokedToken) error {
	ttl := time.Until(token.ExpiresAt)
	if ttl <= 0 {
		// Already past its own expiry; the signature check rejects it.
		return nil
	}

	// SETNX keeps the first writer's TTL on duplicate revocations.
	if err := s.client.SetNX(ctx, s.key(token.JTI), 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to add revocation entry: %w", err)
	}
	return nil
}

func (s *RevocationStore) Exists(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(jti)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, fmt.Errorf("failed to check revocation entry: %w", err)
	}
	return n > 0, nil
}

// DeleteExpired is a no-op: redis evicts entries via TTL.
func (s *RevocationStore) DeleteExpired(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}
