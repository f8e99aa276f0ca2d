package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/scholarly/auth-server/internal/model"
)

var _ model.RevocationStore = (*RevocationRepository)(nil)

type RevocationRepository struct {
	db *Connection
}

func NewRevocationRepository(db *Connection) *RevocationRepository {
	return &RevocationRepository{db: db}
}

// Add inserts a revocation entry. Duplicate JTIs are a no-op so
// concurrent revocations of the same token cannot fail each other.
func (r *RevocationRepository) Add(ctx context.Context, token model.RevokedToken) error {
	const query = `
        INSERT INTO revoked_tokens (jti, expires_at, created_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (jti) DO NOTHING
    `

	if _, err := r.db.Exec(ctx, query, token.JTI, token.ExpiresAt); err != nil {
		return fmt.Errorf("failed to add revocation entry: %w", err)
	}
	return nil
}

func (r *RevocationRepository) Exists(ctx context.Context, jti string) (bool, error) {
	const query = `SELECT 1 FROM revoked_tokens WHERE jti = $1`

	var one int
	err := r.db.QueryRow(ctx, query, jti).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check revocation entry: %w", err)
	}
	return true, nil
}

// DeleteExpired prunes entries whose token expiry has passed. Once a
// token is past its own expiry the signature check rejects it anyway,
// so the blacklist entry no longer earns its keep.
func (r *RevocationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM revoked_tokens WHERE expires_at < $1`

	tag, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired revocation entries: %w", err)
	}
	return tag.RowsAffected(), nil
}
