package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/scholarly/auth-server/internal/logger"
	"github.com/scholarly/auth-server/internal/model"
)

// TokenService provides high-level operations for issuing, verifying,
// refreshing and revoking token pairs. It composes the TokenManager
// and the RevocationStore.
type TokenService struct {
	manager      model.TokenManager
	store        model.RevocationStore
	checkTimeout time.Duration
	logger       *logger.Logger
}

const defaultCheckTimeout = 2 * time.Second

func NewTokenService(manager model.TokenManager, store model.RevocationStore, checkTimeout time.Duration, logger *logger.Logger) *TokenService {
	if checkTimeout <= 0 {
		checkTimeout = defaultCheckTimeout
	}
	return &TokenService{manager: manager, store: store, checkTimeout: checkTimeout, logger: logger}
}

// Issue generates a fresh token pair for the user. No revocation
// entry is written at issuance: a new token must verify on its first
// use.
func (s *TokenService) Issue(ctx context.Context, userID uuid.UUID, email string) (model.TokenPair, error) {
	pair, err := s.manager.GeneratePair(userID, email)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("issue pair: %w", err)
	}
	return pair, nil
}

// VerifyAccess validates an access token's signature and claims, then
// checks the blacklist. A blacklisted JTI fails with ErrTokenRevoked.
// If the blacklist cannot be consulted within the configured timeout
// the token is treated as unverifiable and rejected, never accepted.
func (s *TokenService) VerifyAccess(ctx context.Context, tokenString string) (model.TokenPayload, error) {
	payload, err := s.manager.ParseAccessToken(tokenString)
	if err != nil {
		return model.TokenPayload{}, err
	}

	if err := s.checkRevoked(ctx, payload.JTI); err != nil {
		return model.TokenPayload{}, err
	}

	return payload, nil
}

// VerifyRefresh validates a refresh token against the refresh secret
// with the same revocation semantics as VerifyAccess.
func (s *TokenService) VerifyRefresh(ctx context.Context, tokenString string) (model.RefreshPayload, error) {
	payload, err := s.manager.ParseRefreshToken(tokenString)
	if err != nil {
		return model.RefreshPayload{}, err
	}

	if err := s.checkRevoked(ctx, payload.JTI); err != nil {
		return model.RefreshPayload{}, err
	}

	return payload, nil
}

// Refresh exchanges a valid refresh token for a new pair, revoking
// the presented token's JTI. Rotation is the only place issuing a
// token revokes another, and it revokes the predecessor, not itself.
func (s *TokenService) Refresh(ctx context.Context, presentedRefresh string, email string) (model.TokenPair, error) {
	payload, err := s.VerifyRefresh(ctx, presentedRefresh)
	if err != nil {
		return model.TokenPair{}, err
	}

	if err := s.store.Add(ctx, model.RevokedToken{
		JTI:       payload.JTI,
		ExpiresAt: payload.ExpiresAt,
	}); err != nil {
		return model.TokenPair{}, fmt.Errorf("revoke old refresh: %w", err)
	}

	pair, err := s.manager.GeneratePair(payload.UserID, email)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("issue new pair: %w", err)
	}

	s.logger.Info("Token service: refresh token rotated",
		"user_id", payload.UserID,
		"revoked_jti", payload.JTI)

	return pair, nil
}

// Revoke blacklists the JTI carried by the presented refresh token.
// Since the access token of a pair shares the JTI, both die together.
func (s *TokenService) Revoke(ctx context.Context, presentedRefresh string) error {
	payload, err := s.manager.ParseRefreshToken(presentedRefresh)
	if err != nil {
		return err
	}

	if err := s.store.Add(ctx, model.RevokedToken{
		JTI:       payload.JTI,
		ExpiresAt: payload.ExpiresAt,
	}); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	s.logger.Info("Token service: token revoked", "jti", payload.JTI)

	return nil
}

// ReapExpired removes blacklist entries whose tokens have expired on
// their own.
func (s *TokenService) ReapExpired(ctx context.Context, now time.Time) (int64, error) {
	return s.store.DeleteExpired(ctx, now)
}

func (s *TokenService) checkRevoked(ctx context.Context, jti string) error {
	checkCtx, cancel := context.WithTimeout(ctx, s.checkTimeout)
	defer cancel()

	revoked, err := s.store.Exists(checkCtx, jti)
	if err != nil {
		s.logger.Error("Token service: revocation check failed",
			"jti", jti,
			"error", err.Error())
		return fmt.Errorf("check revocation for %s: %w", jti, model.ErrRevocationCheck)
	}
	if revoked {
		s.logger.Info("Token service: revoked token presented", "jti", jti)
		return model.ErrTokenRevoked
	}
	return nil
}
