package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scholarly/auth-server/internal/apierrors"
	"github.com/scholarly/auth-server/internal/logger"
	"github.com/scholarly/auth-server/internal/model"
)

// CredentialHasher hashes, verifies and polices passwords.
type CredentialHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
	DummyVerify()
	Validate(password string) []string
}

// Auth orchestrates registration, login, logout and token refresh.
type Auth struct {
	userStore    model.UserStore
	hasher       CredentialHasher
	tokenService *TokenService
	logger       *logger.Logger
}

func NewAuth(
	userStore model.UserStore,
	hasher CredentialHasher,
	tokenService *TokenService,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		hasher:       hasher,
		tokenService: tokenService,
		logger:       logger,
	}
}

// Register validates the password, checks identifier uniqueness,
// hashes the password and persists the user. The returned view never
// contains the hash.
func (a *Auth) Register(ctx context.Context, params model.RegisterParams) (model.PublicUser, error) {
	email := normalizeEmail(params.Email)

	a.logger.Debug("Auth service: starting user registration", "email", email)

	if violations := a.hasher.Validate(params.Password); len(violations) > 0 {
		a.logger.Info("Auth service: password validation failed",
			"email", email,
			"violations", len(violations))
		return model.PublicUser{}, apierrors.NewErrWeakPassword(violations)
	}

	existing, err := a.userStore.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.PublicUser{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	if existing.ID != uuid.Nil {
		a.logger.Info("Auth service: user already exists", "email", email)
		return model.PublicUser{}, apierrors.NewErrEmailTaken(email)
	}

	hash, err := a.hasher.Hash(params.Password)
	if err != nil {
		a.logger.Error("Auth service: failed to hash password",
			"email", email,
			"error", err.Error())
		return model.PublicUser{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := model.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(params.Name),
		Email:        email,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	saved, err := a.userStore.Create(ctx, user)
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.PublicUser{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: user registered", "email", email, "user_id", saved.ID)

	return saved.Public(), nil
}

// Login verifies credentials and issues a token pair. A lookup miss
// burns a dummy hash comparison so it is not distinguishable from a
// wrong password by timing, and both failures return the same error.
func (a *Auth) Login(ctx context.Context, email, password string) (model.TokenPair, error) {
	email = normalizeEmail(email)

	a.logger.Debug("Auth service: starting user login", "email", email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		a.hasher.DummyVerify()
		a.logger.Info("Auth service: login for unknown user", "email", email)
		return model.TokenPair{}, apierrors.NewErrInvalidCredentials()
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.TokenPair{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if !user.Active {
		a.logger.Info("Auth service: login for deactivated account", "user_id", user.ID)
		return model.TokenPair{}, apierrors.NewErrAccountDeactivated()
	}

	if !a.hasher.Verify(password, user.PasswordHash) {
		a.logger.Info("Auth service: password mismatch", "user_id", user.ID)
		return model.TokenPair{}, apierrors.NewErrInvalidCredentials()
	}

	pair, err := a.tokenService.Issue(ctx, user.ID, user.Email)
	if err != nil {
		a.logger.Error("Auth service: failed to issue token pair",
			"user_id", user.ID,
			"error", err.Error())
		return model.TokenPair{}, fmt.Errorf("failed to issue token pair: %w", err)
	}

	// Best effort: a failed timestamp update must not fail the login.
	if err := a.userStore.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		a.logger.Error("Auth service: failed to update last login",
			"user_id", user.ID,
			"error", err.Error())
	}

	a.logger.Info("Auth service: user logged in", "user_id", user.ID)

	return pair, nil
}

// Logout revokes the presented refresh token.
func (a *Auth) Logout(ctx context.Context, refreshToken string) error {
	return a.tokenService.Revoke(ctx, refreshToken)
}

// Refresh rotates the presented refresh token into a new pair.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	payload, err := a.tokenService.VerifyRefresh(ctx, refreshToken)
	if err != nil {
		return model.TokenPair{}, err
	}

	user, err := a.userStore.GetByID(ctx, payload.UserID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.TokenPair{}, apierrors.NewErrInvalidToken()
		}
		return model.TokenPair{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	if !user.Active {
		return model.TokenPair{}, apierrors.NewErrAccountDeactivated()
	}

	return a.tokenService.Refresh(ctx, refreshToken, user.Email)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
