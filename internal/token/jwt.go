package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/scholarly/auth-server/internal/model"
)

// Claims represents JWT claims carried by both token types. Email is
// only populated on access tokens.
type Claims struct {
	jwt.RegisteredClaims
	Email     string `json:"email,omitempty"`
	TokenType string `json:"typ"`
}

// Config contains the signing parameters for a JWT manager.
type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Algorithm     string
	Issuer        string
	Audience      string
}

// JWT implements model.TokenManager backed by symmetric HMAC. Access
// and refresh tokens use distinct secrets but share issuer, audience
// and signing method.
type JWT struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	method        *jwt.SigningMethodHMAC
	issuer        string
	audience      string
}

const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

// NewJWT creates a new JWT token manager. It fails on a missing
// secret or an unsupported signing algorithm so misconfiguration is
// caught at startup, not per request.
func NewJWT(cfg Config) (*JWT, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("both access and refresh secrets are required")
	}

	var method *jwt.SigningMethodHMAC
	switch cfg.Algorithm {
	case "", "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.Algorithm)
	}

	accessTTL := cfg.AccessExpiry
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	refreshTTL := cfg.RefreshExpiry
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}

	return &JWT{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		method:        method,
		issuer:        cfg.Issuer,
		audience:      cfg.Audience,
	}, nil
}

// GeneratePair issues an access/refresh token pair sharing one fresh
// JTI. ExpiresIn is the number of seconds until the refresh token
// expires.
func (j *JWT) GeneratePair(userID uuid.UUID, email string) (model.TokenPair, error) {
	now := time.Now()
	jti := uuid.NewString()

	access := jwt.NewWithClaims(j.method, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID.String(),
			Issuer:    j.issuer,
			Audience:  jwt.ClaimStrings{j.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.accessTTL)),
		},
		Email:     email,
		TokenType: typeAccess,
	})

	accessString, err := access.SignedString(j.accessSecret)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshExpiry := now.Add(j.refreshTTL)
	refresh := jwt.NewWithClaims(j.method, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID.String(),
			Issuer:    j.issuer,
			Audience:  jwt.ClaimStrings{j.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(refreshExpiry),
		},
		TokenType: typeRefresh,
	})

	refreshString, err := refresh.SignedString(j.refreshSecret)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return model.TokenPair{
		AccessToken:  accessString,
		RefreshToken: refreshString,
		ExpiresIn:    int64(time.Until(refreshExpiry).Seconds()),
	}, nil
}

// ParseAccessToken validates an access token's signature, algorithm,
// issuer, audience and expiry and returns its payload.
func (j *JWT) ParseAccessToken(tokenString string) (model.TokenPayload, error) {
	claims, err := j.parse(tokenString, j.accessSecret, typeAccess)
	if err != nil {
		return model.TokenPayload{}, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.TokenPayload{}, model.ErrTokenInvalid
	}
	if claims.IssuedAt == nil {
		return model.TokenPayload{}, model.ErrTokenInvalid
	}

	return model.TokenPayload{
		UserID:    userID,
		Email:     claims.Email,
		JTI:       claims.ID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// ParseRefreshToken validates a refresh token against the refresh
// secret and returns the user ID and JTI it carries.
func (j *JWT) ParseRefreshToken(tokenString string) (model.RefreshPayload, error) {
	claims, err := j.parse(tokenString, j.refreshSecret, typeRefresh)
	if err != nil {
		return model.RefreshPayload{}, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.RefreshPayload{}, model.ErrTokenInvalid
	}

	return model.RefreshPayload{
		UserID:    userID,
		JTI:       claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (j *JWT) parse(tokenString string, secret []byte, tokenType string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{j.method.Alg()}),
		jwt.WithIssuer(j.issuer),
		jwt.WithAudience(j.audience),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, model.ErrTokenExpired
		}
		return nil, model.ErrTokenInvalid
	}
	if !parsed.Valid {
		return nil, model.ErrTokenInvalid
	}
	if claims.TokenType != tokenType {
		return nil, model.ErrTokenInvalid
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		return nil, model.ErrTokenInvalid
	}
	return claims, nil
}
