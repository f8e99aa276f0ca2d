package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenManager generates and validates signed access/refresh token pairs.
type TokenManager interface {
	GeneratePair(userID uuid.UUID, email string) (TokenPair, error)
	ParseAccessToken(token string) (TokenPayload, error)
	ParseRefreshToken(token string) (RefreshPayload, error)
}

// TokenPair is issued per successful authentication. Both tokens share
// one JTI but are signed with distinct secrets and expire independently.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	// ExpiresIn is the number of seconds until the refresh token expires.
	ExpiresIn int64 `json:"expiresIn"`
}

// TokenPayload is the verified content of an access token.
type TokenPayload struct {
	UserID    uuid.UUID
	Email     string
	JTI       string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// RefreshPayload is the verified content of a refresh token.
type RefreshPayload struct {
	UserID    uuid.UUID
	JTI       string
	ExpiresAt time.Time
}
