package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarly/auth-server/internal/model"
)

func testConfig() Config {
	return Config{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
		Algorithm:     "HS256",
		Issuer:        "auth-server",
		Audience:      "auth-server-users",
	}
}

func TestNewJWT_MissingSecret(t *testing.T) {
	cfg := testConfig()
	cfg.AccessSecret = ""
	_, err := NewJWT(cfg)
	require.Error(t, err)

	cfg = testConfig()
	cfg.RefreshSecret = ""
	_, err = NewJWT(cfg)
	require.Error(t, err)
}

func TestNewJWT_UnsupportedAlgorithm(t *testing.T) {
	cfg := testConfig()
	cfg.Algorithm = "RS256"
	_, err := NewJWT(cfg)
	require.Error(t, err)
}

func TestJWT_AccessToken_Roundtrip(t *testing.T) {
	j, err := NewJWT(testConfig())
	require.NoError(t, err)
	u := uuid.New()

	pair, err := j.GeneratePair(u, "alice@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.Greater(t, pair.ExpiresIn, int64(0))

	payload, err := j.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u, payload.UserID)
	assert.Equal(t, "alice@x.com", payload.Email)
	assert.NotEmpty(t, payload.JTI)
	assert.True(t, payload.ExpiresAt.After(time.Now()))
}

func TestJWT_RefreshToken_Roundtrip(t *testing.T) {
	j, err := NewJWT(testConfig())
	require.NoError(t, err)
	u := uuid.New()

	pair, err := j.GeneratePair(u, "alice@x.com")
	require.NoError(t, err)

	payload, err := j.ParseRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, u, payload.UserID)
	assert.NotEmpty(t, payload.JTI)
}

func TestJWT_PairSharesJTI(t *testing.T) {
	j, err := NewJWT(testConfig())
	require.NoError(t, err)

	pair, err := j.GeneratePair(uuid.New(), "a@x.com")
	require.NoError(t, err)

	access, err := j.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	refresh, err := j.ParseRefreshToken(pair.RefreshToken)
	require.NoError(t, err)

	assert.Equal(t, access.JTI, refresh.JTI)
}

func TestJWT_JTIUniquePerIssue(t *testing.T) {
	j, err := NewJWT(testConfig())
	require.NoError(t, err)
	u := uuid.New()

	first, err := j.GeneratePair(u, "a@x.com")
	require.NoError(t, err)
	second, err := j.GeneratePair(u, "a@x.com")
	require.NoError(t, err)

	p1, err := j.ParseAccessToken(first.AccessToken)
	require.NoError(t, err)
	p2, err := j.ParseAccessToken(second.AccessToken)
	require.NoError(t, err)

	assert.NotEqual(t, p1.JTI, p2.JTI)
}

func TestJWT_SecretsAreNotInterchangeable(t *testing.T) {
	j, err := NewJWT(testConfig())
	require.NoError(t, err)

	pair, err := j.GeneratePair(uuid.New(), "a@x.com")
	require.NoError(t, err)

	_, err = j.ParseAccessToken(pair.RefreshToken)
	require.ErrorIs(t, err, model.ErrTokenInvalid)

	_, err = j.ParseRefreshToken(pair.AccessToken)
	require.ErrorIs(t, err, model.ErrTokenInvalid)
}

func TestJWT_WrongSecretRejected(t *testing.T) {
	j1, err := NewJWT(testConfig())
	require.NoError(t, err)

	other := testConfig()
	other.AccessSecret = "different-secret"
	j2, err := NewJWT(other)
	require.NoError(t, err)

	pair, err := j1.GeneratePair(uuid.New(), "a@x.com")
	require.NoError(t, err)

	_, err = j2.ParseAccessToken(pair.AccessToken)
	require.ErrorIs(t, err, model.ErrTokenInvalid)
}

func TestJWT_IssuerMismatchRejected(t *testing.T) {
	j1, err := NewJWT(testConfig())
	require.NoError(t, err)

	other := testConfig()
	other.Issuer = "someone-else"
	j2, err := NewJWT(other)
	require.NoError(t, err)

	pair, err := j1.GeneratePair(uuid.New(), "a@x.com")
	require.NoError(t, err)

	_, err = j2.ParseAccessToken(pair.AccessToken)
	require.ErrorIs(t, err, model.ErrTokenInvalid)
}

func TestJWT_ExpiredTokenRejected(t *testing.T) {
	cfg := testConfig()
	j, err := NewJWT(cfg)
	require.NoError(t, err)

	// Hand-craft an access token that expired a minute ago.
	now := time.Now()
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   uuid.NewString(),
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
		},
		TokenType: "access",
	})
	tokenString, err := expired.SignedString([]byte(cfg.AccessSecret))
	require.NoError(t, err)

	_, err = j.ParseAccessToken(tokenString)
	require.ErrorIs(t, err, model.ErrTokenExpired)
}

func TestJWT_AlgorithmMismatchRejected(t *testing.T) {
	cfg := testConfig()
	j, err := NewJWT(cfg)
	require.NoError(t, err)

	now := time.Now()
	foreign := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   uuid.NewString(),
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		TokenType: "access",
	})
	tokenString, err := foreign.SignedString([]byte(cfg.AccessSecret))
	require.NoError(t, err)

	_, err = j.ParseAccessToken(tokenString)
	require.ErrorIs(t, err, model.ErrTokenInvalid)
}

func TestJWT_GarbageRejected(t *testing.T) {
	j, err := NewJWT(testConfig())
	require.NoError(t, err)

	_, err = j.ParseAccessToken("not-a-token")
	require.ErrorIs(t, err, model.ErrTokenInvalid)
}
