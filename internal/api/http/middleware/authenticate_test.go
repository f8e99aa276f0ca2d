package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpcontext "github.com/scholarly/auth-server/internal/api/http/context"
	servermocks "github.com/scholarly/auth-server/internal/mocks"
	"github.com/scholarly/auth-server/internal/model"
	"github.com/scholarly/auth-server/internal/testutil"
)

func TestAuthenticate_ValidToken(t *testing.T) {
	verifier := &servermocks.TokenVerifier{}
	contextManager := httpcontext.NewManager()
	m := NewAuthenticate(verifier, contextManager, testutil.MakeNoopLogger())

	userID := uuid.New()
	verifier.On("VerifyAccess", mock.Anything, "valid-token").
		Return(model.TokenPayload{UserID: userID, Email: "a@x.com", JTI: "jti-1"}, nil).Once()

	var gotPrincipal model.Principal
	var hadPrincipal bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPrincipal, hadPrincipal = contextManager.GetPrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()

	m.Handle(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, hadPrincipal)
	assert.Equal(t, userID, gotPrincipal.UserID)
	assert.Equal(t, "a@x.com", gotPrincipal.Email)
	assert.Equal(t, "jti-1", gotPrincipal.JTI)
}

func TestAuthenticate_LowercaseScheme(t *testing.T) {
	verifier := &servermocks.TokenVerifier{}
	m := NewAuthenticate(verifier, httpcontext.NewManager(), testutil.MakeNoopLogger())

	verifier.On("VerifyAccess", mock.Anything, "valid-token").
		Return(model.TokenPayload{UserID: uuid.New()}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "bearer valid-token")
	rec := httptest.NewRecorder()

	m.Handle(okHandler()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	verifier := &servermocks.TokenVerifier{}
	m := NewAuthenticate(verifier, httpcontext.NewManager(), testutil.MakeNoopLogger())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()

	m.Handle(okHandler()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing_token")
	verifier.AssertNotCalled(t, "VerifyAccess", mock.Anything, mock.Anything)
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "no scheme", header: "valid-token"},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz"},
		{name: "empty token", header: "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := &servermocks.TokenVerifier{}
			m := NewAuthenticate(verifier, httpcontext.NewManager(), testutil.MakeNoopLogger())

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", tt.header)
			rec := httptest.NewRecorder()

			m.Handle(okHandler()).ServeHTTP(rec, req)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			verifier.AssertNotCalled(t, "VerifyAccess", mock.Anything, mock.Anything)
		})
	}
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	verifier := &servermocks.TokenVerifier{}
	m := NewAuthenticate(verifier, httpcontext.NewManager(), testutil.MakeNoopLogger())

	verifier.On("VerifyAccess", mock.Anything, "expired").
		Return(model.TokenPayload{}, model.ErrTokenExpired).Once()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer expired")
	rec := httptest.NewRecorder()

	m.Handle(okHandler()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_token")
}

func TestAuthenticate_RevokedToken(t *testing.T) {
	verifier := &servermocks.TokenVerifier{}
	m := NewAuthenticate(verifier, httpcontext.NewManager(), testutil.MakeNoopLogger())

	verifier.On("VerifyAccess", mock.Anything, "revoked").
		Return(model.TokenPayload{}, model.ErrTokenRevoked).Once()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer revoked")
	rec := httptest.NewRecorder()

	m.Handle(okHandler()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "revoked_token")
}

func TestAuthenticate_RevocationCheckUnavailable(t *testing.T) {
	verifier := &servermocks.TokenVerifier{}
	m := NewAuthenticate(verifier, httpcontext.NewManager(), testutil.MakeNoopLogger())

	verifier.On("VerifyAccess", mock.Anything, "token").
		Return(model.TokenPayload{}, model.ErrRevocationCheck).Once()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()

	m.Handle(okHandler()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}
