package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/scholarly/auth-server/internal/apierrors"
	"github.com/scholarly/auth-server/internal/logger"
	"github.com/scholarly/auth-server/internal/model"
)

// TokenVerifier validates access tokens against signature, expiry and
// the revocation blacklist.
type TokenVerifier interface {
	VerifyAccess(ctx context.Context, token string) (model.TokenPayload, error)
}

// Authenticate validates bearer tokens and injects the principal into
// the request context.
type Authenticate struct {
	verifier       TokenVerifier
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(verifier TokenVerifier, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{verifier: verifier, contextManager: contextManager, logger: logger}
}

// Handle parses the Authorization header, verifies the access token
// and passes the request on with the principal set in context.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			writeError(w, apierrors.NewErrMissingToken())
			return
		}

		payload, err := m.verifier.VerifyAccess(r.Context(), tokenString)
		if err != nil {
			m.logger.Info("Authenticate middleware: token rejected",
				"path", r.URL.Path,
				"error", err.Error())
			writeError(w, err)
			return
		}

		ctx := m.contextManager.SetPrincipalToContext(r.Context(), model.Principal{
			UserID: payload.UserID,
			Email:  payload.Email,
			JTI:    payload.JTI,
		})

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from an Authorization header value.
// The scheme comparison is case-insensitive.
func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
