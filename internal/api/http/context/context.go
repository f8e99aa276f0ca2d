package context

import (
	"context"

	"github.com/scholarly/auth-server/internal/model"
)

type contextKey int

// principalKey is the context key under which the authenticated
// principal is stored.
const principalKey contextKey = iota

// Manager stores and retrieves the authenticated principal on a
// request context.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

var _ model.ContextManager = (*Manager)(nil)

// SetPrincipalToContext returns a child context carrying the principal.
func (m *Manager) SetPrincipalToContext(ctx context.Context, principal model.Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// GetPrincipalFromContext retrieves the principal set by
// SetPrincipalToContext. The boolean reports whether one was present.
func (m *Manager) GetPrincipalFromContext(ctx context.Context) (model.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(model.Principal)
	return principal, ok
}
