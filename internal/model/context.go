package model

import (
	"context"

	"github.com/google/uuid"
)

// Principal identifies the authenticated caller of a request.
type Principal struct {
	UserID uuid.UUID
	Email  string
	JTI    string
}

// ContextManager stores and retrieves the authenticated principal on
// a request context.
type ContextManager interface {
	SetPrincipalToContext(ctx context.Context, principal Principal) context.Context
	GetPrincipalFromContext(ctx context.Context) (Principal, bool)
}
