// Package auth verifies bearer tokens against the hosted auth service and
// carries the resulting user through request contexts.
package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tradeflow/tradeflow/internal/platform/httpx"
)

// ErrUnauthorized is returned for missing, malformed or rejected tokens.
var ErrUnauthorized = fmt.Errorf("auth: %w", httpx.ErrUnauthorized)

// User is the authenticated caller as reported by the auth service.
type User struct {
	ID    uuid.UUID
	Email string
}

type userContextKey struct{}

// ContextWithUser stores the user in context.
func ContextWithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userContextKey{}, u)
}

// UserFromContext extracts the user stored by Middleware.
func UserFromContext(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(userContextKey{}).(User)
	return u, ok
}
