// Package auth authenticates incoming HTTP requests. Two verifier
// implementations exist: bearer tokens issued by the identity provider for
// API clients, and cookie-bound sessions for the browser-based federated flow.
package auth

import (
	"context"
	"net/http"

	"github.com/contactfaris48-art/fms-backend/internal/domain"
)

// Verifier resolves the authenticated user behind a request.
type Verifier interface {
	Verify(ctx context.Context, r *http.Request) (*domain.User, error)
}

type contextKey struct{}

// NewContext returns a context carrying the authenticated user.
func NewContext(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

// FromContext returns the authenticated user, or nil when the request
// did not pass a verifier.
func FromContext(ctx context.Context) *domain.User {
	u, _ := ctx.Value(contextKey{}).(*domain.User)
	return u
}
