package auth

import (
	"context"
	"net/http"

	"github.com/contactfaris48-art/fms-backend/internal/domain"
	apperrors "github.com/contactfaris48-art/fms-backend/internal/errors"
	"github.com/contactfaris48-art/fms-backend/internal/session"
)

// UserGetter loads a user by ID.
type UserGetter interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// SessionVerifier authenticates requests carrying a session cookie from the
// federated login flow.
type SessionVerifier struct {
	store session.Store
	users UserGetter
}

// NewSessionVerifier creates a session-cookie request verifier.
func NewSessionVerifier(store session.Store, users UserGetter) *SessionVerifier {
	return &SessionVerifier{store: store, users: users}
}

// Verify loads the session behind the request cookie and the user it
// belongs to. Sessions that never completed the callback are rejected.
func (v *SessionVerifier) Verify(ctx context.Context, r *http.Request) (*domain.User, error) {
	id := session.FromRequest(r)
	if id == "" {
		return nil, apperrors.Unauthorized("not authenticated")
	}

	sess, err := v.store.Get(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(err, "load session")
	}
	if sess == nil || !sess.Authenticated() {
		return nil, apperrors.Unauthorized("not authenticated")
	}

	user, err := v.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, apperrors.Unauthorized("not authenticated")
	}

	if !user.IsActive {
		return nil, apperrors.Unauthorized("user account is inactive")
	}

	return user, nil
}
