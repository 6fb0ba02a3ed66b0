package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactfaris48-art/fms-backend/internal/domain"
	apperrors "github.com/contactfaris48-art/fms-backend/internal/errors"
	"github.com/contactfaris48-art/fms-backend/internal/session"
)

type fakeSessionStore struct {
	sessions map[string]*session.Session
	err      error
}

func (f *fakeSessionStore) Create(_ context.Context, s *session.Session) error {
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeSessionStore) Get(_ context.Context, id string) (*session.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sessions[id], nil
}

func (f *fakeSessionStore) Update(_ context.Context, s *session.Session) error {
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeSessionStore) Delete(_ context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

type fakeUserGetter struct {
	user *domain.User
	err  error
}

func (f *fakeUserGetter) GetByID(_ context.Context, _ string) (*domain.User, error) {
	return f.user, f.err
}

func sessionRequest(id string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/auth/oidc/status", nil)
	if id != "" {
		r.AddCookie(&http.Cookie{Name: session.CookieName, Value: id})
	}
	return r
}

func TestSessionVerifier_Success(t *testing.T) {
	store := &fakeSessionStore{sessions: map[string]*session.Session{
		"sess-1": {ID: "sess-1", UserID: "u-1234", ExpiresAt: time.Now().Add(time.Hour)},
	}}
	users := &fakeUserGetter{user: &domain.User{ID: "u-1234", IsActive: true}}

	v := NewSessionVerifier(store, users)

	user, err := v.Verify(context.Background(), sessionRequest("sess-1"))
	require.NoError(t, err)
	assert.Equal(t, "u-1234", user.ID)
}

func TestSessionVerifier_NoCookie(t *testing.T) {
	v := NewSessionVerifier(&fakeSessionStore{sessions: map[string]*session.Session{}}, &fakeUserGetter{})

	_, err := v.Verify(context.Background(), sessionRequest(""))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}

func TestSessionVerifier_UnknownSession(t *testing.T) {
	v := NewSessionVerifier(&fakeSessionStore{sessions: map[string]*session.Session{}}, &fakeUserGetter{})

	_, err := v.Verify(context.Background(), sessionRequest("missing"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}

func TestSessionVerifier_PendingLoginRejected(t *testing.T) {
	// A session created for the redirect but never completed carries no user.
	store := &fakeSessionStore{sessions: map[string]*session.Session{
		"sess-1": {ID: "sess-1", State: "state", Nonce: "nonce", ExpiresAt: time.Now().Add(time.Hour)},
	}}

	v := NewSessionVerifier(store, &fakeUserGetter{})

	_, err := v.Verify(context.Background(), sessionRequest("sess-1"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}

func TestSessionVerifier_InactiveUser(t *testing.T) {
	store := &fakeSessionStore{sessions: map[string]*session.Session{
		"sess-1": {ID: "sess-1", UserID: "u-1234", ExpiresAt: time.Now().Add(time.Hour)},
	}}
	users := &fakeUserGetter{user: &domain.User{ID: "u-1234", IsActive: false}}

	v := NewSessionVerifier(store, users)

	_, err := v.Verify(context.Background(), sessionRequest("sess-1"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}
