package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"

	"github.com/contactfaris48-art/fms-backend/internal/domain"
	apperrors "github.com/contactfaris48-art/fms-backend/internal/errors"
	"github.com/contactfaris48-art/fms-backend/internal/oidc"
	"github.com/contactfaris48-art/fms-backend/internal/session"
	"github.com/contactfaris48-art/fms-backend/internal/token"
)

// pendingSessionTTL bounds how long a login redirect stays completable.
const pendingSessionTTL = 15 * time.Minute

// authenticatedSessionTTL is the lifetime of a completed login session.
const authenticatedSessionTTL = 24 * time.Hour

// FederatedProvider is the OIDC surface the federated flow needs.
type FederatedProvider interface {
	AuthCodeURL(state, nonce string) string
	Authenticate(ctx context.Context, code, nonce string) (*oidc.Identity, *oauth2.Token, error)
	UserInfo(ctx context.Context, accessToken string) (map[string]any, error)
	LogoutURL() string
}

// ProviderIdentityResolver maps a verified provider identity onto a local user.
type ProviderIdentityResolver interface {
	ResolveProviderIdentity(ctx context.Context, sub, email string) (*domain.User, error)
}

// OIDCService drives the browser-based federated login flow against the
// provider's hosted UI.
type OIDCService struct {
	provider   FederatedProvider
	sessions   session.Store
	identities ProviderIdentityResolver
	producer   EventPublisher
	logger     *slog.Logger
}

// NewOIDCService creates the federated login service.
func NewOIDCService(
	provider FederatedProvider,
	sessions session.Store,
	identities ProviderIdentityResolver,
	producer EventPublisher,
	logger *slog.Logger,
) *OIDCService {
	return &OIDCService{
		provider:   provider,
		sessions:   sessions,
		identities: identities,
		producer:   producer,
		logger:     logger,
	}
}

// BeginLogin creates a pending session bound to fresh state and nonce values
// and returns it with the hosted login URL to redirect the browser to.
func (s *OIDCService) BeginLogin(ctx context.Context) (*session.Session, string, error) {
	id, err := session.GenerateID()
	if err != nil {
		return nil, "", err
	}

	state, err := token.Generate()
	if err != nil {
		return nil, "", fmt.Errorf("generate state: %w", err)
	}

	nonce, err := token.Generate()
	if err != nil {
		return nil, "", fmt.Errorf("generate nonce: %w", err)
	}

	sess := &session.Session{
		ID:        id,
		State:     state,
		Nonce:     nonce,
		ExpiresAt: time.Now().UTC().Add(pendingSessionTTL),
	}

	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, "", err
	}

	return sess, s.provider.AuthCodeURL(state, nonce), nil
}

// CompleteLogin handles the provider callback: it checks the state against
// the pending session, exchanges the code, resolves the local user and
// rotates the session into an authenticated one.
func (s *OIDCService) CompleteLogin(ctx context.Context, sessionID, state, code string) (*session.Session, error) {
	if sessionID == "" || state == "" || code == "" {
		return nil, apperrors.Unauthorized("login flow incomplete")
	}

	pending, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load pending session: %w", err)
	}
	if pending == nil || pending.State == "" {
		return nil, apperrors.Unauthorized("no pending login")
	}
	if pending.State != state {
		return nil, apperrors.Unauthorized("state mismatch")
	}

	identity, tokens, err := s.provider.Authenticate(ctx, code, pending.Nonce)
	if err != nil {
		s.logger.ErrorContext(ctx, "federated login failed",
			slog.String("error", err.Error()),
		)
		return nil, apperrors.Unauthorized("authentication failed")
	}

	userInfo, err := s.provider.UserInfo(ctx, tokens.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}

	user, err := s.identities.ResolveProviderIdentity(ctx, identity.Sub, identity.Email)
	if err != nil {
		return nil, err
	}

	// The session ID rotates on privilege change.
	newID, err := session.GenerateID()
	if err != nil {
		return nil, err
	}

	authenticated := &session.Session{
		ID:        newID,
		UserID:    user.ID,
		UserInfo:  userInfo,
		ExpiresAt: time.Now().UTC().Add(authenticatedSessionTTL),
	}

	if err := s.sessions.Create(ctx, authenticated); err != nil {
		return nil, err
	}

	if err := s.sessions.Delete(ctx, pending.ID); err != nil {
		s.logger.WarnContext(ctx, "failed to delete pending session",
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishUserLoggedIn(ctx, user, "oidc"); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.logged_in event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user authenticated via federated login",
		slog.String("user_id", user.ID),
	)

	return authenticated, nil
}

// EstablishSession creates an authenticated session outside the federated
// flow, used after OTP or magic-link verification.
func (s *OIDCService) EstablishSession(ctx context.Context, user *domain.User) (*session.Session, error) {
	id, err := session.GenerateID()
	if err != nil {
		return nil, err
	}

	sess := &session.Session{
		ID:     id,
		UserID: user.ID,
		UserInfo: map[string]any{
			"email":       user.Email,
			"given_name":  user.FirstName,
			"family_name": user.LastName,
		},
		ExpiresAt: time.Now().UTC().Add(authenticatedSessionTTL),
	}

	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}

	return sess, nil
}

// Logout destroys the session and returns the hosted logout URL that also
// clears the provider-side session.
func (s *OIDCService) Logout(ctx context.Context, sessionID string) (string, error) {
	if sessionID != "" {
		if err := s.sessions.Delete(ctx, sessionID); err != nil {
			s.logger.ErrorContext(ctx, "failed to delete session",
				slog.String("error", err.Error()),
			)
		}
	}

	return s.provider.LogoutURL(), nil
}

// Status returns the session behind the ID, or nil when none exists.
func (s *OIDCService) Status(ctx context.Context, sessionID string) (*session.Session, error) {
	if sessionID == "" {
		return nil, nil
	}
	return s.sessions.Get(ctx, sessionID)
}
