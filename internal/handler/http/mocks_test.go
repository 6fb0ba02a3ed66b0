package http

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"

	"github.com/contactfaris48-art/fms-backend/internal/domain"
	"github.com/contactfaris48-art/fms-backend/internal/idp"
	"github.com/contactfaris48-art/fms-backend/internal/oidc"
	"github.com/contactfaris48-art/fms-backend/internal/session"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func activeUser() *domain.User {
	now := time.Now().UTC()
	return &domain.User{
		ID:           "u-1234",
		Email:        "alice@example.com",
		FirstName:    "Alice",
		LastName:     "Smith",
		IsActive:     true,
		StorageQuota: domain.DefaultStorageQuota,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ============================================================================
// Mock Repositories
// ============================================================================

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByCognitoSub(ctx context.Context, sub string) (*domain.User, error) {
	args := m.Called(ctx, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) IncrementStorageUsed(ctx context.Context, id string, delta int64) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

type mockTokenRepo struct {
	mock.Mock
}

func (m *mockTokenRepo) Create(ctx context.Context, t *domain.AuthToken) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockTokenRepo) GetValid(ctx context.Context, userID string, kind domain.TokenKind, value string, now time.Time) (*domain.AuthToken, error) {
	args := m.Called(ctx, userID, kind, value, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthToken), args.Error(1)
}

func (m *mockTokenRepo) GetValidByValue(ctx context.Context, kind domain.TokenKind, value string, now time.Time) (*domain.AuthToken, error) {
	args := m.Called(ctx, kind, value, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthToken), args.Error(1)
}

func (m *mockTokenRepo) MarkUsed(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockTokenRepo) InvalidateUnused(ctx context.Context, userID string, kind domain.TokenKind) (int64, error) {
	args := m.Called(ctx, userID, kind)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// ============================================================================
// Mock Collaborators
// ============================================================================

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendOTPEmail(ctx context.Context, to, code string, expiry time.Duration) error {
	args := m.Called(ctx, to, code, expiry)
	return args.Error(0)
}

func (m *mockMailer) SendMagicLinkEmail(ctx context.Context, to, link string, expiry time.Duration) error {
	args := m.Called(ctx, to, link, expiry)
	return args.Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockPublisher) PublishUserProvisioned(ctx context.Context, user *domain.User, origin string) error {
	args := m.Called(ctx, user, origin)
	return args.Error(0)
}

func (m *mockPublisher) PublishUserLoggedIn(ctx context.Context, user *domain.User, method string) error {
	args := m.Called(ctx, user, method)
	return args.Error(0)
}

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) AuthCodeURL(state, nonce string) string {
	args := m.Called(state, nonce)
	return args.String(0)
}

func (m *mockProvider) Authenticate(ctx context.Context, code, nonce string) (*oidc.Identity, *oauth2.Token, error) {
	args := m.Called(ctx, code, nonce)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*oidc.Identity), args.Get(1).(*oauth2.Token), args.Error(2)
}

func (m *mockProvider) UserInfo(ctx context.Context, accessToken string) (map[string]any, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *mockProvider) LogoutURL() string {
	args := m.Called()
	return args.String(0)
}

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) ResolveProviderIdentity(ctx context.Context, sub, email string) (*domain.User, error) {
	args := m.Called(ctx, sub, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type mockIdentityProvider struct {
	mock.Mock
}

func (m *mockIdentityProvider) SignUp(ctx context.Context, email, password, firstName, lastName string) (*idp.SignUpResult, error) {
	args := m.Called(ctx, email, password, firstName, lastName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*idp.SignUpResult), args.Error(1)
}

func (m *mockIdentityProvider) Authenticate(ctx context.Context, email, password string) (*idp.AuthResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*idp.AuthResult), args.Error(1)
}

func (m *mockIdentityProvider) ConfirmSignUp(ctx context.Context, email, code string) error {
	args := m.Called(ctx, email, code)
	return args.Error(0)
}

func (m *mockIdentityProvider) RefreshTokens(ctx context.Context, refreshToken string) (*idp.AuthResult, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*idp.AuthResult), args.Error(1)
}

func (m *mockIdentityProvider) GetUser(ctx context.Context, accessToken string) (*idp.ProviderUser, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*idp.ProviderUser), args.Error(1)
}

// ============================================================================
// In-memory Session Store
// ============================================================================

type memoryStore struct {
	sessions map[string]*session.Session
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: make(map[string]*session.Session)}
}

func (s *memoryStore) Create(_ context.Context, sess *session.Session) error {
	s.sessions[sess.ID] = sess
	return nil
}

func (s *memoryStore) Get(_ context.Context, id string) (*session.Session, error) {
	return s.sessions[id], nil
}

func (s *memoryStore) Update(_ context.Context, sess *session.Session) error {
	s.sessions[sess.ID] = sess
	return nil
}

func (s *memoryStore) Delete(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}
