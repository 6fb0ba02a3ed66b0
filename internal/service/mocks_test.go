package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"

	"github.com/contactfaris48-art/fms-backend/internal/domain"
	"github.com/contactfaris48-art/fms-backend/internal/idp"
	"github.com/contactfaris48-art/fms-backend/internal/oidc"
	"github.com/contactfaris48-art/fms-backend/internal/session"
	"github.com/contactfaris48-art/fms-backend/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// --- Mock User Repository ---

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByCognitoSub(ctx context.Context, sub string) (*domain.User, error) {
	args := m.Called(ctx, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) IncrementStorageUsed(ctx context.Context, id string, delta int64) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

// --- Mock Auth Token Repository ---

type mockAuthTokenRepository struct {
	mock.Mock
}

func (m *mockAuthTokenRepository) Create(ctx context.Context, t *domain.AuthToken) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockAuthTokenRepository) GetValid(ctx context.Context, userID string, kind domain.TokenKind, value string, now time.Time) (*domain.AuthToken, error) {
	args := m.Called(ctx, userID, kind, value, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthToken), args.Error(1)
}

func (m *mockAuthTokenRepository) GetValidByValue(ctx context.Context, kind domain.TokenKind, value string, now time.Time) (*domain.AuthToken, error) {
	args := m.Called(ctx, kind, value, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthToken), args.Error(1)
}

func (m *mockAuthTokenRepository) MarkUsed(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockAuthTokenRepository) InvalidateUnused(ctx context.Context, userID string, kind domain.TokenKind) (int64, error) {
	args := m.Called(ctx, userID, kind)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAuthTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock Mailer ---

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

// failingSESClient simulates an SES outage.
type failingSESClient struct{}

func (failingSESClient) SendEmail(context.Context, *ses.SendEmailInput, ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return nil, errors.New("ses unavailable")
}

// --- Mock File Repository ---

type mockFileRepository struct {
	mock.Mock
}

func (m *mockFileRepository) ListByOwner(ctx context.Context, ownerID string, folderID *string) ([]domain.File, error) {
	args := m.Called(ctx, ownerID, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.File), args.Error(1)
}

func (m *mockFileRepository) GetByID(ctx context.Context, id string) (*domain.File, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.File), args.Error(1)
}

// --- Mock Object Storage ---

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) Upload(ctx context.Context, input *storage.UploadInput) (*storage.UploadResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.UploadResult), args.Error(1)
}

func (m *mockStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *mockStorage) PresignedDownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}

// --- Mock Event Publisher ---

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

// --- Mock Identity Provider ---

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

// --- Mock Federated Provider ---

type mockFederatedProvider struct {
	mock.Mock
}

func (m *mockFederatedProvider) AuthCodeURL(state, nonce string) string {
	args := m.Called(state, nonce)
	return args.String(0)
}

func (m *mockFederatedProvider) Authenticate(ctx context.Context, code, nonce string) (*oidc.Identity, *oauth2.Token, error) {
	args := m.Called(ctx, code, nonce)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*oidc.Identity), args.Get(1).(*oauth2.Token), args.Error(2)
}

func (m *mockFederatedProvider) UserInfo(ctx context.Context, accessToken string) (map[string]any, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *mockFederatedProvider) LogoutURL() string {
	args := m.Called()
	return args.String(0)
}

// --- Mock Identity Resolver ---

type mockIdentityResolver struct {
	mock.Mock
}

func (m *mockIdentityResolver) ResolveProviderIdentity(ctx context.Context, sub, email string) (*domain.User, error) {
	args := m.Called(ctx, sub, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- In-memory Session Store ---

type memorySessionStore struct {
	sessions map[string]*session.Session
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[string]*session.Session)}
}

func (s *memorySessionStore) Create(_ context.Context, sess *session.Session) error {
	s.sessions[sess.ID] = sess
	return nil
}

func (s *memorySessionStore) Get(_ context.Context, id string) (*session.Session, error) {
	return s.sessions[id], nil
}

func (s *memorySessionStore) Update(_ context.Context, sess *session.Session) error {
	s.sessions[sess.ID] = sess
	return nil
}

func (s *memorySessionStore) Delete(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}
