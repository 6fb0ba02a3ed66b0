package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/contactfaris48-art/fms-backend/internal/domain"
	apperrors "github.com/contactfaris48-art/fms-backend/internal/errors"
	"github.com/contactfaris48-art/fms-backend/internal/mailer"
	"github.com/contactfaris48-art/fms-backend/internal/repository"
	"github.com/contactfaris48-art/fms-backend/internal/token"
)

// otpExpiry is how long an issued login code stays valid.
const otpExpiry = 10 * time.Minute

// magicLinkExpiry is how long an issued magic link stays valid.
const magicLinkExpiry = time.Hour

// EventPublisher publishes the user lifecycle events the auth flows emit.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, user *domain.User) error
	PublishUserProvisioned(ctx context.Context, user *domain.User, origin string) error
	PublishUserLoggedIn(ctx context.Context, user *domain.User, method string) error
}

// PasswordlessService implements OTP and magic-link login over email.
type PasswordlessService struct {
	users       repository.UserRepository
	tokens      repository.AuthTokenRepository
	mailer      mailer.Mailer
	producer    EventPublisher
	logger      *slog.Logger
	frontendURL string

	// issueMu serializes token issuance per user and kind so two concurrent
	// send requests cannot both leave a valid token behind.
	mu      sync.Mutex
	issueMu map[string]*sync.Mutex
}

// NewPasswordlessService creates the passwordless login service. frontendURL
// is the base URL magic links point at.
func NewPasswordlessService(
	users repository.UserRepository,
	tokens repository.AuthTokenRepository,
	m mailer.Mailer,
	producer EventPublisher,
	frontendURL string,
	logger *slog.Logger,
) *PasswordlessService {
	return &PasswordlessService{
		users:       users,
		tokens:      tokens,
		mailer:      m,
		producer:    producer,
		logger:      logger,
		frontendURL: frontendURL,
		issueMu:     make(map[string]*sync.Mutex),
	}
}

func (s *PasswordlessService) issueLock(email string, kind domain.TokenKind) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := email + ":" + string(kind)
	l, ok := s.issueMu[key]
	if !ok {
		l = &sync.Mutex{}
		s.issueMu[key] = l
	}
	return l
}

// SendOTP issues a one-time login code for the email and delivers it.
// Unknown addresses get an account provisioned on the fly. Any previously
// issued unused codes are invalidated first.
func (s *PasswordlessService) SendOTP(ctx context.Context, email string) error {
	if email == "" {
		return apperrors.InvalidInput("email is required")
	}

	lock := s.issueLock(email, domain.TokenKindOTP)
	lock.Lock()
	defer lock.Unlock()

	user, err := s.findOrCreateUser(ctx, email)
	if err != nil {
		return err
	}

	if _, err := s.tokens.InvalidateUnused(ctx, user.ID, domain.TokenKindOTP); err != nil {
		return fmt.Errorf("invalidate previous codes: %w", err)
	}

	code, err := token.GenerateOTP()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	now := time.Now().UTC()
	authToken := &domain.AuthToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Kind:      domain.TokenKindOTP,
		Token:     code,
		ExpiresAt: now.Add(otpExpiry),
		CreatedAt: now,
	}

	if err := s.tokens.Create(ctx, authToken); err != nil {
		return fmt.Errorf("store code: %w", err)
	}

	// The mailer demotes delivery failure to a logged fallback in
	// development; anywhere else the code is unreachable without the email.
	if err := s.mailer.SendOTPEmail(ctx, email, code, otpExpiry); err != nil {
		return fmt.Errorf("deliver login code: %w", err)
	}

	s.logger.InfoContext(ctx, "login code issued",
		slog.String("user_id", user.ID),
	)

	return nil
}

// VerifyOTP validates a login code and returns the authenticated user along
// with an opaque session token. Failures are indistinguishable between an
// unknown email and a wrong code.
func (s *PasswordlessService) VerifyOTP(ctx context.Context, email, code string) (*domain.User, string, error) {
	if email == "" || code == "" {
		return nil, "", apperrors.InvalidInput("email and otp are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", apperrors.Unauthorized("invalid credentials")
		}
		return nil, "", fmt.Errorf("get user: %w", err)
	}

	authToken, err := s.tokens.GetValid(ctx, user.ID, domain.TokenKindOTP, code, time.Now().UTC())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", apperrors.Unauthorized("invalid or expired OTP")
		}
		return nil, "", fmt.Errorf("look up code: %w", err)
	}

	if err := s.tokens.MarkUsed(ctx, authToken.ID); err != nil {
		return nil, "", fmt.Errorf("consume code: %w", err)
	}

	if !user.IsActive {
		return nil, "", apperrors.Unauthorized("user account is inactive")
	}

	sessionToken, err := token.Generate()
	if err != nil {
		return nil, "", fmt.Errorf("generate session token: %w", err)
	}

	if err := s.producer.PublishUserLoggedIn(ctx, user, "otp"); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.logged_in event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user authenticated via login code",
		slog.String("user_id", user.ID),
	)

	return user, sessionToken, nil
}

// SendMagicLink issues a single-use login link for the email and delivers it.
func (s *PasswordlessService) SendMagicLink(ctx context.Context, email string) error {
	if email == "" {
		return apperrors.InvalidInput("email is required")
	}

	lock := s.issueLock(email, domain.TokenKindMagicLink)
	lock.Lock()
	defer lock.Unlock()

	user, err := s.findOrCreateUser(ctx, email)
	if err != nil {
		return err
	}

	if _, err := s.tokens.InvalidateUnused(ctx, user.ID, domain.TokenKindMagicLink); err != nil {
		return fmt.Errorf("invalidate previous links: %w", err)
	}

	value, err := token.Generate()
	if err != nil {
		return fmt.Errorf("generate link token: %w", err)
	}

	now := time.Now().UTC()
	authToken := &domain.AuthToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Kind:      domain.TokenKindMagicLink,
		Token:     value,
		ExpiresAt: now.Add(magicLinkExpiry),
		CreatedAt: now,
	}

	if err := s.tokens.Create(ctx, authToken); err != nil {
		return fmt.Errorf("store link token: %w", err)
	}

	link := fmt.Sprintf("%s/api/auth/passwordless/verify-magic-link?token=%s", s.frontendURL, value)

	if err := s.mailer.SendMagicLinkEmail(ctx, email, link, magicLinkExpiry); err != nil {
		return fmt.Errorf("deliver magic link: %w", err)
	}

	s.logger.InfoContext(ctx, "magic link issued",
		slog.String("user_id", user.ID),
	)

	return nil
}

// VerifyMagicLink validates a link token and returns the authenticated user
// along with an opaque session token.
func (s *PasswordlessService) VerifyMagicLink(ctx context.Context, value string) (*domain.User, string, error) {
	if value == "" {
		return nil, "", apperrors.InvalidInput("token is required")
	}

	authToken, err := s.tokens.GetValidByValue(ctx, domain.TokenKindMagicLink, value, time.Now().UTC())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", apperrors.Unauthorized("invalid or expired magic link")
		}
		return nil, "", fmt.Errorf("look up link token: %w", err)
	}

	if err := s.tokens.MarkUsed(ctx, authToken.ID); err != nil {
		return nil, "", fmt.Errorf("consume link token: %w", err)
	}

	user, err := s.users.GetByID(ctx, authToken.UserID)
	if err != nil {
		return nil, "", fmt.Errorf("get user: %w", err)
	}

	if !user.IsActive {
		return nil, "", apperrors.Unauthorized("user account is inactive")
	}

	sessionToken, err := token.Generate()
	if err != nil {
		return nil, "", fmt.Errorf("generate session token: %w", err)
	}

	if err := s.producer.PublishUserLoggedIn(ctx, user, "magic_link"); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.logged_in event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user authenticated via magic link",
		slog.String("user_id", user.ID),
	)

	return user, sessionToken, nil
}

// CleanupExpiredTokens removes all expired codes and links, used or not.
// Intended to be run periodically by an external scheduler.
func (s *PasswordlessService) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	n, err := s.tokens.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}

	if n > 0 {
		s.logger.InfoContext(ctx, "expired auth tokens removed",
			slog.Int64("count", n),
		)
	}

	return n, nil
}

// findOrCreateUser loads the user for the email, provisioning an account
// with a name derived from the address when none exists.
func (s *PasswordlessService) findOrCreateUser(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("get user: %w", err)
	}

	firstName, lastName := domain.NameFromEmail(email)
	now := time.Now().UTC()
	user = &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		IsActive:     true,
		StorageQuota: domain.DefaultStorageQuota,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent request may have provisioned the account already.
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return s.users.GetByEmail(ctx, email)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.producer.PublishUserProvisioned(ctx, user, "passwordless"); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.provisioned event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user provisioned for passwordless login",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}
