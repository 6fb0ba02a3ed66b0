package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/contactfaris48-art/fms-backend/internal/domain"
	apperrors "github.com/contactfaris48-art/fms-backend/internal/errors"
	"github.com/contactfaris48-art/fms-backend/internal/idp"
	"github.com/contactfaris48-art/fms-backend/internal/repository"
)

// AuthService implements registration and password login against the hosted
// identity provider. The provider owns credentials; the local users table
// mirrors identities for ownership and quota tracking.
type AuthService struct {
	users    repository.UserRepository
	provider idp.IdentityProvider
	producer EventPublisher
	logger   *slog.Logger
}

// NewAuthService creates the provider-backed auth service.
func NewAuthService(
	users repository.UserRepository,
	provider idp.IdentityProvider,
	producer EventPublisher,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		provider: provider,
		producer: producer,
		logger:   logger,
	}
}

// RegisterInput holds the parameters for registering a new user.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// LoginInput holds the parameters for password login.
type LoginInput struct {
	Email    string
	Password string
}

// RegisterResult is the outcome of a successful registration.
type RegisterResult struct {
	User *domain.User
	// Confirmed reports whether the account can log in without email verification.
	Confirmed bool
}

// Register signs the user up with the identity provider and mirrors the
// identity locally. The provider mails the verification code itself.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	if input.Email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if input.Password == "" {
		return nil, apperrors.InvalidInput("password is required")
	}
	if input.FirstName == "" {
		return nil, apperrors.InvalidInput("first name is required")
	}
	if input.LastName == "" {
		return nil, apperrors.InvalidInput("last name is required")
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.Conflict("user already exists")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	signUp, err := s.provider.SignUp(ctx, input.Email, input.Password, input.FirstName, input.LastName)
	if err != nil {
		switch {
		case errors.Is(err, idp.ErrUserExists):
			return nil, apperrors.Conflict("user already exists")
		case errors.Is(err, idp.ErrWeakPassword):
			return nil, apperrors.Unauthorized("password does not meet requirements")
		default:
			return nil, fmt.Errorf("provider sign-up: %w", err)
		}
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        input.Email,
		CognitoSub:   signUp.Sub,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		IsActive:     true,
		StorageQuota: domain.DefaultStorageQuota,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.producer.PublishUserRegistered(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.registered event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return &RegisterResult{User: user, Confirmed: signUp.Confirmed}, nil
}

// Login authenticates against the provider and returns its token set
// alongside the local user.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*domain.User, *domain.ProviderTokens, error) {
	if input.Email == "" {
		return nil, nil, apperrors.InvalidInput("email is required")
	}
	if input.Password == "" {
		return nil, nil, apperrors.InvalidInput("password is required")
	}

	auth, err := s.provider.Authenticate(ctx, input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, idp.ErrNotAuthorized), errors.Is(err, idp.ErrUserNotFound):
			return nil, nil, apperrors.Unauthorized("invalid credentials")
		case errors.Is(err, idp.ErrUserNotConfirmed):
			return nil, nil, apperrors.Unauthorized("please verify your email before logging in")
		default:
			return nil, nil, fmt.Errorf("provider login: %w", err)
		}
	}

	providerUser, err := s.provider.GetUser(ctx, auth.AccessToken)
	if err != nil {
		return nil, nil, fmt.Errorf("get provider user: %w", err)
	}

	user, err := s.resolveBySub(ctx, providerUser, input.Email)
	if err != nil {
		return nil, nil, err
	}

	if !user.IsActive {
		return nil, nil, apperrors.Unauthorized("user account is inactive")
	}

	tokens := &domain.ProviderTokens{
		AccessToken:  auth.AccessToken,
		IDToken:      auth.IDToken,
		RefreshToken: auth.RefreshToken,
		ExpiresIn:    auth.ExpiresIn,
	}

	if err := s.producer.PublishUserLoggedIn(ctx, user, "password"); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.logged_in event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, tokens, nil
}

// ConfirmSignUp completes the provider's email verification step.
func (s *AuthService) ConfirmSignUp(ctx context.Context, email, code string) error {
	if email == "" || code == "" {
		return apperrors.InvalidInput("email and code are required")
	}

	if err := s.provider.ConfirmSignUp(ctx, email, code); err != nil {
		switch {
		case errors.Is(err, idp.ErrCodeMismatch):
			return apperrors.Unauthorized("invalid verification code")
		case errors.Is(err, idp.ErrCodeExpired):
			return apperrors.Unauthorized("verification code has expired")
		default:
			return fmt.Errorf("confirm sign-up: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "email verified", slog.String("email", email))
	return nil
}

// RefreshToken exchanges a provider refresh token for fresh access and ID tokens.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*domain.ProviderTokens, error) {
	if refreshToken == "" {
		return nil, apperrors.InvalidInput("refresh token is required")
	}

	auth, err := s.provider.RefreshTokens(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, idp.ErrNotAuthorized) {
			return nil, apperrors.Unauthorized("invalid refresh token")
		}
		return nil, fmt.Errorf("refresh tokens: %w", err)
	}

	return &domain.ProviderTokens{
		AccessToken: auth.AccessToken,
		IDToken:     auth.IDToken,
		ExpiresIn:   auth.ExpiresIn,
	}, nil
}

// ResolveProviderIdentity maps a verified provider subject onto a local user.
// Unknown subjects are linked to an existing account by email, or provisioned
// fresh. Inactive accounts are rejected.
func (s *AuthService) ResolveProviderIdentity(ctx context.Context, sub, email string) (*domain.User, error) {
	if sub == "" {
		return nil, apperrors.Unauthorized("invalid token payload")
	}

	user, err := s.users.GetByCognitoSub(ctx, sub)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("get user by sub: %w", err)
		}
		user, err = s.linkOrProvision(ctx, sub, email)
		if err != nil {
			return nil, err
		}
	}

	if !user.IsActive {
		return nil, apperrors.Unauthorized("user account is inactive")
	}

	return user, nil
}

func (s *AuthService) resolveBySub(ctx context.Context, providerUser *idp.ProviderUser, email string) (*domain.User, error) {
	user, err := s.users.GetByCognitoSub(ctx, providerUser.Sub)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("get user by sub: %w", err)
	}

	firstName := providerUser.FirstName
	if firstName == "" {
		firstName = "User"
	}

	now := time.Now().UTC()
	user = &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		CognitoSub:   providerUser.Sub,
		FirstName:    firstName,
		LastName:     providerUser.LastName,
		IsActive:     true,
		StorageQuota: domain.DefaultStorageQuota,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return s.users.GetByEmail(ctx, email)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.producer.PublishUserProvisioned(ctx, user, "password"); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.provisioned event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	return user, nil
}

func (s *AuthService) linkOrProvision(ctx context.Context, sub, email string) (*domain.User, error) {
	if email != "" {
		user, err := s.users.GetByEmail(ctx, email)
		if err == nil {
			user.CognitoSub = sub
			if err := s.users.Update(ctx, user); err != nil {
				return nil, fmt.Errorf("link provider subject: %w", err)
			}
			s.logger.InfoContext(ctx, "provider subject linked to existing user",
				slog.String("user_id", user.ID),
			)
			return user, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("get user by email: %w", err)
		}
	}

	firstName, lastName := domain.NameFromEmail(email)
	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		CognitoSub:   sub,
		FirstName:    firstName,
		LastName:     lastName,
		IsActive:     true,
		StorageQuota: domain.DefaultStorageQuota,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.producer.PublishUserProvisioned(ctx, user, "bearer"); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.provisioned event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user provisioned from provider identity",
		slog.String("user_id", user.ID),
	)

	return user, nil
}
