// Package idp abstracts the hosted identity provider that owns user
// credentials. Passwords are never stored locally; registration and
// password login delegate to the provider and only the resulting
// identity is mirrored into the users table.
package idp

import (
	"context"
	"errors"
)

// Sentinel errors mapping provider failures to stable conditions the
// service layer can translate into API responses.
var (
	ErrUserExists       = errors.New("user already exists in identity provider")
	ErrWeakPassword     = errors.New("password does not meet requirements")
	ErrNotAuthorized    = errors.New("not authorized")
	ErrUserNotFound     = errors.New("user not found in identity provider")
	ErrUserNotConfirmed = errors.New("user email not confirmed")
	ErrCodeMismatch     = errors.New("invalid verification code")
	ErrCodeExpired      = errors.New("verification code has expired")
)

// SignUpResult is the outcome of a provider sign-up.
type SignUpResult struct {
	// Sub is the provider-assigned subject identifier for the new user.
	Sub string
	// Confirmed reports whether the account is usable without email verification.
	Confirmed bool
}

// AuthResult carries the provider-issued token set.
type AuthResult struct {
	AccessToken  string
	IDToken      string
	RefreshToken string
	ExpiresIn    int64
}

// ProviderUser is the provider's view of an authenticated user.
type ProviderUser struct {
	Sub       string
	Email     string
	FirstName string
	LastName  string
}

// IdentityProvider is the hosted credential store behind registration and
// password login.
type IdentityProvider interface {
	// SignUp registers a new user with the provider.
	SignUp(ctx context.Context, email, password, firstName, lastName string) (*SignUpResult, error)
	// Authenticate performs a password login and returns provider tokens.
	Authenticate(ctx context.Context, email, password string) (*AuthResult, error)
	// ConfirmSignUp completes email verification with the code the provider mailed.
	ConfirmSignUp(ctx context.Context, email, code string) error
	// RefreshTokens exchanges a refresh token for a fresh access/ID token pair.
	RefreshTokens(ctx context.Context, refreshToken string) (*AuthResult, error)
	// GetUser resolves the provider identity behind an access token.
	GetUser(ctx context.Context, accessToken string) (*ProviderUser, error)
}
