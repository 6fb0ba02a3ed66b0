package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/contactfaris48-art/fms-backend/internal/domain"
	apperrors "github.com/contactfaris48-art/fms-backend/internal/errors"
	"github.com/contactfaris48-art/fms-backend/internal/oidc"
)

// AccessTokenVerifier validates a provider-issued access token.
type AccessTokenVerifier interface {
	VerifyAccessToken(ctx context.Context, raw string) (*oidc.AccessClaims, error)
}

// IdentityResolver maps a verified provider identity onto a local user,
// provisioning one when none exists yet.
type IdentityResolver interface {
	ResolveProviderIdentity(ctx context.Context, sub, email string) (*domain.User, error)
}

// BearerVerifier authenticates requests carrying an Authorization: Bearer
// header with a provider-issued access token.
type BearerVerifier struct {
	tokens     AccessTokenVerifier
	identities IdentityResolver
}

// NewBearerVerifier creates a bearer-token request verifier.
func NewBearerVerifier(tokens AccessTokenVerifier, identities IdentityResolver) *BearerVerifier {
	return &BearerVerifier{tokens: tokens, identities: identities}
}

// Verify validates the bearer token and resolves the local user behind it.
// All failures surface as a generic unauthorized error.
func (v *BearerVerifier) Verify(ctx context.Context, r *http.Request) (*domain.User, error) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return nil, apperrors.Unauthorized("no token provided")
	}

	raw := strings.TrimPrefix(header, "Bearer ")

	claims, err := v.tokens.VerifyAccessToken(ctx, raw)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}

	// Access tokens carry no email claim; the pool username is the email
	// for email-based sign-up.
	user, err := v.identities.ResolveProviderIdentity(ctx, claims.Sub, claims.Username)
	if err != nil {
		return nil, err
	}

	return user, nil
}
