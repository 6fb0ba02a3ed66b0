// Package oidc wraps OIDC discovery, the authorization-code flow and token
// verification against the hosted identity provider. Discovery runs once at
// startup; a failure there is fatal so the server never comes up with a
// broken login flow.
package oidc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// Config holds the Cognito user pool and hosted UI settings.
type Config struct {
	Region       string
	UserPoolID   string
	ClientID     string
	ClientSecret string
	// Domain is the hosted UI domain, e.g. myapp.auth.us-east-1.amazoncognito.com.
	Domain      string
	RedirectURI string
	LogoutURI   string
}

// IssuerURL returns the pool's OIDC issuer.
func (c Config) IssuerURL() string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", c.Region, c.UserPoolID)
}

// Validate reports the first missing required field.
func (c Config) Validate() error {
	switch {
	case c.Region == "":
		return errors.New("oidc: region is required")
	case c.UserPoolID == "":
		return errors.New("oidc: user pool id is required")
	case c.ClientID == "":
		return errors.New("oidc: client id is required")
	case c.Domain == "":
		return errors.New("oidc: hosted domain is required")
	case c.RedirectURI == "":
		return errors.New("oidc: redirect uri is required")
	default:
		return nil
	}
}

// Identity is the verified identity extracted from an id_token.
type Identity struct {
	Sub       string `json:"sub"`
	Email     string `json:"email"`
	FirstName string `json:"given_name"`
	LastName  string `json:"family_name"`
}

// AccessClaims are the claims checked on a provider-issued access token.
type AccessClaims struct {
	Sub      string `json:"sub"`
	TokenUse string `json:"token_use"`
	ClientID string `json:"client_id"`
	Username string `json:"username"`
	Scope    string `json:"scope"`
}

// Provider performs the authorization-code flow and verifies provider tokens.
type Provider struct {
	cfg            Config
	provider       *gooidc.Provider
	oauth          *oauth2.Config
	idVerifier     *gooidc.IDTokenVerifier
	accessVerifier *gooidc.IDTokenVerifier
}

// Discover fetches the issuer's OIDC metadata and builds the provider.
// The hosted UI domain overrides the discovered authorization endpoint so
// users land on the provider's login page rather than the bare issuer.
func Discover(ctx context.Context, cfg Config, logger *slog.Logger) (*Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	issuer := cfg.IssuerURL()
	logger.Info("discovering OIDC issuer", slog.String("issuer", issuer))

	prov, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery for %s: %w", issuer, err)
	}

	endpoint := prov.Endpoint()
	endpoint.AuthURL = fmt.Sprintf("https://%s/oauth2/authorize", cfg.Domain)

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Endpoint:     endpoint,
		Scopes:       []string{"phone", gooidc.ScopeOpenID, "email"},
	}

	return &Provider{
		cfg:        cfg,
		provider:   prov,
		oauth:      oauthCfg,
		idVerifier: prov.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
		// Cognito access tokens carry no aud claim, so the audience check is
		// skipped here and client_id is checked manually instead.
		accessVerifier: prov.Verifier(&gooidc.Config{SkipClientIDCheck: true}),
	}, nil
}

// AuthCodeURL builds the hosted login URL carrying the state and nonce.
func (p *Provider) AuthCodeURL(state, nonce string) string {
	return p.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("nonce", nonce))
}

// Exchange swaps an authorization code for the provider token set.
func (p *Provider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("authorization code exchange: %w", err)
	}
	return token, nil
}

// VerifyIDToken validates the id_token inside an exchanged token set and
// checks that its nonce matches the one bound to the login session.
func (p *Provider) VerifyIDToken(ctx context.Context, token *oauth2.Token, nonce string) (*gooidc.IDToken, error) {
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("token response missing id_token")
	}

	idToken, err := p.idVerifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("id_token verification: %w", err)
	}

	if idToken.Nonce != nonce {
		return nil, errors.New("id_token nonce mismatch")
	}

	return idToken, nil
}

// Authenticate completes the authorization-code flow: it exchanges the code,
// verifies the id_token against the session nonce and returns the identity
// inside it along with the full token set.
func (p *Provider) Authenticate(ctx context.Context, code, nonce string) (*Identity, *oauth2.Token, error) {
	token, err := p.Exchange(ctx, code)
	if err != nil {
		return nil, nil, err
	}

	idToken, err := p.VerifyIDToken(ctx, token, nonce)
	if err != nil {
		return nil, nil, err
	}

	var identity Identity
	if err := idToken.Claims(&identity); err != nil {
		return nil, nil, fmt.Errorf("decode id_token claims: %w", err)
	}

	if identity.Sub == "" {
		return nil, nil, errors.New("id_token missing sub claim")
	}

	return &identity, token, nil
}

// UserInfo fetches the userinfo document for an access token.
func (p *Provider) UserInfo(ctx context.Context, accessToken string) (map[string]any, error) {
	info, err := p.provider.UserInfo(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}

	claims := make(map[string]any)
	if err := info.Claims(&claims); err != nil {
		return nil, fmt.Errorf("decode userinfo claims: %w", err)
	}

	return claims, nil
}

// VerifyAccessToken validates a provider-issued access token against the
// pool's JWKS and checks the token_use and client_id claims.
func (p *Provider) VerifyAccessToken(ctx context.Context, raw string) (*AccessClaims, error) {
	token, err := p.accessVerifier.Verify(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("access token verification: %w", err)
	}

	var claims AccessClaims
	if err := token.Claims(&claims); err != nil {
		return nil, fmt.Errorf("decode access token claims: %w", err)
	}

	if err := validateAccessClaims(&claims, p.cfg.ClientID); err != nil {
		return nil, err
	}

	return &claims, nil
}

// LogoutURL builds the hosted UI logout URL that clears the provider session
// and redirects back to the application.
func (p *Provider) LogoutURL() string {
	params := url.Values{
		"client_id":  {p.cfg.ClientID},
		"logout_uri": {p.cfg.LogoutURI},
	}
	return fmt.Sprintf("https://%s/logout?%s", p.cfg.Domain, params.Encode())
}

func validateAccessClaims(claims *AccessClaims, clientID string) error {
	if claims.TokenUse != "access" {
		return fmt.Errorf("unexpected token_use %q", claims.TokenUse)
	}
	if claims.ClientID != clientID {
		return errors.New("access token issued for a different client")
	}
	if claims.Sub == "" {
		return errors.New("access token missing sub claim")
	}
	return nil
}
