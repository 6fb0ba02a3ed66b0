package oidc

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func testConfig() Config {
	return Config{
		Region:      "us-east-1",
		UserPoolID:  "us-east-1_abc123",
		ClientID:    "client-id",
		Domain:      "myapp.auth.us-east-1.amazoncognito.com",
		RedirectURI: "https://app.example.com/api/auth/oidc/callback",
		LogoutURI:   "https://app.example.com/",
	}
}

func TestConfig_IssuerURL(t *testing.T) {
	cfg := testConfig()
	assert.Equal(t, "https://cognito-idp.us-east-1.amazonaws.com/us-east-1_abc123", cfg.IssuerURL())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		wantOK bool
	}{
		{"complete", func(c *Config) {}, true},
		{"missing region", func(c *Config) { c.Region = "" }, false},
		{"missing pool id", func(c *Config) { c.UserPoolID = "" }, false},
		{"missing client id", func(c *Config) { c.ClientID = "" }, false},
		{"missing domain", func(c *Config) { c.Domain = "" }, false},
		{"missing redirect uri", func(c *Config) { c.RedirectURI = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantOK {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestProvider_AuthCodeURL(t *testing.T) {
	cfg := testConfig()
	p := &Provider{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:    cfg.ClientID,
			RedirectURL: cfg.RedirectURI,
			Endpoint: oauth2.Endpoint{
				AuthURL: "https://" + cfg.Domain + "/oauth2/authorize",
			},
			Scopes: []string{"phone", "openid", "email"},
		},
	}

	raw := p.AuthCodeURL("state-abc", "nonce-xyz")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, cfg.Domain, u.Host)
	assert.Equal(t, "/oauth2/authorize", u.Path)

	q := u.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "state-abc", q.Get("state"))
	assert.Equal(t, "nonce-xyz", q.Get("nonce"))
	assert.Equal(t, "phone openid email", q.Get("scope"))
	assert.Equal(t, cfg.RedirectURI, q.Get("redirect_uri"))
}

func TestProvider_LogoutURL(t *testing.T) {
	p := &Provider{cfg: testConfig()}

	raw := p.LogoutURL()
	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "myapp.auth.us-east-1.amazoncognito.com", u.Host)
	assert.Equal(t, "/logout", u.Path)
	assert.Equal(t, "client-id", u.Query().Get("client_id"))
	assert.Equal(t, "https://app.example.com/", u.Query().Get("logout_uri"))
}

func TestValidateAccessClaims(t *testing.T) {
	valid := AccessClaims{Sub: "sub-123", TokenUse: "access", ClientID: "client-id"}

	t.Run("valid", func(t *testing.T) {
		claims := valid
		assert.NoError(t, validateAccessClaims(&claims, "client-id"))
	})

	t.Run("id token rejected", func(t *testing.T) {
		claims := valid
		claims.TokenUse = "id"
		assert.Error(t, validateAccessClaims(&claims, "client-id"))
	})

	t.Run("wrong client", func(t *testing.T) {
		claims := valid
		claims.ClientID = "other-client"
		assert.Error(t, validateAccessClaims(&claims, "client-id"))
	})

	t.Run("missing sub", func(t *testing.T) {
		claims := valid
		claims.Sub = ""
		assert.Error(t, validateAccessClaims(&claims, "client-id"))
	})
}
