package domain

import "time"

// TokenKind distinguishes the passwordless credential modalities.
type TokenKind string

const (
	TokenKindOTP       TokenKind = "OTP"
	TokenKindMagicLink TokenKind = "MAGIC_LINK"
)

// AuthToken is a single-use, time-limited credential issued to a user.
// At most one unused, unexpired token of a given kind is valid per user;
// issuing a new one invalidates all prior unused tokens of that kind.
type AuthToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Kind      TokenKind `json:"kind"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	IsUsed    bool      `json:"is_used"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired reports whether the token's expiry has passed at the given instant.
func (t *AuthToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// ProviderTokens holds the token set returned verbatim from the identity
// provider after a successful credentials or refresh exchange.
type ProviderTokens struct {
	AccessToken  string `json:"access_token"`
	IDToken      string `json:"id_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in"`
}
