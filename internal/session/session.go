// Package session manages browser login sessions for the federated flow.
// A session is created before the redirect to hold the state and nonce, then
// enriched with the provider identity after the callback.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"
)

// Session is the server-side state behind an opaque session cookie.
type Session struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id,omitempty"`
	State     string         `json:"state,omitempty"`
	Nonce     string         `json:"nonce,omitempty"`
	UserInfo  map[string]any `json:"user_info,omitempty"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// Authenticated reports whether the callback has completed for this session.
func (s *Session) Authenticated() bool {
	return s.UserID != ""
}

// Store persists sessions keyed by their opaque ID.
// Get returns (nil, nil) when no session exists.
type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// GenerateID returns a 256-bit random session identifier.
func GenerateID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
