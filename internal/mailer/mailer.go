package mailer

import (
	"context"
	"time"
)

// Mailer delivers authentication emails to end users.
type Mailer interface {
	// SendOTPEmail delivers a one-time login code valid for the given duration.
	SendOTPEmail(ctx context.Context, to, code string, expiry time.Duration) error
	// SendMagicLinkEmail delivers a single-use login link valid for the given duration.
	SendMagicLinkEmail(ctx context.Context, to, link string, expiry time.Duration) error
}
