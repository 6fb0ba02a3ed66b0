package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESClient is the subset of the SES API the mailer needs.
type SESClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESMailer sends authentication emails through AWS SES. When the environment
// is "development" a delivery failure is downgraded to a log entry carrying
// the email content, so local setups work without verified SES identities.
type SESMailer struct {
	client      SESClient
	fromEmail   string
	development bool
	logger      *slog.Logger
}

// NewSESMailer creates a mailer backed by the given SES client.
func NewSESMailer(client SESClient, fromEmail, environment string, logger *slog.Logger) *SESMailer {
	return &SESMailer{
		client:      client,
		fromEmail:   fromEmail,
		development: environment == "development",
		logger:      logger,
	}
}

// SendOTPEmail delivers a one-time login code.
func (m *SESMailer) SendOTPEmail(ctx context.Context, to, code string, expiry time.Duration) error {
	minutes := int(expiry.Minutes())
	subject := "Your Login Code"

	htmlBody := fmt.Sprintf(otpHTMLTemplate, code, minutes)
	textBody := fmt.Sprintf(otpTextTemplate, code, minutes)

	return m.send(ctx, to, subject, htmlBody, textBody)
}

// SendMagicLinkEmail delivers a single-use login link.
func (m *SESMailer) SendMagicLinkEmail(ctx context.Context, to, link string, expiry time.Duration) error {
	hours := int(expiry.Hours())
	if hours < 1 {
		hours = 1
	}
	subject := "Your Magic Login Link"

	htmlBody := fmt.Sprintf(magicLinkHTMLTemplate, link, link, hours, plural(hours))
	textBody := fmt.Sprintf(magicLinkTextTemplate, link, hours, plural(hours))

	return m.send(ctx, to, subject, htmlBody, textBody)
}

func (m *SESMailer) send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	input := &ses.SendEmailInput{
		Source: aws.String(m.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data:    aws.String(htmlBody),
					Charset: aws.String("UTF-8"),
				},
				Text: &types.Content{
					Data:    aws.String(textBody),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	if _, err := m.client.SendEmail(ctx, input); err != nil {
		if m.development {
			m.logger.Warn("email delivery failed, logging content instead",
				slog.String("to", to),
				slog.String("subject", subject),
				slog.String("body", textBody),
				slog.String("error", err.Error()),
			)
			return nil
		}
		return fmt.Errorf("send email to %s: %w", to, err)
	}

	m.logger.Info("email sent", slog.String("to", to), slog.String("subject", subject))
	return nil
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}

const otpHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .code-box { background: #f4f4f4; padding: 20px; text-align: center; font-size: 32px; font-weight: bold; letter-spacing: 5px; margin: 30px 0; border-radius: 5px; }
    .footer { margin-top: 30px; padding-top: 20px; border-top: 1px solid #ddd; font-size: 12px; color: #666; }
  </style>
</head>
<body>
  <div class="container">
    <h2>Your Login Code</h2>
    <p>Use the following code to log in to your File Management System account:</p>
    <div class="code-box">%s</div>
    <p><strong>This code will expire in %d minutes.</strong></p>
    <p>If you didn't request this code, you can safely ignore this email.</p>
    <div class="footer">
      <p>This is an automated message from File Management System. Please do not reply to this email.</p>
    </div>
  </div>
</body>
</html>`

const otpTextTemplate = `Your Login Code

Use the following code to log in to your File Management System account:

%s

This code will expire in %d minutes.

If you didn't request this code, you can safely ignore this email.`

const magicLinkHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .button { display: inline-block; padding: 15px 30px; background-color: #007bff; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
    .link-box { background: #f4f4f4; padding: 15px; margin: 20px 0; word-break: break-all; border-radius: 5px; }
    .footer { margin-top: 30px; padding-top: 20px; border-top: 1px solid #ddd; font-size: 12px; color: #666; }
  </style>
</head>
<body>
  <div class="container">
    <h2>Your Magic Login Link</h2>
    <p>Click the button below to log in to your File Management System account:</p>
    <a href="%s" class="button">Log In Now</a>
    <p>Or copy and paste this link into your browser:</p>
    <div class="link-box">%s</div>
    <p><strong>This link will expire in %d hour%s.</strong></p>
    <p>If you didn't request this link, you can safely ignore this email.</p>
    <div class="footer">
      <p>This is an automated message from File Management System. Please do not reply to this email.</p>
      <p>For security reasons, never share this link with anyone.</p>
    </div>
  </div>
</body>
</html>`

const magicLinkTextTemplate = `Your Magic Login Link

Click the link below to log in to your File Management System account:

%s

This link will expire in %d hour%s.

If you didn't request this link, you can safely ignore this email.

For security reasons, never share this link with anyone.`
