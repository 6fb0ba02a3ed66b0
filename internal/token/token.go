// Package token generates the one-time credentials used by the passwordless
// flows: numeric OTP codes and opaque high-entropy tokens. Generation is
// stateless; expiry policy belongs to the caller.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
)

// otpRange spans the full 6-digit space: 100000 + [0, 900000).
var otpRange = big.NewInt(900000)

// GenerateOTP returns a 6-digit numeric code drawn uniformly from
// 100000-999999 using a cryptographically secure source.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpRange)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}

// Generate returns an opaque token with 256 bits of entropy, hex-encoded to
// 64 characters. Used for magic-link tokens and session handles.
func Generate() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
