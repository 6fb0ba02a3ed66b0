package domain

import (
	"strings"
	"time"
)

// DefaultStorageQuota is the per-user storage allowance in bytes (10 GiB).
const DefaultStorageQuota int64 = 10 << 30

// User represents an identity in the system. Credentials are managed by the
// hosted identity provider; PasswordHash stays empty for provider-managed and
// passwordless-only identities.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	CognitoSub   string    `json:"cognito_sub,omitempty"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsActive     bool      `json:"is_active"`
	StorageUsed  int64     `json:"storage_used"`
	StorageQuota int64     `json:"storage_quota"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NameFromEmail derives a first/last name pair from the local part of an
// email address, splitting on dots: "jane.doe@x.com" -> ("jane", "doe").
func NameFromEmail(email string) (firstName, lastName string) {
	local, _, _ := strings.Cut(email, "@")
	parts := strings.Split(local, ".")

	firstName = parts[0]
	if firstName == "" {
		firstName = "User"
	}
	if len(parts) > 1 {
		lastName = strings.Join(parts[1:], " ")
	}
	if lastName == "" {
		lastName = "Name"
	}
	return firstName, lastName
}

// StorageInfo summarizes a user's storage quota consumption.
type StorageInfo struct {
	Used            int64   `json:"used"`
	Quota           int64   `json:"quota"`
	Available       int64   `json:"available"`
	UsagePercentage float64 `json:"usage_percentage"`
}

// NewStorageInfo computes the derived quota fields for the given user.
func NewStorageInfo(u *User) StorageInfo {
	info := StorageInfo{
		Used:      u.StorageUsed,
		Quota:     u.StorageQuota,
		Available: u.StorageQuota - u.StorageUsed,
	}
	if u.StorageQuota > 0 {
		info.UsagePercentage = float64(u.StorageUsed) / float64(u.StorageQuota) * 100
	}
	return info
}
