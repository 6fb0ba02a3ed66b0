package repository

import (
	"context"
	"time"

	"github.com/contactfaris48-art/fms-backend/internal/domain"
)

// UserRepository defines the interface for identity persistence operations.
type UserRepository interface {
	// Create inserts a new user into the store.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByCognitoSub retrieves a user by their provider-subject identifier.
	GetByCognitoSub(ctx context.Context, sub string) (*domain.User, error)

	// Update modifies an existing user in the store.
	Update(ctx context.Context, user *domain.User) error

	// IncrementStorageUsed adds delta (which may be negative) to the user's
	// storage usage counter.
	IncrementStorageUsed(ctx context.Context, id string, delta int64) error
}

// AuthTokenRepository defines the interface for one-time credential
// persistence operations.
type AuthTokenRepository interface {
	// Create stores a freshly issued token.
	Create(ctx context.Context, token *domain.AuthToken) error

	// GetValid returns the unused, unexpired token of the given kind for the
	// user matching the supplied value, or ErrNotFound.
	GetValid(ctx context.Context, userID string, kind domain.TokenKind, value string, now time.Time) (*domain.AuthToken, error)

	// GetValidByValue returns the unused, unexpired token of the given kind
	// matching the supplied value regardless of owner, or ErrNotFound.
	GetValidByValue(ctx context.Context, kind domain.TokenKind, value string, now time.Time) (*domain.AuthToken, error)

	// MarkUsed flags the token so it can never be validated again.
	MarkUsed(ctx context.Context, id string) error

	// InvalidateUnused marks all unused tokens of the given kind for the user
	// as used, returning how many were invalidated.
	InvalidateUnused(ctx context.Context, userID string, kind domain.TokenKind) (int64, error)

	// DeleteExpired removes all tokens whose expiry has passed, used or not,
	// returning how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// FileRepository defines the interface for file metadata persistence.
type FileRepository interface {
	// ListByOwner returns the files owned by the user, optionally scoped to a
	// folder.
	ListByOwner(ctx context.Context, ownerID string, folderID *string) ([]domain.File, error)

	// GetByID retrieves a file's metadata by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.File, error)
}

// FolderRepository defines the interface for folder persistence.
type FolderRepository interface {
	// ListByOwner returns the folders owned by the user: children of parentID
	// when set, root folders otherwise.
	ListByOwner(ctx context.Context, ownerID string, parentID *string) ([]domain.Folder, error)
}
