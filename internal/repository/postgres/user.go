package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/contactfaris48-art/fms-backend/internal/domain"
	apperrors "github.com/contactfaris48-art/fms-backend/internal/errors"
)

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, email, cognito_sub, password_hash, first_name, last_name, is_active, storage_used, storage_quota, created_at, updated_at"

// Create inserts a new user into the database.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (id, email, cognito_sub, password_hash, first_name, last_name, is_active, storage_used, storage_quota, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(ctx, query,
		u.ID,
		u.Email,
		u.CognitoSub,
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		u.IsActive,
		u.StorageUsed,
		u.StorageQuota,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("user", "email", u.Email)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1`

	return r.scanUser(ctx, query, id)
}

// GetByEmail retrieves a user by their email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1`

	return r.scanUser(ctx, query, email)
}

// GetByCognitoSub retrieves a user by their provider-subject identifier.
func (r *UserRepository) GetByCognitoSub(ctx context.Context, sub string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE cognito_sub = $1`

	return r.scanUser(ctx, query, sub)
}

// Update modifies an existing user in the database.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	u.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE users
		SET email = $1, cognito_sub = NULLIF($2, ''), password_hash = $3, first_name = $4, last_name = $5,
		    is_active = $6, storage_used = $7, storage_quota = $8, updated_at = $9
		WHERE id = $10`

	ct, err := r.db.Exec(ctx, query,
		u.Email,
		u.CognitoSub,
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		u.IsActive,
		u.StorageUsed,
		u.StorageQuota,
		u.UpdatedAt,
		u.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("user", "email", u.Email)
		}
		return fmt.Errorf("update user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", u.ID)
	}

	return nil
}

// IncrementStorageUsed adds delta to the user's storage usage counter.
func (r *UserRepository) IncrementStorageUsed(ctx context.Context, id string, delta int64) error {
	query := `
		UPDATE users
		SET storage_used = storage_used + $1, updated_at = NOW()
		WHERE id = $2`

	ct, err := r.db.Exec(ctx, query, delta, id)
	if err != nil {
		return fmt.Errorf("increment storage used: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", id)
	}

	return nil
}

// scanUser is a helper that executes a query expected to return a single user row.
func (r *UserRepository) scanUser(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var (
		u   domain.User
		sub *string
	)

	err := r.db.QueryRow(ctx, query, args...).Scan(
		&u.ID,
		&u.Email,
		&sub,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.IsActive,
		&u.StorageUsed,
		&u.StorageQuota,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	if sub != nil {
		u.CognitoSub = *sub
	}

	return &u, nil
}
