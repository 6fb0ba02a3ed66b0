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

// AuthTokenRepository implements repository.AuthTokenRepository using PostgreSQL.
type AuthTokenRepository struct {
	db DB
}

// NewAuthTokenRepository creates a new PostgreSQL-backed auth token repository.
func NewAuthTokenRepository(db DB) *AuthTokenRepository {
	return &AuthTokenRepository{db: db}
}

const authTokenColumns = "id, user_id, kind, token, expires_at, is_used, created_at"

// Create stores a freshly issued token.
func (r *AuthTokenRepository) Create(ctx context.Context, t *domain.AuthToken) error {
	query := `
		INSERT INTO auth_tokens (id, user_id, kind, token, expires_at, is_used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		t.ID,
		t.UserID,
		string(t.Kind),
		t.Token,
		t.ExpiresAt,
		t.IsUsed,
		t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert auth token: %w", err)
	}

	return nil
}

// GetValid returns the unused, unexpired token of the given kind for the user
// matching the supplied value.
func (r *AuthTokenRepository) GetValid(ctx context.Context, userID string, kind domain.TokenKind, value string, now time.Time) (*domain.AuthToken, error) {
	query := `
		SELECT ` + authTokenColumns + `
		FROM auth_tokens
		WHERE user_id = $1 AND kind = $2 AND token = $3 AND NOT is_used AND expires_at >= $4`

	return r.scanToken(ctx, query, userID, string(kind), value, now)
}

// GetValidByValue returns the unused, unexpired token of the given kind
// matching the supplied value regardless of owner.
func (r *AuthTokenRepository) GetValidByValue(ctx context.Context, kind domain.TokenKind, value string, now time.Time) (*domain.AuthToken, error) {
	query := `
		SELECT ` + authTokenColumns + `
		FROM auth_tokens
		WHERE kind = $1 AND token = $2 AND NOT is_used AND expires_at >= $3`

	return r.scanToken(ctx, query, string(kind), value, now)
}

// MarkUsed flags the token so it can never be validated again.
func (r *AuthTokenRepository) MarkUsed(ctx context.Context, id string) error {
	query := `UPDATE auth_tokens SET is_used = TRUE WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark auth token used: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("auth token", id)
	}

	return nil
}

// InvalidateUnused marks all unused tokens of the given kind for the user as used.
func (r *AuthTokenRepository) InvalidateUnused(ctx context.Context, userID string, kind domain.TokenKind) (int64, error) {
	query := `UPDATE auth_tokens SET is_used = TRUE WHERE user_id = $1 AND kind = $2 AND NOT is_used`

	ct, err := r.db.Exec(ctx, query, userID, string(kind))
	if err != nil {
		return 0, fmt.Errorf("invalidate auth tokens: %w", err)
	}

	return ct.RowsAffected(), nil
}

// DeleteExpired removes all tokens whose expiry has passed, used or not.
func (r *AuthTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM auth_tokens WHERE expires_at < $1`

	ct, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired auth tokens: %w", err)
	}

	return ct.RowsAffected(), nil
}

func (r *AuthTokenRepository) scanToken(ctx context.Context, query string, args ...any) (*domain.AuthToken, error) {
	var (
		t    domain.AuthToken
		kind string
	)

	err := r.db.QueryRow(ctx, query, args...).Scan(
		&t.ID,
		&t.UserID,
		&kind,
		&t.Token,
		&t.ExpiresAt,
		&t.IsUsed,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan auth token: %w", err)
	}

	t.Kind = domain.TokenKind(kind)
	return &t, nil
}
