package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/contactfaris48-art/fms-backend/internal/domain"
	apperrors "github.com/contactfaris48-art/fms-backend/internal/errors"
)

// FileRepository implements repository.FileRepository using PostgreSQL.
type FileRepository struct {
	db DB
}

// NewFileRepository creates a new PostgreSQL-backed file metadata repository.
func NewFileRepository(db DB) *FileRepository {
	return &FileRepository{db: db}
}

// ListByOwner returns the files owned by the user, optionally scoped to a folder.
func (r *FileRepository) ListByOwner(ctx context.Context, ownerID string, folderID *string) ([]domain.File, error) {
	query := `
		SELECT id, owner_id, folder_id, name, mime_type, size, storage_key, created_at, updated_at
		FROM files
		WHERE owner_id = $1`
	args := []any{ownerID}

	if folderID != nil {
		query += ` AND folder_id = $2`
		args = append(args, *folderID)
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var files []domain.File
	for rows.Next() {
		var f domain.File
		if err := rows.Scan(
			&f.ID,
			&f.OwnerID,
			&f.FolderID,
			&f.Name,
			&f.MimeType,
			&f.Size,
			&f.StorageKey,
			&f.CreatedAt,
			&f.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}

	return files, nil
}

// GetByID retrieves a file's metadata by its ID.
func (r *FileRepository) GetByID(ctx context.Context, id string) (*domain.File, error) {
	query := `
		SELECT id, owner_id, folder_id, name, mime_type, size, storage_key, created_at, updated_at
		FROM files
		WHERE id = $1`

	var f domain.File
	err := r.db.QueryRow(ctx, query, id).Scan(
		&f.ID,
		&f.OwnerID,
		&f.FolderID,
		&f.Name,
		&f.MimeType,
		&f.Size,
		&f.StorageKey,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("file", id)
		}
		return nil, fmt.Errorf("get file by id: %w", err)
	}

	return &f, nil
}
