package postgres

import (
	"context"
	"fmt"

	"github.com/contactfaris48-art/fms-backend/internal/domain"
)

// FolderRepository implements repository.FolderRepository using PostgreSQL.
type FolderRepository struct {
	db DB
}

// NewFolderRepository creates a new PostgreSQL-backed folder repository.
func NewFolderRepository(db DB) *FolderRepository {
	return &FolderRepository{db: db}
}

// ListByOwner returns the folders owned by the user: children of parentID when
// set, root folders otherwise.
func (r *FolderRepository) ListByOwner(ctx context.Context, ownerID string, parentID *string) ([]domain.Folder, error) {
	query := `
		SELECT id, owner_id, parent_id, name, is_root, created_at, updated_at
		FROM folders
		WHERE owner_id = $1`
	args := []any{ownerID}

	if parentID != nil {
		query += ` AND parent_id = $2`
		args = append(args, *parentID)
	} else {
		query += ` AND is_root`
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var folders []domain.Folder
	for rows.Next() {
		var f domain.Folder
		if err := rows.Scan(
			&f.ID,
			&f.OwnerID,
			&f.ParentID,
			&f.Name,
			&f.IsRoot,
			&f.CreatedAt,
			&f.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}
