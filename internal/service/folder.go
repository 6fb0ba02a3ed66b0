package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/contactfaris48-art/fms-backend/internal/domain"
	"github.com/contactfaris48-art/fms-backend/internal/repository"
)

// FolderService implements folder operations. Listing is backed by the store;
// mutation endpoints are placeholders.
type FolderService struct {
	folders repository.FolderRepository
	logger  *slog.Logger
}

// NewFolderService creates a new folder service.
func NewFolderService(folders repository.FolderRepository, logger *slog.Logger) *FolderService {
	return &FolderService{folders: folders, logger: logger}
}

// List returns the user's folders: children of parentID when set, root
// folders otherwise.
func (s *FolderService) List(ctx context.Context, ownerID string, parentID *string) ([]domain.Folder, error) {
	folders, err := s.folders.ListByOwner(ctx, ownerID, parentID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	return folders, nil
}

// Create is a placeholder.
func (s *FolderService) Create(ctx context.Context, ownerID, name string, parentID *string) (string, error) {
	return "Folder creation - to be implemented", nil
}

// Delete is a placeholder.
func (s *FolderService) Delete(ctx context.Context, folderID, ownerID string) (string, error) {
	return "Folder deletion - to be implemented", nil
}
