package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/contactfaris48-art/fms-backend/internal/domain"
	apperrors "github.com/contactfaris48-art/fms-backend/internal/errors"
	"github.com/contactfaris48-art/fms-backend/internal/repository"
	"github.com/contactfaris48-art/fms-backend/internal/storage"
)

// downloadURLExpiry bounds how long an issued download link stays usable.
const downloadURLExpiry = 15 * time.Minute

// FileService implements file metadata operations. Listing is backed by the
// store; the transfer endpoints are placeholders until blob streaming lands.
type FileService struct {
	files   repository.FileRepository
	storage storage.Storage
	logger  *slog.Logger
}

// NewFileService creates a new file service.
func NewFileService(files repository.FileRepository, store storage.Storage, logger *slog.Logger) *FileService {
	return &FileService{files: files, storage: store, logger: logger}
}

// List returns the user's files, optionally scoped to a folder.
func (s *FileService) List(ctx context.Context, ownerID string, folderID *string) ([]domain.File, error) {
	files, err := s.files.ListByOwner(ctx, ownerID, folderID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return files, nil
}

// Upload is a placeholder until blob streaming lands.
func (s *FileService) Upload(ctx context.Context, ownerID string, folderID *string) (string, error) {
	return "File upload endpoint - to be implemented", nil
}

// Download returns a time-limited URL for fetching the file's content.
// Files owned by someone else are indistinguishable from missing ones.
func (s *FileService) Download(ctx context.Context, fileID, ownerID string) (string, error) {
	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.NotFound("file", fileID)
		}
		return "", fmt.Errorf("get file: %w", err)
	}

	if file.OwnerID != ownerID {
		return "", apperrors.NotFound("file", fileID)
	}

	url, err := s.storage.PresignedDownloadURL(ctx, file.StorageKey, downloadURLExpiry)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}

	s.logger.InfoContext(ctx, "download url issued",
		slog.String("file_id", file.ID),
		slog.String("user_id", ownerID),
	)

	return url, nil
}

// Delete is a placeholder until blob streaming lands.
func (s *FileService) Delete(ctx context.Context, fileID, ownerID string) (string, error) {
	return "File delete endpoint - to be implemented", nil
}
