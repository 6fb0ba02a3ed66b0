package service

import (
	"context"
	"log/slog"
)

// SharingService implements share-link operations. All endpoints are
// placeholders.
type SharingService struct {
	logger *slog.Logger
}

// NewSharingService creates a new sharing service.
func NewSharingService(logger *slog.Logger) *SharingService {
	return &SharingService{logger: logger}
}

// GenerateShareLink is a placeholder.
func (s *SharingService) GenerateShareLink(ctx context.Context, fileID, userID string) (string, error) {
	return "Share link generation - to be implemented", nil
}

// ValidateShareLink is a placeholder.
func (s *SharingService) ValidateShareLink(ctx context.Context, token string) (string, error) {
	return "Share link validation - to be implemented", nil
}

// UpdatePermissions is a placeholder.
func (s *SharingService) UpdatePermissions(ctx context.Context, fileID, userID string) (string, error) {
	return "Permission update - to be implemented", nil
}
