package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/contactfaris48-art/fms-backend/internal/domain"
	"github.com/contactfaris48-art/fms-backend/internal/repository"
)

// UserService implements profile and storage-accounting operations.
type UserService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(users repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// GetByEmail retrieves a user by email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.users.GetByEmail(ctx, email)
}

// GetStorageInfo returns the user's storage usage against their quota.
func (s *UserService) GetStorageInfo(ctx context.Context, userID string) (*domain.StorageInfo, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	info := domain.NewStorageInfo(user)
	return &info, nil
}

// AddStorageUsage adjusts the user's usage counter by delta bytes, which may
// be negative for deletions.
func (s *UserService) AddStorageUsage(ctx context.Context, userID string, delta int64) error {
	if err := s.users.IncrementStorageUsed(ctx, userID, delta); err != nil {
		return fmt.Errorf("adjust storage usage: %w", err)
	}

	s.logger.InfoContext(ctx, "storage usage adjusted",
		slog.String("user_id", userID),
		slog.Int64("delta_bytes", delta),
	)

	return nil
}
