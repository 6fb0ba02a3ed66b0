package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/contactfaris48-art/fms-backend/internal/domain"
	apperrors "github.com/contactfaris48-art/fms-backend/internal/errors"
)

func newFileFixture() (*FileService, *mockFileRepository, *mockStorage) {
	files := new(mockFileRepository)
	store := new(mockStorage)
	svc := NewFileService(files, store, testLogger())
	return svc, files, store
}

func storedFile() *domain.File {
	now := time.Now().UTC()
	return &domain.File{
		ID:         "f-1",
		OwnerID:    "u-1234",
		Name:       "report.pdf",
		MimeType:   "application/pdf",
		Size:       2048,
		StorageKey: "u-1234/f-1/report.pdf",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestFileService_List(t *testing.T) {
	svc, files, _ := newFileFixture()

	files.On("ListByOwner", mock.Anything, "u-1234", (*string)(nil)).
		Return([]domain.File{*storedFile()}, nil)

	got, err := svc.List(context.Background(), "u-1234", nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "report.pdf", got[0].Name)
}

func TestFileService_Download_ReturnsPresignedURL(t *testing.T) {
	svc, files, store := newFileFixture()
	file := storedFile()

	files.On("GetByID", mock.Anything, file.ID).Return(file, nil)
	store.On("PresignedDownloadURL", mock.Anything, file.StorageKey, downloadURLExpiry).
		Return("https://bucket.s3.amazonaws.com/"+file.StorageKey+"?X-Amz-Signature=abc", nil)

	url, err := svc.Download(context.Background(), file.ID, file.OwnerID)
	require.NoError(t, err)
	assert.Contains(t, url, file.StorageKey)

	files.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestFileService_Download_WrongOwnerLooksMissing(t *testing.T) {
	svc, files, store := newFileFixture()
	file := storedFile()

	files.On("GetByID", mock.Anything, file.ID).Return(file, nil)

	_, err := svc.Download(context.Background(), file.ID, "someone-else")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	store.AssertNotCalled(t, "PresignedDownloadURL", mock.Anything, mock.Anything, mock.Anything)
}

func TestFileService_Download_UnknownFile(t *testing.T) {
	svc, files, _ := newFileFixture()

	files.On("GetByID", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound)

	_, err := svc.Download(context.Background(), "missing", "u-1234")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestFileService_Download_PresignFailure(t *testing.T) {
	svc, files, store := newFileFixture()
	file := storedFile()

	files.On("GetByID", mock.Anything, file.ID).Return(file, nil)
	store.On("PresignedDownloadURL", mock.Anything, file.StorageKey, downloadURLExpiry).
		Return("", errors.New("presign failed"))

	_, err := svc.Download(context.Background(), file.ID, file.OwnerID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "presign download")
}
