package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactfaris48-art/fms-backend/internal/domain"
	apperrors "github.com/contactfaris48-art/fms-backend/internal/errors"
)

func newFileTestFixture(t *testing.T) (*FileRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := NewFileRepository(mock)
	return repo, mock
}

func sampleFile() *domain.File {
	now := time.Now().UTC().Truncate(time.Microsecond)
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

func fileRow(f *domain.File) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "owner_id", "folder_id", "name", "mime_type", "size", "storage_key", "created_at", "updated_at",
	}).AddRow(
		f.ID, f.OwnerID, f.FolderID, f.Name, f.MimeType, f.Size, f.StorageKey, f.CreatedAt, f.UpdatedAt,
	)
}

// ---------------------------------------------------------------------------
// ListByOwner
// ---------------------------------------------------------------------------

func TestFileRepository_ListByOwner(t *testing.T) {
	repo, mock := newFileTestFixture(t)
	defer mock.Close()

	f := sampleFile()

	mock.ExpectQuery("FROM files").
		WithArgs(f.OwnerID).
		WillReturnRows(fileRow(f))

	files, err := repo.ListByOwner(context.Background(), f.OwnerID, nil)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, f.StorageKey, files[0].StorageKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// GetByID
// ---------------------------------------------------------------------------

func TestFileRepository_GetByID_Success(t *testing.T) {
	repo, mock := newFileTestFixture(t)
	defer mock.Close()

	f := sampleFile()

	mock.ExpectQuery("FROM files").
		WithArgs(f.ID).
		WillReturnRows(fileRow(f))

	got, err := repo.GetByID(context.Background(), f.ID)
	require.NoError(t, err)
	assert.Equal(t, f.OwnerID, got.OwnerID)
	assert.Equal(t, f.StorageKey, got.StorageKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFileRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newFileTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("FROM files").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByID(context.Background(), "missing")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected ErrNotFound, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
