// Package storage defines the object-storage boundary file contents live
// behind. Metadata stays in PostgreSQL; only blobs go here.
package storage

import (
	"context"
	"io"
	"time"
)

// Storage defines the interface for file blob operations.
type Storage interface {
	// Upload stores a file and returns the result with key and URL.
	Upload(ctx context.Context, input *UploadInput) (*UploadResult, error)

	// Delete removes a file by its key.
	Delete(ctx context.Context, key string) error

	// PresignedDownloadURL returns a time-limited download URL for the key.
	PresignedDownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// UploadInput holds the parameters for uploading a file.
type UploadInput struct {
	Key         string
	ContentType string
	Size        int64
	Data        io.Reader
}

// UploadResult holds the result of a successful upload.
type UploadResult struct {
	Key string
	URL string
}
