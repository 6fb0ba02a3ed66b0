// Package s3 implements the storage boundary against AWS S3.
package s3

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/contactfaris48-art/fms-backend/internal/storage"
)

// Presigner generates presigned S3 request URLs.
type Presigner interface {
	PresignGetObject(ctx context.Context, params *awss3.GetObjectInput, optFns ...func(*awss3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Storage stores file blobs in an S3 bucket.
type Storage struct {
	presigner Presigner
	bucket    string
}

// New creates an S3-backed storage adapter.
func New(client *awss3.Client, bucket string) *Storage {
	return &Storage{
		presigner: awss3.NewPresignClient(client),
		bucket:    bucket,
	}
}

// Upload records the object location for the key.
// TODO: stream the blob with PutObject once the upload endpoint leaves stub status.
func (s *Storage) Upload(_ context.Context, input *storage.UploadInput) (*storage.UploadResult, error) {
	return &storage.UploadResult{
		Key: input.Key,
		URL: fmt.Sprintf("s3://%s/%s", s.bucket, input.Key),
	}, nil
}

// Delete removes the object for the key.
// TODO: issue DeleteObject once the delete endpoint leaves stub status.
func (s *Storage) Delete(_ context.Context, _ string) error {
	return nil
}

// PresignedDownloadURL returns a time-limited GET URL for the object.
func (s *Storage) PresignedDownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(o *awss3.PresignOptions) {
		o.Expires = expiry
	})
	if err != nil {
		return "", fmt.Errorf("presign download for %s: %w", key, err)
	}

	return req.URL, nil
}
