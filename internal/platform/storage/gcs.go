package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gcs "cloud.google.com/go/storage"
	portssvc "github.com/corefac/facility_billing_app/internal/core/ports/services"
	"google.golang.org/api/option"
)

// GCSBlobStore stores exported files in a Google Cloud Storage bucket.
type GCSBlobStore struct {
	client *gcs.Client
	bucket string
}

// NewGCSBlobStore creates a blob store backed by the given bucket.
// Prefer ADC (service account / GOOGLE_APPLICATION_CREDENTIALS); explicit
// credentials JSON can be provided for local use.
func NewGCSBlobStore(ctx context.Context, bucket string, credentialsJSON string) (*GCSBlobStore, error) {
	if bucket == "" {
		return nil, errors.New("gcs bucket is required")
	}

	var client *gcs.Client
	var err error
	if strings.TrimSpace(credentialsJSON) != "" {
		client, err = gcs.NewClient(ctx, option.WithCredentialsJSON([]byte(credentialsJSON)))
	} else {
		client, err = gcs.NewClient(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create gcs client: %w", err)
	}

	return &GCSBlobStore{client: client, bucket: bucket}, nil
}

var _ portssvc.BlobStore = (*GCSBlobStore)(nil)

// Upload writes the data to the bucket under objectName and returns the
// stored object handle.
func (s *GCSBlobStore) Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	wc := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	wc.ContentType = contentType

	if _, err := wc.Write(data); err != nil {
		return "", fmt.Errorf("failed to upload bytes to Google Cloud Storage: %v", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %v", err)
	}
	return objectName, nil
}

// Close releases the underlying client.
func (s *GCSBlobStore) Close() error {
	return s.client.Close()
}
