// Package objectstore provides adapters for fetching uploaded
// documents, implementing ports.ObjectStore.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"os"

	"google.golang.org/api/option"
	storage "google.golang.org/api/storage/v1"
)

// GCSStore reads objects from Google Cloud Storage buckets using
// application default credentials.
type GCSStore struct {
	svc *storage.Service
}

// NewGCSStore creates a Cloud Storage client.
func NewGCSStore(ctx context.Context, opts ...option.ClientOption) (*GCSStore, error) {
	svc, err := storage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	return &GCSStore{svc: svc}, nil
}

// Download copies the object's media to the local path dest.
func (s *GCSStore) Download(ctx context.Context, bucket, name, dest string) error {
	resp, err := s.svc.Objects.Get(bucket, name).Context(ctx).Download()
	if err != nil {
		return fmt.Errorf("fetching object %s/%s: %w", bucket, name, err)
	}
	defer resp.Body.Close()

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(dest)
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return f.Close()
}

// Delete removes the object from its bucket.
func (s *GCSStore) Delete(ctx context.Context, bucket, name string) error {
	if err := s.svc.Objects.Delete(bucket, name).Context(ctx).Do(); err != nil {
		return fmt.Errorf("deleting object %s/%s: %w", bucket, name, err)
	}
	return nil
}
