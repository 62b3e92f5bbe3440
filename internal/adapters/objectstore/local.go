// Package objectstore - local.go treats a directory as a bucket, for
// development alongside the upload watcher.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore reads objects from the local filesystem. The bucket is a
// directory path, the object name a path relative to it.
type LocalStore struct{}

// NewLocalStore creates a local filesystem object store.
func NewLocalStore() *LocalStore {
	return &LocalStore{}
}

// Download copies bucket/name to dest.
func (s *LocalStore) Download(ctx context.Context, bucket, name, dest string) error {
	src, err := os.Open(filepath.Join(bucket, name))
	if err != nil {
		return fmt.Errorf("opening object %s/%s: %w", bucket, name, err)
	}
	defer src.Close()

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}

	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		os.Remove(dest)
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return f.Close()
}

// Delete removes the object file.
func (s *LocalStore) Delete(ctx context.Context, bucket, name string) error {
	if err := os.Remove(filepath.Join(bucket, name)); err != nil {
		return fmt.Errorf("deleting object %s/%s: %w", bucket, name, err)
	}
	return nil
}
