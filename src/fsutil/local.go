package fsutil

import (
	"context"
	"os"
	"path/filepath"
)

// LocalObjectStore implements ObjectStore on the local filesystem. Buckets
// are directories under the root path, objects are plain files.
type LocalObjectStore struct {
	root string
}

// NewLocalObjectStore creates a LocalObjectStore rooted at the given directory
func NewLocalObjectStore(root string) *LocalObjectStore {
	return &LocalObjectStore{root: root}
}

func (fs *LocalObjectStore) EnsureBucketExists(ctx context.Context, bucket string) error {
	return os.MkdirAll(filepath.Join(fs.root, bucket), 0755)
}

func (fs *LocalObjectStore) PutObject(ctx context.Context, bucket, object string, data []byte) error {
	path := filepath.Join(fs.root, bucket, object)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (fs *LocalObjectStore) GetObject(ctx context.Context, bucket, object string) ([]byte, error) {
	return os.ReadFile(filepath.Join(fs.root, bucket, object))
}

func (fs *LocalObjectStore) DeleteObject(ctx context.Context, bucket, object string) error {
	err := os.Remove(filepath.Join(fs.root, bucket, object))
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
