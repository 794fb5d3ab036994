package fsutil

import "context"

// ObjectStore provides an interface for storing and retrieving document
// blobs, keyed by bucket and object name. The MinIO-backed implementation
// lives in src/storage/minioctrl; LocalObjectStore maps buckets to
// directories on the local filesystem.
type ObjectStore interface {
	// EnsureBucketExists creates the bucket if it is not already present
	EnsureBucketExists(ctx context.Context, bucket string) error

	// PutObject stores data under bucket/object, overwriting any previous content
	PutObject(ctx context.Context, bucket, object string, data []byte) error

	// GetObject reads the full content stored under bucket/object
	GetObject(ctx context.Context, bucket, object string) ([]byte, error)

	// DeleteObject removes bucket/object; removing a missing object is not an error
	DeleteObject(ctx context.Context, bucket, object string) error
}
