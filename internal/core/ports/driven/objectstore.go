package driven

import "context"

// ObjectInfo describes one stored object.
type ObjectInfo struct {
	// Key is the storage identifier (object key or relative path).
	Key string

	// Size is the object size in bytes.
	Size int64
}

// ObjectStore lists and reads documents from a storage location.
// The location (bucket, prefix, directory) is fixed at construction.
//
// Implementations may include:
//   - Amazon S3 (bucket + optional key prefix)
//   - Local filesystem (directory)
type ObjectStore interface {
	// List returns all objects at the location.
	List(ctx context.Context) ([]ObjectInfo, error)

	// Get reads the raw bytes of one object.
	Get(ctx context.Context, key string) ([]byte, error)

	// Close releases resources.
	Close() error
}
