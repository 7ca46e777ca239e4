package driven

import "context"

// BlobStore holds the raw uploaded files.
type BlobStore interface {
	// Put writes data at path, replacing any existing object.
	// Fails with domain.ErrStorageWrite.
	Put(ctx context.Context, path string, data []byte, contentType string) error

	// Delete removes the object at path.
	Delete(ctx context.Context, path string) error

	// Get reads the object at path.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, path string) ([]byte, error)
}
