// Package memory provides an in-memory Blob Store for tests and ephemeral runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/lexbase/internal/core/domain"
	"github.com/custodia-labs/lexbase/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.BlobStore = (*Store)(nil)

type object struct {
	data        []byte
	contentType string
}

// Store keeps blobs in a map.
// Thread-safe for concurrent access.
type Store struct {
	mu      sync.RWMutex
	objects map[string]object
}

// NewStore creates a new in-memory blob store.
func NewStore() *Store {
	return &Store{
		objects: make(map[string]object),
	}
}

// Put stores a copy of data. An existing path fails with ErrStorageWrite.
func (s *Store) Put(ctx context.Context, path string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorageWrite, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[path]; ok {
		return fmt.Errorf("%w: %s already exists", domain.ErrStorageWrite, path)
	}
	s.objects[path] = object{data: append([]byte(nil), data...), contentType: contentType}
	return nil
}

// Delete removes a blob. Deleting a missing blob succeeds.
func (s *Store) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, path)
	return nil
}

// Get returns a copy of the blob.
func (s *Store) Get(_ context.Context, path string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[path]
	if !ok {
		return nil, fmt.Errorf("blob %s: %w", path, domain.ErrNotFound)
	}
	return append([]byte(nil), obj.data...), nil
}

// ContentType returns the stored content type of a blob.
func (s *Store) ContentType(path string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[path]
	return obj.contentType, ok
}

// Paths returns every stored path in sorted order.
func (s *Store) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paths := make([]string, 0, len(s.objects))
	for p := range s.objects {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
