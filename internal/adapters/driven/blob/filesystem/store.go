// Package filesystem provides a Blob Store backed by a local directory.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/custodia-labs/lexbase/internal/core/domain"
	"github.com/custodia-labs/lexbase/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.BlobStore = (*Store)(nil)

// Store writes blobs as files beneath a root directory.
type Store struct {
	root string
}

// NewStore creates the root directory if needed.
func NewStore(root string) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: blob directory is empty", domain.ErrInvalidConfiguration)
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("creating blob directory: %w", err)
	}
	return &Store{root: root}, nil
}

// Root returns the root directory.
func (s *Store) Root() string {
	return s.root
}

// resolve maps a blob path to a file path inside root.
func (s *Store) resolve(path string) (string, error) {
	clean := filepath.FromSlash(path)
	if !filepath.IsLocal(clean) {
		return "", fmt.Errorf("%w: blob path %q escapes the store", domain.ErrValidation, path)
	}
	return filepath.Join(s.root, clean), nil
}

// Put writes data atomically by linking a temporary file into place.
// Blobs are write-once: an existing path fails with ErrStorageWrite.
func (s *Store) Put(ctx context.Context, path string, data []byte, _ string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorageWrite, err)
	}

	target, err := s.resolve(path)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorageWrite, err)
	}

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("%w: creating %s: %v", domain.ErrStorageWrite, dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageWrite, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: writing %s: %v", domain.ErrStorageWrite, path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: closing %s: %v", domain.ErrStorageWrite, path, err)
	}
	err = os.Link(tmpName, target)
	os.Remove(tmpName)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: %s already exists: %w", domain.ErrStorageWrite, path, fs.ErrExist)
	}
	if err != nil {
		return fmt.Errorf("%w: committing %s: %v", domain.ErrStorageWrite, path, err)
	}
	return nil
}

// Delete removes the file. Deleting a missing blob succeeds.
func (s *Store) Delete(_ context.Context, path string) error {
	target, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting blob %s: %w", path, err)
	}
	return nil
}

// Get reads the file.
func (s *Store) Get(_ context.Context, path string) ([]byte, error) {
	target, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(target)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("blob %s: %w", path, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading blob %s: %w", path, err)
	}
	return data, nil
}
