// Package gcs provides a Blob Store backed by a Google Cloud Storage bucket.
package gcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	storage "google.golang.org/api/storage/v1"

	"github.com/custodia-labs/lexbase/internal/core/domain"
	"github.com/custodia-labs/lexbase/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.BlobStore = (*Store)(nil)

// Config holds configuration for the GCS blob store.
type Config struct {
	// Bucket is the target bucket (required).
	Bucket string

	// CredentialsFile is a service account JSON key. Empty uses
	// application default credentials.
	CredentialsFile string

	// Options are appended to the client options, mainly for tests.
	Options []option.ClientOption
}

// Store writes blobs as objects in one bucket.
type Store struct {
	svc    *storage.Service
	bucket string
}

// NewStore creates a GCS-backed blob store.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: gcs bucket is empty", domain.ErrInvalidConfiguration)
	}

	opts := []option.ClientOption{option.WithScopes(storage.DevstorageReadWriteScope)}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	opts = append(opts, cfg.Options...)

	svc, err := storage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating storage service: %w", err)
	}

	return &Store{svc: svc, bucket: cfg.Bucket}, nil
}

// Put uploads data as an object named path. The upload only succeeds
// when no live object of that name exists.
func (s *Store) Put(ctx context.Context, path string, data []byte, contentType string) error {
	obj := &storage.Object{
		Name:        path,
		ContentType: contentType,
	}

	_, err := s.svc.Objects.Insert(s.bucket, obj).
		Media(bytes.NewReader(data), googleapi.ContentType(contentType)).
		IfGenerationMatch(0).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("%w: uploading gs://%s/%s: %v", domain.ErrStorageWrite, s.bucket, path, err)
	}
	return nil
}

// Delete removes the object. Deleting a missing object succeeds.
func (s *Store) Delete(ctx context.Context, path string) error {
	err := s.svc.Objects.Delete(s.bucket, path).Context(ctx).Do()
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("deleting gs://%s/%s: %w", s.bucket, path, err)
	}
	return nil
}

// Get downloads the object.
func (s *Store) Get(ctx context.Context, path string) ([]byte, error) {
	resp, err := s.svc.Objects.Get(s.bucket, path).Context(ctx).Download()
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("blob %s: %w", path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("downloading gs://%s/%s: %w", s.bucket, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading gs://%s/%s: %w", s.bucket, path, err)
	}
	return data, nil
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}
