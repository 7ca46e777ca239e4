package ai

import (
	"context"
	"fmt"

	"github.com/custodia-labs/lexbase/internal/core/domain"
	"github.com/custodia-labs/lexbase/internal/core/ports/driven"
)

// Ensure UnavailableClient implements the interface.
var _ driven.EmbeddingClient = (*UnavailableClient)(nil)

// UnavailableClient stands in when no embedding backend could be built.
// Every call fails with domain.ErrServiceUnavailable, so ingestion still
// records documents and reports them as retryable.
type UnavailableClient struct {
	reason error
}

// NewUnavailableClient returns a client that always reports reason.
func NewUnavailableClient(reason error) *UnavailableClient {
	return &UnavailableClient{reason: reason}
}

// Embed always fails.
func (c *UnavailableClient) Embed(context.Context, string, string, domain.Visibility) (*domain.EmbeddingResult, error) {
	return nil, c.err()
}

// ModelName returns an empty name.
func (c *UnavailableClient) ModelName() string {
	return ""
}

// Ping always fails.
func (c *UnavailableClient) Ping(context.Context) error {
	return c.err()
}

// Close does nothing.
func (c *UnavailableClient) Close() error {
	return nil
}

func (c *UnavailableClient) err() error {
	if c.reason == nil {
		return fmt.Errorf("%w: embedding is not configured", domain.ErrServiceUnavailable)
	}
	return fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, c.reason)
}
