// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import (
	"context"

	"github.com/custodia-labs/lexbase/internal/core/domain"
)

// EmbeddingClient turns a document's full text into embedded chunks.
//
// Implementations may chunk remotely (the workflow webhook) or locally
// (mock, OpenAI-compatible API). Every implementation validates its result
// before returning it and maps failures onto:
//   - domain.ErrServiceUnavailable: misconfigured, unreachable or non-2xx
//   - domain.ErrTimeout: the call exceeded its deadline
//   - domain.ErrInvalidResponse: the payload broke the contract
type EmbeddingClient interface {
	// Embed chunks and embeds text for the given document.
	Embed(ctx context.Context, documentID, text string, visibility domain.Visibility) (*domain.EmbeddingResult, error)

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
