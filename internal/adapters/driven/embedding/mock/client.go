// Package mock provides a deterministic embedding client for development.
//
// Vectors carry no semantic meaning; they only make the pipeline runnable
// without a model service. The model name is labelled so callers can tell.
package mock

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"math"

	"github.com/custodia-labs/lexbase/internal/core/domain"
	"github.com/custodia-labs/lexbase/internal/core/ports/driven"
	"github.com/custodia-labs/lexbase/internal/postprocessors/chunker"
)

// Ensure Client implements the interface.
var _ driven.EmbeddingClient = (*Client)(nil)

// Default configuration values.
const (
	DefaultDimensions = 1536
	baseModel         = "mock-deterministic-v1"
)

// Client chunks locally and derives pseudo-vectors from chunk content.
type Client struct {
	chunker    *chunker.Processor
	dimensions int
}

// New creates a mock client. Zero dimensions uses DefaultDimensions.
func New(dimensions int, opts ...chunker.Option) *Client {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &Client{
		chunker:    chunker.New(opts...),
		dimensions: dimensions,
	}
}

// Embed splits text and returns one deterministic vector per chunk.
func (c *Client) Embed(ctx context.Context, _ string, text string, _ domain.Visibility) (*domain.EmbeddingResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, classifyError(err)
	}

	parts, err := c.chunker.Split(text)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidConfiguration) {
			return nil, fmt.Errorf("splitting text: %w", err)
		}
		return nil, fmt.Errorf("%w: splitting text: %w", domain.ErrInvalidConfiguration, err)
	}

	result := &domain.EmbeddingResult{
		Chunks: make([]domain.EmbeddedChunk, 0, len(parts)),
		Model:  c.ModelName(),
	}
	for _, p := range parts {
		result.Chunks = append(result.Chunks, domain.EmbeddedChunk{
			Content:   p,
			Embedding: Vector(p, c.dimensions),
		})
	}

	if err := result.Validate(c.dimensions); err != nil {
		return nil, err
	}
	return result, nil
}

// Vector derives a unit-length vector from the FNV hash of content and its length.
func Vector(content string, dim int) []float32 {
	h := fnv.New64a()
	h.Write([]byte(content))
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], uint64(len(content)))
	h.Write(n[:])
	seed := h.Sum64()

	vector := make([]float32, dim)
	var sumSquares float64
	for i := range vector {
		seed = seed*6364136223846793005 + 1442695040888963407 // LCG constants
		v := float64(seed>>11)/float64(1<<53)*2 - 1
		vector[i] = float32(v)
		sumSquares += v * v
	}

	if sumSquares > 0 {
		norm := 1 / math.Sqrt(sumSquares)
		for i := range vector {
			vector[i] = float32(float64(vector[i]) * norm)
		}
	}
	return vector
}

// classifyError maps context failures onto the embedding taxonomy.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, err)
}

// ModelName returns the labelled development model name.
func (c *Client) ModelName() string {
	return domain.DevelopmentModelName(baseModel)
}

// Ping always succeeds.
func (c *Client) Ping(context.Context) error {
	return nil
}

// Close releases resources.
func (c *Client) Close() error {
	return nil
}
