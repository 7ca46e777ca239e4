// Package openai provides an embedding client backed by an OpenAI-compatible API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/lexbase/internal/core/domain"
	"github.com/custodia-labs/lexbase/internal/core/ports/driven"
	"github.com/custodia-labs/lexbase/internal/postprocessors/chunker"
)

// Ensure Client implements the interface.
var _ driven.EmbeddingClient = (*Client)(nil)

// Default configuration values.
const (
	DefaultModel             = "text-embedding-3-small"
	DefaultTimeout           = 60 * time.Second
	DefaultBatchSize         = 64
	DefaultRequestsPerSecond = 5.0
)

// Config holds configuration for the OpenAI embedding client.
type Config struct {
	// APIKey is the API key (required).
	APIKey string

	// BaseURL overrides the API base URL for Azure or compatible servers.
	BaseURL string

	// Model is the embedding model to use (default: text-embedding-3-small).
	Model string

	// Timeout is the per-request timeout (default: 60s).
	Timeout time.Duration

	// Dimensions requests a reduced vector size from text-embedding-3-* models.
	Dimensions int

	// BatchSize is the number of chunks per request (default: 64).
	BatchSize int

	// RequestsPerSecond paces outbound requests (default: 5).
	RequestsPerSecond float64

	// Chunker splits text before embedding. Defaults to 2000/200.
	Chunker *chunker.Processor
}

// Client chunks text locally and embeds the chunks in batches.
type Client struct {
	client     *goopenai.Client
	limiter    *rate.Limiter
	chunker    *chunker.Processor
	model      string
	dimensions int
	batchSize  int
}

// New creates a new OpenAI embedding client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: openai API key is required", domain.ErrServiceUnavailable)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.Chunker == nil {
		cfg.Chunker = chunker.New()
	}
	if err := cfg.Chunker.Validate(); err != nil {
		return nil, err
	}

	config := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	config.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{
		client:     goopenai.NewClientWithConfig(config),
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		chunker:    cfg.Chunker,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		batchSize:  cfg.BatchSize,
	}, nil
}

// Embed splits text and embeds every chunk.
func (c *Client) Embed(ctx context.Context, _ string, text string, _ domain.Visibility) (*domain.EmbeddingResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, classifyError(err)
	}

	parts, err := c.chunker.Split(text)
	if err != nil {
		return nil, splitError(err)
	}

	result := &domain.EmbeddingResult{
		Chunks: make([]domain.EmbeddedChunk, 0, len(parts)),
		Model:  c.model,
	}

	for start := 0; start < len(parts); start += c.batchSize {
		end := min(start+c.batchSize, len(parts))
		batch := parts[start:end]

		vectors, err := c.embedBatch(ctx, batch)
		if err != nil {
			return nil, err
		}
		for i, p := range batch {
			result.Chunks = append(result.Chunks, domain.EmbeddedChunk{
				Content:   p,
				Embedding: vectors[i],
			})
		}
	}

	if err := result.Validate(c.dimensions); err != nil {
		return nil, err
	}
	return result, nil
}

// embedBatch sends one embeddings request and orders vectors by index.
func (c *Client) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, classifyError(err)
	}

	req := goopenai.EmbeddingRequest{
		Input: texts,
		Model: goopenai.EmbeddingModel(c.model),
	}
	if c.dimensions > 0 {
		req.Dimensions = c.dimensions
	}

	resp, err := c.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, classifyError(err)
	}

	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			return nil, fmt.Errorf("%w: embedding index %d out of range", domain.ErrInvalidResponse, d.Index)
		}
		vectors[d.Index] = d.Embedding
	}
	for i, v := range vectors {
		if len(v) == 0 {
			return nil, fmt.Errorf("%w: no embedding returned for chunk %d", domain.ErrInvalidResponse, i)
		}
	}
	return vectors, nil
}

// splitError keeps chunking failures in the configuration class.
func splitError(err error) error {
	if errors.Is(err, domain.ErrInvalidConfiguration) {
		return fmt.Errorf("splitting text: %w", err)
	}
	return fmt.Errorf("%w: splitting text: %w", domain.ErrInvalidConfiguration, err)
}

// classifyError maps client failures onto the embedding taxonomy.
func classifyError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, err)
	}

	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: openai returned status %d: %s",
			domain.ErrServiceUnavailable, apiErr.HTTPStatusCode, apiErr.Message)
	}

	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("%w: openai request failed with status %d: %v",
			domain.ErrServiceUnavailable, reqErr.HTTPStatusCode, reqErr.Err)
	}

	return fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
}

// ModelName returns the name of the embedding model being used.
func (c *Client) ModelName() string {
	return c.model
}

// Ping validates the API key by listing models.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return classifyError(err)
	}
	return nil
}

// Close releases resources.
func (c *Client) Close() error {
	return nil
}
