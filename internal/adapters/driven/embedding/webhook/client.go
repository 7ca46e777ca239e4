// Package webhook provides an embedding client that delegates chunking and
// vectorisation to an external workflow webhook.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/custodia-labs/lexbase/internal/core/domain"
	"github.com/custodia-labs/lexbase/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.EmbeddingClient = (*Client)(nil)

// Default configuration values.
const (
	DefaultTimeout = 120 * time.Second
	DefaultModel   = "webhook"

	// SecretHeader carries the shared secret when one is configured.
	SecretHeader = "X-Webhook-Secret"

	// maxResponseSize bounds the response body read from the webhook.
	maxResponseSize = 256 << 20

	// maxErrorBody bounds the body excerpt kept for non-2xx responses.
	maxErrorBody = 512
)

// Config holds configuration for the webhook client.
type Config struct {
	// URL is the webhook endpoint (required).
	URL string

	// Secret is sent in SecretHeader when set.
	Secret string

	// Timeout bounds a single Embed call (default: 120s).
	Timeout time.Duration

	// Dimensions is the expected vector length. Zero accepts any fixed length.
	Dimensions int

	// Model is reported when the webhook omits a model name.
	Model string

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// Client posts document text to the webhook and validates the embedded chunks.
type Client struct {
	client     *http.Client
	url        string
	secret     string
	timeout    time.Duration
	dimensions int
	model      string
}

// request is the webhook request format.
type request struct {
	DocumentID string `json:"document_id"`
	Text       string `json:"text"`
	Visibility string `json:"visibility"`
}

// response is the webhook response format.
type response struct {
	Chunks []domain.EmbeddedChunk `json:"chunks"`
	Model  string                 `json:"model"`
}

// New creates a webhook embedding client.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: webhook url is not configured", domain.ErrServiceUnavailable)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}

	return &Client{
		client:     cfg.HTTPClient,
		url:        cfg.URL,
		secret:     cfg.Secret,
		timeout:    cfg.Timeout,
		dimensions: cfg.Dimensions,
		model:      cfg.Model,
	}, nil
}

// Embed sends the full text in one request and returns the validated chunks.
func (c *Client) Embed(ctx context.Context, documentID, text string, visibility domain.Visibility) (*domain.EmbeddingResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	jsonBody, err := json.Marshal(request{
		DocumentID: documentID,
		Text:       text,
		Visibility: visibility.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", domain.ErrServiceUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.secret != "" {
		req.Header.Set(SecretHeader, c.secret)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: webhook returned status %d: %s",
			domain.ErrServiceUnavailable, resp.StatusCode, bytes.TrimSpace(excerpt))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}
	if len(body) > maxResponseSize {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", domain.ErrInvalidResponse, maxResponseSize)
	}

	var out response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrInvalidResponse, err)
	}

	result := &domain.EmbeddingResult{
		Chunks: out.Chunks,
		Model:  out.Model,
	}
	if result.Model == "" {
		result.Model = c.model
	}

	if err := result.Validate(c.dimensions); err != nil {
		return nil, err
	}
	return result, nil
}

// classifyTransportError maps transport failures onto the embedding taxonomy.
func classifyTransportError(ctx context.Context, err error) error {
	var netErr net.Error
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
}

// ModelName returns the configured model label.
func (c *Client) ModelName() string {
	return c.model
}

// Ping checks the webhook host accepts connections.
// Any HTTP response counts as reachable; workflow webhooks often reject HEAD.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.url, http.NoBody)
	if err != nil {
		return fmt.Errorf("%w: create ping request: %v", domain.ErrServiceUnavailable, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return classifyTransportError(ctx, err)
	}
	resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: webhook returned status %d", domain.ErrServiceUnavailable, resp.StatusCode)
	}
	return nil
}

// Close releases resources.
func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
