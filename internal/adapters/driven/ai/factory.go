// Package ai provides factory functions for creating embedding client adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/lexbase/internal/adapters/driven/embedding/mock"
	openaiembed "github.com/custodia-labs/lexbase/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/lexbase/internal/adapters/driven/embedding/webhook"
	"github.com/custodia-labs/lexbase/internal/core/domain"
	"github.com/custodia-labs/lexbase/internal/core/ports/driven"
	"github.com/custodia-labs/lexbase/internal/postprocessors/chunker"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateEmbeddingClient creates the embedding client selected by settings.
// Chunker options apply to backends that chunk locally.
// A missing or incomplete configuration fails with domain.ErrServiceUnavailable.
func CreateEmbeddingClient(settings *domain.EmbeddingSettings, opts ...chunker.Option) (driven.EmbeddingClient, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: embedding is not configured", domain.ErrServiceUnavailable)
	}
	if !settings.Backend.IsValid() {
		return nil, fmt.Errorf("%w: unsupported embedding backend %q",
			domain.ErrInvalidConfiguration, settings.Backend)
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: embedding backend %s is missing required settings",
			domain.ErrServiceUnavailable, settings.Backend)
	}

	switch settings.Backend {
	case domain.EmbeddingBackendWebhook:
		return createWebhook(settings)

	case domain.EmbeddingBackendMock:
		return mock.New(settings.Dimensions, opts...), nil

	case domain.EmbeddingBackendOpenAI:
		return createOpenAI(settings, opts...)

	default:
		return nil, fmt.Errorf("%w: unsupported embedding backend %q",
			domain.ErrInvalidConfiguration, settings.Backend)
	}
}

// CreateAndValidateEmbeddingClient creates an embedding client and validates connectivity.
func CreateAndValidateEmbeddingClient(settings *domain.EmbeddingSettings, opts ...chunker.Option) (driven.EmbeddingClient, error) {
	client, err := CreateEmbeddingClient(settings, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w. Run 'lexbase settings show' to review", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("embedding backend %s unreachable: %w", settings.Backend, err)
	}

	return client, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a client and pinging it.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	client, err := CreateEmbeddingClient(settings)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return client.Ping(ctx)
}

// createWebhook creates a webhook embedding client.
func createWebhook(settings *domain.EmbeddingSettings) (driven.EmbeddingClient, error) {
	client, err := webhook.New(webhook.Config{
		URL:        settings.WebhookURL,
		Secret:     settings.WebhookSecret,
		Timeout:    settings.Timeout,
		Dimensions: settings.Dimensions,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// createOpenAI creates an OpenAI embedding client.
func createOpenAI(settings *domain.EmbeddingSettings, opts ...chunker.Option) (driven.EmbeddingClient, error) {
	dimensions := settings.Dimensions
	if dimensions == 0 {
		dimensions = domain.EmbeddingDimensions()[settings.Model]
	}

	client, err := openaiembed.New(openaiembed.Config{
		APIKey:            settings.APIKey,
		BaseURL:           settings.BaseURL,
		Model:             settings.Model,
		Timeout:           settings.Timeout,
		Dimensions:        dimensions,
		RequestsPerSecond: settings.RequestsPerSecond,
		Chunker:           chunker.New(opts...),
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}
