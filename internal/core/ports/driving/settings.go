package driving

import "github.com/custodia-labs/lexbase/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetEmbeddingBackend configures the embedding backend.
	SetEmbeddingBackend(backend domain.EmbeddingBackend) error

	// Validate checks that the settings can start the pipeline.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateEmbeddingConfig validates the embedding configuration by pinging the backend.
	ValidateEmbeddingConfig() error
}
