package driven

import "github.com/custodia-labs/lexbase/internal/core/domain"

// EmbeddingConfigValidator validates embedding configurations.
// This abstracts the connectivity check so core services do not depend on adapters.
type EmbeddingConfigValidator interface {
	// ValidateEmbedding creates a client from config and pings it.
	ValidateEmbedding(config *domain.EmbeddingSettings) error
}
