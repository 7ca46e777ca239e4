package driving

import (
	"context"

	"github.com/custodia-labs/lexbase/internal/core/domain"
)

// IngestionService runs the document ingestion pipeline.
type IngestionService interface {
	// Authorize reports whether the principal may import documents.
	// A refusal is a *domain.IngestError with CodeForbidden.
	Authorize(principal domain.Principal) error

	// Ingest validates, stores, extracts, embeds and persists a document.
	// Failures are returned as *domain.IngestError.
	Ingest(ctx context.Context, principal domain.Principal, req domain.IngestRequest) (*domain.IngestResult, error)

	// RetryEmbedding re-runs embedding for a recorded document that has no chunks.
	RetryEmbedding(ctx context.Context, principal domain.Principal, documentID string) (*domain.IngestResult, error)
}
