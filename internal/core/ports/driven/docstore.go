package driven

import (
	"context"

	"github.com/custodia-labs/lexbase/internal/core/domain"
)

// DocumentStore persists documents and their embedded chunks.
// Backed by SQLite by default; Postgres with pgvector for production.
type DocumentStore interface {
	// CreateDocument inserts a new document row.
	// Fails with domain.ErrPersistence when the write is rejected.
	CreateDocument(ctx context.Context, doc *domain.Document) error

	// InsertChunks stores all chunks in a single transaction.
	// Either every chunk is stored or none is. Returns the number inserted.
	InsertChunks(ctx context.Context, chunks []domain.Chunk) (int, error)

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetChunks retrieves all chunks for a document ordered by position.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// CountChunks returns the number of chunks stored for a document.
	CountChunks(ctx context.Context, documentID string) (int, error)

	// ListDocuments returns documents newest first.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, id string) error
}
