package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/lexbase/internal/core/domain"
)

// DocumentService is the read side over ingested documents.
type DocumentService interface {
	// List returns all documents newest first.
	List(ctx context.Context) ([]domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// GetContent returns the document's extracted text.
	GetContent(ctx context.Context, documentID string) (string, error)

	// GetDetails returns display metadata including the chunk count.
	GetDetails(ctx context.Context, documentID string) (*DocumentDetails, error)
}

// DocumentDetails provides a standardised view of document metadata.
type DocumentDetails struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	LegalArea   string    `json:"legal_area"`
	Type        string    `json:"document_type"`
	Court       string    `json:"court,omitempty"`
	Year        *int      `json:"year,omitempty"`
	Kind        string    `json:"file_kind"`
	Visibility  string    `json:"visibility"`
	StoragePath string    `json:"storage_path"`
	TextLength  int       `json:"text_length"`
	ChunkCount  int       `json:"chunk_count"`
	Embedded    bool      `json:"embedded"`
	CreatedAt   time.Time `json:"created_at"`
}
