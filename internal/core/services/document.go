package services

import (
	"context"
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/custodia-labs/lexbase/internal/core/domain"
	"github.com/custodia-labs/lexbase/internal/core/ports/driven"
	"github.com/custodia-labs/lexbase/internal/core/ports/driving"
	"github.com/custodia-labs/lexbase/internal/postprocessors/chunker"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService is the read side over ingested documents.
type DocumentService struct {
	docStore driven.DocumentStore
	overlap  int
}

// NewDocumentService creates a new document service.
// overlap is the local chunker overlap, used only when a document has no
// stored text.
func NewDocumentService(docStore driven.DocumentStore, overlap int) *DocumentService {
	if overlap < 0 {
		overlap = 0
	}
	return &DocumentService{
		docStore: docStore,
		overlap:  overlap,
	}
}

// List returns all documents newest first.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	return s.docStore.ListDocuments(ctx)
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.docStore.GetDocument(ctx, documentID)
}

// GetContent returns the extracted text of a document. The stored text is
// authoritative; chunks are only reassembled for rows that lack it, and
// the result must match the recorded text length. Chunk boundaries come
// from the embedding backend, so the configured overlap is tried first
// and plain concatenation second.
func (s *DocumentService) GetContent(ctx context.Context, documentID string) (string, error) {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return "", err
	}
	if doc.Content != "" {
		return doc.Content, nil
	}

	chunks, err := s.docStore.GetChunks(ctx, documentID)
	if err != nil {
		return "", err
	}
	if len(chunks) == 0 {
		return "", nil
	}

	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].Position < chunks[j].Position
	})

	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = c.Content
	}
	for _, overlap := range []int{s.overlap, 0} {
		text := chunker.Join(parts, overlap)
		if utf8.RuneCountInString(text) == doc.TextLength {
			return text, nil
		}
	}
	return "", fmt.Errorf("%w: chunks of %s do not reassemble to %d characters",
		domain.ErrPersistence, documentID, doc.TextLength)
}

// GetDetails returns display metadata including the chunk count.
func (s *DocumentService) GetDetails(ctx context.Context, documentID string) (*driving.DocumentDetails, error) {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	count, err := s.docStore.CountChunks(ctx, documentID)
	if err != nil {
		return nil, err
	}

	return &driving.DocumentDetails{
		ID:          doc.ID,
		Title:       doc.Title,
		LegalArea:   doc.LegalArea.String(),
		Type:        doc.Type.String(),
		Court:       doc.Court,
		Year:        doc.Year,
		Kind:        doc.Kind.String(),
		Visibility:  doc.Visibility.String(),
		StoragePath: doc.StoragePath,
		TextLength:  doc.TextLength,
		ChunkCount:  count,
		Embedded:    count > 0,
		CreatedAt:   doc.CreatedAt,
	}, nil
}
