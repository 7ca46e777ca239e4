package mcp

import (
	"context"

	"github.com/custodia-labs/lexbase/internal/core/domain"
	"github.com/custodia-labs/lexbase/internal/core/ports/driving"
)

// mockIngestionService records the last request it was given.
type mockIngestionService struct {
	result    *domain.IngestResult
	err       error
	lastReq   domain.IngestRequest
	lastID    string
	principal domain.Principal
}

func (m *mockIngestionService) Authorize(domain.Principal) error {
	return nil
}

func (m *mockIngestionService) Ingest(
	_ context.Context,
	principal domain.Principal,
	req domain.IngestRequest,
) (*domain.IngestResult, error) {
	m.principal = principal
	m.lastReq = req
	return m.result, m.err
}

func (m *mockIngestionService) RetryEmbedding(
	_ context.Context,
	principal domain.Principal,
	documentID string,
) (*domain.IngestResult, error) {
	m.principal = principal
	m.lastID = documentID
	return m.result, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	content   string
	details   *driving.DocumentDetails
	err       error
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) GetContent(_ context.Context, _ string) (string, error) {
	return m.content, m.err
}

func (m *mockDocumentService) GetDetails(_ context.Context, _ string) (*driving.DocumentDetails, error) {
	return m.details, m.err
}
