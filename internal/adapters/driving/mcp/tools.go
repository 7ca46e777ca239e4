package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/lexbase/internal/core/domain"
)

// ImportInput is the input schema for the import_document tool.
type ImportInput struct {
	Path         string `json:"path" jsonschema:"local path to a .pdf, .docx, .doc or .txt file"`
	Title        string `json:"title" jsonschema:"document title"`
	LegalArea    string `json:"legal_area" jsonschema:"legal area: criminal, obligations, enforcement-bankruptcy, civil, commercial, constitutional or general"`
	DocumentType string `json:"document_type" jsonschema:"document type: statute, case-law, article or general"`
	Court        string `json:"court,omitempty" jsonschema:"issuing court, if any"`
	Year         int    `json:"year,omitempty" jsonschema:"year of decision or enactment"`
	Visibility   string `json:"visibility,omitempty" jsonschema:"public or private (default public)"`
}

// IngestOutput is the output schema for tools that ingest or embed.
type IngestOutput struct {
	DocumentID     string `json:"document_id"`
	Title          string `json:"title"`
	ChunksInserted int    `json:"chunks_inserted"`
	TextLength     int    `json:"text_length"`
	EmbeddingModel string `json:"embedding_model"`
}

// RetryInput is the input schema for the retry_embedding tool.
type RetryInput struct {
	DocumentID string `json:"document_id" jsonschema:"ID of a document whose embedding failed"`
}

// ListInput is the input schema for the list_documents tool.
type ListInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of documents to return (default 50)"`
}

// ListOutput is the output schema for the list_documents tool.
type ListOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput is the summary of one document.
type DocumentOutput struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	LegalArea    string `json:"legal_area"`
	DocumentType string `json:"document_type"`
	URI          string `json:"uri"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "import_document",
		Description: "Import a legal document from a local file into the knowledge base",
	}, s.handleImport)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retry_embedding",
		Description: "Re-run embedding for a document whose previous import stopped after it was recorded",
	}, s.handleRetry)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List ingested documents, newest first",
	}, s.handleList)
}

func (s *Server) handleImport(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ImportInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	if input.Path == "" {
		return nil, IngestOutput{}, fmt.Errorf("%w: path is required", domain.ErrValidation)
	}

	info, err := os.Stat(input.Path)
	if err != nil {
		return nil, IngestOutput{}, fmt.Errorf("%w: %s: %w", domain.ErrValidation, input.Path, err)
	}
	if info.Size() > domain.MaxUploadSize {
		return nil, IngestOutput{}, fmt.Errorf("%w: %s is %d bytes", domain.ErrFileTooLarge, input.Path, info.Size())
	}

	data, err := os.ReadFile(input.Path)
	if err != nil {
		return nil, IngestOutput{}, fmt.Errorf("reading %s: %w", input.Path, err)
	}

	req := domain.IngestRequest{
		Filename:     filepath.Base(input.Path),
		Data:         data,
		Title:        input.Title,
		LegalArea:    input.LegalArea,
		DocumentType: input.DocumentType,
		Court:        input.Court,
		Visibility:   input.Visibility,
	}
	if input.Year > 0 {
		year := input.Year
		req.Year = &year
	}

	result, err := s.ports.Ingestion.Ingest(ctx, s.ports.principal(), req)
	if err != nil {
		return nil, IngestOutput{}, err
	}
	return nil, toIngestOutput(result), nil
}

func (s *Server) handleRetry(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetryInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	result, err := s.ports.Ingestion.RetryEmbedding(ctx, s.ports.principal(), input.DocumentID)
	if err != nil {
		return nil, IngestOutput{}, err
	}
	return nil, toIngestOutput(result), nil
}

func (s *Server) handleList(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListInput,
) (*mcp.CallToolResult, ListOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 50
	}

	docs, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, ListOutput{}, err
	}
	if len(docs) > limit {
		docs = docs[:limit]
	}

	output := ListOutput{
		Documents: make([]DocumentOutput, len(docs)),
		Count:     len(docs),
	}
	for i := range docs {
		output.Documents[i] = DocumentOutput{
			ID:           docs[i].ID,
			Title:        docs[i].Title,
			LegalArea:    docs[i].LegalArea.String(),
			DocumentType: docs[i].Type.String(),
			URI:          documentURI(docs[i].ID),
		}
	}
	return nil, output, nil
}

func toIngestOutput(r *domain.IngestResult) IngestOutput {
	return IngestOutput{
		DocumentID:     r.DocumentID,
		Title:          r.Title,
		ChunksInserted: r.ChunksInserted,
		TextLength:     r.TextLength,
		EmbeddingModel: r.EmbeddingModel,
	}
}
