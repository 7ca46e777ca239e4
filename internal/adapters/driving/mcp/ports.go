package mcp

import (
	"github.com/custodia-labs/lexbase/internal/core/domain"
	"github.com/custodia-labs/lexbase/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Ingestion runs the import pipeline.
	Ingestion driving.IngestionService

	// Document reads ingested documents.
	Document driving.DocumentService

	// Principal is the identity tool calls run as. The zero value means
	// the local operator (domain.SystemPrincipal).
	Principal domain.Principal
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Ingestion == nil {
		return ErrMissingIngestionService
	}
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	return nil
}

func (p *Ports) principal() domain.Principal {
	if p.Principal.IsZero() {
		return domain.SystemPrincipal
	}
	return p.Principal
}
