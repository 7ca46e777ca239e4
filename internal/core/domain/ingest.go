package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Ingestion limits.
const (
	// MaxUploadSize is the ceiling for a single uploaded file (10 MiB).
	MaxUploadSize = 10 << 20

	// MinTextLength is the minimum trimmed text length for a usable document.
	MinTextLength = 50

	// maxDetailsLength bounds the diagnostic string returned to callers.
	maxDetailsLength = 512
)

// IngestRequest is a single document submission.
// Tag fields are raw caller input; the orchestrator validates them.
type IngestRequest struct {
	Filename     string
	Data         []byte
	Title        string
	LegalArea    string
	DocumentType string
	Court        string
	Year         *int
	Visibility   string
}

// IngestResult is returned when ingestion completes.
type IngestResult struct {
	DocumentID     string `json:"document_id"`
	Title          string `json:"title"`
	ChunksInserted int    `json:"chunks_inserted"`
	TextLength     int    `json:"text_length"`
	EmbeddingModel string `json:"embedding_model"`
}

// Stage is a step of the ingestion state machine.
// Stages only move forward.
type Stage string

// Ingestion stages in order.
const (
	StageValidated        Stage = "validated"
	StageUploaded         Stage = "uploaded"
	StageTextExtracted    Stage = "text_extracted"
	StageDocumentRecorded Stage = "document_recorded"
	StageEmbedded         Stage = "embedded"
	StageChunksPersisted  Stage = "chunks_persisted"
	StageComplete         Stage = "complete"
)

// String returns the string representation.
func (s Stage) String() string {
	return string(s)
}

// ErrorCode is the machine-readable class of an ingestion failure.
type ErrorCode string

// Error codes surfaced to callers.
const (
	CodeValidation           ErrorCode = "validation_error"
	CodeUnauthenticated      ErrorCode = "unauthenticated"
	CodeForbidden            ErrorCode = "forbidden"
	CodeStorageWrite         ErrorCode = "storage_write_error"
	CodeExtraction           ErrorCode = "extraction_error"
	CodePersistence          ErrorCode = "persistence_error"
	CodeEmbedding            ErrorCode = "embedding_error"
	CodeServiceUnavailable   ErrorCode = "service_unavailable"
	CodeTimeout              ErrorCode = "timeout"
	CodeInvalidConfiguration ErrorCode = "invalid_configuration"
	CodeNotFound             ErrorCode = "not_found"
	CodeInternal             ErrorCode = "internal_error"
)

// CodeOf classifies an error into an ErrorCode.
func CodeOf(err error) ErrorCode {
	var ingestErr *IngestError
	if errors.As(err, &ingestErr) {
		return ingestErr.Code
	}

	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthenticated):
		return CodeUnauthenticated
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrValidation), errors.Is(err, ErrUnsupportedFormat),
		errors.Is(err, ErrFileTooLarge), errors.Is(err, ErrAlreadyEmbedded):
		return CodeValidation
	case errors.Is(err, ErrInvalidConfiguration):
		return CodeInvalidConfiguration
	case errors.Is(err, ErrTimeout):
		return CodeTimeout
	case errors.Is(err, ErrServiceUnavailable):
		return CodeServiceUnavailable
	default:
		return CodeInternal
	}
}

// IngestError is the single structured failure returned by the pipeline.
type IngestError struct {
	// Code is the taxonomy class.
	Code ErrorCode

	// Stage is the stage that failed.
	Stage Stage

	// Message is safe to show to callers.
	Message string

	// Details is a bounded diagnostic string for operators.
	Details string

	// DocumentID is set once a document row exists, so callers can retry.
	DocumentID string

	// Partial is true when the document and blob were kept for a retry.
	Partial bool

	// Compensations lists the corrective actions that were applied.
	Compensations []string

	// Err is the wrapped cause.
	Err error
}

// Error implements error.
func (e *IngestError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if e.Stage != "" {
		b.WriteString(" at ")
		b.WriteString(string(e.Stage))
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.DocumentID != "" {
		fmt.Fprintf(&b, " (document %s)", e.DocumentID)
	}
	return b.String()
}

// Unwrap returns the cause.
func (e *IngestError) Unwrap() error {
	return e.Err
}

// TruncateDetails bounds a diagnostic string.
func TruncateDetails(s string) string {
	r := []rune(s)
	if len(r) <= maxDetailsLength {
		return s
	}
	return string(r[:maxDetailsLength]) + "..."
}
