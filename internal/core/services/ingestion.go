package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/lexbase/internal/core/domain"
	"github.com/custodia-labs/lexbase/internal/core/ports/driven"
	"github.com/custodia-labs/lexbase/internal/core/ports/driving"
	"github.com/custodia-labs/lexbase/internal/logger"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestionService = (*IngestionService)(nil)

// blobPrefix is the directory under which raw uploads are stored.
const blobPrefix = "documents"

// IngestionService runs the document ingestion pipeline.
// Each call is sequential; concurrent calls share only the stores.
type IngestionService struct {
	authorizer driven.Authorizer
	blobs      driven.BlobStore
	extractor  driven.TextExtractor
	docStore   driven.DocumentStore
	embedder   driven.EmbeddingClient

	maxUploadSize int
	minTextLength int
	now           func() time.Time
	newID         func() string
}

// IngestionOption configures an IngestionService.
type IngestionOption func(*IngestionService)

// WithMaxUploadSize overrides the upload ceiling in bytes.
func WithMaxUploadSize(n int) IngestionOption {
	return func(s *IngestionService) {
		if n > 0 {
			s.maxUploadSize = n
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) IngestionOption {
	return func(s *IngestionService) {
		s.now = now
	}
}

// WithIDGenerator overrides identifier generation.
func WithIDGenerator(newID func() string) IngestionOption {
	return func(s *IngestionService) {
		s.newID = newID
	}
}

// NewIngestionService creates the orchestrator.
func NewIngestionService(
	authorizer driven.Authorizer,
	blobs driven.BlobStore,
	extractor driven.TextExtractor,
	docStore driven.DocumentStore,
	embedder driven.EmbeddingClient,
	opts ...IngestionOption,
) *IngestionService {
	s := &IngestionService{
		authorizer:    authorizer,
		blobs:         blobs,
		extractor:     extractor,
		docStore:      docStore,
		embedder:      embedder,
		maxUploadSize: domain.MaxUploadSize,
		minTextLength: domain.MinTextLength,
		now:           time.Now,
		newID:         func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// validatedRequest is an IngestRequest after the validated stage.
type validatedRequest struct {
	filename   string
	data       []byte
	title      string
	area       domain.LegalArea
	docType    domain.DocumentType
	court      string
	year       *int
	kind       domain.FileKind
	visibility domain.Visibility
}

// Ingest runs every stage for one uploaded file.
func (s *IngestionService) Ingest(
	ctx context.Context,
	principal domain.Principal,
	req domain.IngestRequest,
) (*domain.IngestResult, error) {
	logger.Section("Ingest")

	// Validated
	v, err := s.validate(principal, req)
	if err != nil {
		return nil, err
	}
	logger.Debug("stage %s: %s (%s, %d bytes)", domain.StageValidated, v.filename, v.kind, len(v.data))

	// Uploaded
	storagePath := path.Join(blobPrefix, s.newID()+"."+v.kind.Extension())
	if err := s.blobs.Put(ctx, storagePath, v.data, v.kind.ContentType()); err != nil {
		logger.Warn("blob put %s failed: %v", storagePath, err)
		return nil, &domain.IngestError{
			Code:    domain.CodeStorageWrite,
			Stage:   domain.StageUploaded,
			Message: "could not store the uploaded file",
			Details: domain.TruncateDetails(err.Error()),
			Err:     wrapCause(domain.ErrStorageWrite, err),
		}
	}
	logger.Debug("stage %s: %s", domain.StageUploaded, storagePath)

	// TextExtracted
	text, err := s.extract(ctx, v)
	if err != nil {
		return nil, s.compensateExtraction(ctx, storagePath, err)
	}
	textLength := utf8.RuneCountInString(text)
	logger.Debug("stage %s: %d characters", domain.StageTextExtracted, textLength)

	// DocumentRecorded
	doc := &domain.Document{
		ID:          s.newID(),
		Title:       v.title,
		LegalArea:   v.area,
		Type:        v.docType,
		Court:       v.court,
		Year:        v.year,
		StoragePath: storagePath,
		Kind:        v.kind,
		Visibility:  v.visibility,
		Content:     text,
		TextLength:  textLength,
		CreatedAt:   s.now(),
	}
	if err := s.docStore.CreateDocument(ctx, doc); err != nil {
		logger.Error("recording document for %s failed: %v", storagePath, err)
		return nil, &domain.IngestError{
			Code:    domain.CodePersistence,
			Stage:   domain.StageDocumentRecorded,
			Message: "could not record the document",
			Details: domain.TruncateDetails(err.Error()),
			Err:     wrapCause(domain.ErrPersistence, err),
		}
	}
	logger.Debug("stage %s: %s", domain.StageDocumentRecorded, doc.ID)

	return s.embedAndPersist(ctx, doc)
}

// RetryEmbedding re-runs the embedding stages for a recorded document
// whose previous embedding attempt failed.
func (s *IngestionService) RetryEmbedding(
	ctx context.Context,
	principal domain.Principal,
	documentID string,
) (*domain.IngestResult, error) {
	logger.Section("Retry Embedding")

	if err := s.Authorize(principal); err != nil {
		return nil, err
	}

	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.IngestError{
				Code:       domain.CodeNotFound,
				Stage:      domain.StageDocumentRecorded,
				Message:    "document not found",
				DocumentID: documentID,
				Err:        err,
			}
		}
		return nil, &domain.IngestError{
			Code:       domain.CodePersistence,
			Stage:      domain.StageDocumentRecorded,
			Message:    "could not load the document",
			Details:    domain.TruncateDetails(err.Error()),
			DocumentID: documentID,
			Err:        wrapCause(domain.ErrPersistence, err),
		}
	}

	count, err := s.docStore.CountChunks(ctx, documentID)
	if err != nil {
		return nil, &domain.IngestError{
			Code:       domain.CodePersistence,
			Stage:      domain.StageDocumentRecorded,
			Message:    "could not inspect the document's chunks",
			Details:    domain.TruncateDetails(err.Error()),
			DocumentID: documentID,
			Err:        wrapCause(domain.ErrPersistence, err),
		}
	}
	if count > 0 {
		return nil, &domain.IngestError{
			Code:       domain.CodeValidation,
			Stage:      domain.StageDocumentRecorded,
			Message:    fmt.Sprintf("document already has %d chunks", count),
			DocumentID: documentID,
			Err:        domain.ErrAlreadyEmbedded,
		}
	}
	if strings.TrimSpace(doc.Content) == "" {
		return nil, &domain.IngestError{
			Code:       domain.CodeValidation,
			Stage:      domain.StageDocumentRecorded,
			Message:    "document has no stored text to embed",
			DocumentID: documentID,
			Err:        domain.ErrValidation,
		}
	}

	return s.embedAndPersist(ctx, doc)
}

// embedAndPersist runs the embedded, chunks_persisted and complete stages.
// On failure the document row and blob are kept so the caller can retry.
func (s *IngestionService) embedAndPersist(ctx context.Context, doc *domain.Document) (*domain.IngestResult, error) {
	result, err := s.embedder.Embed(ctx, doc.ID, doc.Content, doc.Visibility)
	if err == nil {
		err = result.Validate(0)
	}
	if err != nil {
		logger.Warn("embedding document %s failed: %v", doc.ID, err)
		return nil, &domain.IngestError{
			Code:       domain.CodeEmbedding,
			Stage:      domain.StageEmbedded,
			Message:    embeddingMessage(err),
			Details:    domain.TruncateDetails(err.Error()),
			DocumentID: doc.ID,
			Partial:    true,
			Err:        wrapCause(domain.ErrEmbedding, err),
		}
	}
	logger.Debug("stage %s: %d chunks from %s", domain.StageEmbedded, len(result.Chunks), result.Model)

	now := s.now()
	chunks := make([]domain.Chunk, len(result.Chunks))
	for i, c := range result.Chunks {
		chunks[i] = domain.Chunk{
			ID:         s.newID(),
			DocumentID: doc.ID,
			Position:   i,
			Content:    c.Content,
			Embedding:  c.Embedding,
			CreatedAt:  now,
		}
	}

	inserted, err := s.docStore.InsertChunks(ctx, chunks)
	if err != nil {
		logger.Error("persisting %d chunks for %s failed: %v", len(chunks), doc.ID, err)
		return nil, &domain.IngestError{
			Code:       domain.CodePersistence,
			Stage:      domain.StageChunksPersisted,
			Message:    "could not store the document's chunks",
			Details:    domain.TruncateDetails(err.Error()),
			DocumentID: doc.ID,
			Partial:    true,
			Err:        wrapCause(domain.ErrPersistence, err),
		}
	}
	logger.Debug("stage %s: %d rows", domain.StageChunksPersisted, inserted)

	model := result.Model
	if model == "" {
		model = s.embedder.ModelName()
	}
	logger.Info("stage %s: %s (%d chunks, %d characters, %s)",
		domain.StageComplete, doc.ID, inserted, doc.TextLength, model)

	return &domain.IngestResult{
		DocumentID:     doc.ID,
		Title:          doc.Title,
		ChunksInserted: inserted,
		TextLength:     doc.TextLength,
		EmbeddingModel: model,
	}, nil
}

// Authorize checks the rag:import capability.
func (s *IngestionService) Authorize(principal domain.Principal) error {
	if !s.authorizer.HasCapability(principal, domain.CapabilityRAGImport) {
		return validationFailure(domain.CodeForbidden, "principal lacks the rag:import capability", domain.ErrForbidden)
	}
	return nil
}

// validate checks the capability and the request fields. No side effects.
func (s *IngestionService) validate(principal domain.Principal, req domain.IngestRequest) (*validatedRequest, error) {
	if err := s.Authorize(principal); err != nil {
		return nil, err
	}

	if req.Filename == "" || len(req.Data) == 0 {
		return nil, validationFailure(domain.CodeValidation, "a non-empty file is required", domain.ErrValidation)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, validationFailure(domain.CodeValidation, "title is required", domain.ErrValidation)
	}

	if strings.TrimSpace(req.LegalArea) == "" {
		return nil, validationFailure(domain.CodeValidation, "legal area is required", domain.ErrValidation)
	}
	area, ok := domain.ParseLegalArea(req.LegalArea)
	if !ok {
		return nil, validationFailure(domain.CodeValidation,
			fmt.Sprintf("unknown legal area %q", req.LegalArea), domain.ErrValidation)
	}

	if strings.TrimSpace(req.DocumentType) == "" {
		return nil, validationFailure(domain.CodeValidation, "document type is required", domain.ErrValidation)
	}
	docType, ok := domain.ParseDocumentType(req.DocumentType)
	if !ok {
		return nil, validationFailure(domain.CodeValidation,
			fmt.Sprintf("unknown document type %q", req.DocumentType), domain.ErrValidation)
	}

	visibility, ok := domain.ParseVisibility(req.Visibility)
	if !ok {
		return nil, validationFailure(domain.CodeValidation,
			fmt.Sprintf("unknown visibility %q", req.Visibility), domain.ErrValidation)
	}

	kind, err := domain.FileKindFromFilename(req.Filename)
	if err != nil {
		return nil, validationFailure(domain.CodeValidation, err.Error(), err)
	}

	if len(req.Data) > s.maxUploadSize {
		return nil, validationFailure(domain.CodeValidation,
			fmt.Sprintf("file is %d bytes, the limit is %d", len(req.Data), s.maxUploadSize),
			domain.ErrFileTooLarge)
	}

	return &validatedRequest{
		filename:   req.Filename,
		data:       req.Data,
		title:      title,
		area:       area,
		docType:    docType,
		court:      strings.TrimSpace(req.Court),
		year:       req.Year,
		kind:       kind,
		visibility: visibility,
	}, nil
}

// extract runs the extractor and enforces the minimum text length.
func (s *IngestionService) extract(ctx context.Context, v *validatedRequest) (string, error) {
	text, err := s.extractor.ExtractKind(ctx, v.data, v.kind)
	if err != nil {
		return "", err
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(text)); n < s.minTextLength {
		return "", fmt.Errorf("%w: extracted text has %d characters, at least %d required",
			domain.ErrExtraction, n, s.minTextLength)
	}
	return text, nil
}

// compensateExtraction deletes the uploaded blob and builds the extraction error.
// A failed delete is logged and reported; it does not change the error class.
func (s *IngestionService) compensateExtraction(ctx context.Context, storagePath string, cause error) error {
	logger.Warn("extraction for %s failed: %v", storagePath, cause)

	ingestErr := &domain.IngestError{
		Code:    domain.CodeExtraction,
		Stage:   domain.StageTextExtracted,
		Message: extractionMessage(cause),
		Details: domain.TruncateDetails(cause.Error()),
		Err:     wrapCause(domain.ErrExtraction, cause),
	}

	// The delete must run even after the caller has gone away.
	delCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	if err := s.blobs.Delete(delCtx, storagePath); err != nil {
		logger.Error("compensation: deleting blob %s failed: %v", storagePath, err)
		ingestErr.Compensations = append(ingestErr.Compensations, "delete_blob_failed:"+storagePath)
		return ingestErr
	}
	logger.Debug("compensation: deleted blob %s", storagePath)
	ingestErr.Compensations = append(ingestErr.Compensations, "deleted_blob:"+storagePath)
	return ingestErr
}

func validationFailure(code domain.ErrorCode, message string, cause error) *domain.IngestError {
	return &domain.IngestError{
		Code:    code,
		Stage:   domain.StageValidated,
		Message: message,
		Err:     cause,
	}
}

// wrapCause joins a stage sentinel with the underlying error unless it
// already carries that sentinel.
func wrapCause(sentinel, err error) error {
	if errors.Is(err, sentinel) {
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

func extractionMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrParseFailure):
		return "the file could not be parsed"
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return "the file format is not supported"
	default:
		return "the file does not contain enough text"
	}
}

func embeddingMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrTimeout):
		return "embedding service did not respond in time"
	case errors.Is(err, domain.ErrInvalidResponse):
		return "embedding service returned an invalid response"
	case errors.Is(err, domain.ErrInvalidConfiguration):
		return "embedding client is misconfigured"
	default:
		return "embedding service is unavailable"
	}
}
