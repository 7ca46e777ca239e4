package domain

import "errors"

// Domain errors represent business logic failures.
// Adapters translate their infrastructure failures into these so callers
// can classify them with errors.Is.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates client-correctable input problems.
	ErrValidation = errors.New("validation failed")

	// ErrUnsupportedFormat indicates the file extension is outside the supported set.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrFileTooLarge indicates the upload exceeds the size ceiling.
	ErrFileTooLarge = errors.New("file too large")

	// ErrForbidden indicates the principal lacks the required capability.
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthenticated indicates no valid principal was presented.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrAlreadyEmbedded indicates a document already has its chunk set.
	ErrAlreadyEmbedded = errors.New("document already embedded")

	// Pipeline Errors.

	// ErrStorageWrite indicates the raw file could not be written to the blob store.
	ErrStorageWrite = errors.New("storage write failed")

	// ErrExtraction indicates no usable text could be extracted.
	ErrExtraction = errors.New("text extraction failed")

	// ErrParseFailure indicates a format-specific parser rejected the file.
	ErrParseFailure = errors.New("parse failure")

	// ErrPersistence indicates a document store write failed.
	ErrPersistence = errors.New("persistence failed")

	// ErrEmbedding indicates the embedding stage failed.
	ErrEmbedding = errors.New("embedding failed")

	// Embedding Service Errors.

	// ErrServiceUnavailable indicates the embedding service is misconfigured or unreachable.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrTimeout indicates the embedding service exceeded its deadline.
	ErrTimeout = errors.New("timeout")

	// ErrInvalidResponse indicates the embedding service returned a malformed payload.
	ErrInvalidResponse = errors.New("invalid response")

	// ErrInvalidConfiguration indicates a component was configured with unusable values.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)
