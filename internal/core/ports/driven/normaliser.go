package driven

import (
	"context"

	"github.com/custodia-labs/lexbase/internal/core/domain"
)

// Normaliser extracts plain text from one file kind.
type Normaliser interface {
	// Kind returns the file kind this normaliser handles.
	Kind() domain.FileKind

	// Normalise returns the UTF-8 text of data.
	// Parser failures are reported as domain.ErrParseFailure.
	Normalise(ctx context.Context, data []byte) (string, error)
}

// TextExtractor resolves the normaliser for a filename and runs it.
type TextExtractor interface {
	// Extract returns normalised text for data named filename.
	// Fails with domain.ErrUnsupportedFormat before parsing for unknown extensions.
	Extract(ctx context.Context, data []byte, filename string) (string, error)

	// ExtractKind runs the normaliser for an already resolved kind.
	ExtractKind(ctx context.Context, data []byte, kind domain.FileKind) (string, error)
}
