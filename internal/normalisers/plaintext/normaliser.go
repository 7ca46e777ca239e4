// Package plaintext handles UTF-8 text files.
package plaintext

import (
	"bytes"
	"context"

	"github.com/custodia-labs/lexbase/internal/core/domain"
	"github.com/custodia-labs/lexbase/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Kind returns the file kind this normaliser handles.
func (n *Normaliser) Kind() domain.FileKind {
	return domain.FileKindText
}

// Normalise decodes data as UTF-8 without validation.
// A leading byte order mark is dropped.
func (n *Normaliser) Normalise(_ context.Context, data []byte) (string, error) {
	return string(bytes.TrimPrefix(data, utf8BOM)), nil
}
