package normalisers

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/lexbase/internal/core/domain"
	"github.com/custodia-labs/lexbase/internal/core/ports/driven"
	"github.com/custodia-labs/lexbase/internal/normalisers/docx"
	"github.com/custodia-labs/lexbase/internal/normalisers/pdf"
	"github.com/custodia-labs/lexbase/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.TextExtractor = (*Registry)(nil)

// Registry maps file kinds to normalisers.
type Registry struct {
	mu          sync.RWMutex
	normalisers map[domain.FileKind]driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		normalisers: make(map[domain.FileKind]driven.Normaliser),
	}
}

// DefaultRegistry returns a registry with the PDF, DOCX and text normalisers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(pdf.New())
	r.Register(docx.New())
	r.Register(plaintext.New())
	return r
}

// Register adds a normaliser, replacing any existing one for the same kind.
func (r *Registry) Register(n driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.normalisers[n.Kind()] = n
}

// Get returns the normaliser for a kind.
func (r *Registry) Get(kind domain.FileKind) (driven.Normaliser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.normalisers[kind]
	return n, ok
}

// Kinds returns the registered file kinds.
func (r *Registry) Kinds() []domain.FileKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]domain.FileKind, 0, len(r.normalisers))
	for k := range r.normalisers {
		kinds = append(kinds, k)
	}
	return kinds
}

// Extract resolves the kind from filename and returns normalised text.
func (r *Registry) Extract(ctx context.Context, data []byte, filename string) (string, error) {
	kind, err := domain.FileKindFromFilename(filename)
	if err != nil {
		return "", err
	}
	return r.ExtractKind(ctx, data, kind)
}

// ExtractKind runs the normaliser registered for kind.
func (r *Registry) ExtractKind(ctx context.Context, data []byte, kind domain.FileKind) (string, error) {
	n, ok := r.Get(kind)
	if !ok {
		return "", fmt.Errorf("%w: no normaliser for %s", domain.ErrUnsupportedFormat, kind)
	}

	text, err := n.Normalise(ctx, data)
	if err != nil {
		return "", err
	}
	return Clean(text), nil
}

// Clean removes NUL bytes and converts CRLF line endings to LF.
func Clean(text string) string {
	text = strings.ReplaceAll(text, "\x00", "")
	return strings.ReplaceAll(text, "\r\n", "\n")
}

var defaultRegistry = DefaultRegistry()

// Extract returns normalised text for data named filename using the default registry.
func Extract(ctx context.Context, data []byte, filename string) (string, error) {
	return defaultRegistry.Extract(ctx, data, filename)
}

// IsValidFileType reports whether filename has a supported extension.
func IsValidFileType(filename string) bool {
	_, err := domain.FileKindFromFilename(filename)
	return err == nil
}
