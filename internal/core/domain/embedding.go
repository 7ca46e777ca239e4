package domain

import (
	"fmt"
	"strings"
)

// developmentModelSuffix marks embedding models that are not production-grade.
const developmentModelSuffix = "(development only)"

// EmbeddedChunk is one chunk text paired with its vector.
type EmbeddedChunk struct {
	Content   string    `json:"content"`
	Embedding []float32 `json:"embedding"`
}

// EmbeddingResult is the parallel list of chunks and vectors for a document.
type EmbeddingResult struct {
	Chunks []EmbeddedChunk
	Model  string
}

// Validate checks the result against the embedding contract.
// When dims is positive every vector must have exactly that length;
// otherwise every vector must match the first one.
func (r *EmbeddingResult) Validate(dims int) error {
	if r == nil || len(r.Chunks) == 0 {
		return fmt.Errorf("%w: no chunks returned", ErrInvalidResponse)
	}

	want := dims
	if want <= 0 {
		want = len(r.Chunks[0].Embedding)
	}
	if want == 0 {
		return fmt.Errorf("%w: chunk 0 has an empty embedding", ErrInvalidResponse)
	}

	for i, c := range r.Chunks {
		if strings.TrimSpace(c.Content) == "" {
			return fmt.Errorf("%w: chunk %d has empty content", ErrInvalidResponse, i)
		}
		if len(c.Embedding) != want {
			return fmt.Errorf("%w: chunk %d has %d dimensions, expected %d",
				ErrInvalidResponse, i, len(c.Embedding), want)
		}
	}
	return nil
}

// DevelopmentModelName labels a model name as a development stand-in.
func DevelopmentModelName(name string) string {
	return name + " " + developmentModelSuffix
}

// IsDevelopmentModel reports whether the model name came from a development stand-in.
func IsDevelopmentModel(name string) bool {
	return strings.HasSuffix(name, developmentModelSuffix)
}
