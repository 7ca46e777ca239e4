// Package domain defines the core business entities for lexbase.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested legal document with its tags
//   - Chunk: An embedded fragment of a document's text
//   - IngestRequest / IngestResult / IngestError: the pipeline contract
//   - AppSettings: typed configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
