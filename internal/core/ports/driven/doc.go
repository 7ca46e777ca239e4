// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - BlobStore: Raw file storage (filesystem, GCS, memory)
//   - DocumentStore: Document and chunk persistence (SQLite, Postgres, memory)
//   - EmbeddingClient: Chunking and vectorisation (webhook, OpenAI, mock)
//   - TextExtractor / Normaliser: PDF, DOCX and text extraction
//   - Authorizer: Capability checks
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
