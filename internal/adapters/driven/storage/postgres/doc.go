// Package postgres provides a DocumentStore on Postgres using gorm.
//
// Chunk embeddings are stored in a pgvector column so that the same
// table can back similarity search later. Each chunk row also carries
// the owning document's tags as JSONB metadata.
package postgres
