package postgres

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"

	"github.com/custodia-labs/lexbase/internal/core/domain"
)

// documentModel is the gorm row for a domain.Document.
type documentModel struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	Title        string    `gorm:"type:text;not null"`
	LegalArea    string    `gorm:"size:64;not null;index"`
	DocumentType string    `gorm:"size:64;not null;index"`
	Court        *string   `gorm:"type:text"`
	Year         *int      `gorm:"index"`
	StoragePath  string    `gorm:"type:text;not null"`
	FileKind     string    `gorm:"size:16;not null"`
	Visibility   string    `gorm:"size:16;not null;index"`
	Content      string    `gorm:"type:text;not null"`
	TextLength   int       `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null;index"`

	Chunks []chunkModel `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE"`
}

func (documentModel) TableName() string {
	return "rag_documents"
}

// chunkModel is the gorm row for a domain.Chunk.
// Metadata copies the owning document's tags so retrieval can filter
// without a join.
type chunkModel struct {
	ID         string            `gorm:"type:uuid;primaryKey"`
	DocumentID string            `gorm:"type:uuid;not null;uniqueIndex:idx_chunk_position"`
	Position   int               `gorm:"not null;uniqueIndex:idx_chunk_position"`
	Content    string            `gorm:"type:text;not null"`
	Embedding  pgvector.Vector   `gorm:"type:vector"`
	Dimensions int               `gorm:"not null"`
	Metadata   datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt  time.Time         `gorm:"not null"`
}

func (chunkModel) TableName() string {
	return "rag_chunks"
}

func toDocumentModel(doc *domain.Document) documentModel {
	m := documentModel{
		ID:           doc.ID,
		Title:        doc.Title,
		LegalArea:    string(doc.LegalArea),
		DocumentType: string(doc.Type),
		Year:         doc.Year,
		StoragePath:  doc.StoragePath,
		FileKind:     string(doc.Kind),
		Visibility:   string(doc.Visibility),
		Content:      doc.Content,
		TextLength:   doc.TextLength,
		CreatedAt:    doc.CreatedAt,
	}
	if doc.Court != "" {
		court := doc.Court
		m.Court = &court
	}
	return m
}

func (m documentModel) toDomain() domain.Document {
	doc := domain.Document{
		ID:          m.ID,
		Title:       m.Title,
		LegalArea:   domain.LegalArea(m.LegalArea),
		Type:        domain.DocumentType(m.DocumentType),
		Year:        m.Year,
		StoragePath: m.StoragePath,
		Kind:        domain.FileKind(m.FileKind),
		Visibility:  domain.Visibility(m.Visibility),
		Content:     m.Content,
		TextLength:  m.TextLength,
		CreatedAt:   m.CreatedAt,
	}
	if m.Court != nil {
		doc.Court = *m.Court
	}
	return doc
}

// chunkMetadata is the JSON copied onto each chunk row.
func chunkMetadata(doc *documentModel) datatypes.JSONMap {
	meta := datatypes.JSONMap{
		"title":         doc.Title,
		"legal_area":    doc.LegalArea,
		"document_type": doc.DocumentType,
		"visibility":    doc.Visibility,
	}
	if doc.Court != nil {
		meta["court"] = *doc.Court
	}
	if doc.Year != nil {
		meta["year"] = *doc.Year
	}
	return meta
}

func toChunkModel(c domain.Chunk, meta datatypes.JSONMap) chunkModel {
	return chunkModel{
		ID:         c.ID,
		DocumentID: c.DocumentID,
		Position:   c.Position,
		Content:    c.Content,
		Embedding:  pgvector.NewVector(c.Embedding),
		Dimensions: len(c.Embedding),
		Metadata:   meta,
		CreatedAt:  c.CreatedAt,
	}
}

func (m chunkModel) toDomain() domain.Chunk {
	return domain.Chunk{
		ID:         m.ID,
		DocumentID: m.DocumentID,
		Position:   m.Position,
		Content:    m.Content,
		Embedding:  m.Embedding.Slice(),
		CreatedAt:  m.CreatedAt,
	}
}
