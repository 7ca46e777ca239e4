package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexbase/internal/core/domain"
)

func TestDocumentModel_RoundTrip(t *testing.T) {
	year := 2019
	doc := &domain.Document{
		ID:          uuid.New().String(),
		Title:       "Türk Ceza Kanunu",
		LegalArea:   domain.LegalAreaCriminal,
		Type:        domain.DocumentTypeStatute,
		Court:       "TBMM",
		Year:        &year,
		StoragePath: "documents/x.pdf",
		Kind:        domain.FileKindPDF,
		Visibility:  domain.VisibilityPublic,
		Content:     "madde 1",
		TextLength:  7,
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	got := toDocumentModel(doc).toDomain()
	assert.Equal(t, *doc, got)
}

func TestDocumentModel_EmptyCourtIsNull(t *testing.T) {
	m := toDocumentModel(&domain.Document{ID: "d"})
	assert.Nil(t, m.Court)
	assert.Equal(t, "", m.toDomain().Court)
}

func TestChunkMetadata(t *testing.T) {
	court := "Yargıtay"
	year := 2021
	meta := chunkMetadata(&documentModel{
		Title:        "Karar",
		LegalArea:    "civil",
		DocumentType: "case-law",
		Visibility:   "private",
		Court:        &court,
		Year:         &year,
	})

	assert.Equal(t, "civil", meta["legal_area"])
	assert.Equal(t, "case-law", meta["document_type"])
	assert.Equal(t, "private", meta["visibility"])
	assert.Equal(t, "Yargıtay", meta["court"])
	assert.Equal(t, 2021, meta["year"])

	bare := chunkMetadata(&documentModel{Title: "x"})
	assert.NotContains(t, bare, "court")
	assert.NotContains(t, bare, "year")
}

func TestChunkModel_RoundTrip(t *testing.T) {
	c := domain.Chunk{
		ID:         "c1",
		DocumentID: "d1",
		Position:   3,
		Content:    "fıkra",
		Embedding:  []float32{0.25, -0.5, 1},
		CreatedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	m := toChunkModel(c, nil)
	assert.Equal(t, 3, m.Dimensions)
	assert.Equal(t, c, m.toDomain())
}

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

// TestStore_Integration runs against a live pgvector database when
// LEXBASE_TEST_POSTGRES_DSN is set.
func TestStore_Integration(t *testing.T) {
	dsn := os.Getenv("LEXBASE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("LEXBASE_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	store, err := Open(ctx, dsn)
	require.NoError(t, err)
	defer store.Close()

	doc := &domain.Document{
		Title:       "Integration",
		LegalArea:   domain.LegalAreaGeneral,
		Type:        domain.DocumentTypeGeneral,
		StoragePath: "documents/i.txt",
		Kind:        domain.FileKindText,
		Visibility:  domain.VisibilityPublic,
		Content:     "hello",
		TextLength:  5,
	}
	require.NoError(t, store.CreateDocument(ctx, doc))
	defer store.DeleteDocument(ctx, doc.ID)

	n, err := store.InsertChunks(ctx, []domain.Chunk{
		{DocumentID: doc.ID, Position: 0, Content: "hel", Embedding: []float32{1, 0}},
		{DocumentID: doc.ID, Position: 1, Content: "llo", Embedding: []float32{0, 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	count, err := store.CountChunks(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = store.InsertChunks(ctx, []domain.Chunk{
		{DocumentID: doc.ID, Position: 2, Content: "x", Embedding: []float32{1, 1}},
		{DocumentID: doc.ID, Position: 0, Content: "dup", Embedding: []float32{1, 1}},
	})
	assert.ErrorIs(t, err, domain.ErrPersistence)

	count, err = store.CountChunks(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count, "failed batch must not leave partial rows")

	got, err := store.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Integration", got.Title)

	_, err = store.GetDocument(ctx, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
