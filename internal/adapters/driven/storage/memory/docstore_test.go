package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexbase/internal/core/domain"
)

func newDoc(id string, created time.Time) *domain.Document {
	return &domain.Document{ID: id, Title: id, CreatedAt: created}
}

func TestDocumentStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore()

	require.NoError(t, store.CreateDocument(ctx, newDoc("doc-1", time.Now())))
	got, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", got.Title)

	assert.ErrorIs(t, store.CreateDocument(ctx, newDoc("doc-1", time.Now())), domain.ErrPersistence)

	_, err = store.GetDocument(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_InsertChunks(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore()
	require.NoError(t, store.CreateDocument(ctx, newDoc("doc-1", time.Now())))

	n, err := store.InsertChunks(ctx, []domain.Chunk{
		{ID: "c2", DocumentID: "doc-1", Position: 1},
		{ID: "c1", DocumentID: "doc-1", Position: 0},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	chunks, err := store.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "c1", chunks[0].ID)

	count, err := store.CountChunks(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestDocumentStore_InsertChunksIsAtomic(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore()
	require.NoError(t, store.CreateDocument(ctx, newDoc("doc-1", time.Now())))

	_, err := store.InsertChunks(ctx, []domain.Chunk{
		{ID: "c1", DocumentID: "doc-1", Position: 0},
		{ID: "c2", DocumentID: "doc-1", Position: 0},
	})
	assert.ErrorIs(t, err, domain.ErrPersistence)

	_, err = store.InsertChunks(ctx, []domain.Chunk{
		{ID: "c1", DocumentID: "doc-1", Position: 0},
		{ID: "c2", DocumentID: "ghost", Position: 0},
	})
	assert.ErrorIs(t, err, domain.ErrPersistence)

	count, err := store.CountChunks(ctx, "doc-1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDocumentStore_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore()
	now := time.Now()
	require.NoError(t, store.CreateDocument(ctx, newDoc("old", now.Add(-time.Hour))))
	require.NoError(t, store.CreateDocument(ctx, newDoc("new", now)))
	_, err := store.InsertChunks(ctx, []domain.Chunk{{ID: "c", DocumentID: "old"}})
	require.NoError(t, err)

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "new", docs[0].ID)

	require.NoError(t, store.DeleteDocument(ctx, "old"))
	count, err := store.CountChunks(ctx, "old")
	require.NoError(t, err)
	assert.Zero(t, count)
	_, err = store.GetDocument(ctx, "old")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
