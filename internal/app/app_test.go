package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexbase/internal/adapters/driven/ai"
	"github.com/custodia-labs/lexbase/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lexbase/internal/core/domain"
)

func memoryConfig(t *testing.T, values map[string]any) *memory.ConfigStore {
	t.Helper()
	store := memory.NewConfigStore()
	for k, v := range values {
		require.NoError(t, store.Set(k, v))
	}
	return store
}

func TestNew_InMemoryPipeline(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, memoryConfig(t, map[string]any{
		"storage.backend":   "memory",
		"blob.backend":      "memory",
		"embedding.backend": "mock",
		"auth.admin_email":  "admin@firm.com",
		"server.jwt_secret": "s3cret",
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	require.NotNil(t, a.Tokens)
	assert.Equal(t, domain.StoreBackendMemory, a.Settings.Storage.Backend)

	result, err := a.Ingestion.Ingest(ctx, domain.SystemPrincipal, domain.IngestRequest{
		Filename:     "karar.txt",
		Data:         []byte(strings.Repeat("hukuk ", 500)),
		Title:        "Karar",
		LegalArea:    "civil",
		DocumentType: "statute",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.ChunksInserted)

	details, err := a.Documents.GetDetails(ctx, result.DocumentID)
	require.NoError(t, err)
	assert.True(t, details.Embedded)
}

func TestNew_UnconfiguredEmbeddingStillRecords(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, memoryConfig(t, map[string]any{
		"storage.backend": "memory",
		"blob.backend":    "memory",
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	assert.IsType(t, &ai.UnavailableClient{}, a.Embedder)
	assert.Nil(t, a.Tokens)

	_, err = a.Ingestion.Ingest(ctx, domain.SystemPrincipal, domain.IngestRequest{
		Filename:     "a.txt",
		Data:         []byte(strings.Repeat("x", 100)),
		Title:        "A",
		LegalArea:    "general",
		DocumentType: "general",
	})
	var ingestErr *domain.IngestError
	require.ErrorAs(t, err, &ingestErr)
	assert.Equal(t, domain.CodeEmbedding, ingestErr.Code)
	assert.True(t, ingestErr.Partial)
	assert.NotEmpty(t, ingestErr.DocumentID)
}

func TestNew_SQLiteAndFilesystem(t *testing.T) {
	dir := t.TempDir()
	a, err := New(context.Background(), memoryConfig(t, map[string]any{
		"storage.sqlite_dir": filepath.Join(dir, "data"),
		"blob.dir":           filepath.Join(dir, "blobs"),
		"embedding.backend":  "mock",
	}))
	require.NoError(t, err)
	require.NoError(t, a.Close())

	_, err = os.Stat(filepath.Join(dir, "data", "metadata.db"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "blobs"))
	assert.NoError(t, err)
}

func TestNew_IncompleteBackends(t *testing.T) {
	_, err := New(context.Background(), memoryConfig(t, map[string]any{
		"storage.backend": "postgres",
	}))
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)

	_, err = New(context.Background(), memoryConfig(t, map[string]any{
		"storage.backend": "memory",
		"blob.backend":    "gcs",
	}))
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestLoad_ExplicitConfigPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `[storage]
backend = "memory"

[blob]
backend = "memory"

[embedding]
backend = "mock"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Chdir(dir)

	a, err := Load(context.Background(), path)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, domain.EmbeddingBackendMock, a.Settings.Embedding.Backend)
	assert.Equal(t, domain.BlobBackendMemory, a.Settings.Blob.Backend)
	assert.Equal(t, path, a.ConfigPath())
}
