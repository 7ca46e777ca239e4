package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexbase/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lexbase/internal/core/domain"
)

type recordingValidator struct {
	got *domain.EmbeddingSettings
	err error
}

func (v *recordingValidator) ValidateEmbedding(cfg *domain.EmbeddingSettings) error {
	v.got = cfg
	return v.err
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	settings, err := service.Get()
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultAppSettings(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("server.addr", ":9000")
	_ = store.Set("auth.admin_email", "admin@firm.com")
	_ = store.Set("storage.backend", "postgres")
	_ = store.Set("storage.postgres_dsn", "postgres://db/lexbase")
	_ = store.Set("blob.backend", "gcs")
	_ = store.Set("blob.bucket", "lexbase-docs")
	_ = store.Set("embedding.backend", "openai")
	_ = store.Set("embedding.api_key", "sk-test")
	_ = store.Set("embedding.timeout_seconds", 30)
	_ = store.Set("embedding.requests_per_second", 1.5)
	_ = store.Set("ingest.chunk_size", 1000)
	_ = store.Set("ingest.chunk_overlap", 0)
	_ = store.Set("ingest.workers", 2)

	settings, err := NewSettingsService(store, nil).Get()
	require.NoError(t, err)

	assert.Equal(t, ":9000", settings.Server.Addr)
	assert.Equal(t, "admin@firm.com", settings.Auth.AdminEmail)
	assert.Equal(t, domain.StoreBackendPostgres, settings.Storage.Backend)
	assert.Equal(t, "postgres://db/lexbase", settings.Storage.PostgresDSN)
	assert.Equal(t, domain.BlobBackendGCS, settings.Blob.Backend)
	assert.Equal(t, "lexbase-docs", settings.Blob.Bucket)
	assert.Equal(t, domain.EmbeddingBackendOpenAI, settings.Embedding.Backend)
	assert.Equal(t, 30*time.Second, settings.Embedding.Timeout)
	assert.Equal(t, 1.5, settings.Embedding.RequestsPerSecond)
	assert.Equal(t, 1000, settings.Ingest.ChunkSize)
	assert.Equal(t, 0, settings.Ingest.ChunkOverlap, "explicit zero overlap is kept")
	assert.Equal(t, 2, settings.Ingest.Workers)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.backend", "ollama")
	_ = store.Set("storage.backend", "mongo")
	_ = store.Set("blob.backend", "s3")
	_ = store.Set("embedding.timeout_seconds", -5)

	settings, err := NewSettingsService(store, nil).Get()
	require.NoError(t, err)

	d := domain.DefaultAppSettings()
	assert.Equal(t, d.Embedding.Backend, settings.Embedding.Backend)
	assert.Equal(t, d.Storage.Backend, settings.Storage.Backend)
	assert.Equal(t, d.Blob.Backend, settings.Blob.Backend)
	assert.Equal(t, d.Embedding.Timeout, settings.Embedding.Timeout)
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	settings := domain.DefaultAppSettings()
	settings.Embedding.Backend = domain.EmbeddingBackendWebhook
	settings.Embedding.WebhookURL = "http://n8n:5678/webhook/embed"
	settings.Embedding.WebhookSecret = "shh"
	settings.Embedding.Timeout = 45 * time.Second
	settings.Ingest.Workers = 8
	require.NoError(t, service.Save(&settings))

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, *got)
}

func TestSettingsService_SaveSkipsEmptySecrets(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	settings := domain.DefaultAppSettings()
	require.NoError(t, service.Save(&settings))

	for _, key := range []string{"server.jwt_secret", "storage.postgres_dsn", "embedding.webhook_secret", "embedding.api_key"} {
		_, exists := store.Get(key)
		assert.False(t, exists, key)
	}
}

func TestSettingsService_SetEmbeddingBackend(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	require.NoError(t, service.SetEmbeddingBackend(domain.EmbeddingBackendOpenAI))
	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.EmbeddingBackendOpenAI, settings.Embedding.Backend)
	assert.Equal(t, 1536, settings.Embedding.Dimensions)

	err = service.SetEmbeddingBackend("ollama")
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestSettingsService_Validate(t *testing.T) {
	tests := []struct {
		name    string
		set     map[string]any
		wantErr string
	}{
		{"mock backend is ready", map[string]any{"embedding.backend": "mock"}, ""},
		{"webhook without url", map[string]any{}, "not configured"},
		{"postgres without dsn", map[string]any{"embedding.backend": "mock", "storage.backend": "postgres"}, "storage.postgres_dsn"},
		{"gcs without bucket", map[string]any{"embedding.backend": "mock", "blob.backend": "gcs"}, "blob.bucket"},
		{"overlap not below size", map[string]any{
			"embedding.backend":    "mock",
			"ingest.chunk_size":    100,
			"ingest.chunk_overlap": 100,
		}, "overlap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			for k, v := range tt.set {
				require.NoError(t, store.Set(k, v))
			}

			err := NewSettingsService(store, nil).Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSettingsService_ValidateEmbeddingConfig(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.backend", "mock")

	assert.NoError(t, NewSettingsService(store, nil).ValidateEmbeddingConfig())

	v := &recordingValidator{err: errors.New("unreachable")}
	err := NewSettingsService(store, v).ValidateEmbeddingConfig()
	assert.EqualError(t, err, "unreachable")
	require.NotNil(t, v.got)
	assert.Equal(t, domain.EmbeddingBackendMock, v.got.Backend)
}

func TestSettingsService_GetDefaults(t *testing.T) {
	assert.Equal(t, domain.DefaultAppSettings(), NewSettingsService(memory.NewConfigStore(), nil).GetDefaults())
}
