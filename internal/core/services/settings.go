package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/lexbase/internal/core/domain"
	"github.com/custodia-labs/lexbase/internal/core/ports/driven"
	"github.com/custodia-labs/lexbase/internal/core/ports/driving"
	"github.com/custodia-labs/lexbase/internal/postprocessors/chunker"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyServerAddr       = "server.addr"
	keyServerJWTSecret  = "server.jwt_secret"
	keyAuthAdminEmail   = "auth.admin_email"
	keyStorageBackend   = "storage.backend"
	keyStorageSQLiteDir = "storage.sqlite_dir"
	keyStoragePostgres  = "storage.postgres_dsn"
	keyBlobBackend      = "blob.backend"
	keyBlobDir          = "blob.dir"
	keyBlobBucket       = "blob.bucket"
	keyBlobCredentials  = "blob.credentials_file"
	keyEmbedBackend     = "embedding.backend"
	keyEmbedWebhookURL  = "embedding.webhook_url"
	keyEmbedSecret      = "embedding.webhook_secret"
	keyEmbedTimeout     = "embedding.timeout_seconds"
	keyEmbedDimensions  = "embedding.dimensions"
	keyEmbedModel       = "embedding.model"
	keyEmbedAPIKey      = "embedding.api_key"
	keyEmbedBaseURL     = "embedding.base_url"
	keyEmbedRPS         = "embedding.requests_per_second"
	keyIngestChunkSize  = "ingest.chunk_size"
	keyIngestOverlap    = "ingest.chunk_overlap"
	keyIngestWorkers    = "ingest.workers"
)

// SettingsService maps configuration keys onto domain.AppSettings.
type SettingsService struct {
	configStore driven.ConfigStore
	validator   driven.EmbeddingConfigValidator
}

// NewSettingsService creates a new settings service.
// validator may be nil, in which case ValidateEmbeddingConfig is a no-op.
func NewSettingsService(configStore driven.ConfigStore, validator driven.EmbeddingConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		validator:   validator,
	}
}

// Get retrieves current application settings.
// Missing or unrecognised values fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Server: domain.ServerSettings{
			Addr:      s.getString(keyServerAddr, d.Server.Addr),
			JWTSecret: s.configStore.GetString(keyServerJWTSecret),
		},
		Auth: domain.AuthSettings{
			AdminEmail: s.configStore.GetString(keyAuthAdminEmail),
		},
		Storage: domain.StorageSettings{
			Backend:     s.getStoreBackend(d.Storage.Backend),
			SQLiteDir:   s.configStore.GetString(keyStorageSQLiteDir),
			PostgresDSN: s.configStore.GetString(keyStoragePostgres),
		},
		Blob: domain.BlobSettings{
			Backend:         s.getBlobBackend(d.Blob.Backend),
			Dir:             s.configStore.GetString(keyBlobDir),
			Bucket:          s.configStore.GetString(keyBlobBucket),
			CredentialsFile: s.configStore.GetString(keyBlobCredentials),
		},
		Embedding: domain.EmbeddingSettings{
			Backend:           s.getEmbeddingBackend(d.Embedding.Backend),
			WebhookURL:        s.configStore.GetString(keyEmbedWebhookURL),
			WebhookSecret:     s.configStore.GetString(keyEmbedSecret),
			Timeout:           s.getSeconds(keyEmbedTimeout, d.Embedding.Timeout),
			Dimensions:        s.getInt(keyEmbedDimensions, d.Embedding.Dimensions),
			Model:             s.getString(keyEmbedModel, d.Embedding.Model),
			APIKey:            s.configStore.GetString(keyEmbedAPIKey),
			BaseURL:           s.configStore.GetString(keyEmbedBaseURL),
			RequestsPerSecond: s.getFloat(keyEmbedRPS, d.Embedding.RequestsPerSecond),
		},
		Ingest: domain.IngestSettings{
			ChunkSize:    s.getInt(keyIngestChunkSize, d.Ingest.ChunkSize),
			ChunkOverlap: s.getIntAllowZero(keyIngestOverlap, d.Ingest.ChunkOverlap),
			Workers:      s.getInt(keyIngestWorkers, d.Ingest.Workers),
		},
	}

	return settings, nil
}

// Save persists application settings.
// Secrets are only written when set so an environment-provided secret
// is never copied into the file.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyServerAddr, settings.Server.Addr},
		{keyAuthAdminEmail, settings.Auth.AdminEmail},
		{keyStorageBackend, settings.Storage.Backend.String()},
		{keyStorageSQLiteDir, settings.Storage.SQLiteDir},
		{keyBlobBackend, settings.Blob.Backend.String()},
		{keyBlobDir, settings.Blob.Dir},
		{keyBlobBucket, settings.Blob.Bucket},
		{keyBlobCredentials, settings.Blob.CredentialsFile},
		{keyEmbedBackend, settings.Embedding.Backend.String()},
		{keyEmbedWebhookURL, settings.Embedding.WebhookURL},
		{keyEmbedTimeout, int(settings.Embedding.Timeout / time.Second)},
		{keyEmbedDimensions, settings.Embedding.Dimensions},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedRPS, settings.Embedding.RequestsPerSecond},
		{keyIngestChunkSize, settings.Ingest.ChunkSize},
		{keyIngestOverlap, settings.Ingest.ChunkOverlap},
		{keyIngestWorkers, settings.Ingest.Workers},
	}

	secrets := []struct {
		key   string
		value string
	}{
		{keyServerJWTSecret, settings.Server.JWTSecret},
		{keyStoragePostgres, settings.Storage.PostgresDSN},
		{keyEmbedSecret, settings.Embedding.WebhookSecret},
		{keyEmbedAPIKey, settings.Embedding.APIKey},
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	for _, v := range secrets {
		if v.value == "" {
			continue
		}
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	return nil
}

// SetEmbeddingBackend configures the embedding backend.
func (s *SettingsService) SetEmbeddingBackend(backend domain.EmbeddingBackend) error {
	if !backend.IsValid() {
		return fmt.Errorf("%w: invalid embedding backend: %s", domain.ErrInvalidConfiguration, backend)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Backend = backend

	// Dimensions follow the model for the hosted backend.
	if backend == domain.EmbeddingBackendOpenAI {
		if d, ok := domain.EmbeddingDimensions()[settings.Embedding.Model]; ok {
			settings.Embedding.Dimensions = d
		}
	}

	return s.Save(settings)
}

// Validate checks that the settings can start the pipeline.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	var errs []error

	if settings.Storage.Backend == domain.StoreBackendPostgres && settings.Storage.PostgresDSN == "" {
		errs = append(errs, fmt.Errorf("storage backend postgres requires %s", keyStoragePostgres))
	}
	if settings.Blob.Backend == domain.BlobBackendGCS && settings.Blob.Bucket == "" {
		errs = append(errs, fmt.Errorf("blob backend gcs requires %s", keyBlobBucket))
	}
	if !settings.Embedding.IsConfigured() {
		errs = append(errs, fmt.Errorf("embedding backend %q is not configured (%s)",
			settings.Embedding.Backend, settings.Embedding.Backend.Description()))
	}
	if settings.Embedding.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", keyEmbedTimeout))
	}
	if _, err := chunker.Split("", settings.Ingest.ChunkSize, settings.Ingest.ChunkOverlap); err != nil {
		errs = append(errs, fmt.Errorf("chunk size %d with overlap %d: %w",
			settings.Ingest.ChunkSize, settings.Ingest.ChunkOverlap, err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidConfiguration, errors.Join(errs...))
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the embedding configuration by pinging the backend.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.validator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.validator.ValidateEmbedding(&settings.Embedding)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// getIntAllowZero distinguishes an explicit zero from a missing key.
func (s *SettingsService) getIntAllowZero(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return time.Duration(val) * time.Second
}

func (s *SettingsService) getEmbeddingBackend(defaultVal domain.EmbeddingBackend) domain.EmbeddingBackend {
	b := domain.EmbeddingBackend(s.configStore.GetString(keyEmbedBackend))
	if !b.IsValid() {
		return defaultVal
	}
	return b
}

func (s *SettingsService) getStoreBackend(defaultVal domain.StoreBackend) domain.StoreBackend {
	b := domain.StoreBackend(s.configStore.GetString(keyStorageBackend))
	if !b.IsValid() {
		return defaultVal
	}
	return b
}

func (s *SettingsService) getBlobBackend(defaultVal domain.BlobBackend) domain.BlobBackend {
	b := domain.BlobBackend(s.configStore.GetString(keyBlobBackend))
	if !b.IsValid() {
		return defaultVal
	}
	return b
}
