// Package app assembles the adapters and services selected by configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/custodia-labs/lexbase/internal/adapters/driven/ai"
	"github.com/custodia-labs/lexbase/internal/adapters/driven/auth"
	"github.com/custodia-labs/lexbase/internal/adapters/driven/blob/filesystem"
	"github.com/custodia-labs/lexbase/internal/adapters/driven/blob/gcs"
	blobmemory "github.com/custodia-labs/lexbase/internal/adapters/driven/blob/memory"
	"github.com/custodia-labs/lexbase/internal/adapters/driven/config/file"
	"github.com/custodia-labs/lexbase/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lexbase/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/lexbase/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/lexbase/internal/core/domain"
	"github.com/custodia-labs/lexbase/internal/core/ports/driven"
	"github.com/custodia-labs/lexbase/internal/core/services"
	"github.com/custodia-labs/lexbase/internal/logger"
	"github.com/custodia-labs/lexbase/internal/normalisers"
	"github.com/custodia-labs/lexbase/internal/postprocessors/chunker"
)

// App holds the wired services. Close releases every opened resource.
type App struct {
	Settings  *domain.AppSettings
	Config    *services.SettingsService
	Ingestion *services.IngestionService
	Documents *services.DocumentService

	// Tokens is nil when no JWT secret is configured.
	Tokens *auth.TokenService

	DocStore driven.DocumentStore
	Blobs    driven.BlobStore
	Embedder driven.EmbeddingClient

	configPath string
	closers    []io.Closer
}

// ConfigPath names the configuration source.
func (a *App) ConfigPath() string {
	return a.configPath
}

// Load reads configuration from configPath (or ~/.lexbase/config.toml when
// empty), overlays .env and environment variables, and wires the application.
func Load(ctx context.Context, configPath string) (*App, error) {
	if err := file.LoadEnvFiles(".env"); err != nil {
		return nil, err
	}

	var (
		store *file.ConfigStore
		err   error
	)
	if configPath != "" {
		store, err = file.NewConfigStoreAt(configPath)
	} else {
		store, err = file.NewConfigStore("")
	}
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	return New(ctx, store)
}

// New wires the application from an already loaded config store.
func New(ctx context.Context, configStore driven.ConfigStore) (*App, error) {
	settingsSvc := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsSvc.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	if err := settingsSvc.Validate(); err != nil {
		// An unconfigured embedding backend is tolerated; ingestion then
		// records documents and reports the embedding stage as failed.
		logger.Warn("configuration: %v", err)
	}

	a := &App{Settings: settings, Config: settingsSvc, configPath: configStore.Path()}

	a.DocStore, err = a.openDocumentStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Blobs, err = a.openBlobStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Embedder = a.openEmbedder()
	a.closers = append(a.closers, a.Embedder)

	if settings.Server.JWTSecret != "" {
		a.Tokens, err = auth.NewTokenService(settings.Server.JWTSecret)
		if err != nil {
			a.Close()
			return nil, err
		}
	}

	a.Ingestion = services.NewIngestionService(
		auth.NewAdminEmailAuthorizer(settings.Auth.AdminEmail),
		a.Blobs,
		normalisers.DefaultRegistry(),
		a.DocStore,
		a.Embedder,
	)
	a.Documents = services.NewDocumentService(a.DocStore, settings.Ingest.ChunkOverlap)

	logger.Debug("wired store=%s blob=%s embedding=%s",
		settings.Storage.Backend, settings.Blob.Backend, settings.Embedding.Backend)
	return a, nil
}

func (a *App) openDocumentStore(ctx context.Context) (driven.DocumentStore, error) {
	cfg := a.Settings.Storage
	switch cfg.Backend {
	case domain.StoreBackendSQLite, "":
		store, err := sqlite.NewStore(cfg.SQLiteDir)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		a.closers = append(a.closers, store)
		return store.DocumentStore(), nil

	case domain.StoreBackendPostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("opening postgres store: %w", err)
		}
		a.closers = append(a.closers, store)
		return store, nil

	case domain.StoreBackendMemory:
		return memory.NewDocumentStore(), nil

	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", domain.ErrInvalidConfiguration, cfg.Backend)
	}
}

func (a *App) openBlobStore(ctx context.Context) (driven.BlobStore, error) {
	cfg := a.Settings.Blob
	switch cfg.Backend {
	case domain.BlobBackendFilesystem, "":
		dir := cfg.Dir
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("getting home directory: %w", err)
			}
			dir = filepath.Join(home, ".lexbase", "blobs")
		}
		return filesystem.NewStore(dir)

	case domain.BlobBackendGCS:
		return gcs.NewStore(ctx, gcs.Config{
			Bucket:          cfg.Bucket,
			CredentialsFile: cfg.CredentialsFile,
		})

	case domain.BlobBackendMemory:
		return blobmemory.NewStore(), nil

	default:
		return nil, fmt.Errorf("%w: unknown blob backend %q", domain.ErrInvalidConfiguration, cfg.Backend)
	}
}

func (a *App) openEmbedder() driven.EmbeddingClient {
	client, err := ai.CreateEmbeddingClient(&a.Settings.Embedding,
		chunker.WithChunkSize(a.Settings.Ingest.ChunkSize),
		chunker.WithOverlap(a.Settings.Ingest.ChunkOverlap),
	)
	if err != nil {
		logger.Warn("embedding backend %s unavailable: %v", a.Settings.Embedding.Backend, err)
		return ai.NewUnavailableClient(err)
	}
	return client
}

// Close releases stores and clients in reverse order of opening.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
