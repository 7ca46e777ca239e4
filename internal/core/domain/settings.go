package domain

import "time"

const unknownDescription = "Unknown"

// EmbeddingBackend selects the implementation behind the EmbeddingClient port.
type EmbeddingBackend string

// Available embedding backends.
const (
	// EmbeddingBackendWebhook delegates chunking and vectorisation to the
	// external workflow-automation service over an HTTP webhook.
	EmbeddingBackendWebhook EmbeddingBackend = "webhook"

	// EmbeddingBackendMock derives deterministic pseudo-vectors locally.
	// It is a development stand-in and labels its model accordingly.
	EmbeddingBackendMock EmbeddingBackend = "mock"

	// EmbeddingBackendOpenAI chunks locally and calls an OpenAI-compatible API.
	EmbeddingBackendOpenAI EmbeddingBackend = "openai"
)

// IsValid returns true if the backend is recognised.
func (b EmbeddingBackend) IsValid() bool {
	switch b {
	case EmbeddingBackendWebhook, EmbeddingBackendMock, EmbeddingBackendOpenAI:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b EmbeddingBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b EmbeddingBackend) Description() string {
	switch b {
	case EmbeddingBackendWebhook:
		return "Workflow webhook (remote chunking + embedding)"
	case EmbeddingBackendMock:
		return "Deterministic mock (development only)"
	case EmbeddingBackendOpenAI:
		return "OpenAI-compatible embeddings API"
	default:
		return unknownDescription
	}
}

// StoreBackend selects the Document Store implementation.
type StoreBackend string

// Available document store backends.
const (
	StoreBackendSQLite   StoreBackend = "sqlite"
	StoreBackendPostgres StoreBackend = "postgres"
	StoreBackendMemory   StoreBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StoreBackend) IsValid() bool {
	switch b {
	case StoreBackendSQLite, StoreBackendPostgres, StoreBackendMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StoreBackend) String() string {
	return string(b)
}

// BlobBackend selects the Blob Store implementation.
type BlobBackend string

// Available blob store backends.
const (
	BlobBackendFilesystem BlobBackend = "filesystem"
	BlobBackendGCS        BlobBackend = "gcs"
	BlobBackendMemory     BlobBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b BlobBackend) IsValid() bool {
	switch b {
	case BlobBackendFilesystem, BlobBackendGCS, BlobBackendMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b BlobBackend) String() string {
	return string(b)
}

// ServerSettings holds HTTP server configuration.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string

	// JWTSecret verifies HS256 bearer tokens.
	JWTSecret string
}

// AuthSettings holds the capability gate configuration.
type AuthSettings struct {
	// AdminEmail is the single administrator allowed to import documents.
	AdminEmail string
}

// StorageSettings holds Document Store configuration.
type StorageSettings struct {
	Backend     StoreBackend
	SQLiteDir   string
	PostgresDSN string
}

// BlobSettings holds Blob Store configuration.
type BlobSettings struct {
	Backend         BlobBackend
	Dir             string
	Bucket          string
	CredentialsFile string
}

// EmbeddingSettings holds embedding backend configuration.
type EmbeddingSettings struct {
	// Backend is the embedding implementation.
	Backend EmbeddingBackend

	// WebhookURL is the workflow webhook endpoint.
	WebhookURL string

	// WebhookSecret is sent as a shared-secret header when set.
	WebhookSecret string

	// Timeout bounds a single embedding call.
	Timeout time.Duration

	// Dimensions is the expected vector length. Zero accepts any fixed length.
	Dimensions int

	// Model is the embedding model name (openai backend).
	Model string

	// APIKey is the API key (openai backend).
	APIKey string

	// BaseURL overrides the API endpoint (openai backend).
	BaseURL string

	// RequestsPerSecond paces outbound embedding requests (openai backend).
	RequestsPerSecond float64
}

// IsConfigured returns true if the embedding backend is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	switch e.Backend {
	case EmbeddingBackendWebhook:
		return e.WebhookURL != ""
	case EmbeddingBackendMock:
		return true
	case EmbeddingBackendOpenAI:
		return e.APIKey != ""
	default:
		return false
	}
}

// IngestSettings holds chunking and batch configuration.
type IngestSettings struct {
	ChunkSize    int
	ChunkOverlap int
	Workers      int
}

// AppSettings holds all application settings.
type AppSettings struct {
	Server    ServerSettings
	Auth      AuthSettings
	Storage   StorageSettings
	Blob      BlobSettings
	Embedding EmbeddingSettings
	Ingest    IngestSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The embedding backend defaults to the webhook and stays unconfigured
// until a URL is provided.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Server: ServerSettings{
			Addr: ":8080",
		},
		Storage: StorageSettings{
			Backend: StoreBackendSQLite,
		},
		Blob: BlobSettings{
			Backend: BlobBackendFilesystem,
		},
		Embedding: EmbeddingSettings{
			Backend:           EmbeddingBackendWebhook,
			Timeout:           120 * time.Second,
			Model:             "text-embedding-3-small",
			RequestsPerSecond: 5,
		},
		Ingest: IngestSettings{
			ChunkSize:    2000,
			ChunkOverlap: 200,
			Workers:      4,
		},
	}
}

// AllEmbeddingBackends returns every embedding backend.
func AllEmbeddingBackends() []EmbeddingBackend {
	return []EmbeddingBackend{
		EmbeddingBackendWebhook,
		EmbeddingBackendMock,
		EmbeddingBackendOpenAI,
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
