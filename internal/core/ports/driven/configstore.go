package driven

// ConfigStore is a flat key/value view of configuration.
// Keys are dotted ("embedding.webhook_url"). Implementations may overlay
// values from the environment; overlays are never persisted by Set.
type ConfigStore interface {
	// Get returns the raw value and whether the key is present.
	Get(key string) (any, bool)

	// GetString returns "" for missing or non-string values.
	GetString(key string) string

	// GetInt returns 0 for missing or non-numeric values.
	GetInt(key string) int

	// GetFloat returns 0 for missing or non-numeric values.
	GetFloat(key string) float64

	// Set stores a value. File-backed stores persist it immediately.
	Set(key string, value any) error

	// Path names where values are kept, for display.
	Path() string
}
