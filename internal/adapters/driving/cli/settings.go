package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/lexbase/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure storage, blob and embedding settings.

Values come from ~/.lexbase/config.toml (or --config) and are overridden by
LEXBASE_* environment variables, for example LEXBASE_EMBEDDING_WEBHOOK_URL.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure the embedding backend",
	Long:  `Interactively choose the embedding backend and enter its settings.`,
	RunE:  runSettingsEmbedding,
}

var settingsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate settings and ping the embedding backend",
	RunE:  runSettingsValidate,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsValidateCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	a, err := services(cmd)
	if err != nil {
		return err
	}

	settings, err := a.Config.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Printf("Config: %s\n", a.ConfigPath())
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", settings.Server.Addr)
	cmd.Printf("  JWT secret: %s\n", maskOrUnset(settings.Server.JWTSecret))
	cmd.Printf("  Admin email: %s\n", valueOrUnset(settings.Auth.AdminEmail))
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", settings.Storage.Backend)
	switch settings.Storage.Backend {
	case domain.StoreBackendSQLite:
		cmd.Printf("  Directory: %s\n", valueOrDefault(settings.Storage.SQLiteDir, "~/.lexbase/data"))
	case domain.StoreBackendPostgres:
		cmd.Printf("  DSN: %s\n", maskOrUnset(settings.Storage.PostgresDSN))
	}
	cmd.Println()

	cmd.Println("[Blob]")
	cmd.Printf("  Backend: %s\n", settings.Blob.Backend)
	switch settings.Blob.Backend {
	case domain.BlobBackendFilesystem:
		cmd.Printf("  Directory: %s\n", valueOrDefault(settings.Blob.Dir, "~/.lexbase/blobs"))
	case domain.BlobBackendGCS:
		cmd.Printf("  Bucket: %s\n", valueOrUnset(settings.Blob.Bucket))
		cmd.Printf("  Credentials: %s\n", valueOrDefault(settings.Blob.CredentialsFile, "application default"))
	}
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Backend: %s\n", settings.Embedding.Backend.Description())
	switch settings.Embedding.Backend {
	case domain.EmbeddingBackendWebhook:
		cmd.Printf("  Webhook URL: %s\n", valueOrUnset(settings.Embedding.WebhookURL))
		cmd.Printf("  Webhook secret: %s\n", maskOrUnset(settings.Embedding.WebhookSecret))
	case domain.EmbeddingBackendOpenAI:
		cmd.Printf("  Model: %s\n", settings.Embedding.Model)
		cmd.Printf("  API Key: %s\n", maskOrUnset(settings.Embedding.APIKey))
		if settings.Embedding.BaseURL != "" {
			cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
		}
		cmd.Printf("  Requests/s: %g\n", settings.Embedding.RequestsPerSecond)
	}
	cmd.Printf("  Timeout: %s\n", settings.Embedding.Timeout)
	if settings.Embedding.Dimensions > 0 {
		cmd.Printf("  Dimensions: %d\n", settings.Embedding.Dimensions)
	}
	status := "configured"
	if !settings.Embedding.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[Ingest]")
	cmd.Printf("  Chunk size: %d\n", settings.Ingest.ChunkSize)
	cmd.Printf("  Chunk overlap: %d\n", settings.Ingest.ChunkOverlap)
	cmd.Printf("  Workers: %d\n", settings.Ingest.Workers)
	cmd.Println()

	if err := a.Config.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'lexbase settings embedding' to fix the embedding configuration.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	a, err := services(cmd)
	if err != nil {
		return err
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Select Embedding Backend")
	backends := domain.AllEmbeddingBackends()
	for i, b := range backends {
		cmd.Printf("  %d. %s\n", i+1, b.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(backends), 1)
	selected := backends[idx-1]

	settings, err := a.Config.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	settings.Embedding.Backend = selected

	switch selected {
	case domain.EmbeddingBackendWebhook:
		cmd.Printf("Enter webhook URL [%s]: ", settings.Embedding.WebhookURL)
		if url := readLine(reader); url != "" {
			settings.Embedding.WebhookURL = url
		}
		if settings.Embedding.WebhookURL == "" {
			return errors.New("a webhook URL is required for this backend")
		}
		cmd.Print("Enter webhook secret (optional): ")
		if secret := readSecret(reader); secret != "" {
			settings.Embedding.WebhookSecret = secret
		}
		cmd.Println()

	case domain.EmbeddingBackendOpenAI:
		cmd.Printf("Enter model name [%s]: ", settings.Embedding.Model)
		if model := readLine(reader); model != "" {
			settings.Embedding.Model = model
		}
		cmd.Print("Enter API key: ")
		apiKey := readSecret(reader)
		cmd.Println()
		if apiKey == "" && settings.Embedding.APIKey == "" {
			return errors.New("API key is required for this backend")
		}
		if apiKey != "" {
			settings.Embedding.APIKey = apiKey
		}
	}

	if err := a.Config.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	if err := a.Config.SetEmbeddingBackend(selected); err != nil {
		return fmt.Errorf("failed to configure embedding backend: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := a.Config.ValidateEmbeddingConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Embedding backend configured: %s\n", selected.Description())
	return nil
}

func runSettingsValidate(cmd *cobra.Command, _ []string) error {
	a, err := services(cmd)
	if err != nil {
		return err
	}

	if err := a.Config.Validate(); err != nil {
		return err
	}
	cmd.Print("Pinging embedding backend... ")
	if err := a.Config.ValidateEmbeddingConfig(); err != nil {
		cmd.Println("FAILED")
		return err
	}
	cmd.Println("OK")
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readSecret reads without echo when stdin is a terminal.
func readSecret(reader *bufio.Reader) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func maskOrUnset(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	return maskAPIKey(secret)
}

func valueOrUnset(v string) string {
	return valueOrDefault(v, "(not set)")
}

func valueOrDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
