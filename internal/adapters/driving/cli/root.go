// Package cli provides the lexbase command line interface.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexbase/internal/app"
	"github.com/custodia-labs/lexbase/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	configPath string
	verbose    bool

	// application is wired on first use so that commands such as version
	// never touch configuration or storage.
	application *app.App
)

var rootCmd = &cobra.Command{
	Use:   "lexbase",
	Short: "Legal document ingestion for retrieval-augmented generation",
	Long: `lexbase ingests legal documents (PDF, DOCX, TXT) into a knowledge base.

Each import stores the original file, extracts its text, sends it to the
configured embedding backend, and records the document and its embedded
chunks for retrieval.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.lexbase/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command with a context cancelled on SIGINT or SIGTERM.
func Execute(v string) error {
	if v != "" {
		version = v
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defer closeApp()
	return rootCmd.ExecuteContext(ctx)
}

// services returns the wired application, loading it on first use.
func services(cmd *cobra.Command) (*app.App, error) {
	if application != nil {
		return application, nil
	}
	a, err := app.Load(cmd.Context(), configPath)
	if err != nil {
		return nil, err
	}
	application = a
	return a, nil
}

func closeApp() {
	if application == nil {
		return
	}
	if err := application.Close(); err != nil {
		logger.Warn("closing: %v", err)
	}
	application = nil
}
