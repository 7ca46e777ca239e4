package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexbase/internal/core/domain"
)

var retryEmbedCmd = &cobra.Command{
	Use:   "retry-embed [doc-id]",
	Short: "Re-run embedding for a recorded document",
	Long: `Re-run the embedding and chunk persistence stages for a document whose
earlier import stopped after the document was recorded. Documents that
already have chunks are rejected.`,
	Args: cobra.ExactArgs(1),
	RunE: runRetryEmbed,
}

func init() {
	rootCmd.AddCommand(retryEmbedCmd)
}

func runRetryEmbed(cmd *cobra.Command, args []string) error {
	a, err := services(cmd)
	if err != nil {
		return err
	}

	result, err := a.Ingestion.RetryEmbedding(cmd.Context(), domain.SystemPrincipal, args[0])
	if err != nil {
		printIngestError(cmd, err)
		return err
	}

	printIngestResult(cmd, result)
	return nil
}
