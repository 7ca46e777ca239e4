package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexbase/internal/core/domain"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a legal document",
	Long: `Import a single PDF, DOCX, DOC or TXT file.

Examples:
  lexbase import tck.pdf --title "Türk Ceza Kanunu" --area criminal --type statute
  lexbase import karar.docx --title "Yargıtay 9. CD" --area criminal --type case-law \
      --court Yargıtay --year 2021 --visibility private`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

// importFlags holds the tag flags shared by import and batch-import.
type importFlags struct {
	title        string
	legalArea    string
	documentType string
	court        string
	year         int
	visibility   string
}

var importOpts importFlags

func init() {
	f := importCmd.Flags()
	f.StringVar(&importOpts.title, "title", "", "document title (required)")
	f.StringVar(&importOpts.legalArea, "area", "", "legal area (required)")
	f.StringVar(&importOpts.documentType, "type", "", "document type (required)")
	f.StringVar(&importOpts.court, "court", "", "issuing court")
	f.IntVar(&importOpts.year, "year", 0, "year of decision or enactment")
	f.StringVar(&importOpts.visibility, "visibility", "", "public or private (default public)")
	rootCmd.AddCommand(importCmd)
}

func (o importFlags) yearPtr() *int {
	if o.year <= 0 {
		return nil
	}
	y := o.year
	return &y
}

func runImport(cmd *cobra.Command, args []string) error {
	a, err := services(cmd)
	if err != nil {
		return err
	}

	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if info.Size() > domain.MaxUploadSize {
		return fmt.Errorf("%w: %s is %d bytes", domain.ErrFileTooLarge, path, info.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	result, err := a.Ingestion.Ingest(cmd.Context(), domain.SystemPrincipal, domain.IngestRequest{
		Filename:     filepath.Base(path),
		Data:         data,
		Title:        importOpts.title,
		LegalArea:    importOpts.legalArea,
		DocumentType: importOpts.documentType,
		Court:        importOpts.court,
		Year:         importOpts.yearPtr(),
		Visibility:   importOpts.visibility,
	})
	if err != nil {
		printIngestError(cmd, err)
		return err
	}

	printIngestResult(cmd, result)
	return nil
}

func printIngestResult(cmd *cobra.Command, r *domain.IngestResult) {
	cmd.Printf("Imported: %s\n\n", r.DocumentID)
	cmd.Printf("  Title:    %s\n", r.Title)
	cmd.Printf("  Chunks:   %d\n", r.ChunksInserted)
	cmd.Printf("  Text:     %d characters\n", r.TextLength)
	cmd.Printf("  Model:    %s\n", r.EmbeddingModel)
}

// printIngestError prints the structured fields of an ingestion failure.
func printIngestError(cmd *cobra.Command, err error) {
	var ingestErr *domain.IngestError
	if !errors.As(err, &ingestErr) {
		return
	}
	cmd.PrintErrf("Import failed at stage %s (%s)\n", ingestErr.Stage, ingestErr.Code)
	if ingestErr.Details != "" {
		cmd.PrintErrf("  Details: %s\n", ingestErr.Details)
	}
	for _, c := range ingestErr.Compensations {
		cmd.PrintErrf("  Compensation: %s\n", c)
	}
	if ingestErr.Partial && ingestErr.DocumentID != "" {
		cmd.PrintErrf("  Document %s was recorded without embeddings.\n", ingestErr.DocumentID)
		cmd.PrintErrf("  Retry with: lexbase retry-embed %s\n", ingestErr.DocumentID)
	}
}
