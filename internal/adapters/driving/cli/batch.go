package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/lexbase/internal/connectors/filesystem"
	"github.com/custodia-labs/lexbase/internal/core/domain"
	coreservices "github.com/custodia-labs/lexbase/internal/core/services"
)

var batchImportCmd = &cobra.Command{
	Use:   "batch-import [dir]",
	Short: "Import every supported file in a directory",
	Long: `Import every PDF, DOCX, DOC and TXT file beneath a directory using a
bounded worker pool. Titles are derived from filenames; the other tags
come from flags and apply to every file.

With --watch the command keeps running after the initial pass and imports
files as they are created or rewritten.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatchImport,
}

var (
	batchOpts    importFlags
	batchWorkers int
	batchWatch   bool
)

func init() {
	f := batchImportCmd.Flags()
	f.StringVar(&batchOpts.legalArea, "area", "", "legal area for every file (required)")
	f.StringVar(&batchOpts.documentType, "type", "", "document type for every file (required)")
	f.StringVar(&batchOpts.court, "court", "", "issuing court")
	f.IntVar(&batchOpts.year, "year", 0, "year of decision or enactment")
	f.StringVar(&batchOpts.visibility, "visibility", "", "public or private (default public)")
	f.IntVarP(&batchWorkers, "workers", "w", 0, "concurrent imports (default from ingest.workers)")
	f.BoolVar(&batchWatch, "watch", false, "keep watching the directory for new files")
	rootCmd.AddCommand(batchImportCmd)
}

func runBatchImport(cmd *cobra.Command, args []string) error {
	a, err := services(cmd)
	if err != nil {
		return err
	}

	workers := batchWorkers
	if workers <= 0 {
		workers = a.Settings.Ingest.Workers
	}
	importer := coreservices.NewBatchImporter(a.Ingestion, workers)
	scanner := filesystem.New(args[0])
	defaults := coreservices.BatchDefaults{
		LegalArea:    batchOpts.legalArea,
		DocumentType: batchOpts.documentType,
		Court:        batchOpts.court,
		Year:         batchOpts.yearPtr(),
		Visibility:   batchOpts.visibility,
	}

	paths, err := scanner.Scan(cmd.Context())
	if err != nil {
		return err
	}
	cmd.Printf("Found %d files in %s\n", len(paths), scanner.Root())

	report, err := importer.Import(cmd.Context(), domain.SystemPrincipal, paths, defaults)
	if err != nil {
		return err
	}
	printBatchReport(cmd, report)

	if batchWatch {
		return watchAndImport(cmd, scanner, importer, defaults)
	}
	if report.Failed > 0 {
		return fmt.Errorf("%d of %d imports failed", report.Failed, len(report.Items))
	}
	return nil
}

// watchAndImport runs the watcher and the importer side by side until the
// command context is cancelled.
func watchAndImport(
	cmd *cobra.Command,
	scanner *filesystem.Scanner,
	importer *coreservices.BatchImporter,
	defaults coreservices.BatchDefaults,
) error {
	cmd.Printf("Watching %s (Ctrl+C to stop)\n", scanner.Root())

	g, ctx := errgroup.WithContext(cmd.Context())
	paths := make(chan string)

	g.Go(func() error {
		defer close(paths)
		return scanner.Watch(ctx, paths)
	})

	g.Go(func() error {
		for path := range paths {
			item := importer.ImportFile(ctx, domain.SystemPrincipal, path, defaults)
			printBatchItem(cmd, item)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printBatchReport(cmd *cobra.Command, report *coreservices.BatchReport) {
	for i := range report.Items {
		printBatchItem(cmd, report.Items[i])
	}
	cmd.Printf("\nImported: %d, failed: %d\n", report.Succeeded, report.Failed)
}

func printBatchItem(cmd *cobra.Command, item coreservices.BatchItem) {
	if item.Err != nil {
		cmd.Printf("  FAIL %s: %v\n", item.Path, item.Err)
		var ingestErr *domain.IngestError
		if errors.As(item.Err, &ingestErr) && ingestErr.Partial {
			cmd.Printf("       recorded as %s, retry with: lexbase retry-embed %s\n",
				ingestErr.DocumentID, ingestErr.DocumentID)
		}
		return
	}
	cmd.Printf("  OK   %s -> %s (%d chunks)\n", item.Path, item.Result.DocumentID, item.Result.ChunksInserted)
}
