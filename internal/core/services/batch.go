package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/custodia-labs/lexbase/internal/core/domain"
	"github.com/custodia-labs/lexbase/internal/core/ports/driving"
	"github.com/custodia-labs/lexbase/internal/logger"
)

// DefaultBatchWorkers is used when no worker count is configured.
const DefaultBatchWorkers = 4

// BatchDefaults are the tags applied to every file of a batch.
// The title of each document is derived from its filename.
type BatchDefaults struct {
	LegalArea    string
	DocumentType string
	Court        string
	Year         *int
	Visibility   string
}

// BatchItem is the outcome for one file.
type BatchItem struct {
	Path   string
	Result *domain.IngestResult
	Err    error
}

// BatchReport summarises a batch.
type BatchReport struct {
	Items     []BatchItem
	Succeeded int
	Failed    int
}

// BatchImporter ingests many local files concurrently on a bounded pool.
type BatchImporter struct {
	ingestion driving.IngestionService
	workers   int
	readFile  func(string) ([]byte, error)
	stat      func(string) (os.FileInfo, error)
}

// NewBatchImporter creates an importer. Non-positive workers uses DefaultBatchWorkers.
func NewBatchImporter(ingestion driving.IngestionService, workers int) *BatchImporter {
	if workers <= 0 {
		workers = DefaultBatchWorkers
	}
	return &BatchImporter{
		ingestion: ingestion,
		workers:   workers,
		readFile:  os.ReadFile,
		stat:      os.Stat,
	}
}

// Import ingests every path. A failing file does not stop the others;
// its error is recorded in the report. Items keep the order of paths.
func (b *BatchImporter) Import(
	ctx context.Context,
	principal domain.Principal,
	paths []string,
	defaults BatchDefaults,
) (*BatchReport, error) {
	pool, err := ants.NewPool(b.workers)
	if err != nil {
		return nil, fmt.Errorf("creating worker pool: %w", err)
	}
	defer pool.Release()

	items := make([]BatchItem, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			items[i] = b.ImportFile(ctx, principal, path, defaults)
		})
		if submitErr != nil {
			wg.Done()
			items[i] = BatchItem{Path: path, Err: fmt.Errorf("scheduling %s: %w", path, submitErr)}
		}
	}
	wg.Wait()

	report := &BatchReport{Items: items}
	for i := range items {
		if items[i].Err != nil {
			report.Failed++
		} else {
			report.Succeeded++
		}
	}
	logger.Info("batch: %d imported, %d failed", report.Succeeded, report.Failed)
	return report, nil
}

// ImportFile ingests a single local file with batch defaults.
func (b *BatchImporter) ImportFile(
	ctx context.Context,
	principal domain.Principal,
	path string,
	defaults BatchDefaults,
) BatchItem {
	item := BatchItem{Path: path}

	if err := ctx.Err(); err != nil {
		item.Err = err
		return item
	}

	info, err := b.stat(path)
	if err != nil {
		item.Err = fmt.Errorf("reading %s: %w", path, err)
		return item
	}
	if info.Size() > domain.MaxUploadSize {
		item.Err = fmt.Errorf("%w: %s is %d bytes", domain.ErrFileTooLarge, path, info.Size())
		return item
	}

	data, err := b.readFile(path)
	if err != nil {
		item.Err = fmt.Errorf("reading %s: %w", path, err)
		return item
	}

	filename := filepath.Base(path)
	item.Result, item.Err = b.ingestion.Ingest(ctx, principal, domain.IngestRequest{
		Filename:     filename,
		Data:         data,
		Title:        TitleFromFilename(filename),
		LegalArea:    defaults.LegalArea,
		DocumentType: defaults.DocumentType,
		Court:        defaults.Court,
		Year:         defaults.Year,
		Visibility:   defaults.Visibility,
	})
	if item.Err != nil {
		logger.Warn("batch: %s: %v", path, item.Err)
	} else {
		logger.Debug("batch: %s -> %s", path, item.Result.DocumentID)
	}
	return item
}

// TitleFromFilename derives a readable title: the base name without its
// extension, with underscores and dashes turned into spaces.
func TitleFromFilename(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	title := strings.Join(strings.FieldsFunc(base, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	}), " ")
	if title == "" {
		return base
	}
	return title
}
