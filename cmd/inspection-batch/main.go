package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joseph-ayodele/inspection-extractor/constants"
	"github.com/joseph-ayodele/inspection-extractor/internal/common"
	"github.com/joseph-ayodele/inspection-extractor/internal/core"
	"github.com/joseph-ayodele/inspection-extractor/internal/core/async"
	"github.com/joseph-ayodele/inspection-extractor/internal/core/pdfsource"
	"github.com/joseph-ayodele/inspection-extractor/internal/core/photos"
	"github.com/joseph-ayodele/inspection-extractor/internal/entity"
	"github.com/joseph-ayodele/inspection-extractor/internal/export"
	"github.com/joseph-ayodele/inspection-extractor/internal/ingest"
	repo "github.com/joseph-ayodele/inspection-extractor/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	os.Exit(run())
}

func run() int {
	// Parse CLI flags
	var (
		configPath = flag.String("config", "", "optional YAML config file")
		dir        = flag.String("dir", "", "directory (or single PDF) with RF reports (required)")
		out        = flag.String("out", "", "output directory for the workbook and photo archive (overrides config)")
		inmem      = flag.Bool("inmem", false, "use an in-memory SQLite store instead of the session file")
		workers    = flag.Int("workers", 0, "worker count (overrides config)")
		keep       = flag.Bool("keep", false, "keep the batch working directory after exit")
		table      = flag.Bool("table", false, "print the summary table to stdout")
	)
	flag.Parse()

	if *dir == "" && flag.NArg() > 0 {
		*dir = flag.Arg(0)
	}
	if *dir == "" {
		printError("Error: --dir is required\n")
		return 2
	}
	if !ingest.Exists(*dir) {
		printError("Error: %s does not exist\n", *dir)
		return 2
	}

	cfg, err := common.LoadConfig(*configPath)
	if err != nil {
		printError("Error: %v\n", err)
		return 2
	}
	if *out != "" {
		cfg.Batch.OutputDir = *out
	}
	if *workers > 0 {
		cfg.Batch.Workers = *workers
	}
	if *inmem {
		cfg.Store.DSN = ":memory:"
	}
	if *table {
		cfg.Batch.ExportConsole = true
	}
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		return 2
	}

	// Setup logger
	logger := common.NewLogger(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)
	logger.Info("config.loaded", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Discover input files
	discoverer := ingest.NewDiscoverer(logger, constants.Extensions(), true)
	results, stats, err := discoverer.Discover(ctx, *dir)
	if err != nil {
		logger.Error("discover.failed", "dir", *dir, "error", err)
		return 1
	}
	paths := ingest.Paths(results)
	logger.Info("discover.ok",
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"deduplicated", stats.Deduplicated,
		"failed", stats.Failed)
	if len(paths) == 0 {
		fmt.Println("No PDF reports found.")
		return 0
	}

	// Batch working directory: photos and the session store live here
	workRoot, err := os.MkdirTemp(cfg.Source.WorkDir, "inspection-batch-")
	if err != nil {
		logger.Error("batch.workdir.failed", "error", err)
		return 1
	}
	if !*keep {
		defer func() {
			if err := os.RemoveAll(workRoot); err != nil {
				logger.Warn("batch.workdir.cleanup.failed", "dir", workRoot, "error", err)
			}
		}()
	}

	pctx, err := core.NewProcessingContext(workRoot)
	if err != nil {
		logger.Error("batch.context.failed", "error", err)
		return 1
	}
	ctx = common.WithBatchID(ctx, pctx.BatchID.String())
	logger.Info("batch.start", append(common.LogAttrs(ctx), "documents", len(paths), "workdir", workRoot)...)

	// Wire the extraction pipeline
	source := pdfsource.New(pdfsource.FromCommon(cfg.Source), logger)
	classifier := photos.NewClassifier(photos.FromCommon(cfg.Photos), logger)
	assembler := core.NewAssembler(logger, classifier, cfg.Report.SupervisionTag)
	processor := core.NewProcessor(logger, source, assembler)

	queue := async.NewProcessorQueue(processor, pctx, logger,
		async.WithWorkers(cfg.Batch.Workers),
		async.WithQueueSize(cfg.Batch.QueueSize),
		async.WithProcessTimeout(cfg.Batch.JobTimeout),
	)
	for _, p := range paths {
		if ctx.Err() != nil {
			break
		}
		if err := queue.Enqueue(ctx, async.Job{Path: p}); err != nil {
			logger.Error("batch.enqueue.failed", "path", p, "error", err)
		}
	}
	queue.Shutdown(ctx)
	processed, failed := queue.Stats()

	records := pctx.Records()
	failures := pctx.Failures()
	exitCode := 0
	if ctx.Err() != nil {
		logger.Warn("batch.interrupted", common.LogAttrs(ctx)...)
		exitCode = 130
	}

	if err := saveRecords(context.WithoutCancel(ctx), cfg, workRoot, pctx, records, logger); err != nil {
		logger.Error("store.save.failed", "error", err)
		exitCode = 1
	}

	outputs, err := writeOutputs(context.WithoutCancel(ctx), cfg, pctx, records, failures, logger)
	if err != nil {
		logger.Error("export.failed", "error", err)
		return 1
	}

	logger.Info("batch.complete", append(common.LogAttrs(ctx),
		"documents", len(paths),
		"processed", processed,
		"failed", failed,
		"elapsed_ms", time.Since(pctx.StartedAt).Milliseconds())...)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Batch: %s\n", pctx.BatchID)
	fmt.Printf("- Files found: %d\n", len(paths))
	fmt.Printf("- Records extracted: %d\n", len(records))
	fmt.Printf("- Failures: %d\n", len(failures))
	for _, o := range outputs {
		fmt.Printf("- Output: %s\n", o)
	}
	return exitCode
}

// saveRecords persists the batch. Without a configured DSN the store is a
// SQLite file inside the batch working directory.
func saveRecords(ctx context.Context, cfg *common.Config, workRoot string, pctx *core.ProcessingContext, recs []*entity.InspectionRecord, logger *slog.Logger) error {
	storeCfg := repo.FromCommon(cfg.Store)
	if storeCfg.DSN == "" {
		storeCfg.DSN = "file:" + filepath.Join(workRoot, "session.db")
	}
	db, err := repo.Open(ctx, storeCfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.HealthCheck(ctx, cfg.Store.DialTimeout); err != nil {
		return err
	}
	if err := db.Migrate(ctx); err != nil {
		return err
	}
	records := repo.NewRecordRepository(db, logger)
	if err := records.SaveBatch(ctx, pctx.BatchID, recs); err != nil {
		return err
	}
	stored, err := records.CountByBatch(ctx, pctx.BatchID)
	if err != nil {
		return err
	}
	logger.Info("store.batch.ok", append(common.LogAttrs(ctx), "dialect", db.Dialect, "stored", stored)...)
	return nil
}

// writeOutputs writes the workbook, the photo archive and the console table.
func writeOutputs(ctx context.Context, cfg *common.Config, pctx *core.ProcessingContext, records []*entity.InspectionRecord, failures []entity.DocumentOutcome, logger *slog.Logger) ([]string, error) {
	if err := os.MkdirAll(cfg.Batch.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	svc := export.NewService(cfg.Report.SupervisionTag, logger)

	var outputs []string
	xlsx, err := svc.WorkbookXLSX(ctx, records)
	if err != nil {
		return nil, err
	}
	workbook := filepath.Join(cfg.Batch.OutputDir, cfg.Report.WorkbookName)
	if err := os.WriteFile(workbook, xlsx, 0o644); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	outputs = append(outputs, workbook)

	photoCount := 0
	for _, r := range records {
		photoCount += len(r.Images)
	}
	if cfg.Batch.ExportZip && photoCount > 0 {
		var buf bytes.Buffer
		if _, err := svc.ZipPhotos(ctx, &buf, filepath.Join(pctx.RootDir, constants.PhotosDirName), records); err != nil {
			return outputs, err
		}
		archive := filepath.Join(cfg.Batch.OutputDir, export.PhotosZipName)
		if err := os.WriteFile(archive, buf.Bytes(), 0o644); err != nil {
			return outputs, fmt.Errorf("write photo archive: %w", err)
		}
		outputs = append(outputs, archive)
	}

	if cfg.Batch.ExportConsole {
		if err := export.WriteTable(os.Stdout, records, failures); err != nil {
			return outputs, err
		}
	}
	return outputs, nil
}
