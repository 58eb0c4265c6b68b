// Package main starts the TSV exporter binary.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"

	"github.com/ibs-source/bucket-manifest/internal/config"
	"github.com/ibs-source/bucket-manifest/internal/export"
	"github.com/ibs-source/bucket-manifest/internal/log"
	"github.com/ibs-source/bucket-manifest/internal/storage"
)

const usage = `Usage: exporter [flags] <bucket> <output.tsv> [destination_object]

Writes records to a tab-separated file and uploads it to Cloud Storage.
Records come from a JSON array (-input or stdin), a local directory (-scan-dir)
or a bucket listing (-scan-bucket).

Flags:
`

// Exporter flags, registered before config.Load parses the command line
var (
	flagInput      = flag.String("input", "", "JSON array of records (default: stdin when no scan flag)")
	flagScanDir    = flag.String("scan-dir", "", "Build a manifest from a local directory")
	flagScanBucket = flag.String("scan-bucket", "", "Build a manifest from a bucket listing")
	flagScanPrefix = flag.String("scan-prefix", "", "Object prefix used with -scan-bucket")
	flagFields     = flag.String("fields", "", "Comma separated explicit header")
	flagNoUpload   = flag.Bool("no-upload", false, "Write the file without uploading it")
)

func run() int {
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	opts, err := newOptions(flag.Args())
	if err != nil {
		fmt.Fprintf(flag.CommandLine.Output(), "%v\n\n", err)
		flag.Usage()
		return 2
	}

	logger := log.New()
	logger.Info("Starting exporter")

	cfg := loadAndLogConfig(logger, opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fs := afero.NewOsFs()

	var uploader *storage.Uploader
	if opts.needsStorage() {
		backend, err := storage.NewGCS(ctx, &cfg.Storage)
		if err != nil {
			logger.Error("Failed to create storage client: %v", err)
			return 1
		}
		defer func() {
			if err := backend.Close(); err != nil {
				logger.Error("Error closing storage client: %v", err)
			}
		}()
		uploader = storage.NewUploader(backend, fs, cfg.Storage.UploadTimeout, logger)
	}

	records, header, err := readRecords(ctx, opts, fs, uploader, os.Stdin)
	if err != nil {
		logger.Error("Failed to read records: %v", err)
		return 1
	}
	if len(records) == 0 {
		logger.Error("No records to export")
		return 1
	}

	path, err := export.NewWriter(fs, cfg.Export.NullMarker, logger).Write(opts.output, records, header)
	if err != nil {
		logger.Error("Failed to write %s: %v", opts.output, err)
		return 1
	}
	if err := verify(fs, path, len(records), logger); err != nil {
		logger.Error("%v", err)
		return 1
	}

	if opts.noUpload {
		logger.Info("Upload skipped for %s", path)
		return 0
	}
	if !uploader.UploadFile(ctx, cfg.Storage.Bucket, path, opts.destination) {
		return 1
	}
	return 0
}

func loadAndLogConfig(logger *log.Logger, opts *options) *config.Config {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration: %v", err)
	}
	cfg.Storage.Bucket = opts.bucket
	if err := config.ValidateExporter(cfg); err != nil {
		logger.Fatal("Invalid exporter configuration: %v", err)
	}

	logger.Info("Configuration loaded successfully")
	logger.Info("Source: %s, Output: %s", opts.source(), opts.output)
	if !opts.noUpload {
		logger.Info("Destination: %s/%s (timeout=%v)", cfg.Storage.Bucket, opts.destination, cfg.Storage.UploadTimeout)
	}
	return cfg
}

// verify reads the written file back and checks it holds every record
func verify(fs afero.Fs, path string, want int, logger *log.Logger) error {
	header, rows, err := export.ReadTSV(fs, path)
	if err != nil {
		return fmt.Errorf("failed to verify %s: %w", path, err)
	}
	if len(rows) != want {
		return fmt.Errorf("failed to verify %s: read %d rows, wrote %d", path, len(rows), want)
	}
	// a single column has no delimiter to detect
	if len(header) > 1 {
		if comma, err := export.Sniff(fs, path); err == nil && comma != '\t' {
			logger.Warn("Detected delimiter %q in %s, expected tab", comma, path)
		}
	}
	logger.Info("Wrote %d records with %d columns to %s", len(rows), len(header), path)
	return nil
}

func main() {
	// Keep main minimal to ensure defers in run() execute correctly.
	os.Exit(run())
}
