package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/ibs-source/bucket-manifest/internal/export"
	"github.com/ibs-source/bucket-manifest/internal/manifest"
	"github.com/ibs-source/bucket-manifest/internal/storage"
)

var (
	errArgCount      = errors.New("expected <bucket> <output.tsv> [destination_object]")
	errScanConflict  = errors.New("-scan-dir and -scan-bucket are mutually exclusive")
	errInputWithScan = errors.New("-input cannot be combined with a scan flag")
)

// options is the parsed exporter command line
type options struct {
	input      string
	scanDir    string
	scanBucket string
	scanPrefix string
	fields     []string
	noUpload   bool

	bucket      string
	output      string
	destination string
}

// lister lists objects for a bucket scan
type lister interface {
	List(ctx context.Context, bucket, prefix string) ([]storage.ObjectInfo, error)
}

func newOptions(args []string) (*options, error) {
	opts := &options{
		input:      *flagInput,
		scanDir:    *flagScanDir,
		scanBucket: *flagScanBucket,
		scanPrefix: *flagScanPrefix,
		fields:     parseFields(*flagFields),
		noUpload:   *flagNoUpload,
	}
	if err := opts.setPositional(args); err != nil {
		return nil, err
	}
	return opts, opts.validate()
}

func (o *options) setPositional(args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return errArgCount
	}
	o.bucket, o.output = args[0], args[1]
	if o.bucket == "" || o.output == "" {
		return errArgCount
	}
	o.destination = filepath.Base(o.output)
	if len(args) == 3 && args[2] != "" {
		o.destination = args[2]
	}
	return nil
}

func (o *options) validate() error {
	if o.scanDir != "" && o.scanBucket != "" {
		return errScanConflict
	}
	if o.input != "" && (o.scanDir != "" || o.scanBucket != "") {
		return errInputWithScan
	}
	return nil
}

func (o *options) needsStorage() bool {
	return !o.noUpload || o.scanBucket != ""
}

func (o *options) source() string {
	switch {
	case o.scanDir != "":
		return "dir " + o.scanDir
	case o.scanBucket != "":
		return "bucket " + o.scanBucket + "/" + o.scanPrefix
	case o.input != "":
		return "file " + o.input
	default:
		return "stdin"
	}
}

// parseFields splits a comma separated header, dropping blanks
func parseFields(s string) []string {
	var fields []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// readRecords loads the records and the header to write them with
func readRecords(ctx context.Context, o *options, fs afero.Fs, objects lister, stdin io.Reader) ([]export.Record, []string, error) {
	var (
		records []export.Record
		header  = o.fields
		err     error
	)

	switch {
	case o.scanDir != "":
		records, err = manifest.FromDir(fs, o.scanDir)
	case o.scanBucket != "":
		var infos []storage.ObjectInfo
		if infos, err = objects.List(ctx, o.scanBucket, o.scanPrefix); err == nil {
			records = manifest.FromObjects(infos)
		}
	case o.input != "":
		records, err = decodeFile(fs, o.input)
	default:
		records, err = export.DecodeRecords(stdin)
	}
	if err != nil {
		return nil, nil, err
	}

	if header == nil && (o.scanDir != "" || o.scanBucket != "") {
		header = manifest.Columns
	}
	return records, header, nil
}

func decodeFile(fs afero.Fs, path string) ([]export.Record, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return export.DecodeRecords(f)
}
