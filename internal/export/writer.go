package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ibs-source/bucket-manifest/internal/log"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Writer writes records as tab-separated values
type Writer struct {
	Fs afero.Fs
	// NullMarker is written for absent or nil fields
	NullMarker string
	// Log receives debug entries for ignored fields; may be nil
	Log *log.Logger
}

// NewWriter returns a writer on fs
func NewWriter(fs afero.Fs, nullMarker string, logger *log.Logger) *Writer {
	return &Writer{Fs: fs, NullMarker: nullMarker, Log: logger}
}

// WriteTSV writes records to path with an empty null marker.
// See (*Writer).Write.
func WriteTSV(fs afero.Fs, path string, records []Record, fieldnames []string) (string, error) {
	return (&Writer{Fs: fs}).Write(path, records, fieldnames)
}

// Write writes a header row followed by one row per record and returns path.
// With no records it returns "" and creates nothing. The header is fieldnames,
// or the first record's field order when fieldnames is empty. Columns a record
// lacks get the null marker; fields outside the header are skipped.
func (w *Writer) Write(path string, records []Record, fieldnames []string) (string, error) {
	if len(records) == 0 {
		return "", nil
	}

	header := fieldnames
	if len(header) == 0 {
		header = records[0].Names()
	}

	f, err := w.Fs.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := w.writeRows(f, header, records); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}

func (w *Writer) writeRows(out io.Writer, header []string, records []Record) error {
	cw := csv.NewWriter(out)
	cw.Comma = '\t'

	if err := writeRow(cw, out, header); err != nil {
		return err
	}

	columns := make(map[string]struct{}, len(header))
	for _, name := range header {
		columns[name] = struct{}{}
	}

	row := make([]string, len(header))
	for i, rec := range records {
		for j, name := range header {
			v, _ := rec.Get(name)
			row[j] = Render(v, w.NullMarker)
		}
		if err := writeRow(cw, out, row); err != nil {
			return err
		}
		w.logIgnored(i, rec, columns)
	}

	cw.Flush()
	return cw.Error()
}

// writeRow writes a lone empty cell as "" so the line is not read back as blank
func writeRow(cw *csv.Writer, out io.Writer, row []string) error {
	if len(row) != 1 || row[0] != "" {
		return cw.Write(row)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	_, err := io.WriteString(out, "\"\"\n")
	return err
}

func (w *Writer) logIgnored(index int, rec Record, columns map[string]struct{}) {
	if w.Log == nil {
		return
	}
	for _, f := range rec {
		if _, ok := columns[f.Name]; !ok {
			w.Log.DebugWithFields(logrus.Fields{"record": index, "field": f.Name}, "Ignoring field not in header")
		}
	}
}
