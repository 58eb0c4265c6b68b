package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"

	"github.com/jfyne/csvd"
	"github.com/spf13/afero"
)

// errNoDelimiter is returned by Sniff when no line of the sample parses
var errNoDelimiter = errors.New("no delimiter detected")

// ReadTSV reads a file written by Write and returns its header and rows
func ReadTSV(fs afero.Fs, path string) ([]string, [][]string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	r, err := sniffingReader(data)
	if err != nil {
		r = csv.NewReader(bytes.NewReader(data))
	}
	r.Comma = '\t'

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows of %s: %w", path, err)
	}
	return header, rows, nil
}

// Sniff reports the delimiter detected in the first lines of path
func Sniff(fs afero.Fs, path string) (rune, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}

	r, err := sniffingReader(data)
	if err != nil {
		return 0, fmt.Errorf("failed to sniff %s: %w", path, err)
	}
	return r.Comma, nil
}

// sniffingReader runs the csvd sniffer, which panics when the sample yields no parsable line
func sniffingReader(data []byte) (r *csv.Reader, err error) {
	defer func() {
		if recover() != nil {
			r, err = nil, errNoDelimiter
		}
	}()
	return csvd.NewReader(bytes.NewReader(data)), nil
}
