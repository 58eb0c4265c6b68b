// Package manifest builds bucket manifest records from a local tree or a bucket listing.
package manifest

import (
	"crypto/md5" // #nosec G501 - md5 is the manifest checksum format, not a security control
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ibs-source/bucket-manifest/internal/export"
	"github.com/ibs-source/bucket-manifest/internal/storage"
	"github.com/spf13/afero"
)

// Columns is the manifest header
var Columns = []string{"GUID", "filename", "size", "acl", "md5"}

// OpenACL marks objects readable by anyone
const OpenACL = "['open']"

// newGUID is replaced in tests
var newGUID = uuid.NewString

// FromDir returns one record per regular file under root, in lexical path order.
// Filenames are slash separated and relative to root.
func FromDir(fs afero.Fs, root string) ([]export.Record, error) {
	var records []export.Record
	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("failed to relativize %s: %w", path, err)
		}
		sum, err := fileMD5(fs, path)
		if err != nil {
			return err
		}
		records = append(records, newRecord(filepath.ToSlash(rel), info.Size(), OpenACL, sum))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	return records, nil
}

// FromObjects returns one record per listed object
func FromObjects(objects []storage.ObjectInfo) []export.Record {
	records := make([]export.Record, 0, len(objects))
	for _, o := range objects {
		if strings.HasSuffix(o.Name, "/") && o.Size == 0 {
			// folder placeholder
			continue
		}
		records = append(records, newRecord(o.Name, o.Size, FormatACL(o.ACL), o.MD5))
	}
	return records
}

// FormatACL renders entities as a bracketed, single quoted list; no entities means open
func FormatACL(entities []string) string {
	if len(entities) == 0 {
		return OpenACL
	}
	quoted := make([]string, len(entities))
	for i, e := range entities {
		quoted[i] = "'" + e + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func newRecord(filename string, size int64, acl, md5sum string) export.Record {
	return export.Record{
		{Name: "GUID", Value: newGUID()},
		{Name: "filename", Value: filename},
		{Name: "size", Value: size},
		{Name: "acl", Value: acl},
		{Name: "md5", Value: md5sum},
	}
}

func fileMD5(fs afero.Fs, path string) (string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	h := md5.New() // #nosec G401
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
