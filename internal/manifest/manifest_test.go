package manifest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/ibs-source/bucket-manifest/internal/export"
	"github.com/ibs-source/bucket-manifest/internal/storage"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedGUIDs(t *testing.T) {
	t.Helper()
	n := 0
	saved := newGUID
	newGUID = func() string {
		n++
		return fmt.Sprintf("guid-%d", n)
	}
	t.Cleanup(func() { newGUID = saved })
}

func TestFromDir(t *testing.T) {
	fixedGUIDs(t)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/b.txt", []byte("abc"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/data/a.txt", []byte(""), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/data/sub/c.bin", []byte("hello"), 0o644))

	records, err := FromDir(fs, "/data")
	require.NoError(t, err)

	assert.Equal(t, []export.Record{
		{{Name: "GUID", Value: "guid-1"}, {Name: "filename", Value: "a.txt"}, {Name: "size", Value: int64(0)}, {Name: "acl", Value: OpenACL}, {Name: "md5", Value: "d41d8cd98f00b204e9800998ecf8427e"}},
		{{Name: "GUID", Value: "guid-2"}, {Name: "filename", Value: "b.txt"}, {Name: "size", Value: int64(3)}, {Name: "acl", Value: OpenACL}, {Name: "md5", Value: "900150983cd24fb0d6963f7d28e17f72"}},
		{{Name: "GUID", Value: "guid-3"}, {Name: "filename", Value: "sub/c.bin"}, {Name: "size", Value: int64(5)}, {Name: "acl", Value: OpenACL}, {Name: "md5", Value: "5d41402abc4b2a76b9719d911017c592"}},
	}, records)
}

func TestFromDir_RealGUIDs(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/d/x", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/d/y", []byte("y"), 0o644))

	records, err := FromDir(fs, "/d")
	require.NoError(t, err)
	require.Len(t, records, 2)

	first, _ := records[0].Get("GUID")
	second, _ := records[1].Get("GUID")
	_, err = uuid.Parse(first.(string))
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestFromDir_MissingRoot(t *testing.T) {
	_, err := FromDir(afero.NewMemMapFs(), "/absent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to scan /absent")
}

func TestFromDir_EmptyTree(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/empty/nested", 0o755))

	records, err := FromDir(fs, "/empty")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFromObjects(t *testing.T) {
	fixedGUIDs(t)
	records := FromObjects([]storage.ObjectInfo{
		{Name: "raw/", Size: 0},
		{Name: "raw/a.bin", Size: 3, MD5: "900150983cd24fb0d6963f7d28e17f72"},
		{Name: "raw/b.bin", Size: 9, MD5: "abcd", ACL: []string{"allUsers", "user-ops@example.com"}},
	})

	require.Len(t, records, 2)
	assert.Equal(t, export.Record{
		{Name: "GUID", Value: "guid-1"},
		{Name: "filename", Value: "raw/a.bin"},
		{Name: "size", Value: int64(3)},
		{Name: "acl", Value: "['open']"},
		{Name: "md5", Value: "900150983cd24fb0d6963f7d28e17f72"},
	}, records[0])
	acl, _ := records[1].Get("acl")
	assert.Equal(t, "['allUsers', 'user-ops@example.com']", acl)
}

func TestManifestWritesWithColumns(t *testing.T) {
	fixedGUIDs(t)
	fs := afero.NewMemMapFs()
	records := FromObjects([]storage.ObjectInfo{{Name: "f", Size: 1, MD5: "m"}})

	path, err := export.WriteTSV(fs, "/m.tsv", records, Columns)
	require.NoError(t, err)

	got, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Equal(t, "GUID\tfilename\tsize\tacl\tmd5\nguid-1\tf\t1\t['open']\tm\n", string(got))
}
