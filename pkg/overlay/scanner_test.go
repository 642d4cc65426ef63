package overlay

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zen-browser/surfer/pkg/errors"
	"github.com/zen-browser/surfer/pkg/filesystem"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func groupNames(groups []Group) []string {
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name
	}
	return names
}

func TestScanGroupsByFirstSegment(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"browser/base/content/zen.js":       "a",
		"browser/themes/zen.css":            "b",
		"toolkit/moz.build":                 "c",
		"README.md":                         "d",
		"browser/fix-tabs.patch":            "patch",
		"browser/node_modules/lib/index.js": "dep",
		"node_modules/top.js":               "dep",
	})

	groups, err := NewScanner(nil).Scan(root)
	require.NoError(t, err)

	assert.Equal(t, []string{"README.md", "browser", "toolkit"}, groupNames(groups))

	browser := groups[1]
	require.Len(t, browser.Entries, 2)
	assert.Equal(t, Entry{RelativePath: "browser/base/content/zen.js", Group: "browser"}, browser.Entries[0])
	assert.Equal(t, Entry{RelativePath: "browser/themes/zen.css", Group: "browser"}, browser.Entries[1])

	for _, e := range Entries(groups) {
		assert.NotContains(t, e.RelativePath, "node_modules")
		assert.NotContains(t, e.RelativePath, ".patch")
	}
}

func TestScanIsStableAcrossRuns(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"z/1.txt": "", "a/2.txt": "", "m/3.txt": "", "a/b/4.txt": "",
	})

	s := NewScanner(nil)
	first, err := s.Scan(root)
	require.NoError(t, err)
	second, err := s.Scan(root)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestScanEmptyTree(t *testing.T) {
	groups, err := NewScanner(nil).Scan(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestScanMissingRoot(t *testing.T) {
	t.Run("does_not_exist", func(t *testing.T) {
		_, err := NewScanner(nil).Scan(filepath.Join(t.TempDir(), "nope"))
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrScan))
	})

	t.Run("is_a_file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, nil, 0644))

		_, err := NewScanner(nil).Scan(file)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrScan))
	})
}

func TestScanCustomExclusions(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a/keep.js":  "x",
		"a/drop.tmp": "x",
		"b/x.patch":  "x",
	})

	groups, err := NewScanner([]string{"**/*.tmp"}).Scan(root)
	require.NoError(t, err)

	var paths []string
	for _, e := range Entries(groups) {
		paths = append(paths, e.RelativePath)
	}
	assert.Equal(t, []string{"a/keep.js", "b/x.patch"}, paths, "only the configured patterns are excluded")
}

func TestScanFS(t *testing.T) {
	fsys := fstest.MapFS{
		"chrome/browser.css": {Data: []byte("x")},
		"chrome/icons/a.svg": {Data: []byte("x")},
		"locales/en-US.ftl":  {Data: []byte("x")},
	}

	groups, err := NewScanner(nil).ScanFS(fsys, "mapfs")
	require.NoError(t, err)
	assert.Equal(t, []string{"chrome", "locales"}, groupNames(groups))
	assert.Len(t, groups[0].Entries, 2)
}

func TestScanTree(t *testing.T) {
	fs := filesystem.NewAferoFS(afero.NewMemMapFs())
	for _, rel := range []string{"chrome/browser.css", "chrome/icons/a.svg", "chrome/fix.patch", "locales/en-US.ftl"} {
		require.NoError(t, fs.MkdirAll(filepath.Dir("/overlay/"+rel), 0755))
		require.NoError(t, fs.WriteFile("/overlay/"+rel, []byte("x"), 0644))
	}

	groups, err := NewScanner(nil).ScanTree(fs, "/overlay")
	require.NoError(t, err)
	assert.Equal(t, []string{"chrome", "locales"}, groupNames(groups))
	assert.Equal(t, []Entry{
		{RelativePath: "chrome/browser.css", Group: "chrome"},
		{RelativePath: "chrome/icons/a.svg", Group: "chrome"},
	}, groups[0].Entries)

	_, err = NewScanner(nil).ScanTree(fs, "/missing")
	assert.True(t, errors.IsErrorCode(err, errors.ErrScan))

	t.Run("optional root", func(t *testing.T) {
		groups, skipped, err := NewScanner(nil).ScanRoot(fs, Root{Source: "/missing", Optional: true})
		require.NoError(t, err)
		assert.True(t, skipped)
		assert.Empty(t, groups)
	})
}
