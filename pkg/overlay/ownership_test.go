package overlay

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zen-browser/surfer/pkg/errors"
	"github.com/zen-browser/surfer/pkg/filesystem"
)

func TestOwnershipRoundTrip(t *testing.T) {
	fs := filesystem.NewAferoFS(afero.NewMemMapFs())
	path := "/project/.surfer/managed.toml"

	o, err := LoadOwnership(fs, path)
	require.NoError(t, err)
	assert.Empty(t, o.Files())

	o.Record(ManagedFile{Path: "browser/b.js", Strategy: "copy", Source: "/project/src/browser/b.js", Hash: "abc"})
	o.Record(ManagedFile{Path: "browser/a.js", Strategy: "symlink", Source: "/project/src/browser/a.js"})
	require.NoError(t, o.Save())

	data, err := fs.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = 1")

	reloaded, err := LoadOwnership(fs, path)
	require.NoError(t, err)
	files := reloaded.Files()
	require.Len(t, files, 2)
	assert.Equal(t, "browser/a.js", files[0].Path, "records are sorted by path")

	got, ok := reloaded.Lookup("browser/b.js")
	require.True(t, ok)
	assert.Equal(t, "abc", got.Hash)
	assert.Equal(t, "copy", got.Strategy)

	reloaded.Forget("browser/b.js")
	_, ok = reloaded.Lookup("browser/b.js")
	assert.False(t, ok)
}

func TestOwnershipSaveSkipsWhenClean(t *testing.T) {
	fs := filesystem.NewAferoFS(afero.NewMemMapFs())
	path := "/state/managed.toml"

	o, err := LoadOwnership(fs, path)
	require.NoError(t, err)
	require.NoError(t, o.Save())

	_, err = fs.Stat(path)
	assert.Error(t, err, "an unchanged manifest is never written")
}

func TestOwnershipRejectsGarbage(t *testing.T) {
	fs := filesystem.NewAferoFS(afero.NewMemMapFs())
	require.NoError(t, fs.WriteFile("/managed.toml", []byte("files = [[[ nope"), 0644))

	_, err := LoadOwnership(fs, "/managed.toml")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}
