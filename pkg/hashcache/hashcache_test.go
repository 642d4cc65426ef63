package hashcache

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zen-browser/surfer/pkg/filesystem"
)

func TestHashBytes(t *testing.T) {
	a := HashBytes([]byte("logo"))
	b := HashBytes([]byte("logo"))
	c := HashBytes([]byte("other"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 32, "xxh3-128 is 16 bytes of hex")
}

func TestHashFileMatchesAcrossBackends(t *testing.T) {
	data := []byte("\x89PNG fake artwork")

	dir := t.TempDir()
	osPath := filepath.Join(dir, "logo.png")
	require.NoError(t, os.WriteFile(osPath, data, 0644))

	mem := filesystem.NewAferoFS(afero.NewMemMapFs())
	require.NoError(t, mem.WriteFile("/brand/logo.png", data, 0644))

	mapped, err := HashFile(filesystem.NewOS(), osPath)
	require.NoError(t, err)
	read, err := HashFile(mem, "/brand/logo.png")
	require.NoError(t, err)

	assert.Equal(t, HashBytes(data), mapped)
	assert.Equal(t, mapped, read)
}

func TestHashFileMissing(t *testing.T) {
	_, err := HashFile(filesystem.NewOS(), filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}

func TestCacheIsAppendOnly(t *testing.T) {
	mem := filesystem.NewAferoFS(afero.NewMemMapFs())
	require.NoError(t, mem.WriteFile("/a/logo.png", []byte("same"), 0644))
	require.NoError(t, mem.WriteFile("/b/logo.png", []byte("same"), 0644))

	c := New(nil)
	h1, added, err := c.Add(mem, "/a/logo.png")
	require.NoError(t, err)
	assert.True(t, added)

	h2, added, err := c.Add(mem, "/b/logo.png")
	require.NoError(t, err)
	assert.False(t, added, "identical content is only recorded once")

	assert.Equal(t, h1, h2)
	assert.True(t, c.Contains(h1))
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, []string{h1}, c.Hashes())
}

func TestCacheConcurrentRecord(t *testing.T) {
	c := New(nil)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Record("deadbeef", "logo.png")
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, c.Len())
}

func TestSQLiteStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".surfer", "cache.db")

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	c := New(store)
	_, err = c.Record("abc123", "configs/branding/acme/logo.png")
	require.NoError(t, err)
	_, err = c.Record("abc123", "elsewhere/logo.png")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	has, err := reopened.Has("abc123")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = reopened.Has("missing")
	require.NoError(t, err)
	assert.False(t, has)

	records, err := reopened.All()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "configs/branding/acme/logo.png", records[0].Source)
	assert.Equal(t, path, reopened.Path())
}
