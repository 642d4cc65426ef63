// pkg/filesystem/filesystem_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: real temp dirs, afero MemMapFs, billy memfs
// PURPOSE: Verify every types.FS backend behaves the same for the
// operations the overlay and asset pipeline rely on

package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zen-browser/surfer/pkg/types"
)

type backend struct {
	name     string
	fs       types.FS
	root     string
	symlinks bool
}

func backends(t *testing.T) []backend {
	return []backend{
		{name: "os", fs: NewOS(), root: t.TempDir(), symlinks: true},
		{name: "afero-mem", fs: NewAferoFS(afero.NewMemMapFs()), root: "/work"},
		{name: "billy-mem", fs: NewBillyFS(memfs.New()), root: "/work", symlinks: true},
	}
}

func TestBackendsFileLifecycle(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			dir := filepath.Join(b.root, "sub", "dir")
			file := filepath.Join(dir, "test.txt")

			require.NoError(t, b.fs.MkdirAll(dir, 0755))
			require.NoError(t, b.fs.WriteFile(file, []byte("hello world"), 0644))

			info, err := b.fs.Stat(file)
			require.NoError(t, err)
			assert.Equal(t, "test.txt", info.Name())
			assert.Equal(t, int64(11), info.Size())

			content, err := b.fs.ReadFile(file)
			require.NoError(t, err)
			assert.Equal(t, "hello world", string(content))

			_, err = b.fs.ReadFile(dir)
			assert.Error(t, err, "reading a directory should fail")

			entries, err := b.fs.ReadDir(dir)
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, "test.txt", entries[0].Name())

			renamed := filepath.Join(dir, "renamed.txt")
			require.NoError(t, b.fs.Rename(file, renamed))
			_, err = b.fs.Stat(file)
			assert.ErrorIs(t, err, fs.ErrNotExist)

			require.NoError(t, b.fs.Remove(renamed))
			_, err = b.fs.Stat(renamed)
			assert.ErrorIs(t, err, fs.ErrNotExist)

			require.NoError(t, b.fs.RemoveAll(filepath.Join(b.root, "sub")))
			_, err = b.fs.Stat(dir)
			assert.ErrorIs(t, err, fs.ErrNotExist)
		})
	}
}

func TestBackendsSymlinks(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			target := filepath.Join(b.root, "target.txt")
			link := filepath.Join(b.root, "link.txt")
			require.NoError(t, b.fs.MkdirAll(b.root, 0755))
			require.NoError(t, b.fs.WriteFile(target, []byte("payload"), 0644))

			err := b.fs.Symlink(target, link)
			if !b.symlinks {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			info, err := b.fs.Lstat(link)
			require.NoError(t, err)
			assert.NotZero(t, info.Mode()&os.ModeSymlink, "Lstat should not follow the link")

			dest, err := b.fs.Readlink(link)
			require.NoError(t, err)
			assert.Equal(t, target, dest)

			content, err := b.fs.ReadFile(link)
			require.NoError(t, err)
			assert.Equal(t, "payload", string(content))
		})
	}
}

func TestRemoveAllMissingPathIsNoop(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			assert.NoError(t, b.fs.RemoveAll(filepath.Join(b.root, "does-not-exist")))
		})
	}
}

func TestIsOS(t *testing.T) {
	assert.True(t, IsOS(NewOS()))
	assert.False(t, IsOS(NewAferoFS(afero.NewMemMapFs())))
	assert.False(t, IsOS(NewBillyFS(memfs.New())))
}

func TestListFiles(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			base := filepath.Join(b.root, "unofficial")
			for _, rel := range []string{"b.txt", "content/about.css", "locales/en-US/brand.ftl", "a.nsi"} {
				p := filepath.Join(base, filepath.FromSlash(rel))
				require.NoError(t, b.fs.MkdirAll(filepath.Dir(p), 0755))
				require.NoError(t, b.fs.WriteFile(p, []byte(rel), 0644))
			}

			files, err := ListFiles(b.fs, base)
			require.NoError(t, err)
			assert.Equal(t, []string{"a.nsi", "b.txt", "content/about.css", "locales/en-US/brand.ftl"}, files)

			assert.True(t, IsDir(b.fs, filepath.Join(base, "content")))
			assert.False(t, IsDir(b.fs, filepath.Join(base, "b.txt")))
			assert.True(t, Exists(b.fs, filepath.Join(base, "b.txt")))
			assert.False(t, Exists(b.fs, filepath.Join(base, "nope")))

			_, err = ListFiles(b.fs, filepath.Join(b.root, "missing"))
			assert.Error(t, err)
		})
	}
}
