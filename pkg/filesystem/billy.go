package filesystem

import (
	"io/fs"
	"os"
	"sync"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/zen-browser/surfer/pkg/types"
)

// billyFS implements types.FS on top of a billy.Filesystem. Calls are
// serialized since memfs is not safe for concurrent use.
type billyFS struct {
	mu sync.Mutex
	fs billy.Filesystem
}

// NewBillyFS wraps a billy filesystem. memfs.New() gives an in-memory tree
// with working symlinks.
func NewBillyFS(fs billy.Filesystem) types.FS {
	return &billyFS{fs: fs}
}

func (b *billyFS) Stat(name string) (fs.FileInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fs.Stat(name)
}

func (b *billyFS) Lstat(name string) (fs.FileInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fs.Lstat(name)
}

func (b *billyFS) ReadFile(name string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	info, err := b.fs.Stat(name)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}
	return util.ReadFile(b.fs, name)
}

func (b *billyFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return util.WriteFile(b.fs, name, data, perm)
}

func (b *billyFS) MkdirAll(path string, perm fs.FileMode) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fs.MkdirAll(path, perm)
}

func (b *billyFS) ReadDir(name string) ([]fs.DirEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	infos, err := b.fs.ReadDir(name)
	if err != nil {
		return nil, err
	}
	entries := make([]fs.DirEntry, len(infos))
	for i, info := range infos {
		entries[i] = fs.FileInfoToDirEntry(info)
	}
	return entries, nil
}

func (b *billyFS) Symlink(oldname, newname string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fs.Symlink(oldname, newname)
}

func (b *billyFS) Readlink(name string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fs.Readlink(name)
}

func (b *billyFS) Remove(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fs.Remove(name)
}

func (b *billyFS) RemoveAll(path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	err := util.RemoveAll(b.fs, path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (b *billyFS) Rename(oldpath, newpath string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fs.Rename(oldpath, newpath)
}
