package filesystem

import (
	"path"
	"path/filepath"
	"sort"

	"github.com/zen-browser/surfer/pkg/types"
)

// ListFiles returns every non-directory entry below root as slash-separated
// paths relative to root, in lexical order.
func ListFiles(fsys types.FS, root string) ([]string, error) {
	var files []string
	if err := listInto(fsys, root, "", &files); err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func listInto(fsys types.FS, root, rel string, files *[]string) error {
	entries, err := fsys.ReadDir(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return err
	}
	for _, entry := range entries {
		child := path.Join(rel, entry.Name())
		if entry.IsDir() {
			if err := listInto(fsys, root, child, files); err != nil {
				return err
			}
			continue
		}
		*files = append(*files, child)
	}
	return nil
}

// Exists reports whether name exists without following a final symlink
func Exists(fsys types.FS, name string) bool {
	_, err := fsys.Lstat(name)
	return err == nil
}

// IsDir reports whether name is a directory
func IsDir(fsys types.FS, name string) bool {
	info, err := fsys.Stat(name)
	return err == nil && info.IsDir()
}
