package overlay

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"github.com/zen-browser/surfer/pkg/errors"
	"github.com/zen-browser/surfer/pkg/types"
)

const ownershipVersion = 1

// ManagedFile is one destination path surfer placed in the engine
type ManagedFile struct {
	// Path is slash-separated and relative to the engine root
	Path     string `toml:"path"`
	Strategy string `toml:"strategy"`
	Source   string `toml:"source"`
	// Hash is the content hash of a copied file; empty for symlinks
	Hash string `toml:"hash,omitempty"`
}

type ownershipFile struct {
	Version int           `toml:"version"`
	Files   []ManagedFile `toml:"files"`
}

// Ownership is the manifest of destination files surfer manages
type Ownership struct {
	mu      sync.Mutex
	fs      types.FS
	path    string
	entries map[string]ManagedFile
	dirty   bool
}

// LoadOwnership reads the manifest at path. A missing file is an empty
// manifest.
func LoadOwnership(fs types.FS, path string) (*Ownership, error) {
	o := &Ownership{fs: fs, path: path, entries: make(map[string]ManagedFile)}

	data, err := fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return o, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read ownership manifest %s", path)
	}

	var file ownershipFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse ownership manifest %s", path).
			WithDetail(errors.DetailPath, path)
	}
	for _, f := range file.Files {
		o.entries[f.Path] = f
	}
	return o, nil
}

// Lookup returns the record for an engine-relative path
func (o *Ownership) Lookup(path string) (ManagedFile, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	f, ok := o.entries[path]
	return f, ok
}

// Record adds or replaces a record
func (o *Ownership) Record(f ManagedFile) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if cur, ok := o.entries[f.Path]; ok && cur == f {
		return
	}
	o.entries[f.Path] = f
	o.dirty = true
}

// Forget drops a record
func (o *Ownership) Forget(path string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.entries[path]; ok {
		delete(o.entries, path)
		o.dirty = true
	}
}

// Files returns all records sorted by path
func (o *Ownership) Files() []ManagedFile {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sortedLocked()
}

func (o *Ownership) sortedLocked() []ManagedFile {
	out := make([]ManagedFile, 0, len(o.entries))
	for _, f := range o.entries {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Save writes the manifest if anything changed since it was loaded
func (o *Ownership) Save() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.dirty {
		return nil
	}

	data, err := toml.Marshal(ownershipFile{Version: ownershipVersion, Files: o.sortedLocked()})
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to encode ownership manifest")
	}
	if err := o.fs.MkdirAll(filepath.Dir(o.path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory for %s", o.path)
	}
	if err := o.fs.WriteFile(o.path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write ownership manifest %s", o.path)
	}
	o.dirty = false
	return nil
}
