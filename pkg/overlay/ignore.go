package overlay

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zen-browser/surfer/pkg/errors"
	"github.com/zen-browser/surfer/pkg/types"
)

// IgnoreManifest is the engine's line-oriented ignore file. Lines are only
// ever appended, and only when the exact line is not already present.
type IgnoreManifest struct {
	mu   sync.Mutex
	fs   types.FS
	path string
}

// NewIgnoreManifest wraps the manifest at path. The file need not exist.
func NewIgnoreManifest(fs types.FS, path string) *IgnoreManifest {
	return &IgnoreManifest{fs: fs, path: path}
}

// Path returns the manifest location
func (m *IgnoreManifest) Path() string { return m.path }

// Ensure appends line unless an identical line exists. It reports whether
// the file changed.
func (m *IgnoreManifest) Ensure(line string) (bool, error) {
	added, err := m.EnsureAll([]string{line})
	return added > 0, err
}

// EnsureAll appends every absent line in order with a single write and
// returns how many were added. A missing trailing newline in the existing
// file is repaired first so no line is ever glued onto another.
func (m *IgnoreManifest) EnsureAll(lines []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	content, err := m.fs.ReadFile(m.path)
	if err != nil && !os.IsNotExist(err) {
		return 0, errors.Wrapf(err, errors.ErrFileAccess, "failed to read ignore manifest %s", m.path).
			WithDetail(errors.DetailPath, m.path)
	}

	present := make(map[string]bool)
	for _, l := range strings.Split(string(content), "\n") {
		present[strings.TrimSuffix(l, "\r")] = true
	}

	var b strings.Builder
	b.Write(content)
	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		b.WriteByte('\n')
	}

	added := 0
	for _, line := range lines {
		if line == "" || present[line] {
			continue
		}
		present[line] = true
		b.WriteString(line)
		b.WriteByte('\n')
		added++
	}
	if added == 0 {
		return 0, nil
	}

	if err := m.fs.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return 0, errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory for %s", m.path)
	}
	if err := m.fs.WriteFile(m.path, []byte(b.String()), 0644); err != nil {
		return 0, errors.Wrapf(err, errors.ErrFileWrite, "failed to write ignore manifest %s", m.path).
			WithDetail(errors.DetailPath, m.path)
	}
	return added, nil
}

// Contains reports whether line is present verbatim
func (m *IgnoreManifest) Contains(line string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	content, err := m.fs.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	for _, l := range strings.Split(string(content), "\n") {
		if strings.TrimSuffix(l, "\r") == line {
			return true, nil
		}
	}
	return false, nil
}
