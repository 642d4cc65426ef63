package overlay

import (
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/zen-browser/surfer/pkg/errors"
	"github.com/zen-browser/surfer/pkg/filesystem"
	"github.com/zen-browser/surfer/pkg/logging"
	"github.com/zen-browser/surfer/pkg/types"
)

// DefaultExclude drops dependency trees and patch files from a scan
var DefaultExclude = []string{"**/node_modules/**", "**/*.patch"}

// Entry is one overlay file
type Entry struct {
	// RelativePath is slash-separated and relative to the overlay root
	RelativePath string
	// Group is the first segment of RelativePath
	Group string
}

// Group is the set of entries sharing a first path segment
type Group struct {
	Name    string
	Entries []Entry
}

// Scanner enumerates overlay files
type Scanner struct {
	exclude []string
}

// NewScanner creates a scanner. A nil exclude list selects DefaultExclude;
// an empty one disables exclusion.
func NewScanner(exclude []string) *Scanner {
	if exclude == nil {
		exclude = DefaultExclude
	}
	return &Scanner{exclude: exclude}
}

// Scan lists the regular files below root on the real filesystem
func (s *Scanner) Scan(root string) ([]Group, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ScanError(root, nil)
		}
		return nil, errors.ScanError(root, err)
	}
	if !info.IsDir() {
		return nil, errors.ScanError(root, nil)
	}
	return s.ScanFS(os.DirFS(root), root)
}

// ScanFS lists the regular files of fsys. root is only used for messages.
func (s *Scanner) ScanFS(fsys fs.FS, root string) ([]Group, error) {
	files, err := doublestar.Glob(fsys, "**", doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, errors.ScanError(root, err)
	}
	sort.Strings(files)
	return s.group(files, root), nil
}

// ScanTree lists the files below root on any surfer filesystem. The real
// filesystem goes through Scan.
func (s *Scanner) ScanTree(fsys types.FS, root string) ([]Group, error) {
	if filesystem.IsOS(fsys) {
		return s.Scan(root)
	}

	info, err := fsys.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ScanError(root, nil)
		}
		return nil, errors.ScanError(root, err)
	}
	if !info.IsDir() {
		return nil, errors.ScanError(root, nil)
	}

	files, err := filesystem.ListFiles(fsys, root)
	if err != nil {
		return nil, errors.ScanError(root, err)
	}
	return s.group(files, root), nil
}

// ScanRoot scans one overlay root. skipped is true for an optional root
// that does not exist.
func (s *Scanner) ScanRoot(fsys types.FS, root Root) (groups []Group, skipped bool, err error) {
	if root.Optional && !filesystem.Exists(fsys, root.Source) {
		logger := logging.GetLogger("overlay.scanner")
		logger.Debug().Str("root", root.Source).Msg("Optional overlay root absent, skipping")
		return nil, true, nil
	}
	groups, err = s.ScanTree(fsys, root.Source)
	return groups, false, err
}

// group partitions sorted relative paths by first segment, dropping
// excluded ones
func (s *Scanner) group(files []string, root string) []Group {
	logger := logging.GetLogger("overlay.scanner")

	var groups []Group
	index := make(map[string]int)
	skipped := 0

	for _, rel := range files {
		if s.excluded(rel) {
			skipped++
			continue
		}
		name := firstSegment(rel)
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, Group{Name: name})
		}
		groups[i].Entries = append(groups[i].Entries, Entry{RelativePath: rel, Group: name})
	}

	logger.Debug().
		Str("root", root).
		Int("groups", len(groups)).
		Int("files", len(files)-skipped).
		Int("excluded", skipped).
		Msg("Scanned overlay root")
	return groups
}

func (s *Scanner) excluded(rel string) bool {
	for _, pattern := range s.exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func firstSegment(rel string) string {
	if i := strings.IndexByte(rel, '/'); i >= 0 {
		return rel[:i]
	}
	return rel
}

// Entries flattens groups back into scan order
func Entries(groups []Group) []Entry {
	var out []Entry
	for _, g := range groups {
		out = append(out, g.Entries...)
	}
	return out
}
