package overlay

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/zen-browser/surfer/pkg/errors"
	"github.com/zen-browser/surfer/pkg/hashcache"
	"github.com/zen-browser/surfer/pkg/logging"
	"github.com/zen-browser/surfer/pkg/types"
)

// DefaultWorkers bounds concurrent entry placement
const DefaultWorkers = 4

// Options configures a Materializer
type Options struct {
	FS       types.FS
	Strategy Strategy
	// EngineRoot anchors ignore manifest lines and ownership records
	EngineRoot string
	Ignore     *IgnoreManifest
	// Ownership may be nil, in which case nothing is treated as managed
	// and nothing is persisted
	Ownership *Ownership
	Workers   int
}

// Materializer places overlay entries into the engine
type Materializer struct {
	fs         types.FS
	strategy   Strategy
	engineRoot string
	ignore     *IgnoreManifest
	ownership  *Ownership
	workers    int
}

// NewMaterializer creates a materializer
func NewMaterializer(opts Options) *Materializer {
	workers := opts.Workers
	if workers < 1 {
		workers = DefaultWorkers
	}
	ownership := opts.Ownership
	if ownership == nil {
		ownership = &Ownership{entries: make(map[string]ManagedFile)}
	}
	return &Materializer{
		fs:         opts.FS,
		strategy:   opts.Strategy,
		engineRoot: opts.EngineRoot,
		ignore:     opts.Ignore,
		ownership:  ownership,
		workers:    workers,
	}
}

// Strategy returns the strategy used by MaterializeAll
func (m *Materializer) Strategy() Strategy { return m.strategy }

// Materialize places a single entry with the given strategy and records it
// in the ignore and ownership manifests.
func (m *Materializer) Materialize(entry Entry, sourceRoot, destRoot string, strategy Strategy) error {
	res := m.place(entry, sourceRoot, destRoot, strategy)
	if res.Action == ActionFailed {
		return newMaterializationError(res)
	}
	_, err := m.commit([]EntryResult{res})
	return err
}

// MaterializeAll places every entry of groups on a bounded pool. A failing
// entry does not stop the batch; failures come back as a *BatchError along
// with the full report.
func (m *Materializer) MaterializeAll(ctx context.Context, groups []Group, sourceRoot, destRoot string) (*Report, error) {
	logger := logging.GetLogger("overlay.materializer")
	done := logging.LogOperationStart(logger, "materialize")
	defer done()

	entries := Entries(groups)
	results := make([]EntryResult, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for i, entry := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = EntryResult{Entry: entry, Action: ActionFailed, Strategy: m.strategy, err: err}
				return nil
			}
			results[i] = m.place(entry, sourceRoot, destRoot, m.strategy)
			return nil
		})
	}
	_ = g.Wait()

	report := &Report{Strategy: m.strategy, Results: results}

	// Manifest updates run after the pool, in scan order
	added, err := m.commit(results)
	report.IgnoreLinesAdded = added
	if err != nil {
		return report, err
	}

	if failed := report.Failed(); len(failed) > 0 {
		batch := &BatchError{Total: len(results)}
		for _, res := range failed {
			batch.Failures = append(batch.Failures, newMaterializationError(res))
		}
		return report, batch
	}

	logger.Info().
		Str("strategy", m.strategy.String()).
		Int("created", report.Count(ActionCreated)).
		Int("replaced", report.Count(ActionReplaced)).
		Int("unchanged", report.Count(ActionUnchanged)).
		Msg("Materialized overlay")
	return report, nil
}

func (m *Materializer) place(entry Entry, sourceRoot, destRoot string, strategy Strategy) EntryResult {
	logger := logging.GetLogger("overlay.materializer")

	src := filepath.Join(sourceRoot, filepath.FromSlash(entry.RelativePath))
	if !filepath.IsAbs(src) {
		if abs, err := filepath.Abs(src); err == nil {
			src = abs
		}
	}
	dest := filepath.Join(destRoot, filepath.FromSlash(entry.RelativePath))

	res := EntryResult{
		Entry:    entry,
		Source:   src,
		Dest:     dest,
		Action:   ActionCreated,
		Strategy: strategy,
		key:      m.manifestPath(entry, dest),
	}
	fail := func(err error) EntryResult {
		res.Action = ActionFailed
		res.err = err
		logger.Error().Err(err).Str("entry", entry.RelativePath).Msg("Failed to materialize overlay entry")
		return res
	}

	srcInfo, err := m.fs.Stat(src)
	if err != nil {
		return fail(errors.Wrapf(err, errors.ErrFileNotFound, "overlay file %s is not readable", src).
			WithDetail(errors.DetailPath, src))
	}

	var data []byte
	if strategy == StrategyCopy {
		data, err = m.fs.ReadFile(src)
		if err != nil {
			return fail(errors.Wrapf(err, errors.ErrFileAccess, "failed to read overlay file %s", src))
		}
		res.hash = hashcache.HashBytes(data)
	}

	info, err := m.fs.Lstat(dest)
	switch {
	case err == nil:
		if m.alreadyPlaced(&res, info) {
			return res
		}
		if info.IsDir() && info.Mode()&os.ModeSymlink == 0 {
			err = m.fs.RemoveAll(dest)
		} else {
			err = m.fs.Remove(dest)
		}
		if err != nil {
			return fail(errors.Wrapf(err, errors.ErrFileWrite, "failed to remove existing %s", dest))
		}
		if res.Overwritten {
			logger.Warn().Str("path", dest).Msg("Replaced a file surfer did not create")
		}
		if res.LocalEditsDiscarded {
			logger.Warn().Str("path", dest).Msg("Discarded local edits to a managed copy")
		}
	case os.IsNotExist(err):
	default:
		return fail(errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect %s", dest))
	}

	if err := m.fs.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fail(errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory for %s", dest))
	}

	switch strategy {
	case StrategyCopy:
		if err := m.fs.WriteFile(dest, data, srcInfo.Mode().Perm()); err != nil {
			return fail(errors.Wrapf(err, errors.ErrFileWrite, "failed to copy %s", entry.RelativePath).
				WithDetail(errors.DetailPath, dest))
		}
	default:
		if err := m.fs.Symlink(src, dest); err != nil {
			return fail(errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to link %s", entry.RelativePath).
				WithDetail(errors.DetailPath, dest))
		}
	}

	logger.Trace().Str("entry", entry.RelativePath).Str("action", string(res.Action)).Msg("Placed overlay entry")
	return res
}

// alreadyPlaced classifies an existing destination. It returns true when the
// destination already holds exactly what the strategy would write; otherwise
// it marks res as a replacement and flags what the replacement destroys.
// Anything without an ownership record is foreign, links included.
func (m *Materializer) alreadyPlaced(res *EntryResult, info os.FileInfo) bool {
	isLink := info.Mode()&os.ModeSymlink != 0
	managed, known := m.ownership.Lookup(res.key)

	if isLink && res.Strategy == StrategySymlink {
		if target, err := m.fs.Readlink(res.Dest); err == nil && target == res.Source {
			res.Action = ActionUnchanged
			return true
		}
	}

	if info.Mode().IsRegular() {
		if current, err := m.fs.ReadFile(res.Dest); err == nil {
			h := hashcache.HashBytes(current)
			if res.Strategy == StrategyCopy && h == res.hash {
				res.Action = ActionUnchanged
				return true
			}
			if known && managed.Strategy == StrategyCopy.String() && managed.Hash != "" && managed.Hash != h {
				res.LocalEditsDiscarded = true
			}
		}
	}

	// Only the ownership manifest decides what surfer owns
	res.Action = ActionReplaced
	res.Overwritten = !known
	return false
}

// commit applies manifest updates for every successful result
func (m *Materializer) commit(results []EntryResult) (int, error) {
	var lines []string
	for _, res := range results {
		if res.Action == ActionFailed {
			continue
		}
		lines = append(lines, res.key)
		m.ownership.Record(ManagedFile{
			Path:     res.key,
			Strategy: res.Strategy.String(),
			Source:   res.Source,
			Hash:     res.hash,
		})
	}

	added := 0
	if m.ignore != nil && len(lines) > 0 {
		n, err := m.ignore.EnsureAll(lines)
		if err != nil {
			return 0, err
		}
		added = n
	}

	if m.ownership.fs != nil {
		if err := m.ownership.Save(); err != nil {
			return added, err
		}
	}
	return added, nil
}

// manifestPath returns dest relative to the engine root with forward
// slashes, falling back to the entry path for destinations outside it.
func (m *Materializer) manifestPath(entry Entry, dest string) string {
	if m.engineRoot == "" {
		return entry.RelativePath
	}
	rel, err := filepath.Rel(m.engineRoot, dest)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return entry.RelativePath
	}
	return filepath.ToSlash(rel)
}
