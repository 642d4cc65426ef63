package overlay

import (
	"context"

	"github.com/zen-browser/surfer/pkg/logging"
)

// Root is an overlay source directory and the engine directory it projects
// onto. Both paths are absolute.
type Root struct {
	Source      string
	Destination string
	// Optional roots are skipped when Source does not exist
	Optional bool
}

// Import scans and materializes every root in order. Scan failures abort
// the import; entry failures are collected across roots into one
// *BatchError returned with the combined report.
func (m *Materializer) Import(ctx context.Context, scanner *Scanner, roots []Root) (*Report, error) {
	logger := logging.GetLogger("overlay.import")
	report := &Report{Strategy: m.strategy}
	batch := &BatchError{}

	for _, root := range roots {
		groups, skipped, err := scanner.ScanRoot(m.fs, root)
		if err != nil {
			return report, err
		}
		if skipped {
			continue
		}
		logger.Debug().Str("root", root.Source).Str("destination", root.Destination).Msg("Importing overlay root")

		part, err := m.MaterializeAll(ctx, groups, root.Source, root.Destination)
		report.merge(part)
		if part != nil {
			batch.Total += len(part.Results)
		}
		if err != nil {
			failures, ok := err.(*BatchError)
			if !ok {
				return report, err
			}
			batch.Failures = append(batch.Failures, failures.Failures...)
		}
	}

	if len(batch.Failures) > 0 {
		return report, batch
	}
	return report, nil
}
