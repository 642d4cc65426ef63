package overlay

import (
	"fmt"
	"strings"

	"github.com/zen-browser/surfer/pkg/errors"
)

// Action is what happened to one destination path
type Action string

const (
	// ActionCreated means nothing existed at the destination
	ActionCreated Action = "created"
	// ActionReplaced means an existing path was removed and rewritten
	ActionReplaced Action = "replaced"
	// ActionUnchanged means the destination was already correct
	ActionUnchanged Action = "unchanged"
	// ActionFailed means the entry could not be materialized
	ActionFailed Action = "failed"
)

// EntryResult describes one materialized entry
type EntryResult struct {
	Entry    Entry
	Source   string
	Dest     string
	Action   Action
	Strategy Strategy

	// Overwritten is set when a file surfer did not manage was destroyed
	Overwritten bool
	// LocalEditsDiscarded is set when a managed copy had been edited in place
	LocalEditsDiscarded bool

	key  string
	hash string
	err  error
}

// Err returns the failure for an ActionFailed result
func (r EntryResult) Err() error { return r.err }

// Report summarizes a batch
type Report struct {
	Strategy Strategy
	Results  []EntryResult
	// IgnoreLinesAdded counts new ignore manifest lines
	IgnoreLinesAdded int
}

// Count returns how many results have the given action
func (r *Report) Count(action Action) int {
	n := 0
	for _, res := range r.Results {
		if res.Action == action {
			n++
		}
	}
	return n
}

// Overwritten returns results that destroyed unmanaged files
func (r *Report) Overwritten() []EntryResult {
	return r.filter(func(res EntryResult) bool { return res.Overwritten })
}

// LocalEditsDiscarded returns results that discarded edits to managed copies
func (r *Report) LocalEditsDiscarded() []EntryResult {
	return r.filter(func(res EntryResult) bool { return res.LocalEditsDiscarded })
}

// Failed returns failed results
func (r *Report) Failed() []EntryResult {
	return r.filter(func(res EntryResult) bool { return res.Action == ActionFailed })
}

func (r *Report) filter(keep func(EntryResult) bool) []EntryResult {
	var out []EntryResult
	for _, res := range r.Results {
		if keep(res) {
			out = append(out, res)
		}
	}
	return out
}

func (r *Report) merge(other *Report) {
	if other == nil {
		return
	}
	r.Results = append(r.Results, other.Results...)
	r.IgnoreLinesAdded += other.IgnoreLinesAdded
}

// MaterializationError is the failure of one entry
type MaterializationError struct {
	Entry Entry
	Dest  string
	Err   error
}

func newMaterializationError(res EntryResult) *MaterializationError {
	return &MaterializationError{
		Entry: res.Entry,
		Dest:  res.Dest,
		Err:   errors.PlacementError(res.Entry.RelativePath, res.Dest, res.err),
	}
}

// Error reads as the wrapped placement error, which names the entry
func (e *MaterializationError) Error() string {
	return e.Err.Error()
}

func (e *MaterializationError) Unwrap() error { return e.Err }

// BatchError lists every entry that failed in a batch. The batch itself ran
// to completion.
type BatchError struct {
	Failures []*MaterializationError
	Total    int
}

func (e *BatchError) Error() string {
	paths := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		paths = append(paths, f.Entry.RelativePath)
	}
	return fmt.Sprintf("%d of %d overlay entries failed: %s", len(e.Failures), e.Total, strings.Join(paths, ", "))
}

// Unwrap exposes the individual failures to errors.Is and errors.As
func (e *BatchError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}
