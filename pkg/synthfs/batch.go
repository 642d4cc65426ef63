package synthfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/rs/zerolog"

	"github.com/zen-browser/surfer/pkg/errors"
	surferfs "github.com/zen-browser/surfer/pkg/filesystem"
	"github.com/zen-browser/surfer/pkg/logging"
	"github.com/zen-browser/surfer/pkg/types"
)

// TransformFunc rewrites file contents on their way to the target
type TransformFunc func(content []byte) ([]byte, error)

// StepKind names what a step does
type StepKind string

const (
	StepWrite StepKind = "write"
	StepCopy  StepKind = "copy"
)

// Step is one pending file write
type Step struct {
	Kind      StepKind
	Source    string
	Target    string
	Content   []byte
	Transform TransformFunc
	Mode      os.FileMode
}

// Batch collects steps and runs them together
type Batch struct {
	name     string
	logger   zerolog.Logger
	fsys     types.FS
	steps    []Step
	rollback bool
}

// NewBatch creates an empty batch writing through fsys
func NewBatch(name string, fsys types.FS) *Batch {
	return &Batch{
		name:     name,
		logger:   logging.GetLogger("synthfs.batch"),
		fsys:     fsys,
		rollback: true,
	}
}

// WithRollback toggles pipeline rollback when a step fails
func (b *Batch) WithRollback(enabled bool) *Batch {
	b.rollback = enabled
	return b
}

// Write schedules content to be written to target
func (b *Batch) Write(target string, content []byte) {
	b.steps = append(b.steps, Step{Kind: StepWrite, Target: target, Content: content, Mode: 0644})
}

// Copy schedules a verbatim copy of source to target
func (b *Batch) Copy(source, target string) {
	b.steps = append(b.steps, Step{Kind: StepCopy, Source: source, Target: target, Mode: 0644})
}

// CopyTransformed schedules a copy whose contents pass through fn
func (b *Batch) CopyTransformed(source, target string, fn TransformFunc) {
	b.steps = append(b.steps, Step{Kind: StepCopy, Source: source, Target: target, Transform: fn, Mode: 0644})
}

// Steps returns the scheduled steps in order
func (b *Batch) Steps() []Step {
	return b.steps
}

// Len returns the number of scheduled steps
func (b *Batch) Len() int {
	return len(b.steps)
}

// Run executes every step. An empty batch is a no-op.
func (b *Batch) Run(ctx context.Context) error {
	if len(b.steps) == 0 {
		return nil
	}

	b.logger.Debug().
		Str("batch", b.name).
		Int("steps", len(b.steps)).
		Bool("rollback", b.rollback).
		Msg("Running batch")

	var err error
	if surferfs.IsOS(b.fsys) {
		err = b.runPipeline(ctx)
	} else {
		err = b.runDirect(ctx)
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "batch %s failed", b.name)
	}
	return nil
}

func (b *Batch) runPipeline(ctx context.Context) error {
	pathAwareFS := synthfs.NewPathAwareFileSystem(filesystem.NewOSFileSystem("/"), "/").WithAbsolutePaths()

	sfs := synthfs.New()
	ops := make([]synthfs.Operation, 0, len(b.steps))
	for i, step := range b.steps {
		id := fmt.Sprintf("%s_%s_%03d_%s", b.name, step.Kind, i, filepath.Base(step.Target))
		ops = append(ops, sfs.CustomOperationWithID(id, func(ctx context.Context, fs filesystem.FileSystem) error {
			content := step.Content
			if step.Kind == StepCopy {
				file, err := fs.Open(step.Source)
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", step.Source, err)
				}
				defer func() { _ = file.Close() }()

				content, err = io.ReadAll(file)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", step.Source, err)
				}
			}
			content, err := applyTransform(step, content)
			if err != nil {
				return err
			}

			if err := fs.MkdirAll(filepath.Dir(step.Target), 0755); err != nil {
				return fmt.Errorf("failed to create directory for %s: %w", step.Target, err)
			}
			if err := fs.WriteFile(step.Target, content, step.Mode); err != nil {
				return fmt.Errorf("failed to write %s: %w", step.Target, err)
			}
			return nil
		}))
	}

	options := synthfs.DefaultPipelineOptions()
	options.RollbackOnError = b.rollback

	_, err := synthfs.RunWithOptions(ctx, pathAwareFS, options, ops...)
	return err
}

func (b *Batch) runDirect(ctx context.Context) error {
	for _, step := range b.steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		content := step.Content
		if step.Kind == StepCopy {
			data, err := b.fsys.ReadFile(step.Source)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", step.Source, err)
			}
			content = data
		}
		content, err := applyTransform(step, content)
		if err != nil {
			return err
		}

		if err := b.fsys.MkdirAll(filepath.Dir(step.Target), 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", step.Target, err)
		}
		if err := b.fsys.WriteFile(step.Target, content, step.Mode); err != nil {
			return fmt.Errorf("failed to write %s: %w", step.Target, err)
		}
	}
	return nil
}

func applyTransform(step Step, content []byte) ([]byte, error) {
	if step.Transform == nil {
		return content, nil
	}
	out, err := step.Transform(content)
	if err != nil {
		return nil, fmt.Errorf("failed to transform %s: %w", step.Target, err)
	}
	return out, nil
}
