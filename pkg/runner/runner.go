package runner

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/g4fmt/pkg/config"
	"github.com/yaklabco/g4fmt/pkg/fix"
)

// Runner formats many files with a shared pipeline configuration.
type Runner struct {
	// Pipeline is applied to every discovered file.
	Pipeline PipelineOptions
}

// New creates a Runner with the given pipeline options.
func New(opts PipelineOptions) *Runner {
	return &Runner{Pipeline: opts}
}

// WithRanges returns a copy of r that formats only the given ranges.
func (r *Runner) WithRanges(ranges []fix.Range) *Runner {
	cp := *r
	cp.Pipeline.Ranges = ranges
	return &cp
}

// Run discovers files under opts.Paths and processes them concurrently.
// Outcomes are reported in path order regardless of completion order.
// File errors are recorded in their outcome; Run itself fails only for
// discovery errors and cancellation.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	outcomes := make([]FileOutcome, len(files))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			outcome := FileOutcome{Path: path}
			pr, err := ProcessFile(groupCtx, path, r.Pipeline)
			if err != nil {
				outcome.Error = err
			} else {
				outcome.Result = pr
			}
			outcomes[i] = outcome
			return nil
		})
	}

	waitErr := group.Wait()

	for _, outcome := range outcomes {
		if outcome.Path != "" {
			result.accumulate(outcome)
		}
	}

	if waitErr != nil {
		return result, fmt.Errorf("run cancelled: %w", waitErr)
	}
	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}

	return result, nil
}

// RunContent formats content that did not come from disk, such as standard
// input. The pipeline never writes in this case; path is used for messages
// and diff headers only.
func (r *Runner) RunContent(ctx context.Context, path string, content []byte) (*Result, error) {
	pipeline := r.Pipeline
	if pipeline.Mode == config.ModeWrite {
		pipeline.Mode = config.ModeStdout
	}

	result := &Result{}
	result.Stats.FilesDiscovered = 1

	outcome := FileOutcome{Path: path}
	pr, err := ProcessContent(ctx, path, content, pipeline)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("run cancelled: %w", ctxErr)
		}
		outcome.Error = err
	} else {
		outcome.Result = pr
	}
	result.accumulate(outcome)

	return result, nil
}
