// Package reporter writes the results of a format run.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/g4fmt/pkg/runner"
)

// Reporter formats and writes run results.
type Reporter interface {
	// Report writes output for the given result. It returns the number of
	// files that need (or received) formatting and any write error.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	defaults := DefaultOptions()
	if opts.Writer == nil {
		opts.Writer = defaults.Writer
	}
	if opts.ErrorWriter == nil {
		opts.ErrorWriter = defaults.ErrorWriter
	}
	if opts.Mode == "" {
		opts.Mode = defaults.Mode
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatDiff:
		return NewDiffReporter(opts), nil
	case FormatTable:
		return NewTableReporter(opts), nil
	case FormatSummary:
		return NewSummaryReporter(opts), nil
	case FormatText:
		return NewTextReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// countChanged returns the number of files that need or received formatting.
func countChanged(result *runner.Result) int {
	if result == nil {
		return 0
	}
	return result.Stats.FilesChanged
}
