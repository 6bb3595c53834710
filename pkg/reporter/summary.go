package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/g4fmt/internal/ui/pretty"
	"github.com/yaklabco/g4fmt/pkg/runner"
)

// SummaryReporter prints only aggregate statistics and the files that
// need attention.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewSummaryReporter creates a new summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	return &SummaryReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		result = &runner.Result{}
	}

	var pending []string
	for _, file := range result.Files {
		if file.Error != nil || (file.Result != nil && (file.Result.Changed || file.Result.Skipped)) {
			pending = append(pending, r.opts.displayPath(file.Path))
		}
	}

	if len(pending) > 0 {
		fmt.Fprintln(r.bw, r.styles.Bold.Render("Files"))
		for _, path := range pending {
			fmt.Fprintln(r.bw, "  "+r.styles.FilePath.Render(path))
		}
	}

	fmt.Fprint(r.bw, r.styles.FormatSummary(result.Stats))

	return countChanged(result), nil
}
