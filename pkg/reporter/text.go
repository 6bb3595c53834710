package reporter

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/yaklabco/g4fmt/internal/ui/pretty"
	"github.com/yaklabco/g4fmt/pkg/config"
	"github.com/yaklabco/g4fmt/pkg/runner"
)

// TextReporter writes formatted grammars, file statuses and diagnostics as
// styled terminal output. In stdout mode the formatted text goes to Writer
// and everything else to ErrorWriter.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
	ew     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	r := &TextReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}

	statusWriter := opts.Writer
	if opts.Mode == config.ModeStdout && opts.ErrorWriter != nil {
		statusWriter = opts.ErrorWriter
		r.ew = bufio.NewWriterSize(opts.ErrorWriter, bufWriterSize)
	}
	r.styles = pretty.NewStyles(pretty.IsColorEnabled(opts.Color, statusWriter))

	return r
}

func (r *TextReporter) status() io.Writer {
	if r.ew != nil {
		return r.ew
	}
	return r.bw
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
		if r.ew != nil {
			if flushErr := r.ew.Flush(); err == nil {
				err = flushErr
			}
		}
	}()

	out := r.status()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(out, r.styles.Dim.Render("No grammar files found."))
		}
		return 0, nil
	}

	for _, file := range result.Files {
		path := r.opts.displayPath(file.Path)

		if file.Error != nil {
			fmt.Fprintf(out, "%s: %s\n",
				r.styles.FilePath.Render(path),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}

		pr := file.Result
		if pr == nil {
			continue
		}

		switch r.opts.Mode {
		case config.ModeStdout:
			if _, err := r.bw.Write(pr.Formatted); err != nil {
				return 0, fmt.Errorf("write formatted output: %w", err)
			}
		case config.ModeDiff:
			if pr.Diff != nil && pr.Diff.HasChanges() {
				writeDiff(r.bw, r.styles, path, pr.Diff)
			}
		case config.ModeCheck, config.ModeWrite:
			if pr.Changed || pr.Skipped {
				fmt.Fprintln(out, r.styles.FormatFileHeader(path, pr.Summary()))
			}
		}

		r.writeDiagnostics(out, path, pr)
	}

	if r.opts.ShowSummary && r.opts.Mode != config.ModeStdout {
		fmt.Fprint(out, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return countChanged(result), nil
}

func (r *TextReporter) writeDiagnostics(out io.Writer, path string, pr *runner.PipelineResult) {
	diags := fileDiagnostics(path, pr)
	if len(diags) == 0 {
		return
	}

	lineOf := sourceLines(pr)
	for i := range diags {
		var line string
		if r.opts.ShowContext {
			line = lineOf(diags[i].Position.Line)
		}
		fmt.Fprint(out, r.styles.FormatDiagnostic(&diags[i], r.opts.ShowContext, line))
	}
}
