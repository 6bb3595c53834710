package reporter

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/yaklabco/g4fmt/internal/ui/pretty"
	"github.com/yaklabco/g4fmt/pkg/fix"
	"github.com/yaklabco/g4fmt/pkg/runner"
)

// DiffReporter formats results as unified diffs in git style.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewDiffReporter creates a new diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Report implements Reporter.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	if result == nil {
		return 0, nil
	}

	var filesWithDiffs, additions, deletions int

	for _, file := range result.Files {
		path := r.opts.displayPath(file.Path)

		if file.Error != nil {
			fmt.Fprintf(r.out, "%s: %s\n",
				r.styles.FilePath.Render(path),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}

		if file.Result == nil || !file.Result.Changed {
			continue
		}

		diff := file.Result.Diff
		if diff == nil {
			diff = fix.GenerateDiff(file.Path, file.Result.Original, file.Result.Formatted)
		}
		if !diff.HasChanges() {
			continue
		}

		filesWithDiffs++
		additions += diff.Additions
		deletions += diff.Deletions
		writeDiff(r.out, r.styles, path, diff)
	}

	if filesWithDiffs > 0 && r.opts.ShowSummary {
		r.writeSummary(filesWithDiffs, additions, deletions)
	}

	return filesWithDiffs, nil
}

// writeDiff outputs a single file's diff with git-style headers.
func writeDiff(out io.Writer, styles *pretty.Styles, displayPath string, diff *fix.Diff) {
	fmt.Fprintln(out, styles.DiffHeader.Render(fmt.Sprintf("diff --git a/%s b/%s", displayPath, displayPath)))
	fmt.Fprintln(out, styles.DiffRemove.Render("--- a/"+displayPath))
	fmt.Fprintln(out, styles.DiffAdd.Render("+++ b/"+displayPath))

	// String() starts with its own --- and +++ lines.
	lines := strings.Split(strings.TrimSuffix(diff.String(), "\n"), "\n")
	for _, line := range lines[min(2, len(lines)):] {
		fmt.Fprintln(out, styleDiffLine(styles, line))
	}

	fmt.Fprintln(out)
}

func styleDiffLine(styles *pretty.Styles, line string) string {
	switch {
	case strings.HasPrefix(line, "@@"):
		return styles.DiffHunk.Render(line)
	case strings.HasPrefix(line, "+"):
		return styles.DiffAdd.Render(line)
	case strings.HasPrefix(line, "-"):
		return styles.DiffRemove.Render(line)
	default:
		return styles.DiffContext.Render(line)
	}
}

func (r *DiffReporter) writeSummary(files, additions, deletions int) {
	parts := []string{pluralize(files, "file", "files") + " changed"}

	if additions > 0 {
		parts = append(parts, r.styles.DiffAdd.Render(pluralize(additions, "insertion", "insertions")+"(+)"))
	}
	if deletions > 0 {
		parts = append(parts, r.styles.DiffRemove.Render(pluralize(deletions, "deletion", "deletions")+"(-)"))
	}

	fmt.Fprintln(r.out, strings.Join(parts, ", "))
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
