package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/g4fmt/pkg/runner"
)

const summaryDividerWidth = 40

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "2 files need formatting (5 checked), 1 failed".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	var parts []string

	checked := s.Dim.Render(fmt.Sprintf(" (%d checked)", stats.FilesProcessed))
	switch {
	case stats.FilesWritten > 0:
		parts = append(parts, s.Success.Render("Reformatted "+plural(stats.FilesWritten, "file"))+checked)
	case stats.FilesChanged == 1:
		parts = append(parts, s.Changed.Render("1 file needs formatting")+checked)
	case stats.FilesChanged > 1:
		parts = append(parts, s.Changed.Render(fmt.Sprintf("%d files need formatting", stats.FilesChanged))+checked)
	default:
		parts = append(parts, s.Success.Render("All files formatted")+checked)
	}

	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Skipped.Render(fmt.Sprintf("%d skipped", stats.FilesSkipped)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d failed", stats.FilesErrored)))
	}
	if stats.ParseErrors > 0 {
		parts = append(parts, s.Warning.Render(plural(stats.ParseErrors, "syntax error")))
	}
	if stats.Warnings > 0 {
		parts = append(parts, s.Warning.Render(plural(stats.Warnings, "option warning")))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	row := func(label, value string) {
		builder.WriteString(fmt.Sprintf("  %-20s%s\n", label+":", value))
	}

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row("Files checked", s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)))
	if stats.FilesChanged > 0 {
		row("Need formatting", s.Changed.Render(strconv.Itoa(stats.FilesChanged)))
	}
	if stats.FilesWritten > 0 {
		row("Files written", s.Success.Render(strconv.Itoa(stats.FilesWritten)))
	}
	if stats.FilesSkipped > 0 {
		row("Files skipped", s.Skipped.Render(strconv.Itoa(stats.FilesSkipped)))
	}
	if stats.FilesErrored > 0 {
		row("Files failed", s.Error.Render(strconv.Itoa(stats.FilesErrored)))
	}
	if stats.ParseErrors > 0 {
		row("Syntax errors", s.Warning.Render(strconv.Itoa(stats.ParseErrors)))
	}
	if stats.Warnings > 0 {
		row("Option warnings", s.Warning.Render(strconv.Itoa(stats.Warnings)))
	}

	builder.WriteString("\n")

	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Formatting failed for some files"))
	case stats.FilesChanged > stats.FilesWritten:
		builder.WriteString(s.Changed.Render("Some files need formatting"))
	default:
		builder.WriteString(s.Success.Render("All files formatted"))
	}
	builder.WriteString("\n")

	return builder.String()
}
