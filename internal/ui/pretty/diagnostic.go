package pretty

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/g4fmt/pkg/source"
)

// Severity classifies a diagnostic.
type Severity string

// Diagnostic severities.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Diagnostic is a located message about one file. A zero Position means
// the message applies to the file as a whole.
type Diagnostic struct {
	Path     string
	Position source.Position
	Severity Severity
	Message  string
}

// FormatDiagnostic formats a single diagnostic for terminal output.
func (s *Styles) FormatDiagnostic(diag *Diagnostic, showContext bool, sourceLine string) string {
	var builder strings.Builder

	location := s.FilePath.Render(diag.Path)
	if diag.Position.IsValid() {
		location += s.Location.Render(fmt.Sprintf(":%d:%d", diag.Position.Line, diag.Position.Column))
	}

	fmt.Fprintf(&builder, "  %s  %s  %s\n",
		location,
		s.FormatSeverity(diag.Severity),
		s.Message.Render(diag.Message),
	)

	if showContext && sourceLine != "" && diag.Position.IsValid() {
		builder.WriteString(s.FormatSourceContext(sourceLine, diag.Position.Column))
	}

	return builder.String()
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(sev Severity) string {
	switch sev {
	case SeverityError:
		return s.Error.Render("error")
	case SeverityWarning:
		return s.Warning.Render("warning")
	case SeverityInfo:
		return s.Info.Render("info")
	default:
		return string(sev)
	}
}

// FormatSourceContext formats the source line with a caret under the given
// byte column. The caret accounts for wide characters before it.
func (s *Styles) FormatSourceContext(line string, column int) string {
	const indent = "        "

	var builder strings.Builder
	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")

	if column > 0 {
		prefix := line[:min(column-1, len(line))]
		padding := indent + strings.Repeat(" ", runewidth.StringWidth(prefix))
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path, status string) string {
	header := s.FilePath.Render(path)
	if status != "" {
		header += s.Dim.Render(" (" + status + ")")
	}
	return header
}
