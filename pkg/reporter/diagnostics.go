package reporter

import (
	"errors"

	"github.com/yaklabco/g4fmt/internal/ui/pretty"
	"github.com/yaklabco/g4fmt/pkg/options"
	"github.com/yaklabco/g4fmt/pkg/parser"
	"github.com/yaklabco/g4fmt/pkg/runner"
	"github.com/yaklabco/g4fmt/pkg/source"
)

// fileDiagnostics lists the syntax errors, option warnings and skip notes
// of one processed file, in that order.
func fileDiagnostics(path string, pr *runner.PipelineResult) []pretty.Diagnostic {
	if pr == nil {
		return nil
	}

	diags := make([]pretty.Diagnostic, 0, len(pr.ParseErrors)+len(pr.Warnings)+1)
	for _, err := range pr.ParseErrors {
		diags = append(diags, diagnosticFor(path, err, pretty.SeverityError))
	}
	for _, err := range pr.Warnings {
		diags = append(diags, diagnosticFor(path, err, pretty.SeverityWarning))
	}
	if pr.Skipped {
		diags = append(diags, pretty.Diagnostic{
			Path:     path,
			Severity: pretty.SeverityInfo,
			Message:  "skipped: " + pr.SkipReason,
		})
	}
	return diags
}

func diagnosticFor(path string, err error, severity pretty.Severity) pretty.Diagnostic {
	diag := pretty.Diagnostic{Path: path, Severity: severity, Message: err.Error()}

	var (
		lexErr     *parser.LexError
		structErr  *parser.StructuralError
		optWarning *options.UnknownOptionWarning
	)
	switch {
	case errors.As(err, &lexErr):
		diag.Position, diag.Message = lexErr.Position, lexErr.Message
	case errors.As(err, &structErr):
		diag.Position, diag.Message = structErr.Position, structErr.Message
	case errors.As(err, &optWarning):
		diag.Position, diag.Message = optWarning.Position, optWarning.Err.Error()
	}
	return diag
}

// sourceLines returns a lookup for the original lines of a file.
func sourceLines(pr *runner.PipelineResult) func(line int) string {
	if pr == nil || len(pr.Original) == 0 {
		return func(int) string { return "" }
	}
	index := source.NewLineIndex(pr.Original)
	return func(line int) string {
		return string(index.LineContent(pr.Original, line))
	}
}
