package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/g4fmt/pkg/format"
	"github.com/yaklabco/g4fmt/pkg/runner"
)

// jsonSchemaVersion is bumped on incompatible output changes.
const jsonSchemaVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Mode    string           `json:"mode"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path          string           `json:"path"`
	Changed       bool             `json:"changed"`
	Written       bool             `json:"written,omitempty"`
	BackupCreated bool             `json:"backupCreated,omitempty"`
	Skipped       bool             `json:"skipped,omitempty"`
	SkipReason    string           `json:"skipReason,omitempty"`
	Error         string           `json:"error,omitempty"`
	Edits         []JSONEdit       `json:"edits"`
	Diagnostics   []JSONDiagnostic `json:"diagnostics"`
	Diff          string           `json:"diff,omitempty"`
}

// JSONEdit is one replacement of an inclusive byte range of the original.
type JSONEdit struct {
	Kind        string      `json:"kind"`
	Start       int         `json:"start"`
	Stop        int         `json:"stop"`
	StartLine   int         `json:"startLine"`
	StartColumn int         `json:"startColumn"`
	StopLine    int         `json:"stopLine"`
	StopColumn  int         `json:"stopColumn"`
	Text        string      `json:"text"`
	Groups      []JSONGroup `json:"groups,omitempty"`
}

// JSONGroup is a run of units aligned on one axis.
type JSONGroup struct {
	Axis   string `json:"axis"`
	First  int    `json:"first"`
	Last   int    `json:"last"`
	Column int    `json:"column"`
}

// JSONDiagnostic represents a syntax error, option warning or note.
type JSONDiagnostic struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked int `json:"filesChecked"`
	FilesChanged int `json:"filesChanged"`
	FilesWritten int `json:"filesWritten"`
	FilesSkipped int `json:"filesSkipped"`
	FilesErrored int `json:"filesErrored"`
	ParseErrors  int `json:"parseErrors"`
	Warnings     int `json:"warnings"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.FilesChanged, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonSchemaVersion,
		Mode:    string(r.opts.Mode),
		Files:   make([]JSONFileResult, 0),
	}

	if result == nil {
		return output
	}

	output.Summary = JSONSummary{
		FilesChecked: result.Stats.FilesProcessed,
		FilesChanged: result.Stats.FilesChanged,
		FilesWritten: result.Stats.FilesWritten,
		FilesSkipped: result.Stats.FilesSkipped,
		FilesErrored: result.Stats.FilesErrored,
		ParseErrors:  result.Stats.ParseErrors,
		Warnings:     result.Stats.Warnings,
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))
	for _, file := range result.Files {
		output.Files = append(output.Files, r.buildFile(file))
	}

	return output
}

func (r *JSONReporter) buildFile(file runner.FileOutcome) JSONFileResult {
	path := r.opts.displayPath(file.Path)
	fileResult := JSONFileResult{
		Path:        path,
		Edits:       make([]JSONEdit, 0),
		Diagnostics: make([]JSONDiagnostic, 0),
	}

	if file.Error != nil {
		fileResult.Error = file.Error.Error()
		return fileResult
	}

	pr := file.Result
	if pr == nil {
		return fileResult
	}

	fileResult.Changed = pr.Changed
	fileResult.Written = pr.Written
	fileResult.BackupCreated = pr.BackupCreated
	fileResult.Skipped = pr.Skipped
	fileResult.SkipReason = pr.SkipReason

	if pr.Changed {
		for _, res := range pr.Results {
			// A whole-document result may clear the file with empty text.
			if res.Kind != format.RangeWhole && !res.Changed(pr.Original) {
				continue
			}
			start, stop := res.StartPosition(), res.StopPosition()
			edit := JSONEdit{
				Kind:        res.Kind.String(),
				Start:       res.Start,
				Stop:        res.Stop,
				StartLine:   start.Line,
				StartColumn: start.Column,
				StopLine:    stop.Line,
				StopColumn:  stop.Column,
				Text:        res.Text,
			}
			for _, g := range res.Groups {
				edit.Groups = append(edit.Groups, JSONGroup{
					Axis:   g.Axis.String(),
					First:  g.First,
					Last:   g.Last,
					Column: g.Column,
				})
			}
			fileResult.Edits = append(fileResult.Edits, edit)
		}
	}

	if pr.Diff != nil {
		fileResult.Diff = pr.Diff.String()
	}

	for _, diag := range fileDiagnostics(path, pr) {
		fileResult.Diagnostics = append(fileResult.Diagnostics, JSONDiagnostic{
			Severity: string(diag.Severity),
			Message:  diag.Message,
			Line:     diag.Position.Line,
			Column:   diag.Position.Column,
		})
	}

	return fileResult
}
