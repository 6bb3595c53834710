package runner

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"unicode/utf8"

	"github.com/yaklabco/g4fmt/pkg/config"
	"github.com/yaklabco/g4fmt/pkg/fix"
	"github.com/yaklabco/g4fmt/pkg/format"
	"github.com/yaklabco/g4fmt/pkg/fsutil"
	"github.com/yaklabco/g4fmt/pkg/options"
	"github.com/yaklabco/g4fmt/pkg/parser"
)

// Pipeline error types for categorization.
var (
	// ErrFileNotFound indicates the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrWriteFailure indicates a write error.
	ErrWriteFailure = errors.New("write failure")
)

// PipelineOptions controls how one file is processed.
type PipelineOptions struct {
	// Mode selects what happens with the formatted content.
	Mode config.Mode

	// Base is the option set in-source directives refine.
	Base options.Options

	// Ranges restricts formatting to the units covering these byte ranges.
	// Empty formats the whole document.
	Ranges []fix.Range

	// Diff generates a unified diff for changed content in every mode.
	Diff bool

	// Verify re-parses the formatted content and refuses the result when
	// it has more errors than the input.
	Verify bool

	// Backup configures backups for in-place writes.
	Backup fsutil.BackupConfig
}

// PipelineOptionsFromConfig derives pipeline options from cfg. The
// returned warnings name ignored option overrides.
func PipelineOptionsFromConfig(cfg *config.Config) (PipelineOptions, []error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	base, warnings := cfg.FormatOptions()

	backupMode := fsutil.BackupMode(cfg.Backups.Mode)
	if backupMode == "" {
		backupMode = fsutil.BackupModeSidecar
	}

	return PipelineOptions{
		Mode:   cfg.Mode,
		Base:   base,
		Diff:   cfg.Mode == config.ModeDiff || cfg.Format == config.FormatDiff,
		Verify: true,
		Backup: fsutil.BackupConfig{
			Enabled: cfg.BackupsEnabled(),
			Mode:    backupMode,
		},
	}, warnings
}

// PipelineResult is the outcome of processing one file.
type PipelineResult struct {
	// Path is the file path that was processed.
	Path string

	// OriginalInfo is the file state before processing. Nil for content
	// that did not come from disk.
	OriginalInfo *fsutil.FileInfo

	// Original is the input content.
	Original []byte

	// Formatted is the complete output content.
	Formatted []byte

	// Changed is true if Formatted differs from Original.
	Changed bool

	// Results holds the formatting results that produced Formatted, one
	// for a whole-document run and one per rewritten run of units for
	// ranged runs.
	Results []*format.Result

	// ParseErrors holds recovered lexical and structural errors of the input.
	ParseErrors []error

	// Warnings holds ignored option keys and values.
	Warnings []error

	// Diff is the unified diff of the change, when requested.
	Diff *fix.Diff

	// Skipped is true if the file was left alone.
	Skipped bool

	// SkipReason explains why the file was skipped.
	SkipReason string

	// BackupCreated is true if a backup was created for this file.
	BackupCreated bool

	// Written is true if the file was written to disk.
	Written bool
}

// Summary returns a short human-readable state of the result.
func (pr *PipelineResult) Summary() string {
	switch {
	case pr.Skipped:
		return "skipped: " + pr.SkipReason
	case pr.Written && pr.BackupCreated:
		return "formatted (backup created)"
	case pr.Written:
		return "formatted"
	case pr.Changed:
		return "needs formatting"
	default:
		return "ok"
	}
}

// ProcessFile runs the full pipeline for a single file:
//  1. Read and hash the file.
//  2. Format it in memory.
//  3. Re-parse the output when verifying.
//  4. Generate a diff when requested.
//  5. In write mode, back up and replace the file unless it changed meanwhile.
func ProcessFile(ctx context.Context, path string, opts PipelineOptions) (*PipelineResult, error) {
	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	result, err := ProcessContent(ctx, path, content, opts)
	if err != nil {
		return nil, err
	}
	result.OriginalInfo = info

	if opts.Mode != config.ModeWrite || !result.Changed || result.Skipped {
		return result, nil
	}

	backedUp, err := fsutil.ReplaceFile(ctx, info, result.Formatted, opts.Backup)
	if err != nil {
		if errors.Is(err, fsutil.ErrModified) {
			result.Skipped = true
			result.SkipReason = "file modified during processing"
			return result, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.BackupCreated = backedUp
	result.Written = true

	return result, nil
}

// ProcessContent formats in-memory content without file I/O.
func ProcessContent(ctx context.Context, path string, content []byte, opts PipelineOptions) (*PipelineResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("processing cancelled: %w", err)
	}

	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%s: %w", path, format.ErrInvalidInput)
	}

	base := opts.Base
	if base == (options.Options{}) {
		base = options.Default()
	}

	doc := parser.Parse(path, content)
	result := &PipelineResult{
		Path:        path,
		Original:    content,
		Formatted:   content,
		ParseErrors: doc.Errors,
	}

	if len(opts.Ranges) == 0 {
		whole := format.FormatDocument(doc, base, 0, math.MaxInt)
		result.Warnings = whole.Warnings
		if whole.Kind == format.RangeWhole && whole.Text != "" {
			result.Results = []*format.Result{whole}
			result.Formatted = []byte(whole.Text)
		}
	} else {
		ranged, err := fix.RangeEdits(doc, base, opts.Ranges)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		result.Results = ranged
		if len(ranged) > 0 {
			result.Warnings = ranged[0].Warnings
		}

		edits := make([]fix.TextEdit, 0, len(ranged))
		for _, r := range ranged {
			if edit, ok := fix.EditFromResult(r); ok {
				edits = append(edits, edit)
			}
		}

		formatted, err := fix.Apply(content, edits)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		result.Formatted = formatted
	}

	result.Changed = string(result.Formatted) != string(content)
	if !result.Changed {
		return result, nil
	}

	if opts.Verify {
		if again := parser.Parse(path, result.Formatted); len(again.Errors) > len(doc.Errors) {
			result.Skipped = true
			result.SkipReason = fmt.Sprintf("formatted output does not re-parse: %v", again.Errors[0])
			result.Formatted = content
			result.Changed = false
			return result, nil
		}
	}

	if opts.Diff {
		result.Diff = fix.GenerateDiff(path, content, result.Formatted)
	}

	return result, nil
}

// categorizeError wraps an error with the matching pipeline error type.
func categorizeError(err error) error {
	switch {
	case errors.Is(err, fsutil.ErrNotFound) || errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	case errors.Is(err, fsutil.ErrPermissionDenied) || errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	default:
		return err
	}
}
