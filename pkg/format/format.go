// Package format renders grammar documents as canonical, aligned text.
//
// Formatting is a pure function of the source, the base options and the
// requested range: tokenize, parse, resolve directives, snap the range to
// whole units, plan alignment and render.
package format

import (
	"context"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/yaklabco/g4fmt/pkg/grammar"
	"github.com/yaklabco/g4fmt/pkg/options"
	"github.com/yaklabco/g4fmt/pkg/parser"
	"github.com/yaklabco/g4fmt/pkg/source"
)

// ErrInvalidInput is returned for input that is not valid UTF-8.
var ErrInvalidInput = errors.New("input is not valid UTF-8")

// Result is the outcome of one formatting call.
//
// Text replaces the inclusive byte range [Start, Stop] of the source. Empty
// Text means there is nothing to replace, including for a document that
// holds only whitespace.
type Result struct {
	Text  string
	Start int
	Stop  int

	// Kind tells how the requested range was resolved.
	Kind RangeKind

	// Groups lists the alignment groups used for the rendered units.
	Groups []AlignmentGroup

	// Errors holds recovered lexical and structural errors of the source.
	Errors []error

	// Warnings holds ignored option keys and values.
	Warnings []error

	lines *source.LineIndex
}

// StartPosition returns the position of Start in the source.
func (r *Result) StartPosition() source.Position {
	return r.lines.Position(r.Start)
}

// StopPosition returns the position of Stop in the source.
func (r *Result) StopPosition() source.Position {
	return r.lines.Position(r.Stop)
}

// Changed reports whether applying the result would modify src.
func (r *Result) Changed(src []byte) bool {
	if r.Text == "" {
		return false
	}
	if r.Start < 0 || r.Stop >= len(src) || r.Start > r.Stop {
		return true
	}
	return string(src[r.Start:r.Stop+1]) != r.Text
}

// Format formats the inclusive byte range [start, stop] of src. Overrides
// are applied to the built-in defaults; directives in src refine them from
// their position on. Pass 0 and a stop at or past the end for the whole
// document.
func Format(src []byte, overrides options.Delta, start, stop int) (*Result, error) {
	base, warnings := options.Apply(options.Default(), overrides)
	result, err := FormatWith(src, base, start, stop)
	if err != nil {
		return nil, err
	}
	result.Warnings = append(warnings, result.Warnings...)
	return result, nil
}

// FormatWith is Format with a complete set of base options.
func FormatWith(src []byte, base options.Options, start, stop int) (*Result, error) {
	if !utf8.Valid(src) {
		return nil, ErrInvalidInput
	}
	return FormatDocument(parser.Parse("", src), base, start, stop), nil
}

// FormatFile reads and formats a file.
func FormatFile(ctx context.Context, path string, overrides options.Delta, start, stop int) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	result, err := Format(src, overrides, start, stop)
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", path, err)
	}
	return result, nil
}

// FormatDocument formats an already parsed document.
func FormatDocument(doc *grammar.Document, base options.Options, start, stop int) *Result {
	snaps, warnings := options.Resolve(doc, base)
	rng := ResolveRange(doc, start, stop)

	result := &Result{
		Start:    rng.Start,
		Stop:     rng.Stop,
		Kind:     rng.Kind,
		Errors:   doc.Errors,
		Warnings: warnings,
		lines:    doc.Lines,
	}
	if !rng.Formats() {
		return result
	}

	r := newRenderer(doc, snaps, rng.First, rng.Last)
	result.Text = r.render()
	result.Groups = r.groups

	switch rng.Kind {
	case RangeWhole:
		result.Text += "\n"
	case RangeUnits:
		// Whitespace the request reached into is kept as is.
		first, last := doc.Units[rng.First].Span, doc.Units[rng.Last].Span
		result.Text = string(doc.Content[rng.Start:first.Start]) + result.Text + string(doc.Content[last.End:rng.Stop+1])
	case RangeInvalid, RangeEmpty:
	}
	return result
}
