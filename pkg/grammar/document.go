// Package grammar provides the lossless structural model of grammar source:
//   - Token: every byte of the input classified
//   - Document: ordered top-level units with exact source spans
//   - Rule, Alternative, Element: the right-hand side structure of rules
package grammar

import "github.com/yaklabco/g4fmt/pkg/source"

// Document is an immutable, lossless view of a grammar file.
type Document struct {
	// Path is the file path (may be empty for in-memory content).
	Path string

	// Content is the full input.
	Content []byte

	// Lines maps offsets to positions in Content.
	Lines *source.LineIndex

	// Tokens covers every byte of Content, followed by an EOF token.
	Tokens []Token

	// Units are the top-level items in source order.
	Units []*Unit

	// Trailing is the whitespace after the last unit.
	Trailing source.Span

	// Errors holds recovered lexical and structural errors.
	Errors []error
}

// Text returns the source text of a span.
func (d *Document) Text(span source.Span) string {
	return string(span.Text(d.Content))
}

// Rules returns the rules in source order.
func (d *Document) Rules() []*Rule {
	var rules []*Rule
	for _, unit := range d.Units {
		if unit.Kind == UnitRule {
			rules = append(rules, unit.Rule)
		}
	}
	return rules
}

// Truncated reports whether part of the input could not be parsed.
func (d *Document) Truncated() bool {
	return len(d.Units) > 0 && d.Units[len(d.Units)-1].Kind == UnitOpaque
}

// Reassemble concatenates all unit spans and the whitespace between them.
// For every document produced by the parser it equals Content.
func (d *Document) Reassemble() []byte {
	out := make([]byte, 0, len(d.Content))
	for _, unit := range d.Units {
		out = append(out, unit.Leading.Text(d.Content)...)
		out = append(out, unit.Span.Text(d.Content)...)
	}
	return append(out, d.Trailing.Text(d.Content)...)
}
