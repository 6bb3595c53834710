// Package source maps between byte offsets and line/column positions in
// grammar source text.
package source

// Span represents a byte range in the source content.
type Span struct {
	// Start is the byte index where the span begins (inclusive).
	Start int

	// End is the byte index where the span ends (exclusive).
	End int
}

// Len returns the length of the span in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsEmpty returns true if the span has zero length.
func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// Contains returns true if the given offset is within this span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Overlaps reports whether the inclusive range [start, stop] shares at least
// one byte with the span.
func (s Span) Overlaps(start, stop int) bool {
	return start < s.End && stop >= s.Start
}

// Text returns the slice of content covered by the span, or nil if the span
// does not fit.
func (s Span) Text(content []byte) []byte {
	if s.Start < 0 || s.End > len(content) || s.Start > s.End {
		return nil
	}
	return content[s.Start:s.End]
}

// Position represents a 1-based line and column in a file.
// Column counts bytes.
type Position struct {
	Line   int
	Column int
}

// IsValid returns true if this position has valid (positive) values.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}
