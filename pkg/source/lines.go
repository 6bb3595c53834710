package source

import "sort"

// LineInfo holds metadata for a single line.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// NewlineStart is the byte index where newline characters begin.
	// For lines without a trailing newline (e.g., last line), this equals EndOffset.
	NewlineStart int

	// EndOffset is the byte index just after the newline (or end of file).
	EndOffset int
}

// LineIndex converts offsets to positions and back for one immutable text.
type LineIndex struct {
	size  int
	lines []LineInfo
}

// NewLineIndex builds the line table for content.
func NewLineIndex(content []byte) *LineIndex {
	return &LineIndex{size: len(content), lines: BuildLines(content)}
}

// BuildLines constructs line metadata from content.
// It handles both LF (\n) and CRLF (\r\n) line endings.
func BuildLines(content []byte) []LineInfo {
	if len(content) == 0 {
		return []LineInfo{}
	}

	var lines []LineInfo
	lineStart := 0

	for idx, char := range content {
		if char == '\n' {
			newlineStart := idx
			if idx > 0 && content[idx-1] == '\r' {
				newlineStart = idx - 1
			}

			lines = append(lines, LineInfo{
				StartOffset:  lineStart,
				NewlineStart: newlineStart,
				EndOffset:    idx + 1,
			})
			lineStart = idx + 1
		}
	}

	// Last line, possibly empty after a trailing newline.
	lines = append(lines, LineInfo{
		StartOffset:  lineStart,
		NewlineStart: len(content),
		EndOffset:    len(content),
	})

	return lines
}

// LineCount returns the number of lines.
func (li *LineIndex) LineCount() int {
	return len(li.lines)
}

// Lines returns the line table. The slice must not be modified.
func (li *LineIndex) Lines() []LineInfo {
	return li.lines
}

// Position converts a byte offset to a 1-based line and column.
// Offsets at or past the end map to the end of the last line.
// Returns the zero Position for negative offsets or empty content.
func (li *LineIndex) Position(offset int) Position {
	if offset < 0 || len(li.lines) == 0 {
		return Position{}
	}

	if offset >= li.size {
		last := li.lines[len(li.lines)-1]
		return Position{Line: len(li.lines), Column: offset - last.StartOffset + 1}
	}

	lineIdx := sort.Search(len(li.lines), func(i int) bool {
		return li.lines[i].EndOffset > offset
	})
	if lineIdx >= len(li.lines) {
		lineIdx = len(li.lines) - 1
	}

	info := li.lines[lineIdx]
	if offset < info.StartOffset {
		return Position{}
	}

	return Position{Line: lineIdx + 1, Column: offset - info.StartOffset + 1}
}

// Offset converts a 1-based line and column to a byte offset.
// Returns (offset, true) on success, or (0, false) if out of range.
func (li *LineIndex) Offset(pos Position) (int, bool) {
	if pos.Line < 1 || pos.Line > len(li.lines) || pos.Column < 1 {
		return 0, false
	}

	info := li.lines[pos.Line-1]
	offset := info.StartOffset + pos.Column - 1

	// Column may point just past the line content (cursor positioning).
	if offset > info.EndOffset {
		return 0, false
	}

	return offset, true
}

// LineContent returns the content of a 1-based line, excluding the newline.
func (li *LineIndex) LineContent(content []byte, line int) []byte {
	if line < 1 || line > len(li.lines) {
		return nil
	}
	info := li.lines[line-1]
	return content[info.StartOffset:info.NewlineStart]
}
