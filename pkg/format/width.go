package format

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// textWidth returns the display width of a single-line string in terminal
// cells. Wide runes count twice.
func textWidth(s string) int {
	return runewidth.StringWidth(s)
}

// advance returns the column reached after writing text at col. Text that
// spans lines is kept as is, so the column restarts after its last newline.
func advance(col int, text string) int {
	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		return textWidth(text[i+1:])
	}
	return col + textWidth(text)
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}

// padTo returns the filler that moves col to target, or a single space
// when target is unset or already passed.
func padTo(col, target int) string {
	if target > col {
		return spaces(target - col)
	}
	return " "
}
