package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/g4fmt/pkg/runner"
)

// Table formatting constants.
const (
	tablePadding     = 2
	minFileWidth     = 20
	minStatusWidth   = 16
	countWidth       = 8
	heavySeparator   = "="
	lightSeparator   = "-"
	defaultTermWidth = 100
	ellipsis         = "…"
)

// FileRow is one line of the file status table.
type FileRow struct {
	File        string
	Status      string
	ParseErrors int
	Warnings    int
	Failed      bool
	Changed     bool
}

// TableFormatter renders run results as width-aware tables.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a table formatter for the given terminal width.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{styles: styles, termWidth: termWidth}
}

// FileRows converts runner outcomes to table rows. pathFn maps a path for
// display; nil keeps paths as they are.
func FileRows(result *runner.Result, pathFn func(string) string) []FileRow {
	if result == nil {
		return nil
	}

	rows := make([]FileRow, 0, len(result.Files))
	for _, file := range result.Files {
		path := file.Path
		if pathFn != nil {
			path = pathFn(path)
		}

		row := FileRow{File: path}
		switch {
		case file.Error != nil:
			row.Status = "error: " + file.Error.Error()
			row.Failed = true
		case file.Result != nil:
			row.Status = file.Result.Summary()
			row.ParseErrors = len(file.Result.ParseErrors)
			row.Warnings = len(file.Result.Warnings)
			row.Changed = file.Result.Changed
		}
		rows = append(rows, row)
	}
	return rows
}

// FormatFileTable renders rows as a table with FILE, STATUS, ERRORS and
// WARNINGS columns. The file column shrinks to fit the terminal.
func (t *TableFormatter) FormatFileTable(rows []FileRow) string {
	if len(rows) == 0 {
		return ""
	}

	fileWidth, statusWidth := minFileWidth, minStatusWidth
	for _, row := range rows {
		fileWidth = max(fileWidth, runewidth.StringWidth(row.File))
		statusWidth = max(statusWidth, runewidth.StringWidth(row.Status))
	}

	fixed := 2*countWidth + 3*tablePadding + 1
	if excess := fileWidth + statusWidth + fixed - t.termWidth; excess > 0 {
		shrink := min(excess, fileWidth-minFileWidth)
		fileWidth -= shrink
		statusWidth = max(minStatusWidth, statusWidth-(excess-shrink))
	}
	total := fileWidth + statusWidth + fixed

	var builder strings.Builder
	header := " " + padCell("FILE", fileWidth) + "  " + padCell("STATUS", statusWidth) +
		"  " + padLeftCell("ERRORS", countWidth) + "  " + padLeftCell("WARNINGS", countWidth)
	builder.WriteString(t.styles.TableHeader.Render(header) + "\n")
	builder.WriteString(t.separator(total, heavySeparator) + "\n")

	for _, row := range rows {
		line := " " + padCell(truncateLeft(row.File, fileWidth), fileWidth) +
			"  " + padCell(truncateRight(row.Status, statusWidth), statusWidth) +
			"  " + padLeftCell(strconv.Itoa(row.ParseErrors), countWidth) +
			"  " + padLeftCell(strconv.Itoa(row.Warnings), countWidth)
		builder.WriteString(t.rowStyle(row).Render(line) + "\n")
	}

	builder.WriteString(t.separator(total, heavySeparator) + "\n")
	return builder.String()
}

// OptionRow is one line of the options table.
type OptionRow struct {
	Key         string
	Kind        string
	Value       string
	Default     string
	Description string
}

// FormatOptionTable renders formatting options with their current and
// default values. Descriptions are cut to fit the terminal.
func (t *TableFormatter) FormatOptionTable(rows []OptionRow) string {
	if len(rows) == 0 {
		return ""
	}

	keyWidth, kindWidth, valueWidth, defWidth := len("OPTION"), len("TYPE"), len("VALUE"), len("DEFAULT")
	for _, row := range rows {
		keyWidth = max(keyWidth, runewidth.StringWidth(row.Key))
		kindWidth = max(kindWidth, runewidth.StringWidth(row.Kind))
		valueWidth = max(valueWidth, runewidth.StringWidth(row.Value))
		defWidth = max(defWidth, runewidth.StringWidth(row.Default))
	}

	used := 1 + keyWidth + kindWidth + valueWidth + defWidth + 4*tablePadding
	descWidth := max(minStatusWidth, t.termWidth-used)

	var builder strings.Builder
	header := " " + padCell("OPTION", keyWidth) + "  " + padCell("TYPE", kindWidth) + "  " +
		padCell("VALUE", valueWidth) + "  " + padCell("DEFAULT", defWidth) + "  DESCRIPTION"
	builder.WriteString(t.styles.TableHeader.Render(header) + "\n")
	builder.WriteString(t.separator(used+descWidth, lightSeparator) + "\n")

	for _, row := range rows {
		value := padCell(row.Value, valueWidth)
		if row.Value != row.Default {
			value = t.styles.Changed.Render(value)
		}
		fmt.Fprintf(&builder, " %s  %s  %s  %s  %s\n",
			t.styles.Bold.Render(padCell(row.Key, keyWidth)),
			t.styles.Dim.Render(padCell(row.Kind, kindWidth)),
			value,
			padCell(row.Default, defWidth),
			truncateRight(row.Description, descWidth),
		)
	}

	return builder.String()
}

func (t *TableFormatter) separator(width int, char string) string {
	return t.styles.TableSeparator.Render(strings.Repeat(char, width))
}

func (t *TableFormatter) rowStyle(row FileRow) lipgloss.Style {
	switch {
	case row.Failed:
		return t.styles.TableErrorRow
	case row.Changed || row.ParseErrors > 0:
		return t.styles.TableWarnRow
	default:
		return lipgloss.NewStyle()
	}
}

func padCell(s string, width int) string {
	return runewidth.FillRight(s, width)
}

func padLeftCell(s string, width int) string {
	return runewidth.FillLeft(s, width)
}

// truncateRight cuts s to width display cells, ending with an ellipsis.
func truncateRight(s string, width int) string {
	return runewidth.Truncate(s, width, ellipsis)
}

// truncateLeft cuts s to width display cells keeping its end, which holds
// the most specific part of a path.
func truncateLeft(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	out := ""
	for i := len(runes) - 1; i >= 0; i-- {
		candidate := string(runes[i:])
		if runewidth.StringWidth(candidate)+runewidth.StringWidth(ellipsis) > width {
			break
		}
		out = candidate
	}
	return ellipsis + out
}
