package pretty_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/g4fmt/internal/ui/pretty"
	"github.com/yaklabco/g4fmt/pkg/runner"
)

func TestFileRows(t *testing.T) {
	t.Parallel()

	result := &runner.Result{Files: []runner.FileOutcome{
		{Path: "/w/a.g4", Result: &runner.PipelineResult{Changed: true, ParseErrors: []error{errors.New("x")}}},
		{Path: "/w/b.g4", Error: errors.New("boom")},
		{Path: "/w/c.g4", Result: &runner.PipelineResult{}},
	}}

	rows := pretty.FileRows(result, func(p string) string { return strings.TrimPrefix(p, "/w/") })
	assert.Equal(t, []pretty.FileRow{
		{File: "a.g4", Status: "needs formatting", ParseErrors: 1, Changed: true},
		{File: "b.g4", Status: "error: boom", Failed: true},
		{File: "c.g4", Status: "ok"},
	}, rows)

	assert.Nil(t, pretty.FileRows(nil, nil))
}

func TestFormatFileTable(t *testing.T) {
	t.Parallel()

	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), 60)

	long := strings.Repeat("d/", 30) + "Grammar.g4"
	out := formatter.FormatFileTable([]pretty.FileRow{
		{File: "a.g4", Status: "ok"},
		{File: long, Status: "needs formatting", Warnings: 2},
	})

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], " FILE"))
	for _, line := range lines {
		assert.LessOrEqual(t, runewidth.StringWidth(line), 60, line)
	}
	assert.Contains(t, lines[3], "…")
	assert.Contains(t, lines[3], "Grammar.g4")
	assert.True(t, strings.HasSuffix(lines[3], "       2"))

	assert.Empty(t, formatter.FormatFileTable(nil))
}

func TestFormatOptionTable(t *testing.T) {
	t.Parallel()

	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), 0)
	out := formatter.FormatOptionTable([]pretty.OptionRow{
		{Key: "indentWidth", Kind: "int", Value: "2", Default: "4", Description: "Indentation width."},
		{Key: "useTab", Kind: "bool", Value: "false", Default: "false", Description: "Indent with tabs."},
	})

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, " indentWidth  int   2      4        Indentation width.", lines[2])
	assert.Equal(t, " useTab       bool  false  false    Indent with tabs.", lines[3])
}
