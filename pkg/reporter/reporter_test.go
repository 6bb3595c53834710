package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/g4fmt/pkg/config"
	"github.com/yaklabco/g4fmt/pkg/reporter"
	"github.com/yaklabco/g4fmt/pkg/runner"
)

// runFixture formats a small tree: a.g4 needs formatting, b.g4 is clean
// and c.g4 has a syntax error.
func runFixture(t *testing.T, mode config.Mode) (*runner.Result, string) {
	t.Helper()

	root := t.TempDir()
	for name, content := range map[string]string{
		"a.g4": "a : b ;\n",
		"b.g4": "b: c;\n",
		"c.g4": "c : (d ;\n",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(content), 0o600))
	}

	r := runner.New(runner.PipelineOptions{Mode: mode, Diff: true, Verify: true})
	result, err := r.Run(context.Background(), runner.Options{WorkingDir: root})
	require.NoError(t, err)
	return result, root
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{input: "", want: reporter.FormatText},
		{input: "text", want: reporter.FormatText},
		{input: "table", want: reporter.FormatTable},
		{input: "json", want: reporter.FormatJSON},
		{input: "diff", want: reporter.FormatDiff},
		{input: "summary", want: reporter.FormatSummary},
		{input: "sarif", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsValid())
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	for _, format := range []reporter.Format{"", reporter.FormatText, reporter.FormatTable, reporter.FormatJSON, reporter.FormatDiff, reporter.FormatSummary} {
		rep, err := reporter.New(reporter.Options{Format: format, Writer: &bytes.Buffer{}})
		require.NoError(t, err, format)
		assert.NotNil(t, rep)
	}

	_, err := reporter.New(reporter.Options{Format: "xml"})
	require.Error(t, err)
}

func TestTextReporter_Check(t *testing.T) {
	t.Parallel()

	result, root := runFixture(t, config.ModeCheck)

	var out bytes.Buffer
	rep, err := reporter.New(reporter.Options{
		Writer:      &out,
		Format:      reporter.FormatText,
		Mode:        config.ModeCheck,
		Color:       "never",
		ShowContext: true,
		ShowSummary: true,
		WorkingDir:  root,
	})
	require.NoError(t, err)

	changed, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	text := out.String()
	assert.Contains(t, text, "a.g4 (needs formatting)\n")
	assert.NotContains(t, text, "b.g4")
	assert.Contains(t, text, "  c.g4:")
	assert.Contains(t, text, "  error  ")
	assert.Contains(t, text, "        c : (d ;\n")
	assert.Contains(t, text, "1 file needs formatting (3 checked), 1 syntax error\n")
}

func TestTextReporter_Stdout(t *testing.T) {
	t.Parallel()

	result, root := runFixture(t, config.ModeStdout)

	var out, errOut bytes.Buffer
	rep, err := reporter.New(reporter.Options{
		Writer:      &out,
		ErrorWriter: &errOut,
		Mode:        config.ModeStdout,
		Color:       "never",
		ShowSummary: true,
		WorkingDir:  root,
	})
	require.NoError(t, err)

	_, err = rep.Report(context.Background(), result)
	require.NoError(t, err)

	assert.Equal(t, "a: b;\nb: c;\nc : (d ;\n", out.String())
	assert.Contains(t, errOut.String(), "c.g4:")
	assert.NotContains(t, errOut.String(), "checked")
}

func TestTextReporter_DiffMode(t *testing.T) {
	t.Parallel()

	result, root := runFixture(t, config.ModeDiff)

	var out bytes.Buffer
	rep, err := reporter.New(reporter.Options{Writer: &out, Mode: config.ModeDiff, Color: "never", WorkingDir: root})
	require.NoError(t, err)

	_, err = rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "diff --git a/a.g4 b/a.g4\n--- a/a.g4\n+++ b/a.g4\n@@ -1,1 +1,1 @@\n-a : b ;\n+a: b;\n")
}

func TestTextReporter_NoFiles(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &out, Mode: config.ModeCheck, ShowSummary: true})
	n, err := rep.Report(context.Background(), &runner.Result{})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, "No grammar files found.\n", out.String())
}

func TestDiffReporter(t *testing.T) {
	t.Parallel()

	result, root := runFixture(t, config.ModeCheck)

	var out bytes.Buffer
	rep := reporter.NewDiffReporter(reporter.Options{Writer: &out, Color: "never", ShowSummary: true, WorkingDir: root})
	n, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	text := out.String()
	assert.Contains(t, text, "-a : b ;\n+a: b;\n")
	assert.NotContains(t, text, "b.g4")
	assert.Contains(t, text, "1 file changed, 1 insertion(+), 1 deletion(-)\n")
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	result, root := runFixture(t, config.ModeCheck)

	var out bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &out, Mode: config.ModeCheck, WorkingDir: root})
	n, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var decoded reporter.JSONOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))

	assert.Equal(t, "check", decoded.Mode)
	assert.Equal(t, reporter.JSONSummary{FilesChecked: 3, FilesChanged: 1, ParseErrors: 1}, decoded.Summary)
	require.Len(t, decoded.Files, 3)

	a := decoded.Files[0]
	assert.Equal(t, "a.g4", a.Path)
	assert.True(t, a.Changed)
	require.Len(t, a.Edits, 1)
	assert.Equal(t, reporter.JSONEdit{
		Kind:        "whole",
		Start:       0,
		Stop:        7,
		StartLine:   1,
		StartColumn: 1,
		StopLine:    1,
		StopColumn:  8,
		Text:        "a: b;\n",
	}, a.Edits[0])
	assert.Contains(t, a.Diff, "+a: b;")

	b := decoded.Files[1]
	assert.False(t, b.Changed)
	assert.Empty(t, b.Edits)
	assert.Empty(t, b.Diagnostics)

	c := decoded.Files[2]
	require.NotEmpty(t, c.Diagnostics)
	assert.Equal(t, "error", c.Diagnostics[0].Severity)
	assert.Positive(t, c.Diagnostics[0].Line)
}

func TestJSONReporter_Compact(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &out, Mode: config.ModeCheck, Compact: true})
	_, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, `{"version":"1.0.0","mode":"check","files":[],"summary":{"filesChecked":0,"filesChanged":0,"filesWritten":0,"filesSkipped":0,"filesErrored":0,"parseErrors":0,"warnings":0}}`+"\n", out.String())
}

func TestTableReporter(t *testing.T) {
	t.Parallel()

	result, root := runFixture(t, config.ModeCheck)

	var out bytes.Buffer
	rep := reporter.NewTableReporter(reporter.Options{Writer: &out, Color: "never", ShowSummary: true, WorkingDir: root})
	n, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	text := out.String()
	assert.Contains(t, text, " FILE ")
	assert.Contains(t, text, " a.g4 ")
	assert.Contains(t, text, "needs formatting")
	assert.Contains(t, text, "1 file needs formatting (3 checked)")
}

func TestSummaryReporter(t *testing.T) {
	t.Parallel()

	result, root := runFixture(t, config.ModeCheck)

	var out bytes.Buffer
	rep := reporter.NewSummaryReporter(reporter.Options{Writer: &out, Color: "never", WorkingDir: root})
	_, err := rep.Report(context.Background(), result)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Files\n  a.g4\n\nSummary\n")
	assert.Contains(t, text, "Some files need formatting\n")
}
