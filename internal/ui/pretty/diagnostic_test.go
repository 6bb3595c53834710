package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/g4fmt/internal/ui/pretty"
	"github.com/yaklabco/g4fmt/pkg/source"
)

func TestFormatDiagnostic(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	tests := []struct {
		name        string
		diag        pretty.Diagnostic
		showContext bool
		line        string
		want        string
	}{
		{
			name: "located error",
			diag: pretty.Diagnostic{
				Path:     "T.g4",
				Position: source.Position{Line: 2, Column: 5},
				Severity: pretty.SeverityError,
				Message:  "unterminated literal",
			},
			want: "  T.g4:2:5  error  unterminated literal\n",
		},
		{
			name: "with context",
			diag: pretty.Diagnostic{
				Path:     "T.g4",
				Position: source.Position{Line: 1, Column: 5},
				Severity: pretty.SeverityWarning,
				Message:  "unknown option",
			},
			showContext: true,
			line:        "a : (b ;",
			want:        "  T.g4:1:5  warning  unknown option\n        a : (b ;\n" + strings.Repeat(" ", 8+4) + "^\n",
		},
		{
			name: "wide characters before the column",
			diag: pretty.Diagnostic{
				Path:     "T.g4",
				Position: source.Position{Line: 1, Column: 8},
				Severity: pretty.SeverityError,
				Message:  "bad",
			},
			showContext: true,
			line:        "'日本' x",
			want:        "  T.g4:1:8  error  bad\n        '日本' x\n" + strings.Repeat(" ", 8+5) + "^\n",
		},
		{
			name: "file level",
			diag: pretty.Diagnostic{Path: "T.g4", Severity: pretty.SeverityInfo, Message: "skipped"},
			line: "ignored",
			want: "  T.g4  info  skipped\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, styles.FormatDiagnostic(&tt.diag, tt.showContext, tt.line))
		})
	}
}

func TestFormatFileHeader(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	assert.Equal(t, "T.g4 (needs formatting)", styles.FormatFileHeader("T.g4", "needs formatting"))
	assert.Equal(t, "T.g4", styles.FormatFileHeader("T.g4", ""))
}
