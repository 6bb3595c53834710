package format_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/g4fmt/pkg/format"
	"github.com/yaklabco/g4fmt/pkg/source"
)

// rangedSource offsets:
//
//	 0..9   "grammar T;"
//	12..18  "a : b ;"
//	21..31  "c : d | e ;"
//	32      final newline
const rangedSource = "grammar T;\n\na : b ;\n\nc : d | e ;\n"

func TestFormat_InvalidRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		src         string
		start, stop int
		wantStart   int
		wantStop    int
	}{
		{"reversed negative", rangedSource, -10, -20, 0, 9},
		{"reversed", rangedSource, 20, 10, 0, 9},
		{"negative start", rangedSource, -1, 5, 0, 9},
		{"start past end", rangedSource, 33, 40, 0, 9},
		{"empty input", "", 0, 0, 0, -1},
		{"leading comment", "/* c */\na : b ;", -10, -20, 0, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := format.Format([]byte(tt.src), nil, tt.start, tt.stop)
			require.NoError(t, err)
			assert.Empty(t, result.Text)
			assert.Equal(t, format.RangeInvalid, result.Kind)
			assert.Equal(t, tt.wantStart, result.Start)
			assert.Equal(t, tt.wantStop, result.Stop)
			assert.False(t, result.Changed([]byte(tt.src)))
		})
	}
}

func TestFormat_Ranged(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		from, to  source.Position
		wantFrom  source.Position
		wantTo    source.Position
		wantKind  format.RangeKind
		wantText  string
		wantStart int
		wantStop  int
	}{
		{
			name:      "inside one rule",
			from:      source.Position{Line: 3, Column: 2},
			to:        source.Position{Line: 3, Column: 3},
			wantFrom:  source.Position{Line: 3, Column: 1},
			wantTo:    source.Position{Line: 3, Column: 7},
			wantKind:  format.RangeUnits,
			wantText:  "a: b;",
			wantStart: 12,
			wantStop:  18,
		},
		{
			name:      "across rules",
			from:      source.Position{Line: 3, Column: 4},
			to:        source.Position{Line: 5, Column: 5},
			wantFrom:  source.Position{Line: 3, Column: 1},
			wantTo:    source.Position{Line: 5, Column: 11},
			wantKind:  format.RangeUnits,
			wantText:  "a: b;\n\nc\n    : d\n    | e\n    ;",
			wantStart: 12,
			wantStop:  31,
		},
		{
			name:      "starts in whitespace before a rule",
			from:      source.Position{Line: 1, Column: 11},
			to:        source.Position{Line: 3, Column: 3},
			wantFrom:  source.Position{Line: 1, Column: 11},
			wantTo:    source.Position{Line: 3, Column: 7},
			wantKind:  format.RangeUnits,
			wantText:  "\n\na: b;",
			wantStart: 10,
			wantStop:  18,
		},
		{
			name:      "stops in whitespace after a rule",
			from:      source.Position{Line: 3, Column: 3},
			to:        source.Position{Line: 4, Column: 1},
			wantFrom:  source.Position{Line: 3, Column: 1},
			wantTo:    source.Position{Line: 4, Column: 1},
			wantKind:  format.RangeUnits,
			wantText:  "a: b;\n\n",
			wantStart: 12,
			wantStop:  20,
		},
		{
			name:      "whitespace on both sides",
			from:      source.Position{Line: 2, Column: 1},
			to:        source.Position{Line: 4, Column: 1},
			wantFrom:  source.Position{Line: 2, Column: 1},
			wantTo:    source.Position{Line: 4, Column: 1},
			wantKind:  format.RangeUnits,
			wantText:  "\na: b;\n\n",
			wantStart: 11,
			wantStop:  20,
		},
		{
			name:      "only whitespace",
			from:      source.Position{Line: 1, Column: 11},
			to:        source.Position{Line: 2, Column: 1},
			wantFrom:  source.Position{Line: 1, Column: 11},
			wantTo:    source.Position{Line: 2, Column: 1},
			wantKind:  format.RangeEmpty,
			wantText:  "",
			wantStart: 10,
			wantStop:  11,
		},
		{
			name:      "header only",
			from:      source.Position{Line: 1, Column: 1},
			to:        source.Position{Line: 1, Column: 3},
			wantFrom:  source.Position{Line: 1, Column: 1},
			wantTo:    source.Position{Line: 1, Column: 10},
			wantKind:  format.RangeUnits,
			wantText:  "grammar T;",
			wantStart: 0,
			wantStop:  9,
		},
	}

	lines := source.NewLineIndex([]byte(rangedSource))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			start, ok := lines.Offset(tt.from)
			require.True(t, ok)
			stop, ok := lines.Offset(tt.to)
			require.True(t, ok)

			result, err := format.Format([]byte(rangedSource), nil, start, stop)
			require.NoError(t, err)

			assert.Equal(t, tt.wantKind, result.Kind)
			assert.Equal(t, tt.wantText, result.Text)
			assert.Equal(t, tt.wantStart, result.Start)
			assert.Equal(t, tt.wantStop, result.Stop)
			assert.Equal(t, tt.wantFrom, result.StartPosition())
			assert.Equal(t, tt.wantTo, result.StopPosition())

			// Positions map back to the same offsets.
			back, ok := lines.Offset(result.StartPosition())
			require.True(t, ok)
			assert.Equal(t, result.Start, back)
			back, ok = lines.Offset(result.StopPosition())
			require.True(t, ok)
			assert.Equal(t, result.Stop, back)

			if result.Kind == format.RangeUnits {
				assert.LessOrEqual(t, result.Start, start)
				assert.GreaterOrEqual(t, result.Stop, stop)
			}
		})
	}
}

func TestFormat_RangeClampsStop(t *testing.T) {
	t.Parallel()

	result, err := format.Format([]byte(rangedSource), nil, 25, 1000)
	require.NoError(t, err)
	assert.Equal(t, format.RangeUnits, result.Kind)
	assert.Equal(t, 21, result.Start)
	assert.Equal(t, 32, result.Stop)
	assert.Equal(t, "c\n    : d\n    | e\n    ;\n", result.Text)
}

func TestFormat_WholeDocument(t *testing.T) {
	t.Parallel()

	result, err := format.Format([]byte(rangedSource), nil, 0, len(rangedSource)-1)
	require.NoError(t, err)
	assert.Equal(t, format.RangeWhole, result.Kind)
	assert.Equal(t, 0, result.Start)
	assert.Equal(t, len(rangedSource)-1, result.Stop)
	assert.Equal(t, "grammar T;\n\na: b;\n\nc\n    : d\n    | e\n    ;\n", result.Text)
	assert.True(t, result.Changed([]byte(rangedSource)))

	again, err := format.Format([]byte(result.Text), nil, 0, len(result.Text)-1)
	require.NoError(t, err)
	assert.False(t, again.Changed([]byte(result.Text)))
}

func TestFormat_RangeUsesDirectivesBefore(t *testing.T) {
	t.Parallel()

	src := "// $antlr-format alignColons trailing\na : b ;\nlongName : c ;\n"
	start := len("// $antlr-format alignColons trailing\n")

	result, err := format.Format([]byte(src), nil, start, start+1)
	require.NoError(t, err)

	// The plan covers only the formatted unit.
	assert.Equal(t, "a : b;", result.Text)
}

func TestFormat_RangeAtUnitStart(t *testing.T) {
	t.Parallel()

	result, err := format.Format([]byte(rangedSource), nil, 12, 12)
	require.NoError(t, err)
	assert.Equal(t, format.RangeUnits, result.Kind)
	assert.Equal(t, "a: b;", result.Text)
	assert.True(t, result.Changed([]byte(rangedSource)))
}
