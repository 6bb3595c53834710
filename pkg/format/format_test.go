package format_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/g4fmt/pkg/format"
	"github.com/yaklabco/g4fmt/pkg/options"
)

func formatAll(t *testing.T, src string) string {
	t.Helper()

	result, err := format.Format([]byte(src), nil, 0, math.MaxInt)
	require.NoError(t, err)
	return result.Text
}

const fullInput = `grammar Full;

expr : expr '*' expr # Mul | ID # Id ;
WS : [a-z]+ -> skip ;

// $antlr-format alignColons trailing
a : b ;
longName : c | d ;

x : y ;
// $antlr-format reset, alignSemicolons hanging, alignTrailingComments true, alignLexerCommands true, alignActions true
A : 'a' -> skip ; // first
BB : 'bb' | 'b' -> channel(HIDDEN) ; // second
r : s {act();} | t u {x();} ;
// $antlr-format reset, columnLimit 20, continuationIndentWidth 2, indentWidth 2
w : aaaa bbbb cccc dddd eeee ;
// $antlr-format reset, spaceBeforeAssignmentOperators, minEmptyLines 1, maxEmptyLinesToKeep 0
s : x=ID ys+=b ;
t : u ;
// $antlr-format reset, useTab true, tabWidth 8, allowShortRulesOnASingleLine false, alignLabels false, groupedAlignments false
u : a # A | bb # B ;
`

const fullExpected = "grammar Full;\n" +
	"\n" +
	"expr\n" +
	"    : expr '*' expr # Mul\n" +
	"    | ID            # Id\n" +
	"    ;\n" +
	"WS: [a-z]+ -> skip;\n" +
	"\n" +
	"// $antlr-format alignColons trailing\n" +
	"a        : b;\n" +
	"longName : c\n" +
	"         | d\n" +
	"         ;\n" +
	"\n" +
	"x : y;\n" +
	"// $antlr-format reset, alignSemicolons hanging, alignTrailingComments true, alignLexerCommands true, alignActions true\n" +
	"A: 'a'    -> skip;            // first\n" +
	"BB\n" +
	"    : 'bb'\n" +
	"    | 'b' -> channel(HIDDEN); // second\n" +
	"r\n" +
	"    : s   {act();}\n" +
	"    | t u {x();};\n" +
	"// $antlr-format reset, columnLimit 20, continuationIndentWidth 2, indentWidth 2\n" +
	"w\n" +
	"  : aaaa bbbb cccc\n" +
	"      dddd eeee\n" +
	"  ;\n" +
	"// $antlr-format reset, spaceBeforeAssignmentOperators, minEmptyLines 1, maxEmptyLinesToKeep 0\n" +
	"s: x = ID ys += b;\n" +
	"\n" +
	"t: u;\n" +
	"// $antlr-format reset, useTab true, tabWidth 8, allowShortRulesOnASingleLine false, alignLabels false, groupedAlignments false\n" +
	"u\n" +
	"\t: a # A\n" +
	"\t| bb # B\n" +
	"\t;\n"

func TestFormat_FullScenario(t *testing.T) {
	t.Parallel()

	result, err := format.Format([]byte(fullInput), nil, 0, math.MaxInt)
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, format.RangeWhole, result.Kind)
	assert.Equal(t, 0, result.Start)
	assert.Equal(t, len(fullInput)-1, result.Stop)
	assert.Equal(t, fullExpected, result.Text)
}

func TestFormat_Scenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "statements",
			input: "grammar   T ;\nimport A,B;\noptions {tokenVocab=L;}\n",
			want:  "grammar T;\nimport A, B;\noptions {tokenVocab=L;}\n",
		},
		{
			name:  "blank lines are capped",
			input: "a : b ;\n\n\n\nc : d ;\ne : f ;\n\n\n",
			want:  "a: b;\n\nc: d;\ne: f;\n",
		},
		{
			name:  "leading whitespace is dropped",
			input: "\n\n   a : b ;",
			want:  "a: b;\n",
		},
		{
			name:  "trailing comment",
			input: "a : b // c\n  | d\n  ;\n",
			want:  "a\n    : b // c\n    | d\n    ;\n",
		},
		{
			name:  "comments between alternatives",
			input: "a : b\n// about d\n| d\n// end\n;\n",
			want:  "a\n    : b\n    // about d\n    | d\n    // end\n    ;\n",
		},
		{
			name:  "comment before first alternative",
			input: "a :\n  // first\n  b | c ;\n",
			want:  "a\n    :\n    // first\n      b\n    | c\n    ;\n",
		},
		{
			name:  "sub-blocks and suffixes",
			input: "a : ( b|c )* ~'x' d+? ;\n",
			want:  "a: (b | c)* ~'x' d+?;\n",
		},
		{
			name:  "rule parts",
			input: "fragment  X : [0-9] ;\nexpr [int p]returns[int v] : ID ;\n",
			want:  "fragment X: [0-9];\nexpr [int p] returns [int v]: ID;\n",
		},
		{
			name:  "arguments stay attached",
			input: "expr[int p] : ID ;\n",
			want:  "expr[int p]: ID;\n",
		},
		{
			name:  "exceptions",
			input: "a : b ; catch [E e] { } // c\n",
			want:  "a: b;\n    catch [E e] { } // c\n",
		},
		{
			name:  "empty alternative",
			input: "a : b | ;\n",
			want:  "a\n    : b\n    |\n    ;\n",
		},
		{
			name:  "verbatim rule",
			input: "a : b\n  // mid\n  c ;\n",
			want:  "a : b\n  // mid\n  c ;\n",
		},
		{
			name:  "off region",
			input: "// $antlr-format off\nr   :   a ;\n\n\n// $antlr-format on\ns   :   b ;\n",
			want:  "// $antlr-format off\nr   :   a ;\n\n\n// $antlr-format on\ns: b;\n",
		},
		{
			name:  "structural error keeps the rest",
			input: "a : b ;\nc : (d ;\n",
			want:  "a: b;\nc : (d ;\n",
		},
		{
			name:  "grouped alignments off",
			input: "// $antlr-format alignColons trailing, groupedAlignments false\na : b ;\nlongName : c ;\n\nx : y ;\n",
			want:  "// $antlr-format alignColons trailing, groupedAlignments false\na        : b;\nlongName : c;\n\nx        : y;\n",
		},
		{
			name:  "colon none",
			input: "// $antlr-format alignColons none\na : b | c ;\nlonger : d ;\n",
			want:  "// $antlr-format alignColons none\na : b\n  | c\n  ;\nlonger : d;\n",
		},
		{
			name:  "whitespace only",
			input: " \n\n",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := formatAll(t, tt.input)
			assert.Equal(t, tt.want, got)
			if got != "" {
				assert.Equal(t, got, formatAll(t, got), "formatting must be idempotent")
			}
		})
	}
}

func TestFormat_WhitespaceOnlyIsNoEdit(t *testing.T) {
	t.Parallel()

	src := []byte(" \n\n\t\n")
	result, err := format.Format(src, nil, 0, math.MaxInt)
	require.NoError(t, err)
	assert.Equal(t, format.RangeWhole, result.Kind)
	assert.Empty(t, result.Text)
	assert.False(t, result.Changed(src))
}

func TestFormat_Idempotent(t *testing.T) {
	t.Parallel()

	once := formatAll(t, fullInput)
	assert.Equal(t, once, formatAll(t, once))
}

func TestFormat_Overrides(t *testing.T) {
	t.Parallel()

	src := "a : b | c ;\n// $antlr-format indentWidth 2\nd : e | f ;\n"
	result, err := format.Format([]byte(src), options.Delta{
		"alignColons": "trailing",
		"indentWidth": 8,
		"unknownKey":  1,
	}, 0, math.MaxInt)
	require.NoError(t, err)

	assert.Equal(t, "a : b\n  | c\n  ;\n// $antlr-format indentWidth 2\nd : e\n  | f\n  ;\n", result.Text)
	require.Len(t, result.Warnings, 1)
	assert.True(t, errors.Is(result.Warnings[0], options.ErrUnknownOption))
}

func TestFormat_InvalidUTF8(t *testing.T) {
	t.Parallel()

	_, err := format.Format([]byte{'a', 0xff, ';'}, nil, 0, math.MaxInt)
	assert.ErrorIs(t, err, format.ErrInvalidInput)
}

func TestFormat_AlignmentLocality(t *testing.T) {
	t.Parallel()

	src := "// $antlr-format alignColons trailing\na : b ;\nlongName : c | d ;\n\nx : y ;\nz : w ;\n"
	result, err := format.Format([]byte(src), nil, 0, math.MaxInt)
	require.NoError(t, err)

	var colon []format.AlignmentGroup
	for _, group := range result.Groups {
		if group.Axis == format.AxisColon {
			colon = append(colon, group)
		}
	}
	assert.Equal(t, []format.AlignmentGroup{
		{Axis: format.AxisColon, First: 1, Last: 2, Column: 9},
		{Axis: format.AxisColon, First: 3, Last: 4, Column: 2},
	}, colon)

	// Changing the first group leaves the second untouched.
	edited := "// $antlr-format alignColons trailing\na : b ;\nmuchLongerName : c | d ;\n\nx : y ;\nz : w ;\n"
	other := formatAll(t, edited)
	assert.Contains(t, result.Text, "\n\nx : y;\nz : w;\n")
	assert.Contains(t, other, "\n\nx : y;\nz : w;\n")
	assert.Contains(t, other, "a              : b;\n")
}

func TestFormat_AlignmentBrokenByDisabledAxis(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		middle string
		want   string
		groups []format.AlignmentGroup
	}{
		{
			name:   "middle rule disables colons",
			middle: "none",
			want:   "a : b;\n",
			groups: []format.AlignmentGroup{
				{Axis: format.AxisColon, First: 1, Last: 1, Column: 2},
				{Axis: format.AxisColon, First: 5, Last: 5, Column: 9},
			},
		},
		{
			name:   "middle rule keeps colons",
			middle: "trailing",
			want:   "a        : b;\n",
			groups: []format.AlignmentGroup{
				{Axis: format.AxisColon, First: 1, Last: 5, Column: 9},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := "// $antlr-format alignColons trailing\n" +
				"a : b ;\n" +
				"// $antlr-format alignColons " + tt.middle + "\n" +
				"mid : c ;\n" +
				"// $antlr-format alignColons trailing\n" +
				"longName : d ;\n"

			result, err := format.Format([]byte(src), nil, 0, math.MaxInt)
			require.NoError(t, err)
			assert.Contains(t, result.Text, "\n"+tt.want)
			assert.Contains(t, result.Text, "\nlongName : d;\n")

			var colon []format.AlignmentGroup
			for _, group := range result.Groups {
				if group.Axis == format.AxisColon {
					colon = append(colon, group)
				}
			}
			assert.Equal(t, tt.groups, colon)
		})
	}
}
