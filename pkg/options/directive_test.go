package options_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/g4fmt/pkg/options"
	"github.com/yaklabco/g4fmt/pkg/parser"
	"github.com/yaklabco/g4fmt/pkg/source"
)

func TestParseDirective(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		comment string
		want    []options.Setting
	}{
		{
			name:    "space separated pairs",
			comment: "// $antlr-format alignColons trailing, columnLimit 150",
			want: []options.Setting{
				{Key: "alignColons", Value: "trailing"},
				{Key: "columnLimit", Value: "150"},
			},
		},
		{
			name:    "assignments",
			comment: "// $antlr-format useTab=true,tabWidth:8",
			want: []options.Setting{
				{Key: "useTab", Value: "true"},
				{Key: "tabWidth", Value: "8"},
			},
		},
		{
			name:    "bare names without commas",
			comment: "// $antlr-format alignTrailingComments alignColons hanging",
			want: []options.Setting{
				{Key: "alignTrailingComments"},
				{Key: "alignColons", Value: "hanging"},
			},
		},
		{
			name:    "unknown key with a fractional value",
			comment: "// $antlr-format futureOption=1.5, alignColons trailing",
			want: []options.Setting{
				{Key: "futureOption", Value: "1.5"},
				{Key: "alignColons", Value: "trailing"},
			},
		},
		{
			name:    "on and off as values",
			comment: "// $antlr-format useTab off, alignLabels on",
			want: []options.Setting{
				{Key: "useTab", Value: "off"},
				{Key: "alignLabels", Value: "on"},
			},
		},
		{
			name:    "quoted and unusual values",
			comment: `// $antlr-format futureName "a b", futureChar 'x', futurePath ./dir`,
			want: []options.Setting{
				{Key: "futureName", Value: "a b"},
				{Key: "futureChar", Value: "x"},
				{Key: "futurePath", Value: "./dir"},
			},
		},
		{
			name:    "commands",
			comment: "/* $antlr-format off */",
			want:    []options.Setting{{Command: options.CommandOff}},
		},
		{
			name:    "doc comment with reset",
			comment: "/** $antlr-format reset, minEmptyLines 1 **/",
			want: []options.Setting{
				{Command: options.CommandReset},
				{Key: "minEmptyLines", Value: "1"},
			},
		},
		{
			name:    "upper case command",
			comment: "// $antlr-format ON",
			want:    []options.Setting{{Command: options.CommandOn}},
		},
		{
			name:    "empty",
			comment: "// $antlr-format",
			want:    []options.Setting{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			directive, err := options.ParseDirective(tt.comment)
			require.NoError(t, err)
			assert.Equal(t, tt.want, directive.Settings)
		})
	}
}

func TestParseDirective_Malformed(t *testing.T) {
	t.Parallel()

	for _, comment := range []string{
		"// $antlr-format columnLimit = = 3",
		"// $antlr-format , ,",
		"// not a directive",
	} {
		_, err := options.ParseDirective(comment)
		require.Error(t, err, comment)
		assert.True(t, errors.Is(err, options.ErrMalformedDirective))
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	content := "a : b ;\n" +
		"// $antlr-format alignColons trailing, columnLimit 80\n" +
		"c : d ;\n" +
		"// $antlr-format bogus 3, indentWidth 0\n" +
		"e : f ;\n" +
		"// $antlr-format off\n" +
		"g : h ;\n" +
		"// $antlr-format on, reset\n" +
		"i : j ;\n"
	doc := parser.Parse("", []byte(content))
	require.Len(t, doc.Units, 9)

	base := options.Default()
	base.IndentWidth = 2
	snaps, warnings := options.Resolve(doc, base)

	assert.Equal(t, base, snaps.At(0).Options)
	assert.Equal(t, base, snaps.At(1).Options, "a directive sees the options before it")

	at2 := snaps.At(2).Options
	assert.Equal(t, options.ColonTrailing, at2.AlignColons)
	assert.Equal(t, 80, at2.ColumnLimit)
	assert.Equal(t, 2, at2.IndentWidth, "unnamed keys are inherited")

	assert.Equal(t, at2, snaps.At(4).Options, "invalid settings are skipped")
	require.Len(t, warnings, 2)
	assert.True(t, errors.Is(warnings[0], options.ErrUnknownOption))
	assert.True(t, errors.Is(warnings[1], options.ErrInvalidValue))

	var warning *options.UnknownOptionWarning
	require.ErrorAs(t, warnings[0], &warning)
	assert.Equal(t, source.Position{Line: 4, Column: 1}, warning.Position)
	assert.Equal(t, "bogus", warning.Key)

	assert.False(t, snaps.At(5).Disabled)
	assert.True(t, snaps.At(6).Disabled)
	assert.True(t, snaps.At(7).Disabled)
	assert.False(t, snaps.At(8).Disabled)
	assert.Equal(t, base, snaps.At(8).Options, "reset returns to the caller base")

	assert.Equal(t, base, snaps.At(-1).Options)
	assert.Equal(t, snaps.At(8), snaps.At(100))
}

func TestResolve_ForwardCompatible(t *testing.T) {
	t.Parallel()

	content := "// $antlr-format futureOption=1.5, alignColons trailing\n" +
		"a : b ;\n" +
		"// $antlr-format useTab off\n" +
		"c : d ;\n"
	doc := parser.Parse("", []byte(content))
	require.Len(t, doc.Units, 4)

	base := options.Default()
	base.UseTab = true
	snaps, warnings := options.Resolve(doc, base)

	assert.Equal(t, options.ColonTrailing, snaps.At(1).Options.AlignColons, "known keys next to unknown ones apply")
	require.Len(t, warnings, 1)
	assert.True(t, errors.Is(warnings[0], options.ErrUnknownOption))

	var warning *options.UnknownOptionWarning
	require.ErrorAs(t, warnings[0], &warning)
	assert.Equal(t, "futureOption", warning.Key)
	assert.Equal(t, "1.5", warning.Value)

	at3 := snaps.At(3)
	assert.False(t, at3.Disabled, "off after a key is a value")
	assert.False(t, at3.Options.UseTab)
	assert.Equal(t, options.ColonTrailing, at3.Options.AlignColons)
}
