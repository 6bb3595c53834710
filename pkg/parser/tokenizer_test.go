package parser_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/g4fmt/pkg/grammar"
	"github.com/yaklabco/g4fmt/pkg/parser"
)

type tokenCase struct {
	kind grammar.TokenKind
	text string
}

func significant(tokens []grammar.Token) []tokenCase {
	var out []tokenCase
	for _, tok := range tokens {
		if tok.Kind.IsTrivia() || tok.Kind == grammar.TokEOF {
			continue
		}
		out = append(out, tokenCase{tok.Kind, tok.Text})
	}
	return out
}

func TestTokenize_Empty(t *testing.T) {
	t.Parallel()

	tokens, errs := parser.Tokenize(nil)
	require.Len(t, tokens, 1)
	assert.Equal(t, grammar.TokEOF, tokens[0].Kind)
	assert.Empty(t, errs)
}

func TestTokenize_Contiguous(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"header", "grammar T;"},
		{"rule", "expr : expr '*' expr # Mul | ID ;\n"},
		{"lexer", "WS : [ \\t\\r\\n]+ -> skip ;"},
		{"crlf", "a : b ;\r\nc : d ;\r\n"},
		{"comments", "// one\n/* two */ a : b ; // three\n"},
		{"action", "@members { int x = '}'; }\n"},
		{"unterminated string", "a : 'abc\nb : c ;"},
		{"unterminated block comment", "a : b ; /* open"},
		{"unterminated action", "a : { x"},
		{"unicode", "规则 : 'é' € ;"},
		{"lone cr", "a\rb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			content := []byte(tt.content)
			tokens, _ := parser.Tokenize(content)
			assert.True(t, grammar.ValidateTokens(tokens, len(content)))
			assert.Equal(t, grammar.TokEOF, tokens[len(tokens)-1].Kind)
		})
	}
}

func TestTokenize_Kinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    []tokenCase
	}{
		{
			name:    "header",
			content: "grammar T;",
			want: []tokenCase{
				{grammar.TokIdentifier, "grammar"},
				{grammar.TokIdentifier, "T"},
				{grammar.TokPunct, ";"},
			},
		},
		{
			name:    "range and commands",
			content: "A : 'a'..'z' -> skip ;",
			want: []tokenCase{
				{grammar.TokIdentifier, "A"},
				{grammar.TokPunct, ":"},
				{grammar.TokString, "'a'"},
				{grammar.TokPunct, ".."},
				{grammar.TokString, "'z'"},
				{grammar.TokPunct, "->"},
				{grammar.TokIdentifier, "skip"},
				{grammar.TokPunct, ";"},
			},
		},
		{
			name:    "argument block nests",
			content: "r[int[] x] : [a-z] ;",
			want: []tokenCase{
				{grammar.TokIdentifier, "r"},
				{grammar.TokBracket, "[int[] x]"},
				{grammar.TokPunct, ":"},
				{grammar.TokBracket, "[a-z]"},
				{grammar.TokPunct, ";"},
			},
		},
		{
			name:    "char set does not nest",
			content: "A : [[] ;",
			want: []tokenCase{
				{grammar.TokIdentifier, "A"},
				{grammar.TokPunct, ":"},
				{grammar.TokBracket, "[[]"},
				{grammar.TokPunct, ";"},
			},
		},
		{
			name:    "action skips strings and comments",
			content: `a : { s = "}"; /* } */ } ;`,
			want: []tokenCase{
				{grammar.TokIdentifier, "a"},
				{grammar.TokPunct, ":"},
				{grammar.TokAction, `{ s = "}"; /* } */ }`},
				{grammar.TokPunct, ";"},
			},
		},
		{
			name:    "directives",
			content: "// $antlr-format alignColons trailing\n/* $antlr-format off */\n// plain\n",
			want: []tokenCase{
				{grammar.TokDirective, "// $antlr-format alignColons trailing"},
				{grammar.TokDirective, "/* $antlr-format off */"},
				{grammar.TokLineComment, "// plain"},
			},
		},
		{
			name:    "label assignment",
			content: "x+=ID",
			want: []tokenCase{
				{grammar.TokIdentifier, "x"},
				{grammar.TokPunct, "+="},
				{grammar.TokIdentifier, "ID"},
			},
		},
		{
			name:    "non-letter rune",
			content: "€",
			want: []tokenCase{
				{grammar.TokOther, "€"},
			},
		},
		{
			name:    "unicode identifier",
			content: "règle",
			want: []tokenCase{
				{grammar.TokIdentifier, "règle"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tokens, errs := parser.Tokenize([]byte(tt.content))
			assert.Empty(t, errs)
			assert.Equal(t, tt.want, significant(tokens))
		})
	}
}

func TestTokenize_CRLFLineComment(t *testing.T) {
	t.Parallel()

	tokens, _ := parser.Tokenize([]byte("// x\r\na"))
	require.Len(t, tokens, 4)
	assert.Equal(t, "// x", tokens[0].Text)
	assert.Equal(t, grammar.TokNewline, tokens[1].Kind)
	assert.Equal(t, "\r\n", tokens[1].Text)
	assert.Equal(t, 2, tokens[2].Line)
	assert.Equal(t, 1, tokens[2].Column)
}

func TestTokenize_Positions(t *testing.T) {
	t.Parallel()

	tokens, _ := parser.Tokenize([]byte("a : b\n  | c ;"))
	sig := make([]grammar.Token, 0)
	for _, tok := range tokens {
		if !tok.Kind.IsTrivia() {
			sig = append(sig, tok)
		}
	}

	require.Len(t, sig, 7)
	assert.Equal(t, 2, sig[3].Line)
	assert.Equal(t, 3, sig[3].Column)
	assert.Equal(t, "|", sig[3].Text)
}

func TestTokenize_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		wantLine int
		wantCol  int
		wantLast string
	}{
		{"unterminated string", "a : 'abc\n", 1, 5, "'abc"},
		{"unterminated block comment", "a\n/* open", 2, 1, "/* open"},
		{"unterminated action", "a : { x", 1, 5, "{ x"},
		{"unterminated bracket", "A : [abc", 1, 5, "[abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tokens, errs := parser.Tokenize([]byte(tt.content))
			require.Len(t, errs, 1)
			assert.True(t, errors.Is(errs[0], parser.ErrLex))

			var lexErr *parser.LexError
			require.ErrorAs(t, errs[0], &lexErr)
			assert.Equal(t, tt.wantLine, lexErr.Position.Line)
			assert.Equal(t, tt.wantCol, lexErr.Position.Column)

			sig := significant(tokens)
			require.NotEmpty(t, sig)
			assert.Equal(t, tt.wantLast, sig[len(sig)-1].text)
		})
	}
}
