package grammar

// TokenKind classifies a token in grammar source.
type TokenKind uint16

// Token kinds cover every byte in the source.
const (
	TokWhitespace TokenKind = iota // spaces and tabs
	TokNewline                     // "\n" or "\r\n"
	TokIdentifier                  // rule names, keywords, numbers
	TokString                      // 'literal' or "literal"
	TokBracket                     // [a-z] char sets and [int x] arguments
	TokAction                      // { ... } with nested braces
	TokLineComment                 // // ...
	TokBlockComment                // /* ... */
	TokDirective                   // a comment carrying $antlr-format settings
	TokPunct                       // : ; | ( ) ? * + += = ~ .. . -> # , < > @ ::
	TokOther                       // any other single rune
	TokEOF                         // zero-length end marker
)

var tokenKindNames = [...]string{
	TokWhitespace:   "Whitespace",
	TokNewline:      "Newline",
	TokIdentifier:   "Identifier",
	TokString:       "String",
	TokBracket:      "Bracket",
	TokAction:       "Action",
	TokLineComment:  "LineComment",
	TokBlockComment: "BlockComment",
	TokDirective:    "Directive",
	TokPunct:        "Punct",
	TokOther:        "Other",
	TokEOF:          "EOF",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "TokenKind(?)"
}

// IsTrivia reports whether the kind carries no syntax (whitespace and newlines).
func (k TokenKind) IsTrivia() bool {
	return k == TokWhitespace || k == TokNewline
}

// IsComment reports whether the kind is any kind of comment, directives included.
func (k TokenKind) IsComment() bool {
	return k == TokLineComment || k == TokBlockComment || k == TokDirective
}

// Token is an immutable classified span of the source.
type Token struct {
	Kind TokenKind

	// Text is the raw source text of the token.
	Text string

	// Start is the byte index where the token begins (inclusive).
	Start int

	// End is the byte index where the token ends (exclusive).
	End int

	// Line and Column are 1-based; Column counts bytes.
	Line   int
	Column int
}

// Len returns the length of this token in bytes.
func (t Token) Len() int {
	return t.End - t.Start
}

// Is reports whether the token is punctuation with the given text.
func (t Token) Is(punct string) bool {
	return t.Kind == TokPunct && t.Text == punct
}

// IsWord reports whether the token is the identifier word.
func (t Token) IsWord(word string) bool {
	return t.Kind == TokIdentifier && t.Text == word
}

// ValidateTokens checks that a token slice is contiguous, non-overlapping,
// and covers [0, contentLen). A trailing zero-length EOF token is allowed.
func ValidateTokens(tokens []Token, contentLen int) bool {
	if len(tokens) == 0 {
		return contentLen == 0
	}

	if tokens[0].Start != 0 {
		return false
	}

	if tokens[len(tokens)-1].End != contentLen {
		return false
	}

	for i := 1; i < len(tokens); i++ {
		if tokens[i].Start != tokens[i-1].End {
			return false
		}
	}

	return true
}
