package parser

import (
	"bytes"
	"unicode"
	"unicode/utf8"

	"github.com/yaklabco/g4fmt/pkg/grammar"
	"github.com/yaklabco/g4fmt/pkg/source"
)

// DirectiveMarker starts the body of a formatting directive comment.
const DirectiveMarker = "$antlr-format"

// tokenizer performs a single-pass tokenization of grammar source.
// It produces a contiguous, non-overlapping token stream covering [0, len(content)).
type tokenizer struct {
	content   []byte
	tokens    []grammar.Token
	errs      []error
	pos       int
	line      int
	lineStart int

	// lastSignificant is the index of the last non-trivia token, or -1.
	lastSignificant int
}

// Tokenize splits content into tokens followed by a zero-length EOF token.
// Malformed constructs are reported as *LexError values while tokenizing
// continues with a best-effort token.
func Tokenize(content []byte) ([]grammar.Token, []error) {
	const initialCapacityDivisor = 3
	tok := &tokenizer{
		content:         content,
		tokens:          make([]grammar.Token, 0, len(content)/initialCapacityDivisor+1),
		line:            1,
		lastSignificant: -1,
	}

	for tok.pos < len(tok.content) {
		tok.next()
	}

	tok.tokens = append(tok.tokens, grammar.Token{
		Kind:   grammar.TokEOF,
		Start:  len(content),
		End:    len(content),
		Line:   tok.line,
		Column: len(content) - tok.lineStart + 1,
	})

	return tok.tokens, tok.errs
}

// next scans exactly one token at the current position.
func (t *tokenizer) next() {
	start := t.pos
	c := t.content[t.pos]

	switch {
	case c == ' ' || c == '\t' || c == '\f' || c == '\v':
		t.consumeWhile(func(b byte) bool { return b == ' ' || b == '\t' || b == '\f' || b == '\v' })
		t.emit(grammar.TokWhitespace, start)
	case c == '\n':
		t.pos++
		t.emit(grammar.TokNewline, start)
	case c == '\r':
		t.pos++
		if t.pos < len(t.content) && t.content[t.pos] == '\n' {
			t.pos++
			t.emit(grammar.TokNewline, start)
			return
		}
		t.emit(grammar.TokWhitespace, start)
	case c == '/' && t.peekByte(1) == '/':
		t.scanLineComment()
	case c == '/' && t.peekByte(1) == '*':
		t.scanBlockComment()
	case c == '\'' || c == '"':
		t.scanString(c)
	case c == '[':
		t.scanBracket()
	case c == '{':
		t.scanAction()
	case isIdentPart(c):
		t.scanIdentifier()
	case c >= utf8.RuneSelf && t.letterAt():
		t.scanIdentifier()
	default:
		t.scanPunct()
	}
}

func (t *tokenizer) peekByte(offset int) byte {
	if t.pos+offset < len(t.content) {
		return t.content[t.pos+offset]
	}
	return 0
}

func (t *tokenizer) consumeWhile(pred func(byte) bool) {
	for t.pos < len(t.content) && pred(t.content[t.pos]) {
		t.pos++
	}
}

// emit appends a token for [start, t.pos) and advances line tracking.
func (t *tokenizer) emit(kind grammar.TokenKind, start int) {
	t.tokens = append(t.tokens, grammar.Token{
		Kind:   kind,
		Text:   string(t.content[start:t.pos]),
		Start:  start,
		End:    t.pos,
		Line:   t.line,
		Column: start - t.lineStart + 1,
	})

	if !kind.IsTrivia() {
		t.lastSignificant = len(t.tokens) - 1
	}

	for i := start; i < t.pos; i++ {
		if t.content[i] == '\n' {
			t.line++
			t.lineStart = i + 1
		}
	}
}

func (t *tokenizer) errorAt(offset int, msg string) {
	line := t.line
	lineStart := t.lineStart
	for i := lineStart; i < offset && i < len(t.content); i++ {
		if t.content[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	t.errs = append(t.errs, &LexError{
		Position: source.Position{Line: line, Column: offset - lineStart + 1},
		Message:  msg,
	})
}

func (t *tokenizer) scanLineComment() {
	start := t.pos
	t.consumeWhile(func(b byte) bool { return b != '\n' })
	// Keep a CR of a CRLF pair in the newline token.
	if t.pos > start && t.content[t.pos-1] == '\r' {
		t.pos--
	}

	kind := grammar.TokLineComment
	if isDirectiveBody(t.content[start+2 : t.pos]) {
		kind = grammar.TokDirective
	}
	t.emit(kind, start)
}

func (t *tokenizer) scanBlockComment() {
	start := t.pos
	end := bytes.Index(t.content[start+2:], []byte("*/"))
	if end < 0 {
		t.errorAt(start, "unterminated block comment")
		t.pos = len(t.content)
	} else {
		t.pos = start + 2 + end + 2
	}

	body := t.content[start+2 : t.pos]
	body = bytes.TrimSuffix(body, []byte("*/"))
	body = bytes.TrimLeft(body, "*")

	kind := grammar.TokBlockComment
	if isDirectiveBody(body) {
		kind = grammar.TokDirective
	}
	t.emit(kind, start)
}

// isDirectiveBody reports whether a comment body starts with the directive marker.
func isDirectiveBody(body []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(body, " \t"), []byte(DirectiveMarker))
}

// scanString scans a quoted literal. Literals cannot span lines; an
// unterminated literal ends at the end of its line.
func (t *tokenizer) scanString(quote byte) {
	start := t.pos
	t.pos++
	for t.pos < len(t.content) {
		switch t.content[t.pos] {
		case '\\':
			t.pos += 2
			if t.pos > len(t.content) {
				t.pos = len(t.content)
			}
			continue
		case quote:
			t.pos++
			t.emit(grammar.TokString, start)
			return
		case '\n', '\r':
			t.errorAt(start, "unterminated string literal")
			t.emit(grammar.TokString, start)
			return
		}
		t.pos++
	}
	t.errorAt(start, "unterminated string literal")
	t.emit(grammar.TokString, start)
}

// scanBracket scans a char set or an argument block. Argument blocks follow
// a name directly (r[int x]) or one of returns/locals/throws, and may nest.
func (t *tokenizer) scanBracket() {
	start := t.pos
	nested := t.bracketNests()
	depth := 0

	for t.pos < len(t.content) {
		switch t.content[t.pos] {
		case '\\':
			t.pos += 2
			if t.pos > len(t.content) {
				t.pos = len(t.content)
			}
			continue
		case '[':
			if nested || depth == 0 {
				depth++
			}
		case ']':
			depth--
			if depth == 0 {
				t.pos++
				t.emit(grammar.TokBracket, start)
				return
			}
		}
		t.pos++
	}

	t.errorAt(start, "unterminated bracket block")
	t.emit(grammar.TokBracket, start)
}

func (t *tokenizer) bracketNests() bool {
	if t.lastSignificant < 0 {
		return false
	}
	prev := t.tokens[t.lastSignificant]
	if prev.Kind != grammar.TokIdentifier {
		return false
	}
	switch prev.Text {
	case "returns", "locals", "throws":
		return true
	}
	return prev.End == t.pos
}

// scanAction scans a brace block with nested braces, skipping over string
// literals and comments inside it.
func (t *tokenizer) scanAction() {
	start := t.pos
	depth := 0

	for t.pos < len(t.content) {
		c := t.content[t.pos]
		switch {
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				t.pos++
				t.emit(grammar.TokAction, start)
				return
			}
		case c == '\'' || c == '"':
			t.skipEmbeddedString(c)
			continue
		case c == '/' && t.peekByte(1) == '/':
			t.consumeWhile(func(b byte) bool { return b != '\n' })
			continue
		case c == '/' && t.peekByte(1) == '*':
			end := bytes.Index(t.content[t.pos+2:], []byte("*/"))
			if end < 0 {
				t.pos = len(t.content)
			} else {
				t.pos += 2 + end + 2
			}
			continue
		}
		t.pos++
	}

	t.errorAt(start, "unterminated action block")
	t.emit(grammar.TokAction, start)
}

// skipEmbeddedString skips a string inside target-language code. The string
// ends at the closing quote or the end of the line.
func (t *tokenizer) skipEmbeddedString(quote byte) {
	t.pos++
	for t.pos < len(t.content) {
		switch t.content[t.pos] {
		case '\\':
			t.pos += 2
			continue
		case quote:
			t.pos++
			return
		case '\n':
			return
		}
		t.pos++
	}
	if t.pos > len(t.content) {
		t.pos = len(t.content)
	}
}

func (t *tokenizer) scanIdentifier() {
	start := t.pos
	for t.pos < len(t.content) {
		c := t.content[t.pos]
		if c < utf8.RuneSelf {
			if !isIdentPart(c) {
				break
			}
			t.pos++
			continue
		}
		r, size := utf8.DecodeRune(t.content[t.pos:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		t.pos += size
	}
	t.emit(grammar.TokIdentifier, start)
}

// twoCharPuncts are matched before single-character punctuation.
//
//nolint:gochecknoglobals // Read-only lookup table.
var twoCharPuncts = []string{"->", "+=", "..", "::"}

const singleCharPuncts = ":;|()?*+=~.#,<>@!^"

func (t *tokenizer) scanPunct() {
	start := t.pos
	rest := t.content[t.pos:]

	for _, p := range twoCharPuncts {
		if bytes.HasPrefix(rest, []byte(p)) {
			t.pos += len(p)
			t.emit(grammar.TokPunct, start)
			return
		}
	}

	if bytes.IndexByte([]byte(singleCharPuncts), rest[0]) >= 0 {
		t.pos++
		t.emit(grammar.TokPunct, start)
		return
	}

	_, size := utf8.DecodeRune(rest)
	t.pos += size
	t.emit(grammar.TokOther, start)
}

// letterAt reports whether a multi-byte letter starts at the current position.
func (t *tokenizer) letterAt() bool {
	r, _ := utf8.DecodeRune(t.content[t.pos:])
	return unicode.IsLetter(r)
}

func isIdentPart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
