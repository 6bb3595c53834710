// Package parser turns grammar source into a lossless grammar.Document.
//
// Parsing never fails as a whole: malformed tokens are recovered by the
// tokenizer, and a structural error ends the parse with an opaque unit
// holding the unparsed remainder.
package parser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yaklabco/g4fmt/pkg/grammar"
	"github.com/yaklabco/g4fmt/pkg/source"
)

// Parse builds a Document from content. Recovered lexical and structural
// errors are recorded in Document.Errors.
func Parse(path string, content []byte) *grammar.Document {
	tokens, lexErrs := Tokenize(content)

	doc := &grammar.Document{
		Path:    path,
		Content: content,
		Lines:   source.NewLineIndex(content),
		Tokens:  tokens,
		Errors:  lexErrs,
	}

	p := &parser{doc: doc, toks: tokens}
	p.parseDocument()

	return doc
}

type parser struct {
	doc  *grammar.Document
	toks []grammar.Token
	pos  int

	// lastEnd is the end offset of the last consumed significant token.
	lastEnd int
}

func (p *parser) parseDocument() {
	for {
		leadingStart := p.toks[p.pos].Start
		p.skipTrivia()
		tok := p.cur()

		if tok.Kind == grammar.TokEOF {
			p.doc.Trailing = source.Span{Start: leadingStart, End: tok.Start}
			return
		}

		startPos := p.pos
		unit, err := p.parseUnit()
		if err != nil {
			p.doc.Errors = append(p.doc.Errors, err)
			p.pos = startPos
			p.appendOpaque(leadingStart)
			return
		}

		unit.Leading = source.Span{Start: leadingStart, End: tok.Start}
		unit.Span = source.Span{Start: tok.Start, End: p.lastEnd}
		p.doc.Units = append(p.doc.Units, unit)
	}
}

// appendOpaque turns everything from the current token up to the last
// significant token into one opaque unit.
func (p *parser) appendOpaque(leadingStart int) {
	start := p.cur().Start
	end := start
	for i := p.pos; i < len(p.toks); i++ {
		if !p.toks[i].Kind.IsTrivia() && p.toks[i].Kind != grammar.TokEOF {
			end = p.toks[i].End
		}
	}
	eof := p.toks[len(p.toks)-1]

	p.doc.Units = append(p.doc.Units, &grammar.Unit{
		Kind:    grammar.UnitOpaque,
		Leading: source.Span{Start: leadingStart, End: start},
		Span:    source.Span{Start: start, End: end},
	})
	p.doc.Trailing = source.Span{Start: end, End: eof.Start}
	p.pos = len(p.toks) - 1
}

func (p *parser) cur() grammar.Token {
	return p.toks[p.pos]
}

// advance consumes the current token and returns it.
func (p *parser) advance() grammar.Token {
	tok := p.toks[p.pos]
	if tok.Kind != grammar.TokEOF {
		p.pos++
	}
	if !tok.Kind.IsTrivia() {
		p.lastEnd = tok.End
	}
	return tok
}

// skipTrivia skips whitespace and newlines and returns the number of
// newlines crossed.
func (p *parser) skipTrivia() int {
	newlines := 0
	for p.toks[p.pos].Kind.IsTrivia() {
		if p.toks[p.pos].Kind == grammar.TokNewline {
			newlines++
		}
		p.pos++
	}
	return newlines
}

// peek returns the next significant token without consuming anything.
func (p *parser) peek() grammar.Token {
	i := p.pos
	for p.toks[i].Kind.IsTrivia() {
		i++
	}
	return p.toks[i]
}

// adjacent reports whether the current token directly follows the previous
// significant token, with no trivia in between.
func (p *parser) adjacent() bool {
	return p.cur().Start == p.lastEnd
}

func (p *parser) errorf(tok grammar.Token, format string, args ...any) error {
	return &StructuralError{
		Position: source.Position{Line: tok.Line, Column: tok.Column},
		Message:  fmt.Sprintf(format, args...),
	}
}

func (p *parser) parseUnit() (*grammar.Unit, error) {
	tok := p.cur()

	switch {
	case tok.Kind == grammar.TokDirective:
		p.advance()
		return &grammar.Unit{Kind: grammar.UnitDirective, Comment: commentOf(tok)}, nil
	case tok.Kind == grammar.TokLineComment || tok.Kind == grammar.TokBlockComment:
		p.advance()
		return &grammar.Unit{Kind: grammar.UnitComment, Comment: commentOf(tok)}, nil
	case tok.Is("@"):
		stmt, err := p.parseNamedAction()
		if err != nil {
			return nil, err
		}
		return &grammar.Unit{Kind: grammar.UnitStatement, Statement: stmt}, nil
	case tok.Kind == grammar.TokIdentifier:
		if p.startsStatement() {
			stmt, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			return &grammar.Unit{Kind: grammar.UnitStatement, Statement: stmt}, nil
		}
		rule, err := p.parseRule()
		if err != nil {
			return nil, err
		}
		return &grammar.Unit{Kind: grammar.UnitRule, Rule: rule}, nil
	default:
		return nil, p.errorf(tok, "unexpected %q at top level", tok.Text)
	}
}

func commentOf(tok grammar.Token) *grammar.Comment {
	return &grammar.Comment{
		Text:  tok.Text,
		Span:  source.Span{Start: tok.Start, End: tok.End},
		Block: strings.HasPrefix(tok.Text, "/*"),
	}
}

// startsStatement reports whether the identifier at the cursor opens a
// non-rule construct.
func (p *parser) startsStatement() bool {
	tok := p.cur()
	switch tok.Text {
	case "grammar", "import", "mode":
		return true
	case "lexer", "parser":
		return p.peekAfter().IsWord("grammar")
	case "options", "tokens", "channels":
		return p.peekAfter().Kind == grammar.TokAction
	}
	return false
}

// peekAfter returns the significant token following the current one.
func (p *parser) peekAfter() grammar.Token {
	i := p.pos + 1
	for i < len(p.toks) && p.toks[i].Kind.IsTrivia() {
		i++
	}
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

// parseStatement parses "grammar X;", "import A, B;", "mode M;" and
// "options {...}" style blocks.
func (p *parser) parseStatement() (*grammar.Statement, error) {
	first := p.advance()
	stmt := &grammar.Statement{Keyword: first.Text, Words: []string{first.Text}}

	if first.Text == "options" || first.Text == "tokens" || first.Text == "channels" {
		p.skipTrivia()
		stmt.Words = append(stmt.Words, p.advance().Text)
		stmt.Trailing = p.sameLineComment()
		return stmt, nil
	}

	glue := false
	for {
		p.skipTrivia()
		tok := p.cur()
		switch {
		case tok.Kind == grammar.TokEOF:
			return nil, p.errorf(tok, "missing ';' after %q", first.Text)
		case tok.Kind.IsComment():
			p.advance()
			stmt.Verbatim = true
		case tok.Is(";"):
			p.advance()
			stmt.Words[len(stmt.Words)-1] += ";"
			stmt.Trailing = p.sameLineComment()
			return stmt, nil
		case tok.Is(","):
			p.advance()
			stmt.Words[len(stmt.Words)-1] += ","
		case tok.Is(".") || tok.Is("::"):
			p.advance()
			stmt.Words[len(stmt.Words)-1] += tok.Text
			glue = true
		case glue:
			p.advance()
			stmt.Words[len(stmt.Words)-1] += tok.Text
			glue = false
		default:
			p.advance()
			stmt.Words = append(stmt.Words, tok.Text)
		}
	}
}

// parseNamedAction parses "@header {...}" and "@parser::members {...}".
func (p *parser) parseNamedAction() (*grammar.Statement, error) {
	var name strings.Builder
	for {
		p.skipTrivia()
		tok := p.cur()
		switch {
		case tok.Kind == grammar.TokAction:
			p.advance()
			stmt := &grammar.Statement{
				Keyword: name.String(),
				Words:   []string{name.String(), tok.Text},
			}
			stmt.Trailing = p.sameLineComment()
			return stmt, nil
		case tok.Is("@") || tok.Is("::") || tok.Kind == grammar.TokIdentifier:
			p.advance()
			name.WriteString(tok.Text)
		default:
			return nil, p.errorf(tok, "malformed named action")
		}
	}
}

// sameLineComment consumes a non-directive comment that follows on the same
// line, if any.
func (p *parser) sameLineComment() *grammar.Comment {
	i := p.pos
	for p.toks[i].Kind == grammar.TokWhitespace {
		i++
	}
	tok := p.toks[i]
	if tok.Kind != grammar.TokLineComment && tok.Kind != grammar.TokBlockComment {
		return nil
	}
	if strings.Contains(tok.Text, "\n") {
		return nil
	}
	p.pos = i
	p.advance()
	return commentOf(tok)
}

//nolint:gochecknoglobals // Read-only lookup table.
var ruleModifiers = map[string]bool{
	"fragment":  true,
	"public":    true,
	"private":   true,
	"protected": true,
}

func (p *parser) parseRule() (*grammar.Rule, error) {
	rule := &grammar.Rule{}
	start := p.cur()

	for ruleModifiers[p.cur().Text] && p.peekAfter().Kind == grammar.TokIdentifier {
		rule.Modifiers = append(rule.Modifiers, p.advance().Text)
		p.skipTrivia()
	}

	name := p.cur()
	if name.Kind != grammar.TokIdentifier {
		return nil, p.errorf(name, "expected rule name, found %q", name.Text)
	}
	p.advance()
	rule.Name = name.Text
	rule.Kind = ruleKindOf(rule.Name, rule.Modifiers)

	if err := p.parsePrelude(rule); err != nil {
		return nil, err
	}

	alts, err := p.parseAlternatives(rule, true)
	if err != nil {
		return nil, err
	}
	rule.Alternatives = alts

	semi := p.cur()
	if !semi.Is(";") {
		return nil, p.errorf(semi, "expected ';' to end rule %s, found %q", rule.Name, semi.Text)
	}
	p.advance()

	for {
		next := p.peek()
		if !next.IsWord("catch") && !next.IsWord("finally") {
			break
		}
		p.skipTrivia()
		clause, err := p.parseException()
		if err != nil {
			return nil, err
		}
		rule.Exceptions = append(rule.Exceptions, clause)
	}

	rule.Trailing = p.sameLineComment()
	rule.Span = source.Span{Start: start.Start, End: p.lastEnd}

	return rule, nil
}

func ruleKindOf(name string, modifiers []string) grammar.RuleKind {
	for _, m := range modifiers {
		if m == "fragment" {
			return grammar.FragmentLexerToken
		}
	}
	r, _ := utf8.DecodeRuneInString(name)
	if unicode.IsUpper(r) {
		return grammar.LexerToken
	}
	return grammar.ParserRule
}

// parsePrelude consumes everything between the rule name and ':'.
func (p *parser) parsePrelude(rule *grammar.Rule) error {
	for {
		p.skipTrivia()
		tok := p.cur()
		switch {
		case tok.Is(":"):
			p.advance()
			return nil
		case tok.Kind == grammar.TokEOF || tok.Is(";"):
			return p.errorf(tok, "missing ':' in rule %s", rule.Name)
		case tok.Kind.IsComment():
			rule.Verbatim = true
			p.advance()
		case tok.Kind == grammar.TokBracket && rule.Args == "" && len(rule.Prelude) == 0 && p.adjacent():
			p.advance()
			rule.Args = tok.Text
		case tok.Is(",") && len(rule.Prelude) > 0:
			p.advance()
			rule.Prelude[len(rule.Prelude)-1] += ","
		case tok.Is("@"):
			p.advance()
			next := p.cur()
			if next.Kind != grammar.TokIdentifier {
				return p.errorf(next, "malformed rule action in %s", rule.Name)
			}
			p.advance()
			rule.Prelude = append(rule.Prelude, "@"+next.Text)
		default:
			p.advance()
			rule.Prelude = append(rule.Prelude, tok.Text)
		}
	}
}

func (p *parser) parseException() (string, error) {
	words := []string{p.advance().Text}
	for {
		p.skipTrivia()
		tok := p.cur()
		switch tok.Kind {
		case grammar.TokBracket:
			p.advance()
			words = append(words, tok.Text)
		case grammar.TokAction:
			p.advance()
			words = append(words, tok.Text)
			return strings.Join(words, " "), nil
		default:
			return "", p.errorf(tok, "malformed %s clause", words[0])
		}
	}
}

// parseAlternatives parses |-separated alternatives up to (not including)
// ';' at the top level or ')' inside a block.
func (p *parser) parseAlternatives(rule *grammar.Rule, top bool) ([]*grammar.Alternative, error) {
	var alts []*grammar.Alternative
	var pending []*grammar.Comment

	for {
		alt, err := p.parseAlternative(rule, top, &pending)
		if err != nil {
			return nil, err
		}
		alts = append(alts, alt)

		tok := p.cur()
		switch {
		case tok.Is("|"):
			p.advance()
		case tok.Is(";"):
			if !top {
				return nil, p.errorf(tok, "unbalanced parenthesis in rule %s", rule.Name)
			}
			rule.EndComments = pending
			return alts, nil
		case tok.Is(")"):
			if top {
				return nil, p.errorf(tok, "unbalanced parenthesis in rule %s", rule.Name)
			}
			if len(pending) > 0 {
				rule.Verbatim = true
			}
			return alts, nil
		default:
			return nil, p.errorf(tok, "unexpected %q in rule %s", tok.Text, rule.Name)
		}
	}
}

// parseAlternative parses one alternative. Own-line comments seen before a
// '|' or ';' are collected in pending and become the next alternative's
// leading comments; comments anywhere else make the rule verbatim.
func (p *parser) parseAlternative(
	rule *grammar.Rule,
	top bool,
	pending *[]*grammar.Comment,
) (*grammar.Alternative, error) {
	alt := &grammar.Alternative{Leading: *pending}
	*pending = nil

	start := -1
	for {
		newlines := p.skipTrivia()
		tok := p.cur()

		if start < 0 && !tok.Kind.IsComment() && tok.Kind != grammar.TokDirective && !closesAlternative(tok) {
			start = tok.Start
		}

		switch {
		case tok.Kind == grammar.TokEOF:
			return nil, p.errorf(tok, "unexpected end of input in rule %s", rule.Name)
		case closesAlternative(tok):
			p.finishAlternative(alt, start)
			return alt, nil
		case tok.Kind == grammar.TokDirective:
			rule.Verbatim = true
			p.advance()
		case tok.Kind.IsComment():
			p.parseAltComment(rule, alt, top, newlines > 0, pending)
		case tok.Is("#"):
			breakPending(rule, pending)
			p.advance()
			p.skipTrivia()
			label := p.cur()
			if label.Kind != grammar.TokIdentifier {
				return nil, p.errorf(label, "expected label name in rule %s", rule.Name)
			}
			p.advance()
			alt.Label = label.Text
		case tok.Is("->"):
			breakPending(rule, pending)
			p.advance()
			if err := p.parseCommands(rule, alt); err != nil {
				return nil, err
			}
		default:
			if len(*pending) > 0 {
				if len(alt.Elements) == 0 && alt.Label == "" && len(alt.Commands) == 0 {
					alt.Leading = append(alt.Leading, *pending...)
				} else {
					// Own-line comment in the middle of an alternative.
					rule.Verbatim = true
				}
				*pending = nil
			}
			elem, err := p.parseElement(rule)
			if err != nil {
				return nil, err
			}
			alt.Elements = append(alt.Elements, elem)
		}
	}
}

func (p *parser) parseAltComment(
	rule *grammar.Rule,
	alt *grammar.Alternative,
	top, ownLine bool,
	pending *[]*grammar.Comment,
) {
	tok := p.advance()
	comment := commentOf(tok)
	closesAlt := closesAlternative(p.peek())
	multiline := strings.Contains(tok.Text, "\n")

	switch {
	case ownLine && top && !multiline:
		*pending = append(*pending, comment)
	case !ownLine && top && closesAlt && alt.Comment == nil && !multiline && p.nextOnNewLine():
		alt.Comment = comment
	case !ownLine && comment.Block && !multiline && !p.nextOnNewLine():
		alt.Elements = append(alt.Elements, &grammar.Element{
			Kind: grammar.ElemComment,
			Text: tok.Text,
			Span: comment.Span,
		})
	default:
		rule.Verbatim = true
	}
}

// breakPending drops own-line comments that sit inside an alternative and
// marks the rule verbatim instead.
func breakPending(rule *grammar.Rule, pending *[]*grammar.Comment) {
	if len(*pending) > 0 {
		rule.Verbatim = true
		*pending = nil
	}
}

func closesAlternative(tok grammar.Token) bool {
	return tok.Is("|") || tok.Is(";") || tok.Is(")")
}

// nextOnNewLine reports whether a newline separates the cursor from the
// next significant token.
func (p *parser) nextOnNewLine() bool {
	for i := p.pos; p.toks[i].Kind.IsTrivia(); i++ {
		if p.toks[i].Kind == grammar.TokNewline {
			return true
		}
	}
	return false
}

func (p *parser) finishAlternative(alt *grammar.Alternative, start int) {
	if start < 0 {
		start = p.cur().Start
		alt.Span = source.Span{Start: start, End: start}
	} else {
		alt.Span = source.Span{Start: start, End: p.lastEnd}
	}

	// A plain action closing a non-empty alternative is its trailing action.
	n := len(alt.Elements)
	if n > 1 {
		last := alt.Elements[n-1]
		if last.Kind == grammar.ElemAction && last.Suffix == "" && !strings.Contains(last.Text, "\n") {
			alt.Action = last.Text
			alt.Elements = alt.Elements[:n-1]
		}
	}
}

// parseCommands parses lexer commands after '->'.
func (p *parser) parseCommands(rule *grammar.Rule, alt *grammar.Alternative) error {
	for {
		p.skipTrivia()
		tok := p.cur()
		if tok.Kind != grammar.TokIdentifier {
			return p.errorf(tok, "expected lexer command in rule %s", rule.Name)
		}
		p.advance()
		command := tok.Text

		if p.peek().Is("(") {
			p.skipTrivia()
			args, err := p.collectParens(rule)
			if err != nil {
				return err
			}
			command += args
		}
		alt.Commands = append(alt.Commands, command)

		if !p.peek().Is(",") {
			return nil
		}
		p.skipTrivia()
		p.advance()
	}
}

// collectParens joins the tokens of a balanced (...) group without spaces.
func (p *parser) collectParens(rule *grammar.Rule) (string, error) {
	var text strings.Builder
	depth := 0
	for {
		p.skipTrivia()
		tok := p.cur()
		switch {
		case tok.Kind == grammar.TokEOF || tok.Is(";"):
			return "", p.errorf(tok, "unbalanced parenthesis in rule %s", rule.Name)
		case tok.Is("("):
			depth++
		case tok.Is(")"):
			depth--
		}
		p.advance()
		text.WriteString(tok.Text)
		if depth == 0 {
			return text.String(), nil
		}
	}
}

// parseElement parses one element: an optional label and '~', an atom, and
// optional element options and EBNF suffix.
func (p *parser) parseElement(rule *grammar.Rule) (*grammar.Element, error) {
	start := p.cur()
	elem := &grammar.Element{Kind: grammar.ElemTerm}

	if start.Kind == grammar.TokIdentifier {
		if op := p.peekAfter(); op.Is("=") || op.Is("+=") {
			p.advance()
			p.skipTrivia()
			p.advance()
			p.skipTrivia()
			elem.Label = start.Text
			elem.LabelOp = op.Text
		}
	}

	if p.cur().Is("~") {
		p.advance()
		p.skipTrivia()
		elem.Not = true
	}

	atom := p.cur()
	switch {
	case atom.Kind == grammar.TokIdentifier || atom.Kind == grammar.TokString ||
		atom.Kind == grammar.TokBracket || atom.Is("."):
		p.advance()
		elem.Text = atom.Text
		if p.peek().Is("..") {
			p.skipTrivia()
			p.advance()
			p.skipTrivia()
			end := p.cur()
			if end.Kind != grammar.TokString {
				return nil, p.errorf(end, "malformed range in rule %s", rule.Name)
			}
			p.advance()
			elem.Text += ".." + end.Text
		}
	case atom.Is("("):
		p.advance()
		block, err := p.parseAlternatives(rule, false)
		if err != nil {
			return nil, err
		}
		p.advance() // ')'
		elem.Kind = grammar.ElemBlock
		elem.Block = block
	case atom.Is("<") && elem.Label == "" && !elem.Not:
		options, err := p.collectAngles(rule)
		if err != nil {
			return nil, err
		}
		elem.Text = options
		elem.Span = source.Span{Start: start.Start, End: p.lastEnd}
		return elem, nil
	case atom.Kind == grammar.TokAction:
		p.advance()
		elem.Kind = grammar.ElemAction
		elem.Text = atom.Text
		if p.cur().Is("?") {
			p.advance()
			elem.Suffix = "?"
		}
		elem.Span = source.Span{Start: start.Start, End: p.lastEnd}
		return elem, nil
	default:
		return nil, p.errorf(atom, "unexpected %q in rule %s", atom.Text, rule.Name)
	}

	if p.peek().Is("<") {
		p.skipTrivia()
		options, err := p.collectAngles(rule)
		if err != nil {
			return nil, err
		}
		elem.Options = options
	}

	if next := p.peek(); next.Is("?") || next.Is("*") || next.Is("+") {
		p.skipTrivia()
		elem.Suffix = p.advance().Text
		if p.cur().Is("?") {
			elem.Suffix += p.advance().Text
		}
	}

	elem.Span = source.Span{Start: start.Start, End: p.lastEnd}
	return elem, nil
}

// collectAngles joins the tokens of an element option list <...>.
func (p *parser) collectAngles(rule *grammar.Rule) (string, error) {
	var text strings.Builder
	for {
		p.skipTrivia()
		tok := p.cur()
		if tok.Kind == grammar.TokEOF || tok.Is(";") || tok.Is("|") {
			return "", p.errorf(tok, "unterminated element options in rule %s", rule.Name)
		}
		p.advance()
		text.WriteString(tok.Text)
		if tok.Is(">") {
			return text.String(), nil
		}
	}
}
