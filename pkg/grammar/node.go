package grammar

import "github.com/yaklabco/g4fmt/pkg/source"

// UnitKind classifies a top-level item of a grammar document.
type UnitKind uint8

// Top-level unit kinds.
const (
	// UnitRule is a parser rule or lexer token definition.
	UnitRule UnitKind = iota

	// UnitComment is a free-standing comment.
	UnitComment

	// UnitDirective is a comment carrying formatting settings.
	UnitDirective

	// UnitStatement is a grammar header, import, mode, named action or
	// options/tokens/channels block.
	UnitStatement

	// UnitOpaque is the unparsed remainder after a structural error.
	UnitOpaque
)

var unitKindNames = [...]string{
	UnitRule:      "Rule",
	UnitComment:   "Comment",
	UnitDirective: "Directive",
	UnitStatement: "Statement",
	UnitOpaque:    "Opaque",
}

func (k UnitKind) String() string {
	if int(k) < len(unitKindNames) {
		return unitKindNames[k]
	}
	return "UnitKind(?)"
}

// Unit is one top-level item. Exactly one of Rule, Comment or Statement is
// set, according to Kind; opaque units carry only their span.
type Unit struct {
	Kind UnitKind

	// Leading is the whitespace between the previous unit (or start of
	// input) and this unit.
	Leading source.Span

	// Span is the unit's own text.
	Span source.Span

	Rule      *Rule
	Comment   *Comment
	Statement *Statement
}

// BlankLinesBefore returns the number of empty lines in the unit's leading
// whitespace, given the full content.
func (u *Unit) BlankLinesBefore(content []byte) int {
	newlines := 0
	for _, c := range u.Leading.Text(content) {
		if c == '\n' {
			newlines++
		}
	}
	if newlines == 0 {
		return 0
	}
	return newlines - 1
}

// RuleKind distinguishes parser rules from lexer tokens.
type RuleKind uint8

// Rule kinds.
const (
	ParserRule RuleKind = iota
	LexerToken
	FragmentLexerToken
)

var ruleKindNames = [...]string{
	ParserRule:         "parser rule",
	LexerToken:         "lexer token",
	FragmentLexerToken: "fragment lexer token",
}

func (k RuleKind) String() string {
	if int(k) < len(ruleKindNames) {
		return ruleKindNames[k]
	}
	return "RuleKind(?)"
}

// IsLexer reports whether the rule defines a token or fragment.
func (k RuleKind) IsLexer() bool {
	return k == LexerToken || k == FragmentLexerToken
}

// Comment is a comment kept verbatim.
type Comment struct {
	Text string
	Span source.Span

	// Block is true for /* */ comments.
	Block bool
}

// Statement is a top-level construct that is not a rule, re-emitted as its
// words joined by single spaces.
type Statement struct {
	// Keyword is the first word ("grammar", "import", "mode", "options", "@header", ...).
	Keyword string

	// Words holds the statement's significant token texts in order.
	Words []string

	// Trailing is a comment on the same line after the statement.
	Trailing *Comment

	// Verbatim marks statements with embedded comments; they are re-emitted
	// unchanged.
	Verbatim bool
}

// Rule is a named grammar production.
type Rule struct {
	Name string
	Kind RuleKind

	// Args is an argument block attached to the name, as in "expr[int p]".
	Args string

	// Modifiers precede the name ("fragment", "public", ...).
	Modifiers []string

	// Prelude holds the pieces between name and colon (arguments, returns,
	// locals, throws, options and named actions), verbatim.
	Prelude []string

	Alternatives []*Alternative

	// EndComments are own-line comments between the last alternative and ';'.
	EndComments []*Comment

	// Trailing is a comment on the same line after ';'.
	Trailing *Comment

	// Exceptions holds catch/finally clauses after ';', verbatim.
	Exceptions []string

	// Verbatim marks rules whose comments cannot be kept adjacent by the
	// layout; they are re-emitted unchanged.
	Verbatim bool

	Span source.Span
}

// HasLabels reports whether any top-level alternative carries a # label.
func (r *Rule) HasLabels() bool {
	for _, alt := range r.Alternatives {
		if alt.Label != "" {
			return true
		}
	}
	return false
}

// HasCommands reports whether any alternative carries lexer commands.
func (r *Rule) HasCommands() bool {
	for _, alt := range r.Alternatives {
		if len(alt.Commands) > 0 {
			return true
		}
	}
	return false
}

// HasTrailingComments reports whether the rule or one of its alternatives
// ends a line with a comment.
func (r *Rule) HasTrailingComments() bool {
	if r.Trailing != nil {
		return true
	}
	for _, alt := range r.Alternatives {
		if alt.Comment != nil {
			return true
		}
	}
	return false
}

// HasInternalComments reports whether comments must stay on lines of their
// own inside the rule.
func (r *Rule) HasInternalComments() bool {
	if len(r.EndComments) > 0 {
		return true
	}
	for _, alt := range r.Alternatives {
		if len(alt.Leading) > 0 {
			return true
		}
	}
	return false
}

// Alternative is one |-separated branch.
type Alternative struct {
	Elements []*Element

	// Action is a trailing action block (last element of the alternative).
	Action string

	// Label is the alternative label without '#'.
	Label string

	// Commands are lexer commands after '->', e.g. "skip", "channel(HIDDEN)".
	Commands []string

	// Comment ends the alternative's line.
	Comment *Comment

	// Leading holds own-line comments before the alternative.
	Leading []*Comment

	Span source.Span
}

// ElementKind classifies alternative elements.
type ElementKind uint8

// Element kinds.
const (
	// ElemTerm is a rule/token reference, literal, char set, wildcard or range.
	ElemTerm ElementKind = iota

	// ElemBlock is a parenthesized sub-block.
	ElemBlock

	// ElemAction is an action or semantic predicate.
	ElemAction

	// ElemComment is an inline block comment.
	ElemComment
)

// Element is one item of an alternative.
type Element struct {
	Kind ElementKind

	// Label and LabelOp hold an element label such as "x" and "=" or "+=".
	Label   string
	LabelOp string

	// Not is set for a '~' prefix.
	Not bool

	// Text is the term, action or comment text. Ranges keep both ends
	// ("'a'..'z'").
	Text string

	// Block holds the alternatives of an ElemBlock.
	Block []*Alternative

	// Options holds element options such as "<assoc=right>".
	Options string

	// Suffix holds an EBNF suffix: ?, *, +, optionally followed by ?.
	Suffix string

	Span source.Span
}
