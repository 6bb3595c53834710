package options

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/yaklabco/g4fmt/pkg/source"
)

// Marker starts the body of a directive comment.
const Marker = "$antlr-format"

// Command is a directive command that is not an option assignment.
type Command string

// Directive commands.
const (
	// CommandOff starts a region that is passed through unformatted.
	CommandOff Command = "off"

	// CommandOn ends a region started by CommandOff.
	CommandOn Command = "on"

	// CommandReset returns all options to the caller's base options.
	CommandReset Command = "reset"
)

// Setting is one item of a directive: either a command or an assignment.
// A nil Value marks a bare option name.
type Setting struct {
	Command Command
	Key     string
	Value   any
}

// Directive is a parsed directive comment.
type Directive struct {
	Settings []Setting
}

// directiveAST is the participle grammar of a directive body:
//
//	$antlr-format item ( ","? item )* ","?
//	item  := off | on | reset | name ( ( "=" | ":" )? value )?
//	value := number | string | word
//
// A word directly after a name is its value unless another value follows
// it, so "alignLabels alignColons hanging" reads as a bare name followed by
// an assignment while "useTab off" assigns off to useTab.
type directiveAST struct {
	Items []*directiveItem `Marker ( @@ ( ","? @@ )* )? ","?`
}

type directiveItem struct {
	Command string  `  @("off" | "on" | "reset")`
	Key     string  `| @Ident`
	Value   *string `  ( ("=" | ":") @(Number | String | Ident | Other) | @(Number | String | Other) | (?! Ident (Number | String | Ident | Other)) @Ident )?`
}

//nolint:gochecknoglobals // Compiled once; participle parsers are safe for concurrent use.
var (
	directiveLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Marker", Pattern: `\$antlr-format`},
		{Name: "String", Pattern: `"(?:\\.|[^"\\])*"|'(?:\\.|[^'\\])*'`},
		{Name: "Number", Pattern: `[-+]?\d+(?:\.\d+)?`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
		{Name: "Punct", Pattern: `[=:,]`},
		{Name: "Whitespace", Pattern: `\s+`},
		{Name: "Other", Pattern: `[^\s=:,]+`},
	})

	directiveParser = participle.MustBuild[directiveAST](
		participle.Lexer(directiveLexer),
		participle.Elide("Whitespace"),
		participle.CaseInsensitive("Ident"),
		participle.UseLookahead(2),
	)
)

// ErrMalformedDirective is returned for directive comments that do not
// follow the directive syntax.
var ErrMalformedDirective = errors.New("malformed directive")

// ParseDirective parses the text of a directive comment, including its
// comment delimiters.
func ParseDirective(comment string) (*Directive, error) {
	body := directiveBody(comment)

	ast, err := directiveParser.ParseString("", body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDirective, err)
	}

	directive := &Directive{Settings: make([]Setting, 0, len(ast.Items))}
	for _, item := range ast.Items {
		if item.Command != "" {
			directive.Settings = append(directive.Settings, Setting{Command: Command(strings.ToLower(item.Command))})
			continue
		}
		setting := Setting{Key: item.Key}
		if item.Value != nil {
			setting.Value = unquote(*item.Value)
		}
		directive.Settings = append(directive.Settings, setting)
	}
	return directive, nil
}

func unquote(value string) string {
	if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') && value[len(value)-1] == value[0] {
		return value[1 : len(value)-1]
	}
	return value
}

// directiveBody strips comment delimiters.
func directiveBody(comment string) string {
	switch {
	case strings.HasPrefix(comment, "//"):
		comment = comment[2:]
	case strings.HasPrefix(comment, "/*"):
		comment = strings.TrimSuffix(comment[2:], "*/")
		comment = strings.Trim(comment, "*")
	}
	return strings.TrimSpace(comment)
}

// UnknownOptionWarning reports an option key or value that was ignored.
type UnknownOptionWarning struct {
	Key   string
	Value string

	// Position is where the directive starts; zero for caller options.
	Position source.Position

	Err error
}

func (w *UnknownOptionWarning) Error() string {
	msg := w.Err.Error()
	if w.Position.IsValid() {
		return fmt.Sprintf("%d:%d: %s", w.Position.Line, w.Position.Column, msg)
	}
	return msg
}

// Unwrap exposes ErrUnknownOption, ErrInvalidValue or ErrMalformedDirective.
func (w *UnknownOptionWarning) Unwrap() error {
	return w.Err
}
