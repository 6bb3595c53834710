// Package options defines the formatting options, their defaults, and how
// caller overrides and in-source directives combine into the options in
// effect at each point of a grammar.
package options

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ColonAlignment controls where a multi-line rule puts its colon.
type ColonAlignment string

// Colon alignment styles.
const (
	// ColonNone keeps the colon after the name with a single space.
	ColonNone ColonAlignment = "none"

	// ColonTrailing keeps the colon after the name, padded so colons of
	// neighbouring rules line up.
	ColonTrailing ColonAlignment = "trailing"

	// ColonHanging puts the colon on the line after the name, indented.
	ColonHanging ColonAlignment = "hanging"
)

// SemicolonAlignment controls where a multi-line rule puts its semicolon.
type SemicolonAlignment string

// Semicolon alignment styles.
const (
	SemicolonOwnLine SemicolonAlignment = "ownLine"
	SemicolonHanging SemicolonAlignment = "hanging"
)

// Options is a snapshot of all formatting options. It is a value type;
// copies never share state.
type Options struct {
	IndentWidth                    int                `json:"indentWidth"                    yaml:"indentWidth"`
	UseTab                         bool               `json:"useTab"                         yaml:"useTab"`
	TabWidth                       int                `json:"tabWidth"                       yaml:"tabWidth"`
	ContinuationIndentWidth        int                `json:"continuationIndentWidth"        yaml:"continuationIndentWidth"`
	ColumnLimit                    int                `json:"columnLimit"                    yaml:"columnLimit"`
	MaxEmptyLinesToKeep            int                `json:"maxEmptyLinesToKeep"            yaml:"maxEmptyLinesToKeep"`
	MinEmptyLines                  int                `json:"minEmptyLines"                  yaml:"minEmptyLines"`
	AllowShortRulesOnASingleLine   bool               `json:"allowShortRulesOnASingleLine"   yaml:"allowShortRulesOnASingleLine"`
	AlignColons                    ColonAlignment     `json:"alignColons"                    yaml:"alignColons"`
	AlignSemicolons                SemicolonAlignment `json:"alignSemicolons"                yaml:"alignSemicolons"`
	AlignLabels                    bool               `json:"alignLabels"                    yaml:"alignLabels"`
	AlignLexerCommands             bool               `json:"alignLexerCommands"             yaml:"alignLexerCommands"`
	AlignActions                   bool               `json:"alignActions"                   yaml:"alignActions"`
	AlignTrailingComments          bool               `json:"alignTrailingComments"          yaml:"alignTrailingComments"`
	GroupedAlignments              bool               `json:"groupedAlignments"              yaml:"groupedAlignments"`
	SpaceBeforeAssignmentOperators bool               `json:"spaceBeforeAssignmentOperators" yaml:"spaceBeforeAssignmentOperators"`
}

// Default returns the built-in defaults.
func Default() Options {
	return Options{
		IndentWidth:                  4,
		TabWidth:                     4,
		ContinuationIndentWidth:      4,
		ColumnLimit:                  100,
		MaxEmptyLinesToKeep:          1,
		AllowShortRulesOnASingleLine: true,
		AlignColons:                  ColonHanging,
		AlignSemicolons:              SemicolonOwnLine,
		AlignLabels:                  true,
		GroupedAlignments:            true,
	}
}

// Sentinel errors for option validation.
var (
	// ErrUnknownOption is returned for an unrecognized option key.
	ErrUnknownOption = errors.New("unknown option")

	// ErrInvalidValue is returned when a value does not fit the option.
	ErrInvalidValue = errors.New("invalid option value")
)

// Kind is the value type of an option.
type Kind uint8

// Option value kinds.
const (
	KindBool Kind = iota
	KindInt
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Descriptor documents one option and knows how to read and write it.
type Descriptor struct {
	Key         string
	Kind        Kind
	Description string

	// Min is the smallest accepted value of an int option.
	Min int

	// Values lists the accepted values of an enum option.
	Values []string

	get func(Options) any
	set func(*Options, any)
}

// Default returns the option's built-in default value.
func (d Descriptor) Default() any {
	return d.get(Default())
}

//nolint:gochecknoglobals // Read-only option table.
var descriptors = []Descriptor{
	intOption("indentWidth", 1, "Spaces per indentation level.",
		func(o *Options) *int { return &o.IndentWidth }),
	boolOption("useTab", "Indent with tabs instead of spaces.",
		func(o *Options) *bool { return &o.UseTab }),
	intOption("tabWidth", 1, "Columns a tab advances when indenting with tabs.",
		func(o *Options) *int { return &o.TabWidth }),
	intOption("continuationIndentWidth", 0, "Extra indentation of wrapped alternative lines.",
		func(o *Options) *int { return &o.ContinuationIndentWidth }),
	intOption("columnLimit", 10, "Maximum line length before alternatives wrap.",
		func(o *Options) *int { return &o.ColumnLimit }),
	intOption("maxEmptyLinesToKeep", 0, "Maximum consecutive empty lines kept between units.",
		func(o *Options) *int { return &o.MaxEmptyLinesToKeep }),
	intOption("minEmptyLines", 0, "Minimum empty lines between two rules.",
		func(o *Options) *int { return &o.MinEmptyLines }),
	boolOption("allowShortRulesOnASingleLine", "Render single-alternative rules on one line when they fit.",
		func(o *Options) *bool { return &o.AllowShortRulesOnASingleLine }),
	{
		Key:         "alignColons",
		Kind:        KindEnum,
		Description: "Colon placement of multi-line rules.",
		Values:      []string{string(ColonNone), string(ColonTrailing), string(ColonHanging)},
		get:         func(o Options) any { return string(o.AlignColons) },
		set:         func(o *Options, v any) { o.AlignColons = ColonAlignment(v.(string)) },
	},
	{
		Key:         "alignSemicolons",
		Kind:        KindEnum,
		Description: "Semicolon placement of multi-line rules.",
		Values:      []string{string(SemicolonOwnLine), string(SemicolonHanging)},
		get:         func(o Options) any { return string(o.AlignSemicolons) },
		set:         func(o *Options, v any) { o.AlignSemicolons = SemicolonAlignment(v.(string)) },
	},
	boolOption("alignLabels", "Align alternative labels of consecutive rules.",
		func(o *Options) *bool { return &o.AlignLabels }),
	boolOption("alignLexerCommands", "Align lexer commands of consecutive rules.",
		func(o *Options) *bool { return &o.AlignLexerCommands }),
	boolOption("alignActions", "Align trailing actions of consecutive rules.",
		func(o *Options) *bool { return &o.AlignActions }),
	boolOption("alignTrailingComments", "Align trailing comments of consecutive rules.",
		func(o *Options) *bool { return &o.AlignTrailingComments }),
	boolOption("groupedAlignments", "End alignment groups at empty lines.",
		func(o *Options) *bool { return &o.GroupedAlignments }),
	boolOption("spaceBeforeAssignmentOperators", "Surround element label operators with spaces.",
		func(o *Options) *bool { return &o.SpaceBeforeAssignmentOperators }),
}

func intOption(key string, minValue int, doc string, field func(*Options) *int) Descriptor {
	return Descriptor{
		Key:         key,
		Kind:        KindInt,
		Description: doc,
		Min:         minValue,
		get:         func(o Options) any { return *field(&o) },
		set:         func(o *Options, v any) { *field(o) = v.(int) },
	}
}

func boolOption(key, doc string, field func(*Options) *bool) Descriptor {
	return Descriptor{
		Key:         key,
		Kind:        KindBool,
		Description: doc,
		get:         func(o Options) any { return *field(&o) },
		set:         func(o *Options, v any) { *field(o) = v.(bool) },
	}
}

// Descriptors returns all recognized options in display order.
func Descriptors() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// Lookup finds an option by key, ignoring case.
func Lookup(key string) (Descriptor, bool) {
	for _, d := range descriptors {
		if strings.EqualFold(d.Key, key) {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Value returns the current value of the option named key.
func (o Options) Value(key string) (any, bool) {
	d, ok := Lookup(key)
	if !ok {
		return nil, false
	}
	return d.get(o), true
}

// Map returns all options keyed by name.
func (o Options) Map() map[string]any {
	out := make(map[string]any, len(descriptors))
	for _, d := range descriptors {
		out[d.Key] = d.get(o)
	}
	return out
}

// Set assigns one option. A nil value is a bare flag and means true for
// boolean options. Strings are parsed according to the option's kind.
func (o *Options) Set(key string, value any) error {
	d, ok := Lookup(key)
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownOption, key)
	}

	converted, err := convert(d, value)
	if err != nil {
		return fmt.Errorf("%s: %w", d.Key, err)
	}
	d.set(o, converted)
	return nil
}

func convert(d Descriptor, value any) (any, error) {
	switch d.Kind {
	case KindBool:
		return convertBool(value)
	case KindInt:
		n, err := convertInt(value)
		if err != nil {
			return nil, err
		}
		if n < d.Min {
			return nil, fmt.Errorf("%w: %d is below the minimum %d", ErrInvalidValue, n, d.Min)
		}
		return n, nil
	case KindEnum:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %v is not one of %s", ErrInvalidValue, value, strings.Join(d.Values, ", "))
		}
		for _, allowed := range d.Values {
			if strings.EqualFold(allowed, s) {
				return allowed, nil
			}
		}
		return nil, fmt.Errorf("%w: %q is not one of %s", ErrInvalidValue, s, strings.Join(d.Values, ", "))
	default:
		return nil, fmt.Errorf("%w: unsupported kind %s", ErrInvalidValue, d.Kind)
	}
}

func convertBool(value any) (bool, error) {
	switch v := value.(type) {
	case nil:
		return true, nil
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "on":
			return true, nil
		case "off":
			return false, nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, v)
		}
		return b, nil
	default:
		return false, fmt.Errorf("%w: %v is not a boolean", ErrInvalidValue, value)
	}
}

func convertInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		if v > math.MaxInt32 {
			return 0, fmt.Errorf("%w: %d is too large", ErrInvalidValue, v)
		}
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%w: %v is not an integer", ErrInvalidValue, v)
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, v)
		}
		return n, nil
	case nil:
		return 0, fmt.Errorf("%w: missing value", ErrInvalidValue)
	default:
		return 0, fmt.Errorf("%w: %v is not an integer", ErrInvalidValue, value)
	}
}

// Delta is a partial set of options; only the keys present override the
// options they are applied to.
type Delta map[string]any

// Keys returns the delta's keys in sorted order.
func (d Delta) Keys() []string {
	keys := make([]string, 0, len(d))
	for key := range d {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Apply returns base with the delta's keys applied in sorted key order.
// Unknown keys and invalid values are skipped and reported as warnings.
func Apply(base Options, delta Delta) (Options, []error) {
	var warnings []error
	for _, key := range delta.Keys() {
		value := delta[key]
		if err := base.Set(key, value); err != nil {
			warnings = append(warnings, &UnknownOptionWarning{
				Key:   key,
				Value: fmt.Sprint(value),
				Err:   err,
			})
		}
	}
	return base, warnings
}

// ParseAssignment splits "key=value" as given on a command line. A missing
// "=value" yields a nil value, which sets boolean options to true.
func ParseAssignment(s string) (string, any) {
	key, value, found := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !found {
		return key, nil
	}
	return key, strings.TrimSpace(value)
}
