package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/yaklabco/g4fmt/internal/logging"
	"github.com/yaklabco/g4fmt/internal/ui/pretty"
	"github.com/yaklabco/g4fmt/pkg/grammar"
	"github.com/yaklabco/g4fmt/pkg/parser"
	"github.com/yaklabco/g4fmt/pkg/source"
)

// symbolInfo represents a rule in JSON output.
type symbolInfo struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Index  int    `json:"index"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

type symbolsFlags struct {
	at     string
	format string
}

func newSymbolsCommand() *cobra.Command {
	flags := &symbolsFlags{}

	cmd := &cobra.Command{
		Use:   "symbols <file>",
		Short: "List the rules of a grammar",
		Long: `List the parser rules, lexer tokens and fragments defined in a grammar,
in source order. With --at, print only the rule whose text contains the
given 1-based line:column position.

Examples:
  g4fmt symbols Expr.g4
  g4fmt symbols --at 12:1 Expr.g4
  g4fmt symbols --format json Expr.g4`,
		Args: exactlyOneArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSymbols(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.at, "at", "", "print the rule at line:column")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")

	return cmd
}

func runSymbols(cmd *cobra.Command, path string, flags *symbolsFlags) error {
	if flags.format != "text" && flags.format != formatJSON {
		return fmt.Errorf("%w: invalid format %q: must be text or json", ErrInvalidUsage, flags.format)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	doc := parser.Parse(path, content)
	for _, perr := range doc.Errors {
		logging.Default().Debug("recovered syntax error", logging.FieldPath, path, logging.FieldError, perr)
	}

	out := cmd.OutOrStdout()

	if flags.at != "" {
		pos, err := parsePosition(flags.at)
		if err != nil {
			return err
		}
		name, index := doc.RuleAt(pos)
		if index < 0 {
			return fmt.Errorf("%w: no rule at %d:%d in %s", ErrInvalidUsage, pos.Line, pos.Column, path)
		}
		if flags.format == formatJSON {
			return writeSymbolsJSON(out, []grammar.Symbol{doc.Symbols()[index]})
		}
		_, err = fmt.Fprintln(out, name)
		return err
	}

	symbols := doc.Symbols()
	if flags.format == formatJSON {
		return writeSymbolsJSON(out, symbols)
	}

	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), out))
	_, err = io.WriteString(out, formatSymbols(styles, symbols))
	return err
}

func formatSymbols(styles *pretty.Styles, symbols []grammar.Symbol) string {
	posWidth, kindWidth := 0, 0
	positions := make([]string, len(symbols))
	for i, sym := range symbols {
		positions[i] = fmt.Sprintf("%d:%d", sym.Position.Line, sym.Position.Column)
		posWidth = max(posWidth, len(positions[i]))
		kindWidth = max(kindWidth, runewidth.StringWidth(sym.Kind.String()))
	}

	var builder strings.Builder
	for i, sym := range symbols {
		fmt.Fprintf(&builder, "  %s  %s  %s\n",
			styles.Location.Render(runewidth.FillRight(positions[i], posWidth)),
			styles.Dim.Render(runewidth.FillRight(sym.Kind.String(), kindWidth)),
			styles.Bold.Render(sym.Name),
		)
	}
	return builder.String()
}

func writeSymbolsJSON(w io.Writer, symbols []grammar.Symbol) error {
	infos := make([]symbolInfo, 0, len(symbols))
	for _, sym := range symbols {
		infos = append(infos, symbolInfo{
			Name:   sym.Name,
			Kind:   sym.Kind.String(),
			Index:  sym.Index,
			Line:   sym.Position.Line,
			Column: sym.Position.Column,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding symbols: %w", err)
	}
	return nil
}

// parsePosition parses a 1-based "line:column" position.
func parsePosition(s string) (source.Position, error) {
	lineText, colText, found := strings.Cut(s, ":")
	if !found {
		colText = "1"
	}
	line, err := strconv.Atoi(strings.TrimSpace(lineText))
	if err != nil {
		return source.Position{}, fmt.Errorf("%w: position %q: bad line: %w", ErrInvalidUsage, s, err)
	}
	column, err := strconv.Atoi(strings.TrimSpace(colText))
	if err != nil {
		return source.Position{}, fmt.Errorf("%w: position %q: bad column: %w", ErrInvalidUsage, s, err)
	}

	pos := source.Position{Line: line, Column: column}
	if !pos.IsValid() {
		return source.Position{}, fmt.Errorf("%w: position %q must be 1-based", ErrInvalidUsage, s)
	}
	return pos, nil
}

func exactlyOneArg(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	}
	return nil
}
