package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/g4fmt/internal/logging"
	"github.com/yaklabco/g4fmt/internal/ui/pretty"
	"github.com/yaklabco/g4fmt/pkg/options"
)

const formatJSON = "json"

// optionInfo represents an option in JSON output.
type optionInfo struct {
	Key         string   `json:"key"`
	Type        string   `json:"type"`
	Default     any      `json:"default"`
	Value       any      `json:"value"`
	Min         *int     `json:"min,omitempty"`
	Values      []string `json:"values,omitempty"`
	Description string   `json:"description"`
}

type optionsFlags struct {
	format string
}

func newOptionsCommand() *cobra.Command {
	flags := &optionsFlags{}

	cmd := &cobra.Command{
		Use:   "options",
		Short: "List formatting options",
		Long: `List every formatting option with its type, built-in default and the
value in effect after configuration files, environment variables and
--option flags are applied. Grammar directives can refine these per file.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOptions(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")

	return cmd
}

func runOptions(cmd *cobra.Command, flags *optionsFlags) error {
	if flags.format != "text" && flags.format != formatJSON {
		return fmt.Errorf("%w: invalid format %q: must be text or json", ErrInvalidUsage, flags.format)
	}

	cfg, _, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	current, warnings := cfg.FormatOptions()
	for _, w := range warnings {
		logging.Default().Warn("ignoring formatting option", logging.FieldError, w)
	}

	infos := optionInfos(current)
	if flags.format == formatJSON {
		return writeOptionsJSON(cmd.OutOrStdout(), infos)
	}

	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), out))
	table := pretty.NewTableFormatter(styles, outputWidth(out))

	rows := make([]pretty.OptionRow, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, pretty.OptionRow{
			Key:         info.Key,
			Kind:        info.Type,
			Value:       fmt.Sprint(info.Value),
			Default:     fmt.Sprint(info.Default),
			Description: describe(info),
		})
	}

	_, err = io.WriteString(out, table.FormatOptionTable(rows))
	return err
}

func optionInfos(current options.Options) []optionInfo {
	descriptors := options.Descriptors()
	infos := make([]optionInfo, 0, len(descriptors))

	for _, desc := range descriptors {
		value, _ := current.Value(desc.Key)
		info := optionInfo{
			Key:         desc.Key,
			Type:        desc.Kind.String(),
			Default:     desc.Default(),
			Value:       value,
			Values:      desc.Values,
			Description: desc.Description,
		}
		if desc.Kind == options.KindInt {
			minValue := desc.Min
			info.Min = &minValue
		}
		infos = append(infos, info)
	}

	return infos
}

// describe appends the accepted values of enum options.
func describe(info optionInfo) string {
	if len(info.Values) == 0 {
		return info.Description
	}
	return info.Description + " (" + strings.Join(info.Values, ", ") + ")"
}

func writeOptionsJSON(w io.Writer, infos []optionInfo) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding options: %w", err)
	}
	return nil
}

// outputWidth returns the terminal width of w, or 0 when w is not a
// terminal.
func outputWidth(w io.Writer) int {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// noArgs rejects positional arguments as a usage error.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	}
	return nil
}
