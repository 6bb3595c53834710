package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/g4fmt/internal/logging"
	"github.com/yaklabco/g4fmt/pkg/config"
	"github.com/yaklabco/g4fmt/pkg/fix"
	"github.com/yaklabco/g4fmt/pkg/options"
	"github.com/yaklabco/g4fmt/pkg/reporter"
	"github.com/yaklabco/g4fmt/pkg/runner"
)

// stdinArg names standard input on the command line.
const stdinArg = "-"

type formatFlags struct {
	write           bool
	check           bool
	diff            bool
	ranges          []string
	options         []string
	jobs            int
	ignore          []string
	noBackups       bool
	includeVendored bool
	followSymlinks  bool
	outputFormat    string
	compact         bool
	noContext       bool
	stdinPath       string
}

func newFormatCommand() *cobra.Command {
	flags := &formatFlags{}

	cmd := &cobra.Command{
		Use:     "format [paths...]",
		Aliases: []string{"fmt"},
		Short:   "Format ANTLR4 grammar files",
		Long:    formatLongDescription,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, args, flags)
		},
	}

	addFormatFlags(cmd, flags)

	return cmd
}

const formatLongDescription = `Format ANTLR4 grammar files.

By default, formats all .g4 files in the current directory and its
subdirectories and prints the result. Use "-" to read a grammar from
standard input.

Formatting options come from the built-in defaults, configuration files,
G4FMT_OPTIONS and --option flags, in that order. "// $antlr-format"
directives inside a grammar refine them from their position on.

Examples:
  g4fmt format Expr.g4                 # Print the formatted grammar
  g4fmt format --write grammars/       # Rewrite files in place
  g4fmt format --check                 # Exit 1 if any file needs formatting
  g4fmt format --diff Expr.g4          # Show what would change
  g4fmt format --range 120:180 Expr.g4 # Format only the rules covering bytes 120..180
  g4fmt format -o alignColons=hanging -o columnLimit=120 Expr.g4
  cat Expr.g4 | g4fmt format -         # Format standard input`

func addFormatFlags(cmd *cobra.Command, flags *formatFlags) {
	cmd.Flags().BoolVarP(&flags.write, "write", "w", false, "rewrite files in place")
	cmd.Flags().BoolVar(&flags.check, "check", false, "report files that need formatting without changing them")
	cmd.Flags().BoolVar(&flags.diff, "diff", false, "print unified diffs instead of formatted text")
	cmd.Flags().StringArrayVar(&flags.ranges, "range", nil,
		"format only the rules covering the inclusive byte range start:stop (repeatable)")
	cmd.Flags().StringArrayVarP(&flags.options, "option", "o", nil,
		"set a formatting option as key=value; a bare key sets a boolean to true (repeatable)")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().BoolVar(&flags.noBackups, "no-backups", false, "disable backup creation when writing")
	cmd.Flags().BoolVar(&flags.includeVendored, "include-vendored", false, "also format files in vendored directories")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "follow symbolic links to directories")
	cmd.Flags().StringVar(&flags.outputFormat, "output-format", "text",
		"output format: text, table, json, diff, summary")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact JSON output")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in diagnostics")
	cmd.Flags().StringVar(&flags.stdinPath, "stdin-filepath", "<stdin>",
		"path used in messages and diff headers for standard input")
}

func runFormat(cmd *cobra.Command, args []string, flags *formatFlags) error {
	logger := logging.Default()
	ctx := commandContext(cmd)

	if n := countTrue(flags.write, flags.check, flags.diff); n > 1 {
		return fmt.Errorf("%w: --write, --check and --diff are mutually exclusive", ErrInvalidUsage)
	}

	mode := flags.mode()
	ranges, err := parseRanges(flags.ranges)
	if err != nil {
		return err
	}

	fromStdin := len(args) == 1 && args[0] == stdinArg
	if fromStdin && mode == config.ModeWrite {
		return fmt.Errorf("%w: --write cannot be used with standard input", ErrInvalidUsage)
	}
	if len(ranges) > 0 && len(args) != 1 {
		return fmt.Errorf("%w: --range needs exactly one file", ErrInvalidUsage)
	}

	cliCfg, err := flags.config(cmd)
	if err != nil {
		return err
	}

	cfg, workDir, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	pipeline, warnings := runner.PipelineOptionsFromConfig(cfg)
	for _, w := range warnings {
		logger.Warn("ignoring formatting option", logging.FieldError, w)
	}

	logger.Debug("configuration loaded",
		logging.FieldMode, cfg.Mode,
		logging.FieldJobs, cfg.Jobs,
		logging.FieldRange, ranges,
	)

	fmtRunner := runner.New(pipeline).WithRanges(ranges)
	began := time.Now()

	var result *runner.Result
	if fromStdin {
		result, err = formatStdin(cmd, fmtRunner, flags.stdinPath)
	} else {
		result, err = fmtRunner.Run(ctx, runner.Options{
			Paths:           args,
			WorkingDir:      workDir,
			Extensions:      cfg.Extensions,
			ExcludeGlobs:    cfg.Ignore,
			IncludeVendored: flags.includeVendored,
			FollowSymlinks:  flags.followSymlinks,
			Jobs:            cfg.Jobs,
			Config:          cfg,
		})
	}
	if err != nil {
		return errors.Join(errors.New("format run failed"), err)
	}

	logger.Debug("format run finished",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesChanged, result.Stats.FilesChanged,
		logging.FieldFilesFailed, result.Stats.FilesErrored,
		logging.FieldDuration, time.Since(began),
	)

	outputFormat, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      outputFormat,
		Mode:        cfg.Mode,
		Color:       colorMode(cmd),
		ShowContext: !flags.noContext,
		ShowSummary: true,
		Compact:     flags.compact,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	if result.HasFailures() {
		return ErrFilesFailed
	}
	if ExitCodeFromResult(result, cfg.Mode) != ExitSuccess {
		return ErrNeedsFormatting
	}
	return nil
}

// mode maps the mutually exclusive mode flags to a run mode.
func (f *formatFlags) mode() config.Mode {
	switch {
	case f.write:
		return config.ModeWrite
	case f.check:
		return config.ModeCheck
	case f.diff:
		return config.ModeDiff
	default:
		return config.ModeStdout
	}
}

func countTrue(values ...bool) int {
	n := 0
	for _, v := range values {
		if v {
			n++
		}
	}
	return n
}

// config builds the CLI layer of the configuration. Only flags the user
// set are carried so that lower layers stay visible.
func (f *formatFlags) config(cmd *cobra.Command) (*config.Config, error) {
	cfg := &config.Config{
		Mode:      f.mode(),
		Jobs:      f.jobs,
		Ignore:    f.ignore,
		NoBackups: f.noBackups,
	}

	if cmd.Flags().Changed("output-format") {
		cfg.Format = config.OutputFormat(f.outputFormat)
		if !cfg.Format.IsValid() {
			return nil, fmt.Errorf("%w: unknown output format %q", ErrInvalidUsage, f.outputFormat)
		}
	}

	for _, assignment := range f.options {
		key, value := options.ParseAssignment(assignment)
		if key == "" {
			return nil, fmt.Errorf("%w: malformed option %q", ErrInvalidUsage, assignment)
		}
		cfg.SetOption(key, value)
	}

	return cfg, nil
}

// parseRanges parses "start:stop" byte ranges.
func parseRanges(args []string) ([]fix.Range, error) {
	ranges := make([]fix.Range, 0, len(args))
	for _, arg := range args {
		startText, stopText, found := strings.Cut(arg, ":")
		if !found {
			return nil, fmt.Errorf("%w: range %q must be start:stop", ErrInvalidUsage, arg)
		}
		start, err := strconv.Atoi(strings.TrimSpace(startText))
		if err != nil {
			return nil, fmt.Errorf("%w: range %q: bad start: %w", ErrInvalidUsage, arg, err)
		}
		stop, err := strconv.Atoi(strings.TrimSpace(stopText))
		if err != nil {
			return nil, fmt.Errorf("%w: range %q: bad stop: %w", ErrInvalidUsage, arg, err)
		}
		ranges = append(ranges, fix.Range{Start: start, Stop: stop})
	}
	return ranges, nil
}

func formatStdin(cmd *cobra.Command, fmtRunner *runner.Runner, path string) (*runner.Result, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		logging.Default().Info("reading grammar from standard input; end with Ctrl-D")
	}

	content, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("read standard input: %w", err)
	}

	return fmtRunner.RunContent(commandContext(cmd), path, content)
}
