package cli_test

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/g4fmt/internal/cli"
	"github.com/yaklabco/g4fmt/internal/configloader"
	"github.com/yaklabco/g4fmt/pkg/config"
	"github.com/yaklabco/g4fmt/pkg/runner"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{
		Version: "test-version",
		Commit:  "test-commit",
		Date:    "test-date",
	}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	require.NotNil(t, cmd)

	assert.Equal(t, "g4fmt", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)

	for _, name := range []string{"debug", "config", "color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "missing persistent flag %q", name)
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{"format", "options", "symbols", "init", "version"} {
		subCmd, _, err := cmd.Find([]string{name})
		require.NoError(t, err, "subcommand %q", name)
		assert.Equal(t, name, subCmd.Name())
	}

	subCmd, _, err := cmd.Find([]string{"fmt"})
	require.NoError(t, err)
	assert.Equal(t, "format", subCmd.Name())
}

func TestFormatCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	formatCmd, _, err := cmd.Find([]string{"format"})
	require.NoError(t, err)

	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{"write", "w", "false"},
		{"check", "", "false"},
		{"diff", "", "false"},
		{"range", "", "[]"},
		{"option", "o", "[]"},
		{"jobs", "j", "0"},
		{"ignore", "", "[]"},
		{"no-backups", "", "false"},
		{"include-vendored", "", "false"},
		{"follow-symlinks", "", "false"},
		{"output-format", "", "text"},
		{"compact", "", "false"},
		{"no-context", "", "false"},
		{"stdin-filepath", "", "<stdin>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			flag := formatCmd.Flags().Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
			assert.Equal(t, tt.defValue, flag.DefValue)
		})
	}
}

func TestExitCodeFromResult(t *testing.T) {
	t.Parallel()

	changed := &runner.Result{Stats: runner.Stats{FilesProcessed: 2, FilesChanged: 1}}
	failed := &runner.Result{Stats: runner.Stats{FilesErrored: 1}}
	clean := &runner.Result{Stats: runner.Stats{FilesProcessed: 2}}

	tests := []struct {
		name   string
		result *runner.Result
		mode   config.Mode
		want   int
	}{
		{"nil result", nil, config.ModeCheck, cli.ExitSuccess},
		{"clean check", clean, config.ModeCheck, cli.ExitSuccess},
		{"changed check", changed, config.ModeCheck, cli.ExitNeedsFormatting},
		{"changed diff", changed, config.ModeDiff, cli.ExitNeedsFormatting},
		{"changed stdout", changed, config.ModeStdout, cli.ExitSuccess},
		{"changed write", changed, config.ModeWrite, cli.ExitSuccess},
		{"failed write", failed, config.ModeWrite, cli.ExitNeedsFormatting},
		{"failed stdout", failed, config.ModeStdout, cli.ExitNeedsFormatting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cli.ExitCodeFromResult(tt.result, tt.mode))
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, cli.ExitSuccess},
		{"needs formatting", cli.ErrNeedsFormatting, cli.ExitNeedsFormatting},
		{"files failed", cli.ErrFilesFailed, cli.ExitNeedsFormatting},
		{"usage", fmt.Errorf("%w: bad range", cli.ErrInvalidUsage), cli.ExitInvalidUsage},
		{"config", fmt.Errorf("%w: broken", cli.ErrConfig), cli.ExitConfigError},
		{"validation", &configloader.ValidationError{Field: "jobs", Message: "bad"}, cli.ExitConfigError},
		{"missing path", fmt.Errorf("stat x.g4: %w", os.ErrNotExist), cli.ExitIOError},
		{"write failure", fmt.Errorf("%w: disk full", runner.ErrWriteFailure), cli.ExitIOError},
		{"joined", errors.Join(errors.New("format run failed"), os.ErrPermission), cli.ExitIOError},
		{"other", errors.New("boom"), cli.ExitInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cli.ExitCode(tt.err))
		})
	}
}

func TestIsSignal(t *testing.T) {
	t.Parallel()

	assert.True(t, cli.IsSignal(cli.ErrNeedsFormatting))
	assert.True(t, cli.IsSignal(cli.ErrFilesFailed))
	assert.False(t, cli.IsSignal(cli.ErrInvalidUsage))
	assert.False(t, cli.IsSignal(nil))
}
