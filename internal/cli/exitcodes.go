package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/g4fmt/internal/configloader"
	"github.com/yaklabco/g4fmt/pkg/config"
	"github.com/yaklabco/g4fmt/pkg/runner"
)

// Exit codes for g4fmt.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitNeedsFormatting indicates a check or diff run found files that
	// would change, or that some files could not be processed.
	ExitNeedsFormatting = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

var (
	// ErrNeedsFormatting is returned when a check or diff run finds files
	// that are not formatted. It only signals the exit code.
	ErrNeedsFormatting = errors.New("files need formatting")

	// ErrFilesFailed is returned when some files could not be processed.
	ErrFilesFailed = errors.New("some files could not be processed")

	// ErrInvalidUsage marks malformed flags and arguments.
	ErrInvalidUsage = errors.New("invalid usage")

	// ErrConfig marks configuration that could not be loaded.
	ErrConfig = errors.New("configuration error")
)

// ExitCodeFromResult determines the exit code of a run in the given mode.
// Only check and diff runs fail on pending changes; every mode fails when
// files could not be processed.
func ExitCodeFromResult(result *runner.Result, mode config.Mode) int {
	if result == nil {
		return ExitSuccess
	}

	if result.HasFailures() {
		return ExitNeedsFormatting
	}

	switch mode {
	case config.ModeCheck, config.ModeDiff:
		if result.HasChanges() {
			return ExitNeedsFormatting
		}
	case config.ModeStdout, config.ModeWrite:
	}

	return ExitSuccess
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	var validation *configloader.ValidationError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrNeedsFormatting), errors.Is(err, ErrFilesFailed):
		return ExitNeedsFormatting
	case errors.Is(err, ErrInvalidUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig), errors.As(err, &validation):
		return ExitConfigError
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission),
		errors.Is(err, runner.ErrFileNotFound),
		errors.Is(err, runner.ErrPermissionDenied),
		errors.Is(err, runner.ErrWriteFailure):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// IsSignal reports whether err only carries an exit status and needs no
// log line of its own.
func IsSignal(err error) bool {
	return errors.Is(err, ErrNeedsFormatting) || errors.Is(err, ErrFilesFailed)
}
