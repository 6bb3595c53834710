// Package config defines the run configuration for g4fmt.
// These types are pure data structures; loading and layering live in the
// configloader package.
package config

import (
	"maps"

	"github.com/yaklabco/g4fmt/pkg/options"
)

// BackupsConfig controls backup behavior when writing files in place.
type BackupsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Mode    string `mapstructure:"mode" yaml:"mode"` // "sidecar"
}

// OutputFormat specifies how run results are reported.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatDiff    OutputFormat = "diff"
	FormatSummary OutputFormat = "summary"
)

// IsValid returns true if the output format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatTable, FormatJSON, FormatDiff, FormatSummary:
		return true
	default:
		return false
	}
}

// Mode selects what a format run does with its results.
type Mode string

const (
	// ModeStdout prints formatted text.
	ModeStdout Mode = "stdout"
	// ModeWrite rewrites changed files in place.
	ModeWrite Mode = "write"
	// ModeCheck only reports files that would change.
	ModeCheck Mode = "check"
	// ModeDiff prints unified diffs of the changes.
	ModeDiff Mode = "diff"
)

// DefaultExtensions lists the file extensions formatted by default.
func DefaultExtensions() []string {
	return []string{".g4"}
}

// Config is the root configuration structure for g4fmt.
type Config struct {
	// Options holds formatting option overrides keyed by option name. They
	// form the base layer that in-source directives refine.
	Options map[string]any `mapstructure:"options" yaml:"options"`

	// Extensions lists the file extensions picked up when walking directories.
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `mapstructure:"ignore" yaml:"ignore"`

	// Backups configures backup behavior when writing.
	Backups BackupsConfig `mapstructure:"backups" yaml:"backups"`

	// Jobs specifies the number of parallel workers. 0 means GOMAXPROCS.
	Jobs int `mapstructure:"jobs" yaml:"jobs"`

	// CLI-level options (not persisted to config files).

	// Mode selects what the run does with formatted files.
	Mode Mode `mapstructure:"-" yaml:"-"`

	// Format specifies the output format.
	Format OutputFormat `mapstructure:"-" yaml:"-"`

	// NoBackups disables backup creation when writing.
	NoBackups bool `mapstructure:"-" yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Options:    make(map[string]any),
		Extensions: DefaultExtensions(),
		Ignore:     nil,
		Backups: BackupsConfig{
			Enabled: true,
			Mode:    "sidecar",
		},
		Jobs:   0,
		Mode:   ModeStdout,
		Format: FormatText,
	}
}

// FormatOptions returns the built-in defaults with the configured option
// overrides applied. Unknown keys and invalid values are returned as
// warnings.
func (c *Config) FormatOptions() (options.Options, []error) {
	if c == nil {
		return options.Default(), nil
	}
	return options.Apply(options.Default(), options.Delta(c.Options))
}

// SetOption records one formatting option override.
func (c *Config) SetOption(key string, value any) {
	if c.Options == nil {
		c.Options = make(map[string]any)
	}
	if desc, ok := options.Lookup(key); ok {
		key = desc.Key
	}
	c.Options[key] = value
}

// OptionOverrides returns a copy of the configured overrides.
func (c *Config) OptionOverrides() options.Delta {
	out := make(options.Delta, len(c.Options))
	maps.Copy(out, c.Options)
	return out
}

// BackupsEnabled reports whether in-place writes leave backups.
func (c *Config) BackupsEnabled() bool {
	return c.Backups.Enabled && !c.NoBackups
}
