package configloader

import (
	"maps"

	"github.com/yaklabco/g4fmt/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Options: key by key, with override's values taking precedence
//   - Slices: override replaces base entirely if override is non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Mode != "" {
		result.Mode = override.Mode
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}

	// False is the zero value, so only a true override is visible here.
	if override.NoBackups {
		result.NoBackups = true
	}

	if override.Backups.Mode != "" {
		result.Backups.Mode = override.Backups.Mode
	}
	if override.Backups.Enabled {
		result.Backups.Enabled = true
	}

	result.Options = mergeOptions(base.Options, override.Options)

	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}
	if override.Extensions != nil {
		result.Extensions = override.Extensions
	}

	return &result
}

// mergeOptions merges formatting option overrides. Keys are compared
// case-insensitively through their canonical option name.
func mergeOptions(base, override map[string]any) map[string]any {
	result := make(map[string]any, len(base)+len(override))
	maps.Copy(result, base)

	tmp := &config.Config{Options: result}
	for key, val := range override {
		tmp.SetOption(key, val)
	}
	return tmp.Options
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
