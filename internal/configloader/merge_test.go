package configloader

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/g4fmt/pkg/config"
)

func TestMerge(t *testing.T) {
	t.Parallel()

	base := config.NewConfig()
	base.Jobs = 2
	base.Ignore = []string{"gen/**"}
	base.Options = map[string]any{"indentWidth": 2, "columnLimit": 80}

	override := &config.Config{
		Mode:    config.ModeDiff,
		Options: map[string]any{"IndentWidth": 3, "alignLabels": true},
	}

	got := merge(base, override)

	assert.Equal(t, config.ModeDiff, got.Mode)
	assert.Equal(t, config.FormatText, got.Format)
	assert.Equal(t, 2, got.Jobs)
	assert.Equal(t, []string{"gen/**"}, got.Ignore)
	assert.Equal(t, map[string]any{
		"indentWidth": 3,
		"columnLimit": 80,
		"alignLabels": true,
	}, got.Options)

	// The base layer is left untouched.
	assert.Equal(t, 2, base.Options["indentWidth"])
	assert.Equal(t, config.ModeStdout, base.Mode)
}

func TestMerge_Slices(t *testing.T) {
	t.Parallel()

	base := &config.Config{Ignore: []string{"a"}, Extensions: []string{".g4"}}

	got := merge(base, &config.Config{Ignore: []string{}})
	assert.Empty(t, got.Ignore, "a non-nil empty slice replaces the base")
	assert.Equal(t, []string{".g4"}, got.Extensions)
}

func TestMerge_Nil(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	assert.Same(t, cfg, merge(nil, cfg))
	assert.Same(t, cfg, merge(cfg, nil))
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	assert.Nil(t, MergeAll())

	got := MergeAll(
		config.NewConfig(),
		&config.Config{Jobs: 4},
		&config.Config{NoBackups: true, Backups: config.BackupsConfig{Mode: "none"}},
	)
	assert.Equal(t, 4, got.Jobs)
	assert.True(t, got.NoBackups)
	assert.Equal(t, "none", got.Backups.Mode)
	assert.False(t, got.BackupsEnabled())
}
