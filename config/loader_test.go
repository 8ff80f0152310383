package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "naviplayer.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadMergesFile(t *testing.T) {
	path := writeConfig(t, `
[player]
backend = "beep"
volume = 0.5
progress_jump_step = 10000

[player.progress_jump_steps]
forward = 30000

[ui]
layout = "horizontal-reverse"
progress_bar_section = ["CURRENT_LEFT_TIME", "PROGRESS_BAR"]

[ui.icons]
play = "P"
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, BackendBeep, cfg.Player.Backend)
	assert.Equal(t, 0.5, cfg.Player.Volume)
	assert.Equal(t, 10000, cfg.Player.BackwardStep())
	assert.Equal(t, 30000, cfg.Player.ForwardStep())
	assert.Equal(t, LayoutHorizontalReverse, cfg.UI.Layout)
	assert.Equal(t, []string{ModuleCurrentLeftTime, ModuleProgressBar}, cfg.UI.ProgressBarSection)
	assert.Equal(t, "P", cfg.UI.Icons.Play)

	// untouched keys keep their defaults
	assert.Equal(t, "⏸", cfg.UI.Icons.Pause)
	assert.Equal(t, 1000, cfg.Player.ListenInterval)
	assert.Equal(t, "Audio player", cfg.UI.AriaLabels.Player)
	assert.True(t, cfg.Player.AutoPlayAfterSrcChange)
}

func TestLoadFlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, `
[player]
volume = 0.5
loop = true
`)
	fs := NewFlagSet("test")
	require.NoError(t, fs.Parse([]string{"--volume=0.2", "--layout", "stacked-reverse"}))

	cfg, err := Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, 0.2, cfg.Player.Volume)
	assert.Equal(t, LayoutStackedReverse, cfg.UI.Layout)
	assert.True(t, cfg.Player.Loop, "unset flags must not shadow the file")
}

func TestLoadEnvironment(t *testing.T) {
	path := writeConfig(t, "")
	t.Setenv("NAVIPLAYER_PLAYER_BACKEND", "beep")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, BackendBeep, cfg.Player.Backend)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"), nil)
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"backend":     "[player]\nbackend = \"vlc\"",
		"layout":      "[ui]\nlayout = \"grid\"",
		"time format": "[ui]\ntime_format = \"ss\"",
		"volume":      "[player]\nvolume = 1.5",
		"jump step":   "[player]\nvolume_jump_step = -0.1",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content), nil)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestWriteDefaultIsLoadable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDefault(&buf))
	assert.Contains(t, buf.String(), "auto_play_after_src_change = true")

	cfg, err := Load(writeConfig(t, buf.String()), nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestJumpStepFallbacks(t *testing.T) {
	p := PlayerConfig{}
	assert.Equal(t, 5000, p.BackwardStep())
	assert.Equal(t, 5000, p.ForwardStep())

	p.ProgressJumpStep = 2500
	p.ProgressJumpSteps.Backward = 1000
	assert.Equal(t, 1000, p.BackwardStep())
	assert.Equal(t, 2500, p.ForwardStep())
}
