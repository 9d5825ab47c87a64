package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
board:
  width: 6
sequence:
  mode: bag
runner:
  max_duration: 90s
`))
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Board.Width)
	assert.Equal(t, 20, cfg.Board.Height, "unset keys keep their defaults")
	assert.Equal(t, "bag", cfg.Sequence.Mode)
	assert.Equal(t, 90*time.Second, cfg.Runner.MaxDuration)
	assert.Equal(t, DefaultConfig().Bot.Weights, cfg.Bot.Weights)
}

func TestParseReplacesScoringTable(t *testing.T) {
	cfg, err := Parse([]byte("scoring:\n  lines: [0, 40, 100, 300, 1200]\n"))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 40, 100, 300, 1200}, cfg.Scoring.Lines)
}

func TestParseRejectsBrokenYAML(t *testing.T) {
	_, err := Parse([]byte("board: [unterminated"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"narrow board", func(c *Config) { c.Board.Width = 3 }},
		{"short board", func(c *Config) { c.Board.Height = 2 }},
		{"unknown sequence", func(c *Config) { c.Sequence.Mode = "tgm" }},
		{"short scoring table", func(c *Config) { c.Scoring.Lines = []int{0, 100} }},
		{"decreasing scoring table", func(c *Config) { c.Scoring.Lines = []int{0, 100, 50, 500, 800} }},
		{"missing bot", func(c *Config) { c.Bot.Name = "" }},
		{"negative steps", func(c *Config) { c.Runner.MaxSteps = -1 }},
		{"zero score scale", func(c *Config) { c.Metric.ScoreScale = 0 }},
		{"negative error scale", func(c *Config) { c.Metric.ErrorScale = -1 }},
		{"deep baseline", func(c *Config) { c.Metric.BaselineDepth = 3 }},
		{"negative delay", func(c *Config) { c.Render.Delay = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bot:\n  name: random\n  seed: 9\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "random", cfg.Bot.Name)
	assert.Equal(t, int64(9), cfg.Bot.Seed)
}

func TestLoadCustomPathErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("board:\n  width: 2\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err, "invalid values must fail validation")
}

func TestPresets(t *testing.T) {
	for _, p := range Presets {
		parsed, err := ParsePreset(string(p))
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}
	_, err := ParsePreset("nightmare")
	assert.Error(t, err)

	cfg := DefaultConfig()
	ApplyPreset(&cfg, PresetQuick)
	assert.Equal(t, 500, cfg.Runner.MaxSteps)
	assert.NoError(t, cfg.Validate())

	ApplyPreset(&cfg, PresetMarathon)
	assert.Zero(t, cfg.Runner.MaxSteps)
	assert.Zero(t, cfg.Runner.MaxDuration)

	ApplyPreset(&cfg, PresetStandard)
	assert.Equal(t, DefaultConfig().Runner, cfg.Runner)
}
