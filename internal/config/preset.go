package config

import (
	"fmt"
	"time"
)

// Preset is a named set of runner caps.
type Preset string

const (
	PresetQuick    Preset = "quick"
	PresetStandard Preset = "standard"
	PresetMarathon Preset = "marathon"
)

// Presets lists the known presets in display order.
var Presets = []Preset{PresetQuick, PresetStandard, PresetMarathon}

// ParsePreset validates a preset name.
func ParsePreset(s string) (Preset, error) {
	for _, p := range Presets {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("config: unknown preset %q", s)
}

// ApplyPreset overwrites the runner caps with the preset's values.
func ApplyPreset(cfg *Config, preset Preset) {
	switch preset {
	case PresetQuick:
		cfg.Runner.MaxSteps = 500
		cfg.Runner.MaxDuration = 30 * time.Second
		cfg.Runner.ProgressEvery = 100
	case PresetStandard:
		cfg.Runner = DefaultConfig().Runner
	case PresetMarathon:
		// No caps; the run ends on game over or interrupt.
		cfg.Runner.MaxSteps = 0
		cfg.Runner.MaxDuration = 0
		cfg.Runner.ProgressEvery = 10000
	}
}
