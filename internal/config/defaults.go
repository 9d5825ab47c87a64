package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/arena.yaml
var defaultArenaYAML []byte

// DefaultConfig returns the hardcoded arena configuration. It matches the
// embedded defaults/arena.yaml.
func DefaultConfig() Config {
	return Config{
		Board: BoardConfig{
			Width:  10,
			Height: 20,
		},
		Sequence: SequenceConfig{
			Mode: "uniform",
		},
		Scoring: ScoringConfig{
			Lines: []int{0, 100, 300, 500, 800},
		},
		Bot: BotConfig{
			Name: "simple",
			Weights: WeightsConfig{
				Height:    -0.510066,
				Lines:     0.760666,
				Holes:     -0.35663,
				Bumpiness: -0.184483,
			},
		},
		Runner: RunnerConfig{
			MaxSteps:      20000,
			MaxDuration:   10 * time.Minute,
			ProgressEvery: 1000,
		},
		Metric: MetricConfig{
			ScoreScale:    10000,
			ErrorScale:    10,
			BaselineDepth: 2,
		},
		Storage: StorageConfig{
			Path:   "~/.tttarena/runs.db",
			LogDir: "~/.tttarena/logs",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultArenaYAML
}
