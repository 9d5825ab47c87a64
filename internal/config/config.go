// Package config provides YAML-based arena configuration: board size, piece
// sequence, scoring table, bot weights, runner caps, metric constants,
// storage locations and the visualizer.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config is the complete arena configuration.
type Config struct {
	Board    BoardConfig    `yaml:"board"`
	Sequence SequenceConfig `yaml:"sequence"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Bot      BotConfig      `yaml:"bot"`
	Runner   RunnerConfig   `yaml:"runner"`
	Metric   MetricConfig   `yaml:"metric"`
	Storage  StorageConfig  `yaml:"storage"`
	Render   RenderConfig   `yaml:"render"`
}

// BoardConfig defines the playing field.
type BoardConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// SequenceConfig selects the piece generator.
type SequenceConfig struct {
	Mode string `yaml:"mode"` // "uniform" or "bag"
}

// ScoringConfig holds points per rows cleared by a single placement.
type ScoringConfig struct {
	Lines []int `yaml:"lines"`
}

// BotConfig selects the strategy and its parameters.
type BotConfig struct {
	Name    string        `yaml:"name"`
	Seed    int64         `yaml:"seed"` // random bot only
	Weights WeightsConfig `yaml:"weights"`
}

// WeightsConfig are the heuristic feature weights.
type WeightsConfig struct {
	Height    float64 `yaml:"height"`
	Lines     float64 `yaml:"lines"`
	Holes     float64 `yaml:"holes"`
	Bumpiness float64 `yaml:"bumpiness"`
}

// RunnerConfig holds the safety caps. Zero disables a cap.
type RunnerConfig struct {
	MaxSteps      int           `yaml:"max_steps"`
	MaxDuration   time.Duration `yaml:"max_duration"`
	ProgressEvery int           `yaml:"progress_every"`
}

// MetricConfig pins the combined metric constants.
type MetricConfig struct {
	ScoreScale    float64 `yaml:"score_scale"`
	ErrorScale    float64 `yaml:"error_scale"`
	BaselineDepth int     `yaml:"baseline_depth"` // 1 or 2
}

// StorageConfig locates the results database and run logs.
type StorageConfig struct {
	Path   string `yaml:"path"`
	LogDir string `yaml:"log_dir"`
}

// RenderConfig selects the visualizer. An empty name disables rendering.
type RenderConfig struct {
	Name  string        `yaml:"name"`
	Delay time.Duration `yaml:"delay"`
}

// MinBoardSize mirrors the engine's lower bound on both dimensions.
const MinBoardSize = 4

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error

	if c.Board.Width < MinBoardSize || c.Board.Height < MinBoardSize {
		errs = append(errs, fmt.Errorf("board must be at least %dx%d, got %dx%d",
			MinBoardSize, MinBoardSize, c.Board.Width, c.Board.Height))
	}

	switch c.Sequence.Mode {
	case "", "uniform", "bag":
	default:
		errs = append(errs, fmt.Errorf("unknown sequence mode %q", c.Sequence.Mode))
	}

	if len(c.Scoring.Lines) != 5 {
		errs = append(errs, fmt.Errorf("scoring.lines needs 5 entries, got %d", len(c.Scoring.Lines)))
	} else {
		for i := 1; i < len(c.Scoring.Lines); i++ {
			if c.Scoring.Lines[i] < c.Scoring.Lines[i-1] {
				errs = append(errs, errors.New("scoring.lines must be non-decreasing"))
				break
			}
		}
	}

	if c.Bot.Name == "" {
		errs = append(errs, errors.New("bot.name is required"))
	}
	if c.Runner.MaxSteps < 0 || c.Runner.MaxDuration < 0 || c.Runner.ProgressEvery < 0 {
		errs = append(errs, errors.New("runner caps must not be negative"))
	}
	if c.Metric.ScoreScale <= 0 || c.Metric.ErrorScale <= 0 {
		errs = append(errs, errors.New("metric scales must be positive"))
	}
	if c.Metric.BaselineDepth != 1 && c.Metric.BaselineDepth != 2 {
		errs = append(errs, fmt.Errorf("metric.baseline_depth must be 1 or 2, got %d", c.Metric.BaselineDepth))
	}
	if c.Render.Delay < 0 {
		errs = append(errs, errors.New("render.delay must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
