package runner

import (
	"time"

	"github.com/vovakirdan/tttarena/internal/engine"
)

// StopReason explains why a run ended.
type StopReason string

const (
	StopGameOver       StopReason = "game_over"
	StopStepCap        StopReason = "step_cap"
	StopTimeCap        StopReason = "time_cap"
	StopCanceled       StopReason = "canceled"
	StopBotNoMove      StopReason = "bot_no_move"
	StopBotInvalidMove StopReason = "bot_invalid_move"
	StopBotError       StopReason = "bot_error"
)

// Malfunction reports whether the run ended because of the bot rather than
// the board filling up or a safety cap.
func (r StopReason) Malfunction() bool {
	switch r {
	case StopBotNoMove, StopBotInvalidMove, StopBotError:
		return true
	}
	return false
}

// Histogram counts placements by the number of rows they cleared.
type Histogram [engine.MaxLinesPerPlacement + 1]int

// Result is the run-level report produced once at termination.
type Result struct {
	Seed        int64   `yaml:"seed"`
	Bot         string  `yaml:"bot"`
	FinalScore  int     `yaml:"final_score"`
	FinalError  float64 `yaml:"final_error"`
	FinalMetric float64 `yaml:"final_metric"`
	FinalRPS    float64 `yaml:"final_rps"`

	Steps         int           `yaml:"steps"`
	Lines         int           `yaml:"lines"`
	LineHistogram Histogram     `yaml:"line_histogram"`
	Duration      time.Duration `yaml:"duration"`
	Reason        StopReason    `yaml:"reason"`

	// Err holds the bot or engine error behind a malfunction stop.
	Err error `yaml:"-"`
}

// Malfunction reports whether the bot ended the run.
func (r Result) Malfunction() bool {
	return r.Reason.Malfunction()
}
