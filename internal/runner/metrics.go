package runner

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/vovakirdan/tttarena/internal/bot"
	"github.com/vovakirdan/tttarena/internal/engine"
)

// MetricConfig pins the constants that turn score and approximation error
// into the combined figure of merit.
type MetricConfig struct {
	// ScoreScale is the score at which the score factor reaches 0.5.
	ScoreScale float64
	// ErrorScale is the error at which the error factor drops to 0.5.
	ErrorScale float64
	// BaselineDepth selects the reference: 1 scores a placement by itself,
	// 2 also plays the known next piece as well as possible.
	BaselineDepth int
}

// DefaultMetricConfig is used when no other configuration is given.
var DefaultMetricConfig = MetricConfig{
	ScoreScale:    10000,
	ErrorScale:    10,
	BaselineDepth: 2,
}

// Validate checks the constants.
func (c MetricConfig) Validate() error {
	if c.ScoreScale <= 0 || c.ErrorScale <= 0 {
		return fmt.Errorf("runner: metric scales must be positive (score=%v, error=%v)", c.ScoreScale, c.ErrorScale)
	}
	if c.BaselineDepth != 1 && c.BaselineDepth != 2 {
		return fmt.Errorf("runner: baseline depth must be 1 or 2, got %d", c.BaselineDepth)
	}
	return nil
}

// Combine maps score S and error A to [0, 1): increasing in S, decreasing in A.
func (c MetricConfig) Combine(score int, approxErr float64) float64 {
	s := float64(score)
	return s / (s + c.ScoreScale) * c.ErrorScale / (c.ErrorScale + approxErr)
}

// RPS returns placements per wall-clock second, or 0 for an empty interval.
func RPS(steps int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(steps) / elapsed.Seconds()
}

// errNotCandidate marks a decision that is not among the legal placements.
var errNotCandidate = errors.New("runner: decision is not a legal placement")

// divergence returns how far the chosen placement trails the best legal one
// under the baseline evaluation. The result is never negative.
//
// At depth 2 a placement after which the next piece fits nowhere is a dead
// end: it ranks below every survivable placement. When the chosen placement
// is a dead end, or every placement is, the one-ply values are compared
// instead so the figure stays finite.
func divergence(v engine.View, chosen bot.Decision, w bot.Weights, depth int) (float64, error) {
	chosen.Rotation = engine.NormalizeRotation(chosen.Rotation)
	next := v.NextPiece()

	var (
		one, two    extremum
		found, dead bool
	)
	err := bot.Enumerate(v, func(c bot.Candidate) {
		mine := c.Decision == chosen
		if mine {
			found = true
		}
		one.add(bot.Evaluate(c.Board, c.Lines, w), mine)
		if depth < 2 {
			return
		}
		follow, ok := bot.FollowUp(c.Board, next, c.Lines, w)
		if !ok {
			follow = math.Inf(-1)
			dead = dead || mine
		}
		two.add(follow, mine)
	})
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, errNotCandidate
	}
	if depth < 2 || dead || math.IsInf(two.best, -1) {
		return one.gap(), nil
	}
	return two.gap(), nil
}

// extremum tracks the best value over all candidates and the chosen one's value.
type extremum struct {
	best, mine float64
	seen       bool
}

func (e *extremum) add(v float64, mine bool) {
	if !e.seen || v > e.best {
		e.best, e.seen = v, true
	}
	if mine {
		e.mine = v
	}
}

func (e extremum) gap() float64 {
	return e.best - e.mine
}

// tally accumulates per-step figures over a run.
type tally struct {
	steps      int
	lines      int
	divergence float64
	histogram  Histogram
}

func (t *tally) record(d float64, lines int) {
	t.steps++
	t.lines += lines
	t.divergence += d
	if lines >= 0 && lines < len(t.histogram) {
		t.histogram[lines]++
	}
}

// approxError is the mean per-step divergence.
func (t *tally) approxError() float64 {
	if t.steps == 0 {
		return 0
	}
	return t.divergence / float64(t.steps)
}
