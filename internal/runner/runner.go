// Package runner drives an engine with a bot until the game ends or a safety
// cap is hit, and turns the run into a Result.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tttarena/internal/bot"
	"github.com/vovakirdan/tttarena/internal/engine"
)

// Runner owns one engine/bot pairing for a single run.
//
// Everything happens on the calling goroutine: the bot's queries always
// complete before the placement they inform, and caps are only checked
// between placements.
type Runner struct {
	engine *engine.Engine
	bot    bot.Bot

	maxSteps      int
	maxDuration   time.Duration
	progressEvery int

	metric  MetricConfig
	weights bot.Weights
	logger  *log.Logger
	now     func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithMaxSteps stops the run after n placements. Zero means no cap.
func WithMaxSteps(n int) Option {
	return func(r *Runner) { r.maxSteps = n }
}

// WithMaxDuration stops the run once d has elapsed since start. Zero means no cap.
func WithMaxDuration(d time.Duration) Option {
	return func(r *Runner) { r.maxDuration = d }
}

// WithProgressEvery logs a debug progress line every n placements.
func WithProgressEvery(n int) Option {
	return func(r *Runner) { r.progressEvery = n }
}

// WithMetricConfig replaces the metric constants.
func WithMetricConfig(c MetricConfig) Option {
	return func(r *Runner) { r.metric = c }
}

// WithWeights sets the evaluation used by the error baseline.
func WithWeights(w bot.Weights) Option {
	return func(r *Runner) { r.weights = w }
}

// WithLogger sets the run logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// New creates a Runner for e and b.
func New(e *engine.Engine, b bot.Bot, opts ...Option) *Runner {
	r := &Runner{
		engine:  e,
		bot:     b,
		metric:  DefaultMetricConfig,
		weights: bot.DefaultWeights,
		logger:  log.New(io.Discard),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run plays until the engine reports game over, a cap is reached, ctx is
// canceled or the bot fails. obs may be nil.
//
// Bot failures are not errors: they end the run with a malfunction reason.
// An error is returned only when the runner itself cannot proceed.
func (r *Runner) Run(ctx context.Context, start time.Time, obs Observer) (Result, error) {
	if r.engine == nil {
		return Result{}, errors.New("runner: nil engine")
	}
	if r.bot == nil {
		return Result{}, errors.New("runner: nil bot")
	}
	if err := r.metric.Validate(); err != nil {
		return Result{}, err
	}

	e := r.engine
	logger := r.logger.With("seed", e.Seed(), "bot", r.bot.Name())
	logger.Info("run started", "board", fmt.Sprintf("%dx%d", e.Width(), e.Height()))

	var (
		t      tally
		reason StopReason
		cause  error
	)

	for {
		if e.GameOver() {
			reason = StopGameOver
			break
		}
		if ctx.Err() != nil {
			reason = StopCanceled
			break
		}
		if r.maxSteps > 0 && t.steps >= r.maxSteps {
			reason = StopStepCap
			break
		}
		if r.maxDuration > 0 && r.now().Sub(start) >= r.maxDuration {
			reason = StopTimeCap
			break
		}

		d, err := r.bot.Decide(e.View())
		if err != nil {
			reason, cause = classifyBotError(err), err
			break
		}

		div, err := divergence(e.View(), d, r.weights, r.metric.BaselineDepth)
		if err != nil && !errors.Is(err, errNotCandidate) {
			return r.result(t, start, StopBotError, err), fmt.Errorf("runner: baseline evaluation: %w", err)
		}

		var before engine.Snapshot
		if obs != nil {
			before = e.Snapshot()
		}

		lines, err := e.PlacePiece(d.Column, d.Rotation)
		if err != nil {
			reason, cause = StopBotError, err
			if errors.Is(err, engine.ErrInvalidMove) {
				reason = StopBotInvalidMove
			}
			break
		}
		t.record(div, lines)

		if obs != nil {
			obs.ObserveStep(before, e.Snapshot())
		}
		if r.progressEvery > 0 && t.steps%r.progressEvery == 0 {
			logger.Debug("progress", "step", t.steps, "score", e.Score(), "lines", t.lines, "error", t.approxError())
		}
	}

	res := r.result(t, start, reason, cause)
	if res.Malfunction() {
		logger.Warn("bot malfunction", "reason", res.Reason, "error", cause)
	}
	logger.Info("run finished",
		"reason", res.Reason,
		"steps", res.Steps,
		"score", res.FinalScore,
		"error", res.FinalError,
		"metric", res.FinalMetric,
	)
	return res, nil
}

func (r *Runner) result(t tally, start time.Time, reason StopReason, cause error) Result {
	elapsed := r.now().Sub(start)
	score := r.engine.Score()
	approx := t.approxError()

	return Result{
		Seed:          r.engine.Seed(),
		Bot:           r.bot.Name(),
		FinalScore:    score,
		FinalError:    approx,
		FinalMetric:   r.metric.Combine(score, approx),
		FinalRPS:      RPS(t.steps, elapsed),
		Steps:         t.steps,
		Lines:         t.lines,
		LineHistogram: t.histogram,
		Duration:      elapsed,
		Reason:        reason,
		Err:           cause,
	}
}

func classifyBotError(err error) StopReason {
	switch {
	case errors.Is(err, bot.ErrNoLegalMove):
		return StopBotNoMove
	case errors.Is(err, engine.ErrInvalidMove):
		return StopBotInvalidMove
	default:
		return StopBotError
	}
}
