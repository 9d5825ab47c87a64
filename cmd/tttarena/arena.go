package main

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tttarena/internal/bot"
	"github.com/vovakirdan/tttarena/internal/config"
	"github.com/vovakirdan/tttarena/internal/engine"
	"github.com/vovakirdan/tttarena/internal/platform/tui"
	"github.com/vovakirdan/tttarena/internal/registry"
	"github.com/vovakirdan/tttarena/internal/runner"
)

// botFactory builds a strategy for a run with the given sequence seed.
type botFactory func(cfg config.Config, seed int64) bot.Bot

var (
	bots      = registry.New[botFactory]("bot")
	renderers = registry.New[tui.Factory]("renderer")
)

func init() {
	bots.Register("simple", "Greedy one-ply heuristic", func(cfg config.Config, _ int64) bot.Bot {
		return bot.NewSimple(weightsFrom(cfg.Bot.Weights))
	})
	bots.Register("random", "Uniform choice among legal placements", func(cfg config.Config, seed int64) bot.Bot {
		// Without its own seed the bot follows the sequence seed, so a run
		// stays reproducible from --seed alone.
		if cfg.Bot.Seed != 0 {
			seed = cfg.Bot.Seed
		}
		return bot.NewRandom(seed)
	})

	renderers.Register("cli", "Frame printer", tui.NewCLIVisualizer)
	renderers.Register("tui", "Interactive watch screen", tui.NewTUIVisualizer)
}

func weightsFrom(w config.WeightsConfig) bot.Weights {
	return bot.Weights{
		Height:    w.Height,
		Lines:     w.Lines,
		Holes:     w.Holes,
		Bumpiness: w.Bumpiness,
	}
}

func metricFrom(m config.MetricConfig) runner.MetricConfig {
	return runner.MetricConfig{
		ScoreScale:    m.ScoreScale,
		ErrorScale:    m.ErrorScale,
		BaselineDepth: m.BaselineDepth,
	}
}

// newEngine builds an engine for cfg's board, sequence and scoring.
func newEngine(cfg config.Config, seed int64) (*engine.Engine, error) {
	mode, err := engine.ParseSequenceMode(cfg.Sequence.Mode)
	if err != nil {
		return nil, err
	}
	table, err := engine.ScoreTableFrom(cfg.Scoring.Lines)
	if err != nil {
		return nil, err
	}
	return engine.New(cfg.Board.Width, cfg.Board.Height, seed,
		engine.WithSequenceMode(mode),
		engine.WithScoreTable(table),
	)
}

// newSession wires an engine, a bot and a runner for one simulation.
func newSession(cfg config.Config, seed int64, l *log.Logger) (tui.Session, error) {
	factory, err := bots.Get(cfg.Bot.Name)
	if err != nil {
		return tui.Session{}, err
	}
	e, err := newEngine(cfg, seed)
	if err != nil {
		return tui.Session{}, fmt.Errorf("cannot create engine: %w", err)
	}

	r := runner.New(e, factory(cfg, seed),
		runner.WithMaxSteps(cfg.Runner.MaxSteps),
		runner.WithMaxDuration(cfg.Runner.MaxDuration),
		runner.WithProgressEvery(cfg.Runner.ProgressEvery),
		runner.WithMetricConfig(metricFrom(cfg.Metric)),
		runner.WithWeights(weightsFrom(cfg.Bot.Weights)),
		runner.WithLogger(l),
	)
	return tui.Session{Runner: r, Width: cfg.Board.Width, Height: cfg.Board.Height}, nil
}
