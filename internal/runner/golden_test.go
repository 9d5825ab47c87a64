package runner

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tttarena/internal/bot"
	"github.com/vovakirdan/tttarena/internal/engine"
)

var update = flag.Bool("update", false, "rewrite golden files with the produced values")

type goldenExpected struct {
	Score  int        `yaml:"score,omitempty"`
	Steps  int        `yaml:"steps,omitempty"`
	Reason StopReason `yaml:"reason,omitempty"`
	// Optional exact figures; -update fills them in.
	Lines  *int     `yaml:"lines,omitempty"`
	Error  *float64 `yaml:"error,omitempty"`
	Metric *float64 `yaml:"metric,omitempty"`
	// ErrorAtMost bounds the approximation error when no exact figure is pinned.
	ErrorAtMost float64 `yaml:"error_at_most,omitempty"`
}

func (e goldenExpected) empty() bool {
	return e.Steps == 0 && e.Reason == ""
}

type goldenCase struct {
	Name     string         `yaml:"name"`
	Seed     int64          `yaml:"seed"`
	Width    int            `yaml:"width"`
	Height   int            `yaml:"height"`
	Sequence string         `yaml:"sequence,omitempty"`
	MaxSteps int            `yaml:"max_steps"`
	Expected goldenExpected `yaml:"expected"`
}

type goldenFile struct {
	Cases []goldenCase `yaml:"cases"`
}

const goldenPath = "testdata/seed1.golden.yaml"

func loadGolden(t *testing.T) goldenFile {
	t.Helper()
	data, err := os.ReadFile(filepath.FromSlash(goldenPath))
	require.NoError(t, err)

	var g goldenFile
	require.NoError(t, yaml.Unmarshal(data, &g))
	require.NotEmpty(t, g.Cases)
	return g
}

func playGolden(t *testing.T, c goldenCase) Result {
	t.Helper()
	mode, err := engine.ParseSequenceMode(c.Sequence)
	require.NoError(t, err)

	e, err := engine.New(c.Width, c.Height, c.Seed, engine.WithSequenceMode(mode))
	require.NoError(t, err)

	res, err := New(e, bot.NewSimple(bot.DefaultWeights), WithMaxSteps(c.MaxSteps)).
		Run(context.Background(), time.Now(), nil)
	require.NoError(t, err)
	return res
}

// goldenRPSFloor is far below the reference machine's few hundred
// placements per second so slow CI runners and -race still clear it.
const goldenRPSFloor = 20

func TestGoldenRuns(t *testing.T) {
	g := loadGolden(t)

	for i, c := range g.Cases {
		t.Run(c.Name, func(t *testing.T) {
			res := playGolden(t, c)
			assert.False(t, res.Malfunction(), "bot malfunctioned: %v", res.Err)
			assert.Greater(t, res.FinalRPS, float64(goldenRPSFloor), "throughput")

			if *update {
				lines, approxErr, metric := res.Lines, res.FinalError, res.FinalMetric
				g.Cases[i].Expected = goldenExpected{
					Score:  res.FinalScore,
					Steps:  res.Steps,
					Reason: res.Reason,
					Lines:  &lines,
					Error:  &approxErr,
					Metric: &metric,
				}
				return
			}
			want := c.Expected
			if want.empty() {
				t.Fatalf("%s has no expected values (score=%d error=%.15f metric=%.15f steps=%d lines=%d reason=%s); run with -update",
					c.Name, res.FinalScore, res.FinalError, res.FinalMetric, res.Steps, res.Lines, res.Reason)
			}

			assert.Equal(t, want.Score, res.FinalScore, "score")
			assert.Equal(t, want.Steps, res.Steps, "steps")
			assert.Equal(t, want.Reason, res.Reason, "reason")
			if want.Lines != nil {
				assert.Equal(t, *want.Lines, res.Lines, "lines")
			}
			if want.Error != nil {
				assert.InDelta(t, *want.Error, res.FinalError, 1e-9, "error")
			}
			if want.Metric != nil {
				assert.InDelta(t, *want.Metric, res.FinalMetric, 1e-9, "metric")
			}
			if want.ErrorAtMost > 0 {
				assert.LessOrEqual(t, res.FinalError, want.ErrorAtMost, "error")
			}
			assert.GreaterOrEqual(t, res.FinalError, 0.0, "error")
			assert.InDelta(t, DefaultMetricConfig.Combine(res.FinalScore, res.FinalError), res.FinalMetric, 1e-12, "metric")
		})
	}

	if *update {
		data, err := yaml.Marshal(g)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.FromSlash(goldenPath), data, 0o644))
		t.Log("golden file updated")
	}
}

func TestGoldenExpectationsArePinned(t *testing.T) {
	for _, c := range loadGolden(t).Cases {
		assert.False(t, c.Expected.empty(), "%s has an empty expected block", c.Name)
		assert.Zero(t, c.MaxSteps, "%s must run to termination", c.Name)
	}
}

func TestGoldenRunsAreReproducible(t *testing.T) {
	g := loadGolden(t)

	for _, seq := range []string{"uniform", "bag"} {
		t.Run(seq, func(t *testing.T) {
			c := g.Cases[0]
			c.Sequence = seq
			c.MaxSteps = 150

			a, b := playGolden(t, c), playGolden(t, c)
			assert.Equal(t, a.FinalScore, b.FinalScore)
			assert.Equal(t, a.FinalError, b.FinalError)
			assert.Equal(t, a.FinalMetric, b.FinalMetric)
			assert.Equal(t, a.Steps, b.Steps)
			assert.Equal(t, a.LineHistogram, b.LineHistogram)
			assert.Equal(t, a.Reason, b.Reason)
		})
	}
}
