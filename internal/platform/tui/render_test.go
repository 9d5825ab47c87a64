package tui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tttarena/internal/engine"
	"github.com/vovakirdan/tttarena/internal/runner"
)

func snapshotOf(t *testing.T, rows ...string) engine.Snapshot {
	t.Helper()
	b, err := engine.ParseBoard(rows...)
	require.NoError(t, err)
	return engine.Snapshot{
		Board:   b,
		Current: engine.PieceT,
		Next:    engine.PieceI,
		Score:   300,
		Lines:   2,
		Steps:   17,
	}
}

func TestRenderGrid(t *testing.T) {
	s := snapshotOf(t,
		"....",
		"....",
		"##..",
		"####",
	)

	out := RenderGrid(s.Board, DefaultTheme())
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)

	assert.NotContains(t, lines[0], filledCell)
	assert.Equal(t, 2, strings.Count(lines[2], filledCell))
	assert.Equal(t, 4, strings.Count(lines[3], filledCell))
	assert.Equal(t, 4, strings.Count(lines[0], strings.TrimSpace(emptyCell)))
}

func TestRenderBoardIncludesHUD(t *testing.T) {
	s := snapshotOf(t, "....", "....", "....", "#..#")

	out := RenderBoard(s, DefaultTheme())
	assert.Contains(t, out, "score")
	assert.Contains(t, out, "300")
	assert.Contains(t, out, "17")
	assert.NotContains(t, out, "GAME OVER")

	s.GameOver = true
	assert.Contains(t, RenderBoard(s, DefaultTheme()), "GAME OVER")

	assert.Empty(t, RenderBoard(engine.Snapshot{}, DefaultTheme()))
}

func TestRenderPiece(t *testing.T) {
	out := RenderPiece(engine.PieceO, DefaultTheme())
	assert.Equal(t, 4, strings.Count(out, filledCell))
}

func TestRenderResult(t *testing.T) {
	res := runner.Result{
		FinalScore:  43000,
		FinalError:  1.25,
		FinalMetric: 0.2019,
		FinalRPS:    1300.5,
		Reason:      runner.StopBotError,
		Err:         errors.New("boom"),
	}

	out := RenderResult(res, DefaultTheme())
	assert.Contains(t, out, "RUN FINISHED")
	assert.Contains(t, out, "bot_error")
	assert.Contains(t, out, "43000")
	assert.Contains(t, out, "1.2500")
	assert.Contains(t, out, "0.2019")
	assert.Contains(t, out, "1300.50")
	assert.Contains(t, out, "boom")
}

func TestCLIVisualizerAppendsFrames(t *testing.T) {
	var buf bytes.Buffer
	v, err := NewCLIVisualizer(t.Context(), Options{Out: &buf, Theme: DefaultTheme()})
	require.NoError(t, err)
	assert.Nil(t, v.Done())

	s := snapshotOf(t, "....", "....", "....", "##..")
	v.ObserveStep(engine.Snapshot{}, s)
	s.Steps++
	v.ObserveStep(engine.Snapshot{}, s)
	require.NoError(t, v.Finish(runner.Result{Reason: runner.StopStepCap}))

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "TTT ARENA"))
	assert.NotContains(t, out, ansi.EraseScreenBelow, "a buffer is not a terminal")
	assert.Contains(t, out, "step_cap")
}

func TestRewind(t *testing.T) {
	assert.Empty(t, rewind(0))
	assert.Equal(t, "\x1b[A\x1b[J", rewind(1))
	assert.Equal(t, "\x1b[12A\x1b[J", rewind(12))
}

func TestCenterText(t *testing.T) {
	assert.Equal(t, "   ab", centerText("ab", 8))
	assert.Equal(t, "abcdef", centerText("abcdef", 4))
}
