package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tttarena/internal/bot"
	"github.com/vovakirdan/tttarena/internal/engine"
)

// fixedView is a View over a fixed board and piece pair.
type fixedView struct {
	board         *engine.Board
	current, next engine.PieceType
}

func (v *fixedView) CurrentPiece() engine.PieceType { return v.current }
func (v *fixedView) NextPiece() engine.PieceType    { return v.next }
func (v *fixedView) Width() int                     { return v.board.Width() }
func (v *fixedView) Height() int                    { return v.board.Height() }

func (v *fixedView) SimulatePlacement(col, rot int) (*engine.Board, int, error) {
	if !v.board.CanPlace(v.current, rot, col) {
		return nil, 0, &engine.MoveError{Piece: v.current, Column: col, Rotation: rot, Err: engine.ErrInvalidMove}
	}
	grid := v.board.Clone()
	grid.Lock(v.current, rot, col)
	return grid, grid.ClearFullRows(), nil
}

// deadEndView has an O to place and an I to follow on a three-row board.
// Only the column 0 placement stacks to the ceiling and leaves the I nowhere
// to go; with a height-only weighting it is also the best single placement.
func deadEndView(t *testing.T) *fixedView {
	t.Helper()
	b, err := engine.ParseBoard(
		".....",
		".....",
		"#....",
	)
	require.NoError(t, err)
	return &fixedView{board: b, current: engine.PieceO, next: engine.PieceI}
}

var heightOnly = bot.Weights{Height: -1}

func TestDivergenceRanksDeadEndsLast(t *testing.T) {
	v := deadEndView(t)

	// Columns 1 and 2 both reach aggregate height 12 after the I.
	d, err := divergence(v, bot.Decision{Column: 1}, heightOnly, 2)
	require.NoError(t, err)
	assert.InDelta(t, 0, d, 1e-12)

	// Column 3 forces the I to height 13.
	d, err = divergence(v, bot.Decision{Column: 3}, heightOnly, 2)
	require.NoError(t, err)
	assert.InDelta(t, 1, d, 1e-12)
}

func TestDivergenceOfChosenDeadEndIsFinite(t *testing.T) {
	v := deadEndView(t)

	// One-ply heights: the dead end reaches 6, every other placement 5.
	d, err := divergence(v, bot.Decision{Column: 0}, heightOnly, 2)
	require.NoError(t, err)
	assert.InDelta(t, 1, d, 1e-12)
}

func TestDivergenceWhenEveryPlacementIsADeadEnd(t *testing.T) {
	b, err := engine.ParseBoard(
		".....",
		".....",
		"#.#.#",
	)
	require.NoError(t, err)
	// An I never fits upright on three rows and every O tops out a column
	// that both horizontal I positions cover.
	v := &fixedView{board: b, current: engine.PieceO, next: engine.PieceI}

	d, err := divergence(v, bot.Decision{Column: 1}, heightOnly, 2)
	require.NoError(t, err)
	assert.InDelta(t, 0, d, 1e-12)
}

func TestDivergenceOnePlyIgnoresNextPiece(t *testing.T) {
	v := deadEndView(t)

	d, err := divergence(v, bot.Decision{Column: 1}, heightOnly, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0, d, 1e-12)

	d, err = divergence(v, bot.Decision{Column: 0}, heightOnly, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1, d, 1e-12)
}

func TestDivergenceRejectsIllegalDecision(t *testing.T) {
	_, err := divergence(deadEndView(t), bot.Decision{Column: 4}, heightOnly, 2)
	assert.ErrorIs(t, err, errNotCandidate)
}
