package bot

import "github.com/vovakirdan/tttarena/internal/engine"

// Weights scale the board features into a single score.
// Higher scores are better; penalties carry negative weights.
type Weights struct {
	Height    float64 `yaml:"height"`
	Lines     float64 `yaml:"lines"`
	Holes     float64 `yaml:"holes"`
	Bumpiness float64 `yaml:"bumpiness"`
}

// DefaultWeights are the well-known hand-tuned values for the four-feature
// evaluation (aggregate height, lines, holes, bumpiness).
var DefaultWeights = Weights{
	Height:    -0.510066,
	Lines:     0.760666,
	Holes:     -0.35663,
	Bumpiness: -0.184483,
}

// Features are the raw measurements of a board after a placement.
type Features struct {
	AggregateHeight int
	Lines           int
	Holes           int
	Bumpiness       int
}

// Measure computes the features of board, given the rows the placement cleared.
func Measure(board *engine.Board, lines int) Features {
	heights := board.ColumnHeights()

	f := Features{Lines: lines, Holes: board.Holes()}
	for i, h := range heights {
		f.AggregateHeight += h
		if i > 0 {
			d := h - heights[i-1]
			if d < 0 {
				d = -d
			}
			f.Bumpiness += d
		}
	}
	return f
}

// Score combines the features with w.
func (f Features) Score(w Weights) float64 {
	return w.Height*float64(f.AggregateHeight) +
		w.Lines*float64(f.Lines) +
		w.Holes*float64(f.Holes) +
		w.Bumpiness*float64(f.Bumpiness)
}

// Evaluate scores a board after a placement that cleared lines rows.
func Evaluate(board *engine.Board, lines int, w Weights) float64 {
	return Measure(board, lines).Score(w)
}

// FollowUp returns the best score reachable by dropping piece p anywhere on
// board, counting priorLines rows already cleared by the previous placement.
// ok is false when p fits nowhere.
func FollowUp(board *engine.Board, p engine.PieceType, priorLines int, w Weights) (best float64, ok bool) {
	for col := 0; col < board.Width(); col++ {
		for rot := 0; rot < engine.NumRotations; rot++ {
			if !board.CanPlace(p, rot, col) {
				continue
			}
			grid := board.Clone()
			grid.Lock(p, rot, col)
			lines := grid.ClearFullRows()

			v := Evaluate(grid, priorLines+lines, w)
			if !ok || v > best {
				best, ok = v, true
			}
		}
	}
	return best, ok
}
