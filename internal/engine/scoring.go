package engine

import "fmt"

// MaxLinesPerPlacement is the most rows a single tetromino can complete.
const MaxLinesPerPlacement = 4

// ScoreTable maps the number of rows cleared by one placement to points.
type ScoreTable [MaxLinesPerPlacement + 1]int

// DefaultScoreTable is the classic single/double/triple/tetris reward table.
var DefaultScoreTable = ScoreTable{0, 100, 300, 500, 800}

// Points returns the reward for clearing n rows in one placement.
func (t ScoreTable) Points(n int) int {
	if n < 0 || n > MaxLinesPerPlacement {
		return 0
	}
	return t[n]
}

// Validate checks that the table starts at zero and never decreases, which
// keeps cumulative score monotone.
func (t ScoreTable) Validate() error {
	if t[0] != 0 {
		return fmt.Errorf("engine: score for 0 lines must be 0, got %d", t[0])
	}
	for i := 1; i < len(t); i++ {
		if t[i] < t[i-1] {
			return fmt.Errorf("engine: score table decreases at %d lines (%d < %d)", i, t[i], t[i-1])
		}
	}
	return nil
}

// ScoreTableFrom converts a slice (as read from config) into a ScoreTable.
func ScoreTableFrom(points []int) (ScoreTable, error) {
	var t ScoreTable
	if len(points) != len(t) {
		return t, fmt.Errorf("engine: score table needs %d entries, got %d", len(t), len(points))
	}
	copy(t[:], points)
	return t, t.Validate()
}
