// Package engine provides the deterministic Tetris core: piece geometry, the
// board grid, the seeded piece sequence and the turn-based engine that places
// pieces by direct (column, rotation) selection.
// This package is UI-agnostic and has no external dependencies.
package engine

import (
	"fmt"
	"sort"
	"strings"
)

// PieceType identifies one of the seven tetrominoes.
type PieceType uint8

const (
	PieceI PieceType = iota
	PieceO
	PieceT
	PieceS
	PieceZ
	PieceJ
	PieceL
)

// NumPieces is the number of distinct tetrominoes.
const NumPieces = 7

// NumRotations is the number of rotation states every piece has.
const NumRotations = 4

// AllPieces lists every piece type in declaration order.
var AllPieces = [NumPieces]PieceType{PieceI, PieceO, PieceT, PieceS, PieceZ, PieceJ, PieceL}

var pieceNames = [NumPieces]string{"I", "O", "T", "S", "Z", "J", "L"}

// String returns the single-letter name of the piece.
func (p PieceType) String() string {
	if int(p) < NumPieces {
		return pieceNames[p]
	}
	return fmt.Sprintf("PieceType(%d)", uint8(p))
}

// Valid reports whether p is one of the seven tetrominoes.
func (p PieceType) Valid() bool {
	return int(p) < NumPieces
}

// ParsePieceType converts a letter (case-insensitive) to a PieceType.
func ParsePieceType(s string) (PieceType, bool) {
	for i, name := range pieceNames {
		if strings.EqualFold(s, name) {
			return PieceType(i), true
		}
	}
	return 0, false
}

// Cell is a (row, column) offset relative to a piece's anchor.
// Row grows downward.
type Cell struct {
	Row int
	Col int
}

// baseShapes are the spawn orientations, anchored at the top-left of their
// bounding box.
var baseShapes = [NumPieces][]Cell{
	PieceI: {{0, 0}, {0, 1}, {0, 2}, {0, 3}},
	PieceO: {{0, 0}, {0, 1}, {1, 0}, {1, 1}},
	PieceT: {{0, 1}, {1, 0}, {1, 1}, {1, 2}},
	PieceS: {{0, 1}, {0, 2}, {1, 0}, {1, 1}},
	PieceZ: {{0, 0}, {0, 1}, {1, 1}, {1, 2}},
	PieceJ: {{0, 0}, {1, 0}, {1, 1}, {1, 2}},
	PieceL: {{0, 2}, {1, 0}, {1, 1}, {1, 2}},
}

// shape is one precomputed rotation state.
type shape struct {
	cells []Cell
	rows  int
	cols  int
	// bottom[c] is the lowest occupied row offset in local column c.
	bottom []int
}

var shapes = buildShapes()

func buildShapes() [NumPieces][NumRotations]shape {
	var out [NumPieces][NumRotations]shape
	for p := range NumPieces {
		cells := baseShapes[p]
		for r := range NumRotations {
			out[p][r] = newShape(cells)
			cells = rotateClockwise(cells)
		}
	}
	return out
}

// rotateClockwise maps (row, col) to (col, -row) and renormalizes so the
// minimum row and column are zero.
func rotateClockwise(cells []Cell) []Cell {
	rotated := make([]Cell, len(cells))
	for i, c := range cells {
		rotated[i] = Cell{Row: c.Col, Col: -c.Row}
	}
	return normalize(rotated)
}

func normalize(cells []Cell) []Cell {
	minRow, minCol := cells[0].Row, cells[0].Col
	for _, c := range cells[1:] {
		minRow = min(minRow, c.Row)
		minCol = min(minCol, c.Col)
	}
	out := make([]Cell, len(cells))
	for i, c := range cells {
		out[i] = Cell{Row: c.Row - minRow, Col: c.Col - minCol}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

func newShape(cells []Cell) shape {
	s := shape{cells: cells}
	for _, c := range cells {
		s.rows = max(s.rows, c.Row+1)
		s.cols = max(s.cols, c.Col+1)
	}
	s.bottom = make([]int, s.cols)
	for i := range s.bottom {
		s.bottom[i] = -1
	}
	for _, c := range cells {
		s.bottom[c.Col] = max(s.bottom[c.Col], c.Row)
	}
	return s
}

// NormalizeRotation maps any integer onto 0..3.
func NormalizeRotation(rotation int) int {
	return ((rotation % NumRotations) + NumRotations) % NumRotations
}

func shapeOf(p PieceType, rotation int) *shape {
	return &shapes[p][NormalizeRotation(rotation)]
}

// Offsets returns the cells of piece p in the given rotation, relative to the
// top-left of its bounding box. The returned slice is a copy.
func Offsets(p PieceType, rotation int) []Cell {
	s := shapeOf(p, rotation)
	out := make([]Cell, len(s.cells))
	copy(out, s.cells)
	return out
}

// Extent returns the bounding box size of piece p in the given rotation.
func Extent(p PieceType, rotation int) (rows, cols int) {
	s := shapeOf(p, rotation)
	return s.rows, s.cols
}
