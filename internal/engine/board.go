package engine

import (
	"fmt"
	"strings"
)

// Board is a fixed-size occupancy grid.
// Cells are stored in row-major order: index = row*width + col. Row 0 is the top.
type Board struct {
	width  int
	height int
	cells  []bool
}

// NewBoard creates an empty board with the given dimensions.
func NewBoard(width, height int) *Board {
	return &Board{
		width:  width,
		height: height,
		cells:  make([]bool, width*height),
	}
}

// Width returns the number of columns.
func (b *Board) Width() int {
	return b.width
}

// Height returns the number of rows.
func (b *Board) Height() int {
	return b.height
}

func (b *Board) index(row, col int) int {
	return row*b.width + col
}

// InBounds reports whether (row, col) lies on the board.
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.height && col >= 0 && col < b.width
}

// Filled reports whether the cell at (row, col) is occupied.
// Out-of-bounds cells report false.
func (b *Board) Filled(row, col int) bool {
	if !b.InBounds(row, col) {
		return false
	}
	return b.cells[b.index(row, col)]
}

// Set marks the cell at (row, col) as occupied or empty.
// Out-of-bounds coordinates are ignored.
func (b *Board) Set(row, col int, filled bool) {
	if b.InBounds(row, col) {
		b.cells[b.index(row, col)] = filled
	}
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	cells := make([]bool, len(b.cells))
	copy(cells, b.cells)
	return &Board{width: b.width, height: b.height, cells: cells}
}

// Equal returns true if both boards have the same dimensions and contents.
func (b *Board) Equal(other *Board) bool {
	if other == nil || b.width != other.width || b.height != other.height {
		return false
	}
	for i, c := range b.cells {
		if c != other.cells[i] {
			return false
		}
	}
	return true
}

// surface returns the row index of the topmost occupied cell in col,
// or the board height when the column is empty.
func (b *Board) surface(col int) int {
	for row := 0; row < b.height; row++ {
		if b.cells[b.index(row, col)] {
			return row
		}
	}
	return b.height
}

// DropRow computes where piece p would come to rest when dropped straight down
// from above the board with its leftmost column at col. The returned row is the
// anchor row of the piece's bounding box. ok is false when the placement is
// illegal: the piece would stick out of the sides or rest above the top edge.
func (b *Board) DropRow(p PieceType, rotation, col int) (row int, ok bool) {
	if !p.Valid() {
		return 0, false
	}
	s := shapeOf(p, rotation)
	if col < 0 || col+s.cols > b.width {
		return 0, false
	}

	row = b.height
	for lc, bottom := range s.bottom {
		if bottom < 0 {
			continue
		}
		row = min(row, b.surface(col+lc)-1-bottom)
	}
	if row < 0 {
		return row, false
	}
	return row, true
}

// CanPlace reports whether piece p in the given rotation can be dropped at col.
func (b *Board) CanPlace(p PieceType, rotation, col int) bool {
	_, ok := b.DropRow(p, rotation, col)
	return ok
}

// Lock drops piece p at col and marks its resting cells occupied.
// The placement must be legal; callers check CanPlace first.
func (b *Board) Lock(p PieceType, rotation, col int) {
	row, ok := b.DropRow(p, rotation, col)
	if !ok {
		panic(fmt.Sprintf("engine: lock of illegal placement %s rot=%d col=%d", p, rotation, col))
	}
	for _, c := range shapeOf(p, rotation).cells {
		b.cells[b.index(row+c.Row, col+c.Col)] = true
	}
}

func (b *Board) rowFull(row int) bool {
	for col := 0; col < b.width; col++ {
		if !b.cells[b.index(row, col)] {
			return false
		}
	}
	return true
}

// FullRows returns the indices of all completely occupied rows, top to bottom.
func (b *Board) FullRows() []int {
	var rows []int
	for row := 0; row < b.height; row++ {
		if b.rowFull(row) {
			rows = append(rows, row)
		}
	}
	return rows
}

// ClearFullRows removes every full row in a single compaction pass, shifts the
// remaining rows down and empties the vacated rows at the top.
// Returns the number of rows removed.
func (b *Board) ClearFullRows() int {
	write := b.height - 1
	for read := b.height - 1; read >= 0; read-- {
		if b.rowFull(read) {
			continue
		}
		if write != read {
			copy(b.cells[b.index(write, 0):b.index(write+1, 0)], b.cells[b.index(read, 0):b.index(read+1, 0)])
		}
		write--
	}

	cleared := write + 1
	for i := 0; i < cleared*b.width; i++ {
		b.cells[i] = false
	}
	return cleared
}

// ColumnHeights returns the stack height of every column, measured from the floor.
func (b *Board) ColumnHeights() []int {
	heights := make([]int, b.width)
	for col := range heights {
		heights[col] = b.height - b.surface(col)
	}
	return heights
}

// Holes counts empty cells that have at least one occupied cell above them in
// the same column.
func (b *Board) Holes() int {
	holes := 0
	for col := 0; col < b.width; col++ {
		for row := b.surface(col) + 1; row < b.height; row++ {
			if !b.cells[b.index(row, col)] {
				holes++
			}
		}
	}
	return holes
}

// FilledCount returns the number of occupied cells.
func (b *Board) FilledCount() int {
	count := 0
	for _, c := range b.cells {
		if c {
			count++
		}
	}
	return count
}

// String renders the board as rows of '#' (occupied) and '.' (empty).
func (b *Board) String() string {
	var sb strings.Builder
	sb.Grow((b.width + 1) * b.height)
	for row := 0; row < b.height; row++ {
		for col := 0; col < b.width; col++ {
			if b.cells[b.index(row, col)] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseBoard builds a board from rows of '#'/'.' characters, top row first.
// All rows must have the same length.
func ParseBoard(rows ...string) (*Board, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("engine: empty board layout")
	}
	b := NewBoard(len(rows[0]), len(rows))
	for row, line := range rows {
		if len(line) != b.width {
			return nil, fmt.Errorf("engine: row %d has width %d, want %d", row, len(line), b.width)
		}
		for col, ch := range line {
			switch ch {
			case '#':
				b.cells[b.index(row, col)] = true
			case '.':
			default:
				return nil, fmt.Errorf("engine: unexpected %q at row %d col %d", ch, row, col)
			}
		}
	}
	return b, nil
}
