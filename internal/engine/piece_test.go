package engine

import "testing"

func TestEveryRotationHasFourCells(t *testing.T) {
	for _, p := range AllPieces {
		for rot := 0; rot < NumRotations; rot++ {
			cells := Offsets(p, rot)
			if len(cells) != 4 {
				t.Errorf("%s rot %d: expected 4 cells, got %d", p, rot, len(cells))
			}

			// Anchored at the top-left of the bounding box
			minRow, minCol := cells[0].Row, cells[0].Col
			for _, c := range cells {
				minRow = min(minRow, c.Row)
				minCol = min(minCol, c.Col)
			}
			if minRow != 0 || minCol != 0 {
				t.Errorf("%s rot %d: expected anchor at (0,0), got (%d,%d)", p, rot, minRow, minCol)
			}
		}
	}
}

func TestRotationNormalization(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, 0}, {3, 3}, {4, 0}, {5, 1}, {-1, 3}, {-4, 0}, {-7, 1}, {401, 1},
	}
	for _, tt := range tests {
		if got := NormalizeRotation(tt.in); got != tt.want {
			t.Errorf("NormalizeRotation(%d) = %d, expected %d", tt.in, got, tt.want)
		}
	}

	a := Offsets(PieceT, -1)
	b := Offsets(PieceT, 3)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("rotation -1 and 3 differ: %v vs %v", a, b)
		}
	}
}

func TestExtents(t *testing.T) {
	tests := []struct {
		piece      PieceType
		rot        int
		rows, cols int
	}{
		{PieceI, 0, 1, 4},
		{PieceI, 1, 4, 1},
		{PieceO, 0, 2, 2},
		{PieceO, 3, 2, 2},
		{PieceT, 0, 2, 3},
		{PieceT, 1, 3, 2},
		{PieceL, 2, 2, 3},
	}
	for _, tt := range tests {
		rows, cols := Extent(tt.piece, tt.rot)
		if rows != tt.rows || cols != tt.cols {
			t.Errorf("Extent(%s, %d) = %dx%d, expected %dx%d", tt.piece, tt.rot, rows, cols, tt.rows, tt.cols)
		}
	}
}

func TestORotationsIdentical(t *testing.T) {
	base := Offsets(PieceO, 0)
	for rot := 1; rot < NumRotations; rot++ {
		cells := Offsets(PieceO, rot)
		for i := range base {
			if base[i] != cells[i] {
				t.Fatalf("O rotation %d differs from spawn: %v vs %v", rot, cells, base)
			}
		}
	}
}

func TestFourRotationsReturnToSpawn(t *testing.T) {
	for _, p := range AllPieces {
		cells := baseShapes[p]
		for range NumRotations {
			cells = rotateClockwise(cells)
		}
		spawn := Offsets(p, 0)
		for i := range spawn {
			if cells[i] != spawn[i] {
				t.Errorf("%s: four rotations did not return to spawn: %v vs %v", p, cells, spawn)
				break
			}
		}
	}
}

func TestOffsetsReturnsCopy(t *testing.T) {
	cells := Offsets(PieceL, 0)
	cells[0] = Cell{Row: 99, Col: 99}
	if Offsets(PieceL, 0)[0] == (Cell{Row: 99, Col: 99}) {
		t.Error("Offsets should not expose the shared shape table")
	}
}

func TestParsePieceType(t *testing.T) {
	for _, p := range AllPieces {
		got, ok := ParsePieceType(p.String())
		if !ok || got != p {
			t.Errorf("ParsePieceType(%q) = %v, %v", p.String(), got, ok)
		}
	}
	if got, ok := ParsePieceType("t"); !ok || got != PieceT {
		t.Errorf("lowercase parse failed: %v, %v", got, ok)
	}
	if _, ok := ParsePieceType("X"); ok {
		t.Error("expected X to be rejected")
	}
}
