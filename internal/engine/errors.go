package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMove is returned when a placement is not legal for the current piece.
	ErrInvalidMove = errors.New("engine: invalid move")
	// ErrGameOver is returned when a placement is attempted on a finished game.
	ErrGameOver = errors.New("engine: game over")
	// ErrInvalidDimensions is returned by New for boards too small to hold every piece.
	ErrInvalidDimensions = errors.New("engine: invalid board dimensions")
)

// MoveError describes a rejected placement. Err is ErrInvalidMove or ErrGameOver.
type MoveError struct {
	Piece    PieceType
	Column   int
	Rotation int
	Err      error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("%v: piece %s column %d rotation %d", e.Err, e.Piece, e.Column, e.Rotation)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}
