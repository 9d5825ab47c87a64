// Package bot defines the placement-search capability and the reference
// strategies that drive the engine. Bots only ever see an engine.View, so all
// exploration goes through the non-mutating SimulatePlacement query.
package bot

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tttarena/internal/engine"
)

// ErrNoLegalMove is returned by Decide when the current piece fits nowhere.
var ErrNoLegalMove = errors.New("bot: no legal placement")

// Decision is a chosen placement for the current piece.
type Decision struct {
	Column   int
	Rotation int
}

func (d Decision) String() string {
	return fmt.Sprintf("col=%d rot=%d", d.Column, d.Rotation)
}

// Bot chooses where to drop the current piece.
type Bot interface {
	// Name returns the registry identifier of the strategy (e.g., "simple").
	Name() string

	// Decide returns a placement for the view's current piece.
	// Returns ErrNoLegalMove when no candidate is legal.
	Decide(v engine.View) (Decision, error)
}

// Candidate is one legal placement together with its simulated outcome.
type Candidate struct {
	Decision
	Board *engine.Board
	Lines int
}

// Enumerate calls fn for every legal placement of the current piece, in
// ascending column order and, within a column, ascending rotation order.
// Illegal placements are skipped; any other engine error (e.g. ErrGameOver)
// stops the enumeration and is returned.
func Enumerate(v engine.View, fn func(c Candidate)) error {
	for col := 0; col < v.Width(); col++ {
		for rot := 0; rot < engine.NumRotations; rot++ {
			grid, lines, err := v.SimulatePlacement(col, rot)
			if errors.Is(err, engine.ErrInvalidMove) {
				continue
			}
			if err != nil {
				return err
			}
			fn(Candidate{
				Decision: Decision{Column: col, Rotation: rot},
				Board:    grid,
				Lines:    lines,
			})
		}
	}
	return nil
}

// Candidates collects every legal placement of the current piece.
func Candidates(v engine.View) ([]Candidate, error) {
	var out []Candidate
	err := Enumerate(v, func(c Candidate) {
		out = append(out, c)
	})
	return out, err
}
