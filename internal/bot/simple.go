package bot

import (
	"math/rand"

	"github.com/vovakirdan/tttarena/internal/engine"
)

// SimpleBot performs an exhaustive one-ply search: every legal placement of
// the current piece is scored with Evaluate and the highest score wins.
// Ties go to the lowest column, then the lowest rotation.
type SimpleBot struct {
	weights Weights
}

// NewSimple creates a SimpleBot using the given weights.
func NewSimple(w Weights) *SimpleBot {
	return &SimpleBot{weights: w}
}

// Name returns the registry identifier.
func (b *SimpleBot) Name() string {
	return "simple"
}

// Weights returns the evaluation weights in use.
func (b *SimpleBot) Weights() Weights {
	return b.weights
}

// Decide picks the best-scoring legal placement.
func (b *SimpleBot) Decide(v engine.View) (Decision, error) {
	var (
		best  Decision
		score float64
		found bool
	)

	err := Enumerate(v, func(c Candidate) {
		s := Evaluate(c.Board, c.Lines, b.weights)
		// Strict comparison keeps the first candidate among equals.
		if !found || s > score {
			best, score, found = c.Decision, s, true
		}
	})
	if err != nil {
		return Decision{}, err
	}
	if !found {
		return Decision{}, ErrNoLegalMove
	}
	return best, nil
}

// RandomBot picks uniformly among the legal placements using its own seeded
// generator. It serves as a weak baseline for comparing strategies.
type RandomBot struct {
	rng *rand.Rand
}

// NewRandom creates a RandomBot with a deterministic generator.
func NewRandom(seed int64) *RandomBot {
	return &RandomBot{rng: rand.New(rand.NewSource(seed))}
}

// Name returns the registry identifier.
func (b *RandomBot) Name() string {
	return "random"
}

// Decide returns a random legal placement.
func (b *RandomBot) Decide(v engine.View) (Decision, error) {
	var legal []Decision
	err := Enumerate(v, func(c Candidate) {
		legal = append(legal, c.Decision)
	})
	if err != nil {
		return Decision{}, err
	}
	if len(legal) == 0 {
		return Decision{}, ErrNoLegalMove
	}
	return legal[b.rng.Intn(len(legal))], nil
}
