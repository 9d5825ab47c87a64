package engine

import (
	"fmt"
	"math/rand"
)

// SequenceMode selects how pieces are drawn from the seeded generator.
type SequenceMode string

const (
	// SequenceUniform draws each piece independently with equal probability.
	SequenceUniform SequenceMode = "uniform"
	// SequenceBag deals shuffled bags containing each piece exactly once.
	SequenceBag SequenceMode = "bag"
)

// ParseSequenceMode validates a mode name. The empty string selects uniform.
func ParseSequenceMode(s string) (SequenceMode, error) {
	switch SequenceMode(s) {
	case "", SequenceUniform:
		return SequenceUniform, nil
	case SequenceBag:
		return SequenceBag, nil
	default:
		return "", fmt.Errorf("engine: unknown sequence mode %q", s)
	}
}

// Sequence is an infinite, seed-derived stream of piece types.
// Every instance owns its generator, so two sequences built from the same seed
// yield the same pieces independently of each other.
type Sequence struct {
	seed  int64
	mode  SequenceMode
	rng   *rand.Rand
	bag   []PieceType
	drawn uint64
}

// NewSequence creates a sequence positioned at its first piece.
func NewSequence(seed int64, mode SequenceMode) *Sequence {
	if mode == "" {
		mode = SequenceUniform
	}
	s := &Sequence{seed: seed, mode: mode}
	s.Restart()
	return s
}

// Restart rewinds the sequence to its first piece.
func (s *Sequence) Restart() {
	s.rng = rand.New(rand.NewSource(s.seed))
	s.bag = s.bag[:0]
	s.drawn = 0
}

// Seed returns the seed the sequence was built from.
func (s *Sequence) Seed() int64 {
	return s.seed
}

// Mode returns the draw mode.
func (s *Sequence) Mode() SequenceMode {
	return s.mode
}

// Drawn returns how many pieces have been drawn since the last restart.
func (s *Sequence) Drawn() uint64 {
	return s.drawn
}

// Draw returns the next piece in the sequence.
func (s *Sequence) Draw() PieceType {
	s.drawn++
	if s.mode == SequenceBag {
		if len(s.bag) == 0 {
			s.refillBag()
		}
		p := s.bag[0]
		s.bag = s.bag[1:]
		return p
	}
	return PieceType(s.rng.Intn(NumPieces))
}

func (s *Sequence) refillBag() {
	bag := make([]PieceType, NumPieces)
	copy(bag, AllPieces[:])
	s.rng.Shuffle(len(bag), func(i, j int) {
		bag[i], bag[j] = bag[j], bag[i]
	})
	s.bag = bag
}
