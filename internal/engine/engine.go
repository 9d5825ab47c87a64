package engine

import "fmt"

// MinBoardSize is the smallest width and height that fits every piece in
// every rotation.
const MinBoardSize = 4

// Engine is the turn-based Tetris state machine. It is Active until a newly
// drawn piece no longer fits at its spawn position, then GameOver for good.
//
// Engine is not safe for concurrent use: any number of SimulatePlacement calls
// may share a snapshot, but PlacePiece needs exclusive access.
type Engine struct {
	seed    int64
	board   *Board
	seq     *Sequence
	scoring ScoreTable

	current PieceType
	next    PieceType

	score    int
	lines    int
	steps    int
	gameOver bool
}

// Option customizes an Engine at construction.
type Option func(*Engine)

// WithScoreTable replaces the default reward table.
func WithScoreTable(t ScoreTable) Option {
	return func(e *Engine) {
		e.scoring = t
	}
}

// WithSequenceMode selects the piece generator mode.
func WithSequenceMode(mode SequenceMode) Option {
	return func(e *Engine) {
		e.seq = NewSequence(e.seed, mode)
	}
}

// New creates an Active engine with current and next pieces drawn from the
// sequence seeded by seed.
func New(width, height int, seed int64, opts ...Option) (*Engine, error) {
	if width < MinBoardSize || height < MinBoardSize {
		return nil, fmt.Errorf("%w: %dx%d (minimum %dx%d)", ErrInvalidDimensions, width, height, MinBoardSize, MinBoardSize)
	}

	e := &Engine{
		seed:    seed,
		board:   NewBoard(width, height),
		scoring: DefaultScoreTable,
	}
	e.seq = NewSequence(seed, SequenceUniform)
	for _, opt := range opts {
		opt(e)
	}
	if err := e.scoring.Validate(); err != nil {
		return nil, err
	}
	if _, err := ParseSequenceMode(string(e.seq.Mode())); err != nil {
		return nil, err
	}

	e.current = e.seq.Draw()
	e.next = e.seq.Draw()
	return e, nil
}

// Seed returns the seed the piece sequence was built from.
func (e *Engine) Seed() int64 { return e.seed }

// Width returns the board width.
func (e *Engine) Width() int { return e.board.width }

// Height returns the board height.
func (e *Engine) Height() int { return e.board.height }

// CurrentPiece returns the piece the next placement will use.
func (e *Engine) CurrentPiece() PieceType { return e.current }

// NextPiece returns the lookahead piece.
func (e *Engine) NextPiece() PieceType { return e.next }

// Score returns the cumulative score.
func (e *Engine) Score() int { return e.score }

// Lines returns the cumulative number of cleared rows.
func (e *Engine) Lines() int { return e.lines }

// Steps returns the number of successful placements.
func (e *Engine) Steps() int { return e.steps }

// GameOver reports whether the engine reached its terminal state.
func (e *Engine) GameOver() bool { return e.gameOver }

// ScoreTable returns the reward table in use.
func (e *Engine) ScoreTable() ScoreTable { return e.scoring }

// Board returns a copy of the current grid.
func (e *Engine) Board() *Board { return e.board.Clone() }

// SpawnColumn returns the column piece p occupies when it enters the board.
func (e *Engine) SpawnColumn(p PieceType) int {
	_, cols := Extent(p, 0)
	return (e.board.width - cols) / 2
}

// check validates a placement of the current piece without touching state.
func (e *Engine) check(column, rotation int) error {
	if e.gameOver {
		return &MoveError{Piece: e.current, Column: column, Rotation: rotation, Err: ErrGameOver}
	}
	if !e.board.CanPlace(e.current, rotation, column) {
		return &MoveError{Piece: e.current, Column: column, Rotation: rotation, Err: ErrInvalidMove}
	}
	return nil
}

// SimulatePlacement returns the grid that placing the current piece at
// (column, rotation) would produce, after clearing full rows, together with the
// number of rows cleared. Engine state is never modified.
func (e *Engine) SimulatePlacement(column, rotation int) (*Board, int, error) {
	if err := e.check(column, rotation); err != nil {
		return nil, 0, err
	}
	grid := e.board.Clone()
	grid.Lock(e.current, rotation, column)
	cleared := grid.ClearFullRows()
	return grid, cleared, nil
}

// PlacePiece locks the current piece at (column, rotation), clears full rows,
// scores them and advances the sequence. The call either applies fully or
// returns an error with state unchanged.
func (e *Engine) PlacePiece(column, rotation int) (int, error) {
	if err := e.check(column, rotation); err != nil {
		return 0, err
	}

	e.board.Lock(e.current, rotation, column)
	cleared := e.board.ClearFullRows()
	e.score += e.scoring.Points(cleared)
	e.lines += cleared
	e.steps++

	e.current = e.next
	e.next = e.seq.Draw()

	if !e.board.CanPlace(e.current, 0, e.SpawnColumn(e.current)) {
		e.gameOver = true
	}
	return cleared, nil
}

// Snapshot captures the observable engine state. The board is a copy.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Board:    e.board.Clone(),
		Current:  e.current,
		Next:     e.next,
		Score:    e.score,
		Lines:    e.lines,
		Steps:    e.steps,
		GameOver: e.gameOver,
	}
}

// Snapshot is an immutable copy of the engine state, used by observers and
// for determinism checks.
type Snapshot struct {
	Board    *Board
	Current  PieceType
	Next     PieceType
	Score    int
	Lines    int
	Steps    int
	GameOver bool
}

// View is the read-only surface a placement strategy sees.
type View interface {
	CurrentPiece() PieceType
	NextPiece() PieceType
	Width() int
	Height() int
	SimulatePlacement(column, rotation int) (*Board, int, error)
}

// readOnly hides the mutating methods of an Engine behind View.
type readOnly struct {
	e *Engine
}

// View returns a read-only handle on the engine. Type assertions on the
// returned value cannot recover the *Engine.
func (e *Engine) View() View {
	return readOnly{e: e}
}

func (v readOnly) CurrentPiece() PieceType { return v.e.current }
func (v readOnly) NextPiece() PieceType    { return v.e.next }
func (v readOnly) Width() int              { return v.e.board.width }
func (v readOnly) Height() int             { return v.e.board.height }

func (v readOnly) SimulatePlacement(column, rotation int) (*Board, int, error) {
	return v.e.SimulatePlacement(column, rotation)
}
