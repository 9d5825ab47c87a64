// Package storage provides SQLite-based persistence for simulation runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tttarena/internal/runner"
)

// ErrNotFound is returned when a run ID does not exist.
var ErrNotFound = errors.New("storage: run not found")

// Store manages the SQLite database connection for run persistence.
type Store struct {
	db *sql.DB
}

// RunRecord is one finished run as stored.
type RunRecord struct {
	ID        string        `yaml:"id" json:"id"`
	Seed      int64         `yaml:"seed" json:"seed"`
	Bot       string        `yaml:"bot" json:"bot"`
	Width     int           `yaml:"width" json:"width"`
	Height    int           `yaml:"height" json:"height"`
	Score     int           `yaml:"final_score" json:"final_score"`
	Error     float64       `yaml:"final_error" json:"final_error"`
	Metric    float64       `yaml:"final_metric" json:"final_metric"`
	RPS       float64       `yaml:"final_rps" json:"final_rps"`
	Steps     int           `yaml:"steps" json:"steps"`
	Lines     int           `yaml:"lines" json:"lines"`
	Clears    []int         `yaml:"line_histogram" json:"line_histogram"`
	Reason    string        `yaml:"reason" json:"reason"`
	Duration  time.Duration `yaml:"duration" json:"duration_ns"`
	CreatedAt time.Time     `yaml:"created_at" json:"created_at"`
}

// RecordFromResult converts a runner result into a storable record.
func RecordFromResult(res runner.Result, width, height int) RunRecord {
	return RunRecord{
		Seed:     res.Seed,
		Bot:      res.Bot,
		Width:    width,
		Height:   height,
		Score:    res.FinalScore,
		Error:    res.FinalError,
		Metric:   res.FinalMetric,
		RPS:      res.FinalRPS,
		Steps:    res.Steps,
		Lines:    res.Lines,
		Clears:   res.LineHistogram[:],
		Reason:   string(res.Reason),
		Duration: res.Duration,
	}
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := ExpandHome(dbPath)
	if err != nil {
		return nil, err
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			bot TEXT NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			score INTEGER NOT NULL,
			error REAL NOT NULL,
			metric REAL NOT NULL,
			rps REAL NOT NULL,
			steps INTEGER NOT NULL,
			lines INTEGER NOT NULL,
			clears TEXT NOT NULL DEFAULT '',
			reason TEXT NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_seed ON runs(seed);
		CREATE INDEX IF NOT EXISTS idx_runs_metric ON runs(metric DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished run and returns its generated ID.
func (s *Store) SaveRun(rec RunRecord) (string, error) {
	id := uuid.NewString()

	_, err := s.db.Exec(
		`INSERT INTO runs
		 (id, seed, bot, width, height, score, error, metric, rps, steps, lines, clears, reason, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		rec.Seed,
		rec.Bot,
		rec.Width,
		rec.Height,
		rec.Score,
		rec.Error,
		rec.Metric,
		rec.RPS,
		rec.Steps,
		rec.Lines,
		joinInts(rec.Clears),
		rec.Reason,
		rec.Duration.Milliseconds(),
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save run: %w", err)
	}

	return id, nil
}

const runColumns = `id, seed, bot, width, height, score, error, metric, rps,
		steps, lines, clears, reason, duration_ms, created_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(sc rowScanner) (RunRecord, error) {
	var (
		rec        RunRecord
		clears     string
		durationMS int64
		createdAt  any
	)
	err := sc.Scan(
		&rec.ID,
		&rec.Seed,
		&rec.Bot,
		&rec.Width,
		&rec.Height,
		&rec.Score,
		&rec.Error,
		&rec.Metric,
		&rec.RPS,
		&rec.Steps,
		&rec.Lines,
		&clears,
		&rec.Reason,
		&durationMS,
		&createdAt,
	)
	if err != nil {
		return rec, err
	}

	rec.Clears = splitInts(clears)
	rec.Duration = time.Duration(durationMS) * time.Millisecond
	rec.CreatedAt = parseTime(createdAt)
	return rec, nil
}

// RunByID retrieves a run by its ID. Returns ErrNotFound if absent.
func (s *Store) RunByID(id string) (RunRecord, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, ErrNotFound
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return rec, nil
}

// RecentRuns retrieves the most recently saved runs.
func (s *Store) RecentRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(
		`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
}

// BestRuns retrieves the top N runs by combined metric, then score.
func (s *Store) BestRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT `+runColumns+` FROM runs ORDER BY metric DESC, score DESC, rowid ASC LIMIT ?`,
		limit,
	)
}

// RunsBySeed retrieves all runs played with the given seed, best first.
func (s *Store) RunsBySeed(seed int64) ([]RunRecord, error) {
	return s.queryRuns(
		`SELECT `+runColumns+` FROM runs WHERE seed = ? ORDER BY metric DESC, rowid ASC`,
		seed,
	)
}

func (s *Store) queryRuns(query string, args ...any) ([]RunRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		runs = append(runs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// ClearRuns deletes every stored run.
func (s *Store) ClearRuns() error {
	if _, err := s.db.Exec("DELETE FROM runs"); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// Stats contains aggregated statistics over all stored runs.
type Stats struct {
	Runs       int       `json:"runs"`
	BestScore  int       `json:"best_score"`
	BestMetric float64   `json:"best_metric"`
	AvgError   float64   `json:"avg_error"`
	AvgRPS     float64   `json:"avg_rps"`
	TotalSteps int64     `json:"total_steps"`
	LastRun    time.Time `json:"last_run"`
}

// Stats retrieves aggregated statistics.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{}

	var lastRun any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(MAX(metric), 0),
		        COALESCE(AVG(error), 0), COALESCE(AVG(rps), 0), COALESCE(SUM(steps), 0),
		        MAX(created_at)
		 FROM runs`,
	).Scan(&stats.Runs, &stats.BestScore, &stats.BestMetric, &stats.AvgError, &stats.AvgRPS, &stats.TotalSteps, &lastRun)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	stats.LastRun = parseTime(lastRun)

	return stats, nil
}

// parseTime handles both time.Time and string datetime columns.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ",")
}

func splitInts(s string) []int {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil
		}
		out = append(out, n)
	}
	return out
}
