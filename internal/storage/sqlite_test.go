package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tttarena/internal/runner"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRun(seed int64, score int, metric float64) RunRecord {
	return RunRecord{
		Seed:     seed,
		Bot:      "simple",
		Width:    10,
		Height:   20,
		Score:    score,
		Error:    1.25,
		Metric:   metric,
		RPS:      1300.5,
		Steps:    420,
		Lines:    160,
		Clears:   []int{300, 80, 20, 0, 10},
		Reason:   "game_over",
		Duration: 1500 * time.Millisecond,
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	want := sampleRun(1, 43000, 0.2019)
	id, err := store.SaveRun(want)
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if len(id) != 36 {
		t.Errorf("expected a UUID id, got %q", id)
	}

	got, err := store.RunByID(id)
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}

	if got.ID != id || got.Seed != want.Seed || got.Bot != want.Bot || got.Score != want.Score {
		t.Errorf("identity fields mismatch: %+v", got)
	}
	if got.Width != 10 || got.Height != 20 || got.Steps != 420 || got.Lines != 160 {
		t.Errorf("size/step fields mismatch: %+v", got)
	}
	if got.Error != want.Error || got.Metric != want.Metric || got.RPS != want.RPS {
		t.Errorf("metric fields mismatch: %+v", got)
	}
	if got.Reason != "game_over" || got.Duration != want.Duration {
		t.Errorf("reason/duration mismatch: %q %v", got.Reason, got.Duration)
	}
	if len(got.Clears) != 5 || got.Clears[4] != 10 || got.Clears[0] != 300 {
		t.Errorf("clears mismatch: %v", got.Clears)
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected created_at to be populated")
	}
}

func TestRunByIDNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.RunByID("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBestRunsOrdering(t *testing.T) {
	store := openTestStore(t)

	for _, r := range []RunRecord{
		sampleRun(1, 100, 0.01),
		sampleRun(2, 5000, 0.30),
		sampleRun(3, 900, 0.05),
		sampleRun(4, 7000, 0.30),
	} {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	best, err := store.BestRuns(3)
	if err != nil {
		t.Fatalf("BestRuns() failed: %v", err)
	}
	if len(best) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(best))
	}

	// Equal metric falls back to score.
	wantSeeds := []int64{4, 2, 3}
	for i, r := range best {
		if r.Seed != wantSeeds[i] {
			t.Errorf("best[%d].Seed = %d, expected %d", i, r.Seed, wantSeeds[i])
		}
	}
}

func TestRecentRunsNewestFirst(t *testing.T) {
	store := openTestStore(t)

	for seed := int64(1); seed <= 5; seed++ {
		if _, err := store.SaveRun(sampleRun(seed, 10, 0.1)); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	recent, err := store.RecentRuns(2)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(recent))
	}
	if recent[0].Seed != 5 || recent[1].Seed != 4 {
		t.Errorf("expected seeds 5, 4; got %d, %d", recent[0].Seed, recent[1].Seed)
	}
}

func TestRunsBySeed(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(sampleRun(7, 10, 0.1))
	store.SaveRun(sampleRun(8, 20, 0.2))
	store.SaveRun(sampleRun(7, 30, 0.3))

	runs, err := store.RunsBySeed(7)
	if err != nil {
		t.Fatalf("RunsBySeed() failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs for seed 7, got %d", len(runs))
	}
	if runs[0].Score != 30 {
		t.Errorf("expected best run first, got score %d", runs[0].Score)
	}

	runs, err = store.RunsBySeed(99)
	if err != nil {
		t.Fatalf("RunsBySeed() failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs for seed 99, got %d", len(runs))
	}
}

func TestStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() on empty store failed: %v", err)
	}
	if stats.Runs != 0 || stats.BestScore != 0 || !stats.LastRun.IsZero() {
		t.Errorf("expected empty stats, got %+v", stats)
	}

	store.SaveRun(sampleRun(1, 100, 0.1))
	store.SaveRun(sampleRun(2, 300, 0.4))

	stats, err = store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Runs != 2 {
		t.Errorf("Runs = %d, expected 2", stats.Runs)
	}
	if stats.BestScore != 300 {
		t.Errorf("BestScore = %d, expected 300", stats.BestScore)
	}
	if stats.BestMetric != 0.4 {
		t.Errorf("BestMetric = %v, expected 0.4", stats.BestMetric)
	}
	if stats.TotalSteps != 840 {
		t.Errorf("TotalSteps = %d, expected 840", stats.TotalSteps)
	}
}

func TestClearRuns(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(sampleRun(1, 100, 0.1))
	if err := store.ClearRuns(); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}

	runs, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs after clear, got %d", len(runs))
	}
}

func TestRecordFromResult(t *testing.T) {
	res := runner.Result{
		Seed:          3,
		Bot:           "random",
		FinalScore:    1200,
		FinalError:    4.5,
		FinalMetric:   0.07,
		FinalRPS:      900,
		Steps:         77,
		Lines:         12,
		LineHistogram: runner.Histogram{70, 5, 1, 0, 1},
		Duration:      2 * time.Second,
		Reason:        runner.StopStepCap,
	}

	rec := RecordFromResult(res, 10, 20)
	if rec.Seed != 3 || rec.Bot != "random" || rec.Score != 1200 || rec.Steps != 77 {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.Reason != "step_cap" || rec.Width != 10 || rec.Height != 20 {
		t.Errorf("unexpected reason/size: %+v", rec)
	}
	if len(rec.Clears) != 5 || rec.Clears[4] != 1 {
		t.Errorf("unexpected clears: %v", rec.Clears)
	}
}

func TestWriteAndReadLog(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	rec := sampleRun(1, 43000, 0.2019)
	rec.CreatedAt = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	path, err := WriteLog(dir, rec)
	if err != nil {
		t.Fatalf("WriteLog() failed: %v", err)
	}

	name := filepath.Base(path)
	if !strings.HasPrefix(name, "run_seed1_20240506-070809") || !strings.HasSuffix(name, ".yaml") {
		t.Errorf("unexpected log file name %q", name)
	}

	got, err := ReadLog(path)
	if err != nil {
		t.Fatalf("ReadLog() failed: %v", err)
	}
	if got.Score != 43000 || got.Metric != 0.2019 || got.Duration != rec.Duration {
		t.Errorf("log round trip mismatch: %+v", got)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("created_at = %v, expected %v", got.CreatedAt, rec.CreatedAt)
	}
}

func TestExpandHome(t *testing.T) {
	got, err := ExpandHome("/tmp/x.db")
	if err != nil || got != "/tmp/x.db" {
		t.Errorf("absolute path changed: %q, %v", got, err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err = ExpandHome("~/.tttarena/runs.db")
	if err != nil {
		t.Fatalf("ExpandHome() failed: %v", err)
	}
	if got != filepath.Join(home, ".tttarena", "runs.db") {
		t.Errorf("ExpandHome() = %q", got)
	}
}
