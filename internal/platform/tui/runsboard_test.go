package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tttarena/internal/storage"
)

type fakeRuns struct {
	best   []storage.RunRecord
	recent []storage.RunRecord
	err    error
}

func (f fakeRuns) BestRuns(int) ([]storage.RunRecord, error)   { return f.best, f.err }
func (f fakeRuns) RecentRuns(int) ([]storage.RunRecord, error) { return f.recent, f.err }

func TestRunsBoardSwitchesViews(t *testing.T) {
	src := fakeRuns{
		best:   []storage.RunRecord{{Seed: 1, Bot: "simple", Metric: 0.5}, {Seed: 2, Bot: "simple"}},
		recent: []storage.RunRecord{{Seed: 3, Bot: "random"}},
	}
	m := NewRunsBoardModel(src, 120, 40)
	assert.Equal(t, ViewBest, m.CurrentView())
	assert.Len(t, m.Runs(), 2)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(RunsBoardModel)
	assert.Equal(t, ViewRecent, m.CurrentView())
	require.Len(t, m.Runs(), 1)
	assert.Equal(t, int64(3), m.Runs()[0].Seed)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, ViewBest, updated.(RunsBoardModel).CurrentView())

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	updated, _ = updated.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, ViewRecent, updated.(RunsBoardModel).CurrentView(), "views wrap around")
}

func TestRunsBoardEmptyAndError(t *testing.T) {
	m := NewRunsBoardModel(fakeRuns{}, 120, 40)
	assert.Contains(t, m.View(), "No runs recorded yet")

	m = NewRunsBoardModel(fakeRuns{err: errors.New("disk gone")}, 120, 40)
	assert.Contains(t, m.View(), "disk gone")
}

func TestRunRows(t *testing.T) {
	rows := RunRows([]storage.RunRecord{{Seed: 7, Bot: "simple", Score: 1200, Error: 0.5, Metric: 0.1, RPS: 99.5, Reason: "game_over"}})
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0][0])
	assert.Equal(t, "7", rows[0][1])
	assert.Equal(t, "1200", rows[0][3])
	assert.Equal(t, "0.5000", rows[0][4])
	assert.Equal(t, "99.50", rows[0][6])
	assert.Equal(t, "game_over", rows[0][7])
}
