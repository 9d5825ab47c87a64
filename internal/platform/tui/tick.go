// Package tui provides the visualizers that observe a simulation run: a plain
// frame printer, a Bubble Tea watch screen, a stored-runs board and an SSH
// spectator server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// resumeMsg asks the watch model to pull the next step.
type resumeMsg struct{}

// paceCmd waits delay before resuming. A zero delay resumes immediately.
func paceCmd(delay time.Duration) tea.Cmd {
	if delay <= 0 {
		return func() tea.Msg { return resumeMsg{} }
	}
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return resumeMsg{}
	})
}
