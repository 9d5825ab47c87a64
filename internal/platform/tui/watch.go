package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tttarena/internal/engine"
	"github.com/vovakirdan/tttarena/internal/runner"
)

const (
	minDelay = time.Millisecond
	maxDelay = 2 * time.Second
)

// WatchModel is the Bubble Tea model that displays a run as it happens.
// It pulls one step at a time from a ChannelObserver.
type WatchModel struct {
	source *ChannelObserver
	theme  Theme
	keys   WatchKeyMap
	help   help.Model
	title  string

	delay   time.Duration
	paused  bool
	waiting bool // a receive from source is outstanding

	last     engine.Snapshot
	result   *runner.Result
	width    int
	height   int
	quitting bool
}

// NewWatchModel creates a watch model reading from source.
func NewWatchModel(source *ChannelObserver, title string, delay time.Duration, theme Theme) WatchModel {
	h := help.New()
	h.ShowAll = false

	return WatchModel{
		source:  source,
		theme:   theme,
		keys:    DefaultWatchKeyMap(),
		help:    h,
		title:   title,
		delay:   delay,
		waiting: true,
	}
}

// Init starts receiving steps.
func (m WatchModel) Init() tea.Cmd {
	return m.source.Next()
}

// Update handles messages and updates the model state.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StepMsg:
		m.last = msg.After
		m.waiting = false
		if m.paused {
			return m, nil
		}
		return m, paceCmd(m.delay)

	case ResultMsg:
		res := msg.Result
		m.result = &res
		m.waiting = false
		return m, nil

	case resumeMsg:
		return m.pull()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// pull asks the source for the next step unless one is already pending.
func (m WatchModel) pull() (tea.Model, tea.Cmd) {
	if m.paused || m.waiting || m.result != nil {
		return m, nil
	}
	m.waiting = true
	return m, m.source.Next()
}

// handleKey processes keyboard input.
func (m WatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
		return m.pull()

	case key.Matches(msg, m.keys.Faster):
		m.delay /= 2
		if m.delay < minDelay {
			m.delay = 0
		}

	case key.Matches(msg, m.keys.Slower):
		if m.delay == 0 {
			m.delay = 10 * time.Millisecond
		} else {
			m.delay = min(m.delay*2, maxDelay)
		}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

// Snapshot returns the last observed state.
func (m WatchModel) Snapshot() engine.Snapshot {
	return m.last
}

// Result returns the finished run, or nil while it is still going.
func (m WatchModel) Result() *runner.Result {
	return m.result
}

// Delay returns the current pause between steps.
func (m WatchModel) Delay() time.Duration {
	return m.delay
}

// Paused reports whether stepping is paused.
func (m WatchModel) Paused() bool {
	return m.paused
}

// View renders the current state to a string for display.
func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.theme.HUDTitle.Render(m.title))
	b.WriteString("\n\n")

	if m.last.Board == nil {
		b.WriteString(m.theme.OverlayText.Render("waiting for the first placement..."))
	} else {
		b.WriteString(RenderBoard(m.last, m.theme))
	}
	b.WriteString("\n")

	if m.result != nil {
		b.WriteString("\n")
		b.WriteString(RenderResult(*m.result, m.theme))
		b.WriteString("\n")
	}

	status := fmt.Sprintf("delay %s", m.delay)
	if m.paused {
		status = "PAUSED  " + status
	}
	b.WriteString("\n")
	b.WriteString(m.theme.HUDLabel.Render(status))
	b.WriteString("\n")
	b.WriteString(m.theme.Help.Render(m.help.View(m.keys)))

	return b.String()
}
