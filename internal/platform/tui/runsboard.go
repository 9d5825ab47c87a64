package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tttarena/internal/storage"
)

const maxBoardRuns = 50

// RunsView selects which stored runs the board lists.
type RunsView int

const (
	ViewBest RunsView = iota
	ViewRecent
)

var runsViewTitles = []string{"Best", "Recent"}

func (v RunsView) String() string {
	if int(v) < len(runsViewTitles) {
		return runsViewTitles[v]
	}
	return "?"
}

// RunsSource is the part of the store the board reads.
type RunsSource interface {
	BestRuns(limit int) ([]storage.RunRecord, error)
	RecentRuns(limit int) ([]storage.RunRecord, error)
}

// RunsBoardKeyMap defines key bindings for the runs board.
type RunsBoardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextView key.Binding
	PrevView key.Binding
	Quit     key.Binding
}

// ShortHelp returns bindings for the short help view.
func (k RunsBoardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextView, k.Quit}
}

// FullHelp returns bindings for the full help view.
func (k RunsBoardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.NextView, k.PrevView, k.Quit},
	}
}

// DefaultRunsBoardKeyMap returns the default key bindings.
func DefaultRunsBoardKeyMap() RunsBoardKeyMap {
	return RunsBoardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextView: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next view"),
		),
		PrevView: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev view"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// RunsBoardModel is the Bubble Tea model listing stored runs.
type RunsBoardModel struct {
	source   RunsSource
	view     RunsView
	runs     []storage.RunRecord
	loadErr  error
	table    table.Model
	help     help.Model
	keys     RunsBoardKeyMap
	width    int
	height   int
	quitting bool
}

// NewRunsBoardModel creates a runs board.
func NewRunsBoardModel(source RunsSource, width, height int) RunsBoardModel {
	h := help.New()
	h.ShowAll = false

	m := RunsBoardModel{
		source: source,
		keys:   DefaultRunsBoardKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.loadRuns()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *RunsBoardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Seed", Width: 12},
		{Title: "Bot", Width: 8},
		{Title: "Score", Width: 9},
		{Title: "Error", Width: 9},
		{Title: "Metric", Width: 8},
		{Title: "RPS", Width: 9},
		{Title: "Reason", Width: 16},
		{Title: "Date", Width: 12},
	}

	height := m.height - 8 // Leave room for header, help, and margins
	if height < 5 {
		height = 5
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadRuns reloads the current view from the source.
func (m *RunsBoardModel) loadRuns() {
	m.runs, m.loadErr = nil, nil
	if m.source != nil {
		switch m.view {
		case ViewBest:
			m.runs, m.loadErr = m.source.BestRuns(maxBoardRuns)
		case ViewRecent:
			m.runs, m.loadErr = m.source.RecentRuns(maxBoardRuns)
		}
	}
	m.table.SetRows(RunRows(m.runs))
	m.table.GotoTop()
}

// RunRows formats records as table rows.
func RunRows(runs []storage.RunRecord) []table.Row {
	rows := make([]table.Row, len(runs))
	for i, r := range runs {
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", r.Seed),
			r.Bot,
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%.4f", r.Error),
			fmt.Sprintf("%.4f", r.Metric),
			fmt.Sprintf("%.2f", r.RPS),
			r.Reason,
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	return rows
}

// Init initializes the runs board.
func (m RunsBoardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the runs board.
func (m RunsBoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextView):
			m.view = (m.view + 1) % RunsView(len(runsViewTitles))
			m.loadRuns()
			return m, nil

		case key.Matches(msg, m.keys.PrevView):
			m.view--
			if m.view < 0 {
				m.view = RunsView(len(runsViewTitles) - 1)
			}
			m.loadRuns()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.table.SetRows(RunRows(m.runs))
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table for scrolling
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View returns the active view.
func (m RunsBoardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render(centerText("STORED RUNS", m.width)))
	b.WriteString("\n\n")

	tabStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(runsViewTitles))
	for i, title := range runsViewTitles {
		if RunsView(i) == m.view {
			tabs[i] = activeTabStyle.Render(title)
		} else {
			tabs[i] = tabStyle.Render(" " + title + " ")
		}
	}
	b.WriteString(centerText(strings.Join(tabs, " "), m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or an empty/error message.
func (m RunsBoardModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	if m.loadErr != nil {
		return emptyStyle.Render(fmt.Sprintf("Cannot load runs: %v", m.loadErr))
	}
	if len(m.runs) == 0 {
		return emptyStyle.Render("No runs recorded yet.\nStart one with: tttarena run")
	}
	return m.table.View()
}

// CurrentView returns the selected view.
func (m RunsBoardModel) CurrentView() RunsView {
	return m.view
}

// Runs returns the records currently listed.
func (m RunsBoardModel) Runs() []storage.RunRecord {
	return m.runs
}

// RunRunsBoard runs the stored-runs screen until the user quits.
func RunRunsBoard(source RunsSource, width, height int) error {
	p := tea.NewProgram(
		NewRunsBoardModel(source, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
