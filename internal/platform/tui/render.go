package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tttarena/internal/engine"
	"github.com/vovakirdan/tttarena/internal/runner"
)

const (
	filledCell = "██"
	emptyCell  = " ·"
)

// RenderGrid converts a board to a styled string, two columns per cell.
// Groups adjacent cells with the same state to minimize ANSI escape sequences.
func RenderGrid(b *engine.Board, theme Theme) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(b.Width()*b.Height()*4 + b.Height())

	for row := range b.Height() {
		if row > 0 {
			sb.WriteRune('\n')
		}

		col := 0
		for col < b.Width() {
			filled := b.Filled(row, col)

			// Collect consecutive cells with the same state
			var run strings.Builder
			for col < b.Width() && b.Filled(row, col) == filled {
				if filled {
					run.WriteString(filledCell)
				} else {
					run.WriteString(emptyCell)
				}
				col++
			}

			style := theme.Empty
			if filled {
				style = theme.Filled
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// RenderPiece draws p in its spawn rotation.
func RenderPiece(p engine.PieceType, theme Theme) string {
	rows, cols := engine.Extent(p, 0)
	grid := make([][]bool, rows)
	for r := range grid {
		grid[r] = make([]bool, cols)
	}
	for _, c := range engine.Offsets(p, 0) {
		grid[c.Row][c.Col] = true
	}

	style := theme.PieceStyle(p)
	lines := make([]string, rows)
	for r, cells := range grid {
		var sb strings.Builder
		for _, filled := range cells {
			if filled {
				sb.WriteString(filledCell)
			} else {
				sb.WriteString("  ")
			}
		}
		lines[r] = style.Render(sb.String())
	}
	return strings.Join(lines, "\n")
}

// RenderHUD renders the score panel for a snapshot.
func RenderHUD(s engine.Snapshot, theme Theme) string {
	field := func(label string, value any) string {
		return theme.HUDLabel.Render(fmt.Sprintf("%-7s", label)) + theme.HUDValue.Render(fmt.Sprint(value))
	}

	lines := []string{
		theme.HUDTitle.Render("TTT ARENA"),
		"",
		field("score", s.Score),
		field("lines", s.Lines),
		field("step", s.Steps),
		"",
		theme.HUDLabel.Render("next"),
		RenderPiece(s.Next, theme),
	}
	if s.GameOver {
		lines = append(lines, "", theme.OverlayTitle.Render("GAME OVER"))
	}
	return strings.Join(lines, "\n")
}

// RenderBoard renders a full frame: the framed grid with the HUD beside it.
func RenderBoard(s engine.Snapshot, theme Theme) string {
	if s.Board == nil {
		return ""
	}
	grid := theme.Frame.Render(RenderGrid(s.Board, theme))
	return lipgloss.JoinHorizontal(lipgloss.Top, grid, "  ", RenderHUD(s, theme))
}

// RenderResult renders the end-of-run summary box.
func RenderResult(res runner.Result, theme Theme) string {
	lines := []string{
		theme.OverlayTitle.Render("RUN FINISHED"),
		"",
		theme.OverlayText.Render(fmt.Sprintf("reason   %s", res.Reason)),
		theme.OverlayText.Render(fmt.Sprintf("score    %d", res.FinalScore)),
		theme.OverlayText.Render(fmt.Sprintf("error    %.4f", res.FinalError)),
		theme.OverlayText.Render(fmt.Sprintf("metric   %.4f", res.FinalMetric)),
		theme.OverlayText.Render(fmt.Sprintf("rps      %.2f", res.FinalRPS)),
	}
	if res.Err != nil {
		lines = append(lines, theme.OverlayText.Render(fmt.Sprintf("cause    %v", res.Err)))
	}
	return theme.OverlayBorder.Render(strings.Join(lines, "\n"))
}

// centerText centers text within the given width.
func centerText(text string, width int) string {
	textWidth := lipgloss.Width(text)
	if textWidth >= width {
		return text
	}
	padding := (width - textWidth) / 2
	return strings.Repeat(" ", padding) + text
}
