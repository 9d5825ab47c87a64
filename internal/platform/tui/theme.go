package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tttarena/internal/engine"
)

// Theme contains all configurable visual styles for the visualizers.
type Theme struct {
	// Grid cell styles
	Filled lipgloss.Style
	Empty  lipgloss.Style
	Frame  lipgloss.Style

	// Piece colors for the lookahead preview
	Pieces map[engine.PieceType]lipgloss.Style

	// HUD styles
	HUDTitle lipgloss.Style
	HUDLabel lipgloss.Style
	HUDValue lipgloss.Style

	// Overlay styles
	OverlayBorder lipgloss.Style
	OverlayTitle  lipgloss.Style
	OverlayText   lipgloss.Style

	Help lipgloss.Style
}

// DefaultTheme returns the default visual theme.
func DefaultTheme() Theme {
	return Theme{
		Filled: lipgloss.NewStyle().Foreground(lipgloss.Color("51")),  // Bright cyan
		Empty:  lipgloss.NewStyle().Foreground(lipgloss.Color("238")), // Dark gray
		Frame:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")),

		Pieces: map[engine.PieceType]lipgloss.Style{
			engine.PieceI: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
			engine.PieceO: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
			engine.PieceT: lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
			engine.PieceS: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
			engine.PieceZ: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
			engine.PieceJ: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
			engine.PieceL: lipgloss.NewStyle().Foreground(lipgloss.Color("208")), // Orange
		},

		HUDTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")),
		HUDLabel: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		HUDValue: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),

		OverlayBorder: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("229")).
			Padding(1, 3),
		OverlayTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")),
		OverlayText:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),

		Help: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// PieceStyle returns the style for p, or the filled-cell style if p has none.
func (t Theme) PieceStyle(p engine.PieceType) lipgloss.Style {
	if s, ok := t.Pieces[p]; ok {
		return s
	}
	return t.Filled
}
