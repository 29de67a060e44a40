package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/shahnoor-exe/ladle/internal/annapurna"
)

// Theme groups the lipgloss styles used across the views.
type Theme struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Accent   lipgloss.Style
	Dim      lipgloss.Style
	Error    lipgloss.Style
	Stale    lipgloss.Style
	Selected lipgloss.Style

	statuses map[annapurna.Status]lipgloss.Style
}

// DefaultTheme returns the saffron-and-leaf palette.
func DefaultTheme() Theme {
	return Theme{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		Header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		Label:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Value:    lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		Accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Stale:    lipgloss.NewStyle().Foreground(lipgloss.Color("179")),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("237")),
		statuses: map[annapurna.Status]lipgloss.Style{
			annapurna.StatusPending:   lipgloss.NewStyle().Foreground(lipgloss.Color("179")),
			annapurna.StatusAssigned:  lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
			annapurna.StatusPickedUp:  lipgloss.NewStyle().Foreground(lipgloss.Color("81")),
			annapurna.StatusInTransit: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			annapurna.StatusDelivered: lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
			annapurna.StatusCancelled: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
			annapurna.StatusExpired:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		},
	}
}

// StatusStyle returns the style for an order status, defaulting to Dim for
// statuses the palette does not know.
func (t Theme) StatusStyle(s annapurna.Status) lipgloss.Style {
	if style, ok := t.statuses[s]; ok {
		return style
	}
	return t.Dim
}
