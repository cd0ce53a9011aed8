package styles

import (
	"ezsubs/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the core UI styles
type Theme struct {
	App        lipgloss.Style
	Title      lipgloss.Style
	Pane       lipgloss.Style
	ActivePane lipgloss.Style
	Cursor     lipgloss.Style
	Marked     lipgloss.Style
	Muted      lipgloss.Style
	Help       lipgloss.Style
	Success    lipgloss.Style
	Warning    lipgloss.Style
	Error      lipgloss.Style
	Alert      lipgloss.Style
}

// FromConfig builds the styles for the named palette in config.
func FromConfig(name string) Theme {
	c := config.GetTheme(name)
	color := func(k string) lipgloss.Color { return lipgloss.Color(c[k]) }

	pane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color("muted")).
		Padding(0, 1)

	return Theme{
		App: lipgloss.NewStyle().
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(color("primary")),
		Pane:       pane,
		ActivePane: pane.BorderForeground(color("primary")),
		Cursor: lipgloss.NewStyle().
			Foreground(color("emphasis")).
			Bold(true),
		Marked: lipgloss.NewStyle().
			Foreground(color("warning")),
		Muted: lipgloss.NewStyle().
			Foreground(color("muted")),
		Help: lipgloss.NewStyle().
			Foreground(color("muted")),
		Success: lipgloss.NewStyle().
			Foreground(color("success")),
		Warning: lipgloss.NewStyle().
			Foreground(color("warning")),
		Error: lipgloss.NewStyle().
			Foreground(color("error")),
		Alert: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(color("emphasis")).
			Padding(0, 1),
	}
}
