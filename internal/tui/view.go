package tui

import (
	"strings"

	"ezsubs/internal/session"
	"ezsubs/internal/tui/components"

	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model
func (m *Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.theme.Title.Render("ezsubs"))
	sb.WriteString(m.theme.Muted.Render("  rename subtitles after their videos"))
	sb.WriteString("\n")

	paneWidth, rows := 0, 0
	if m.width > 0 {
		paneWidth = max(m.width/2-4, 20)
	}
	if m.height > 0 {
		rows = max(m.height-10, 3)
	}
	left := m.pane(session.Media, "Media", paneWidth, rows)
	right := m.pane(session.Subtitles, "Subtitles", paneWidth, rows)
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right))
	sb.WriteString("\n")

	if m.alert != "" {
		sb.WriteString(m.theme.Alert.Render(m.alert + "\n" + m.theme.Muted.Render("esc to dismiss")))
		sb.WriteString("\n")
	}

	if m.mode != Normal {
		sb.WriteString(m.input.View())
		sb.WriteString("\n")
	}

	if status := m.status.View(); status != "" {
		sb.WriteString(status)
		sb.WriteString("\n")
	}
	sb.WriteString(m.help.View(m.keys))

	return m.theme.App.Render(sb.String())
}

func (m *Model) pane(side session.Side, title string, width, rows int) string {
	set := m.session.Panel(side).Set()
	items := set.Items()

	names := make([]string, len(items))
	marked := make(map[int]bool)
	for i, ref := range items {
		names[i] = ref.Name()
		if m.marked[side][ref.Path()] {
			marked[i] = true
		}
	}

	return components.FilePane{
		Title:   title,
		Names:   names,
		Cursor:  m.cursors[side],
		Marked:  marked,
		Focused: m.focus == side,
		Width:   width,
		Height:  rows,
	}.View(m.theme)
}
