package components

import (
	"fmt"
	"strings"

	"ezsubs/internal/tui/styles"
)

// FilePane renders one of the two file lists.
type FilePane struct {
	Title   string
	Names   []string
	Cursor  int
	Marked  map[int]bool
	Focused bool
	Width   int
	Height  int // visible rows; 0 shows everything
}

// View renders the pane with its border.
func (p FilePane) View(theme styles.Theme) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(fmt.Sprintf("%s (%d)", p.Title, len(p.Names))))
	sb.WriteString("\n")

	if len(p.Names) == 0 {
		sb.WriteString(theme.Muted.Render("drop files with [a]"))
	}

	start, end := p.window()
	for i := start; i < end; i++ {
		prefix := "  "
		if p.Marked[i] {
			prefix = "* "
		}
		line := fmt.Sprintf("%s%3d  %s", prefix, i+1, p.Names[i])

		switch {
		case i == p.Cursor && p.Focused:
			line = theme.Cursor.Render(line)
		case p.Marked[i]:
			line = theme.Marked.Render(line)
		}
		sb.WriteString(line)
		if i < end-1 {
			sb.WriteString("\n")
		}
	}

	style := theme.Pane
	if p.Focused {
		style = theme.ActivePane
	}
	if p.Width > 0 {
		style = style.Width(p.Width)
	}
	return style.Render(sb.String())
}

// window returns the visible range, keeping the cursor on screen.
func (p FilePane) window() (int, int) {
	n := len(p.Names)
	if p.Height <= 0 || n <= p.Height {
		return 0, n
	}
	start := p.Cursor - p.Height/2
	if start < 0 {
		start = 0
	}
	if start+p.Height > n {
		start = n - p.Height
	}
	return start, start + p.Height
}
