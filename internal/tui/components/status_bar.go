package components

import (
	"ezsubs/internal/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Level selects the color of a status message.
type Level int

const (
	Info Level = iota
	Success
	Warning
	Failure
)

// StatusBar shows one line of feedback, with a spinner while work is
// running.
type StatusBar struct {
	text    string
	level   Level
	theme   styles.Theme
	spinner spinner.Model
	loading bool
}

func NewStatusBar(theme styles.Theme) *StatusBar {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.Help

	return &StatusBar{
		theme:   theme,
		spinner: s,
	}
}

// SetLoading starts or stops the spinner. The returned command drives the
// animation and must be handed back to bubbletea.
func (s *StatusBar) SetLoading(loading bool) tea.Cmd {
	s.loading = loading
	if loading {
		return s.spinner.Tick
	}
	return nil
}

func (s *StatusBar) Loading() bool {
	return s.loading
}

func (s *StatusBar) SetText(text string, level Level) {
	s.text = text
	s.level = level
}

func (s *StatusBar) Text() string {
	return s.text
}

func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	if s.loading {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return cmd
	}
	return nil
}

func (s *StatusBar) View() string {
	if s.text == "" && !s.loading {
		return ""
	}

	style := s.style()
	if s.loading {
		return style.Render(s.spinner.View() + " " + s.text)
	}
	return style.Render(s.text)
}

func (s *StatusBar) style() lipgloss.Style {
	switch s.level {
	case Success:
		return s.theme.Success
	case Warning:
		return s.theme.Warning
	case Failure:
		return s.theme.Error
	default:
		return s.theme.Help
	}
}
