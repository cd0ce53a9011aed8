// Package tui is the terminal front end: two side-by-side lists the user
// fills, reorders and syncs.
package tui

import (
	"context"
	"fmt"

	"ezsubs/internal/config"
	"ezsubs/internal/session"
	"ezsubs/internal/tui/components"
	"ezsubs/internal/tui/messages"
	"ezsubs/internal/tui/styles"
	"ezsubs/pkg/types"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
)

// Mode represents the current input mode
type Mode int

const (
	// Normal is the default mode for navigating and editing the lists
	Normal Mode = iota
	// Input is the mode for typing or pasting paths to add
	Input
	// Search is the mode for fuzzy-jumping within the focused list
	Search
)

type Model struct {
	session *session.Session
	ctx     context.Context
	theme   styles.Theme
	keys    KeyMap
	help    help.Model

	mode    Mode
	focus   session.Side
	cursors [2]int
	marked  [2]map[string]bool // by path, so reordering keeps marks

	input        textinput.Model
	searchOrigin int
	matches      fuzzy.Matches

	status  *components.StatusBar
	alert   string
	syncing bool

	width  int
	height int
}

// New creates the model for s. The context bounds drops started from the
// UI.
func New(ctx context.Context, s *session.Session, cfg *config.Config) *Model {
	theme := styles.FromConfig(cfg.Theme.Name)

	ti := textinput.New()
	ti.CharLimit = 0

	h := help.New()
	h.Styles.ShortKey = theme.Help
	h.Styles.ShortDesc = theme.Muted
	h.Styles.FullKey = theme.Help
	h.Styles.FullDesc = theme.Muted

	return &Model{
		session: s,
		ctx:     ctx,
		theme:   theme,
		keys:    DefaultKeyMap(),
		help:    h,
		marked:  [2]map[string]bool{{}, {}},
		input:   ti,
		status:  components.NewStatusBar(theme),
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Mode returns the current input mode.
func (m *Model) Mode() Mode { return m.mode }

// Focus returns the focused list.
func (m *Model) Focus() session.Side { return m.focus }

// Cursor returns the cursor position in the focused list.
func (m *Model) Cursor() int { return m.cursors[m.focus] }

// Alert returns the sync summary currently on screen, if any.
func (m *Model) Alert() string { return m.alert }

// Status returns the status line text.
func (m *Model) Status() string { return m.status.Text() }

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case messages.DropDoneMsg:
		m.handleDrop(msg.Result)
		return m, m.status.SetLoading(m.syncing)

	case messages.SyncDoneMsg:
		m.syncing = false
		m.status.SetLoading(false)
		m.handleSync(msg.Report)
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case Input:
			return m.handleInputKeys(msg)
		case Search:
			return m.handleSearchKeys(msg)
		default:
			return m.handleNormalKeys(msg)
		}
	}

	return m, m.status.Update(msg)
}

func (m *Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	set := m.session.Panel(m.focus).Set()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Dismiss):
		m.alert = ""
	case key.Matches(msg, m.keys.SwitchPane):
		m.focus = other(m.focus)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.GotoTop):
		m.cursors[m.focus] = 0
	case key.Matches(msg, m.keys.GotoBottom):
		m.cursors[m.focus] = max(set.Len()-1, 0)
	case key.Matches(msg, m.keys.MoveUp):
		if set.SwapAdjacent(m.Cursor(), types.Up) {
			m.cursors[m.focus]--
		}
	case key.Matches(msg, m.keys.MoveDown):
		if set.SwapAdjacent(m.Cursor(), types.Down) {
			m.cursors[m.focus]++
		}
	case key.Matches(msg, m.keys.Mark):
		if ref, ok := set.At(m.Cursor()); ok {
			marks := m.marked[m.focus]
			if marks[ref.Path()] {
				delete(marks, ref.Path())
			} else {
				marks[ref.Path()] = true
			}
			m.moveCursor(1)
		}
	case key.Matches(msg, m.keys.Delete):
		m.removeSelection()
	case key.Matches(msg, m.keys.Clear):
		m.session.Clear(m.focus)
		m.resetPanel(m.focus)
		m.status.SetText(fmt.Sprintf("Cleared %s", m.focus), components.Info)
	case key.Matches(msg, m.keys.ClearAll):
		m.session.ClearAll()
		m.resetPanel(session.Media)
		m.resetPanel(session.Subtitles)
		m.status.SetText("Cleared both lists", components.Info)
	case key.Matches(msg, m.keys.Sort):
		set.NormalizeOrder()
		m.status.SetText(fmt.Sprintf("Sorted %s", m.focus), components.Info)
	case key.Matches(msg, m.keys.Add):
		m.mode = Input
		m.input.Prompt = fmt.Sprintf("add to %s: ", m.focus)
		m.input.Placeholder = "paste or drag files and folders here"
		m.input.SetValue("")
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Search):
		m.mode = Search
		m.searchOrigin = m.Cursor()
		m.matches = nil
		m.input.Prompt = "/"
		m.input.Placeholder = ""
		m.input.SetValue("")
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Sync):
		return m, m.startSync()
	}
	return m, nil
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.leavePrompt()
		return m, nil
	case key.Matches(msg, m.keys.Accept):
		paths := splitPaths(m.input.Value())
		m.leavePrompt()
		if len(paths) == 0 {
			return m, nil
		}
		m.status.SetText(fmt.Sprintf("Collecting %d path(s) into %s", len(paths), m.focus), components.Info)
		return m, tea.Batch(m.status.SetLoading(true), dropCmd(m.ctx, m.session, m.focus, paths))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.cursors[m.focus] = m.searchOrigin
		m.leavePrompt()
		return m, nil
	case key.Matches(msg, m.keys.Accept):
		m.leavePrompt()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	names := m.session.Panel(m.focus).Set().Names()
	m.matches = fuzzy.Find(m.input.Value(), names)
	if len(m.matches) > 0 {
		m.cursors[m.focus] = m.matches[0].Index
	}
	return m, cmd
}

func (m *Model) leavePrompt() {
	m.mode = Normal
	m.input.Blur()
	m.input.SetValue("")
	m.matches = nil
}

func (m *Model) startSync() tea.Cmd {
	if m.syncing {
		return nil
	}
	m.syncing = true
	m.alert = ""
	m.status.SetText("Renaming subtitles", components.Info)
	return tea.Batch(m.status.SetLoading(true), syncCmd(m.session))
}

func (m *Model) handleDrop(res session.DropResult) {
	switch {
	case res.Err != nil && res.Discarded:
		m.status.SetText(fmt.Sprintf("Drop into %s cancelled", res.Side), components.Warning)
	case res.Discarded:
		m.status.SetText(fmt.Sprintf("Drop into %s discarded after clear", res.Side), components.Warning)
	case len(res.Warnings) > 0:
		m.status.SetText(fmt.Sprintf("Added %d file(s) to %s, %d path(s) skipped", res.Added, res.Side, len(res.Warnings)), components.Warning)
	default:
		m.status.SetText(fmt.Sprintf("Added %d file(s) to %s", res.Added, res.Side), components.Success)
	}
	m.clampCursors()
}

func (m *Model) handleSync(report *session.SyncReport) {
	m.alert = report.Summary()
	switch {
	case report.Mismatch != nil:
		m.status.SetText("Lists differ in length", components.Failure)
	case len(report.Failures()) > 0:
		m.status.SetText(fmt.Sprintf("%d rename(s) failed", len(report.Failures())), components.Failure)
	default:
		m.status.SetText("Sync finished", components.Success)
	}
	// Renamed files have new paths; marks keyed by the old ones are stale.
	m.marked[session.Subtitles] = map[string]bool{}
	m.clampCursors()
}

func (m *Model) moveCursor(delta int) {
	n := m.session.Panel(m.focus).Len()
	c := m.cursors[m.focus] + delta
	if c >= n {
		c = n - 1
	}
	if c < 0 {
		c = 0
	}
	m.cursors[m.focus] = c
}

// removeSelection removes the marked entries, or the one under the cursor
// when nothing is marked.
func (m *Model) removeSelection() {
	set := m.session.Panel(m.focus).Set()
	marks := m.marked[m.focus]

	var indices []int
	if len(marks) > 0 {
		for i, ref := range set.Items() {
			if marks[ref.Path()] {
				indices = append(indices, i)
			}
		}
	} else if m.Cursor() < set.Len() {
		indices = []int{m.Cursor()}
	}

	removed := set.RemoveAt(indices...)
	m.marked[m.focus] = map[string]bool{}
	m.clampCursors()
	if removed > 0 {
		m.status.SetText(fmt.Sprintf("Removed %d file(s) from %s", removed, m.focus), components.Info)
	}
}

func (m *Model) resetPanel(side session.Side) {
	m.cursors[side] = 0
	m.marked[side] = map[string]bool{}
}

func (m *Model) clampCursors() {
	for _, side := range []session.Side{session.Media, session.Subtitles} {
		n := m.session.Panel(side).Len()
		if m.cursors[side] >= n {
			m.cursors[side] = max(n-1, 0)
		}
	}
}

func other(side session.Side) session.Side {
	if side == session.Media {
		return session.Subtitles
	}
	return session.Media
}

func dropCmd(ctx context.Context, s *session.Session, side session.Side, paths []string) tea.Cmd {
	return func() tea.Msg {
		return messages.DropDoneMsg{Result: s.DropWait(ctx, side, paths)}
	}
}

func syncCmd(s *session.Session) tea.Cmd {
	return func() tea.Msg {
		return messages.SyncDoneMsg{Report: <-s.SyncAsync()}
	}
}
