package tui

import (
	"context"
	"path/filepath"
	"testing"

	"ezsubs/internal/config"
	"ezsubs/internal/session"
	"ezsubs/internal/tui/messages"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T, files ...string) (*Model, *session.Session) {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, f := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(f), 0755))
		require.NoError(t, afero.WriteFile(fs, f, []byte(f), 0644))
	}
	s := session.New(config.NewTestConfig(), session.WithFs(fs))
	t.Cleanup(s.Close)
	return New(context.Background(), s, config.NewTestConfig()), s
}

func fill(t *testing.T, s *session.Session, side session.Side, paths ...string) {
	t.Helper()
	res := s.DropWait(context.Background(), side, paths)
	require.NoError(t, res.Err)
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd = m.Update(msg)
	}
	return cmd
}

// settle runs cmd and feeds drop and sync results back into the model.
func settle(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			settle(m, c)
		}
	case messages.DropDoneMsg, messages.SyncDoneMsg:
		m.Update(msg)
	}
}

func TestModelInitialization(t *testing.T) {
	m, _ := newTestModel(t)
	assert.NotNil(t, m)
	assert.Equal(t, Normal, m.Mode())
	assert.Equal(t, session.Media, m.Focus())
	assert.Equal(t, 0, m.Cursor())
	assert.Nil(t, m.Init())
}

func TestNavigationAndSwap(t *testing.T) {
	m, s := newTestModel(t, "/m/a.mkv", "/m/b.mkv", "/m/c.mkv")
	fill(t, s, session.Media, "/m")

	press(m, "j")
	assert.Equal(t, 1, m.Cursor())

	press(m, "K")
	assert.Equal(t, []string{"b.mkv", "a.mkv", "c.mkv"}, s.Media().Set().Names())
	assert.Equal(t, 0, m.Cursor(), "cursor follows the moved file")

	// Already at the top: nothing moves.
	press(m, "K")
	assert.Equal(t, []string{"b.mkv", "a.mkv", "c.mkv"}, s.Media().Set().Names())

	press(m, "J")
	assert.Equal(t, []string{"a.mkv", "b.mkv", "c.mkv"}, s.Media().Set().Names())
	assert.Equal(t, 1, m.Cursor())

	press(m, "j", "j", "j")
	assert.Equal(t, 2, m.Cursor(), "cursor stops at the last entry")
	press(m, "g")
	assert.Equal(t, 0, m.Cursor())
	press(m, "G")
	assert.Equal(t, 2, m.Cursor())
}

func TestNavigationOnEmptyList(t *testing.T) {
	m, _ := newTestModel(t)
	press(m, "j", "k", "K", "J", " ", "d")
	assert.Equal(t, 0, m.Cursor())
	assert.Equal(t, Normal, m.Mode())
}

func TestMarkAndDelete(t *testing.T) {
	m, s := newTestModel(t, "/m/a.mkv", "/m/b.mkv", "/m/c.mkv")
	fill(t, s, session.Media, "/m")

	press(m, " ", " ")
	assert.Equal(t, 2, m.Cursor())
	press(m, "d")
	assert.Equal(t, []string{"c.mkv"}, s.Media().Set().Names())
	assert.Equal(t, 0, m.Cursor())
	assert.Contains(t, m.Status(), "Removed 2")
}

func TestDeleteUnderCursor(t *testing.T) {
	m, s := newTestModel(t, "/m/a.mkv", "/m/b.mkv")
	fill(t, s, session.Media, "/m")

	press(m, "j", "d")
	assert.Equal(t, []string{"a.mkv"}, s.Media().Set().Names())
	assert.Equal(t, 0, m.Cursor())
}

func TestSwitchPaneAndClear(t *testing.T) {
	m, s := newTestModel(t, "/m/a.mkv", "/s/a.srt")
	fill(t, s, session.Media, "/m")
	fill(t, s, session.Subtitles, "/s")

	press(m, "tab")
	assert.Equal(t, session.Subtitles, m.Focus())
	press(m, "c")
	assert.Zero(t, s.Subtitles().Len())
	assert.Equal(t, 1, s.Media().Len())

	press(m, "tab", "C")
	assert.Equal(t, session.Media, m.Focus())
	assert.Zero(t, s.Media().Len())
}

func TestSortKey(t *testing.T) {
	m, s := newTestModel(t, "/m/ep10.mkv", "/m/ep2.mkv")
	fill(t, s, session.Media, "/m")
	press(m, "J")
	assert.Equal(t, []string{"ep10.mkv", "ep2.mkv"}, s.Media().Set().Names())

	press(m, "s")
	assert.Equal(t, []string{"ep2.mkv", "ep10.mkv"}, s.Media().Set().Names())
}

func TestAddPaths(t *testing.T) {
	m, s := newTestModel(t, "/s/x.srt", "/s/y 2.srt", "/s/notes.txt")

	press(m, "tab", "a")
	require.Equal(t, Input, m.Mode())

	press(m, `/s/x.srt '/s/y 2.srt' /s/notes.txt`)
	cmd := press(m, "enter")
	assert.Equal(t, Normal, m.Mode())
	settle(m, cmd)

	assert.Equal(t, []string{"x.srt", "y 2.srt"}, s.Subtitles().Set().Names())
	assert.Contains(t, m.Status(), "Added 2 file(s) to subtitles")
}

func TestAddPathsCancel(t *testing.T) {
	m, s := newTestModel(t, "/m/a.mkv")
	press(m, "a", "/m/a.mkv", "esc")
	assert.Equal(t, Normal, m.Mode())
	assert.Zero(t, s.Media().Len())
}

func TestAddPathsReportsWarnings(t *testing.T) {
	m, s := newTestModel(t, "/m/a.mkv")
	press(m, "a", "/m/a.mkv /nope")
	settle(m, press(m, "enter"))
	assert.Equal(t, 1, s.Media().Len())
	assert.Contains(t, m.Status(), "1 path(s) skipped")
}

func TestFuzzyJump(t *testing.T) {
	m, s := newTestModel(t, "/m/Alpha.mkv", "/m/Beta.mkv", "/m/Gamma.mkv")
	fill(t, s, session.Media, "/m")

	press(m, "/", "gam")
	assert.Equal(t, Search, m.Mode())
	assert.Equal(t, 2, m.Cursor())
	press(m, "enter")
	assert.Equal(t, Normal, m.Mode())
	assert.Equal(t, 2, m.Cursor())

	press(m, "/", "alp")
	assert.Equal(t, 0, m.Cursor())
	press(m, "esc")
	assert.Equal(t, 2, m.Cursor(), "cancel restores the cursor")
}

func TestSyncShowsAlert(t *testing.T) {
	m, s := newTestModel(t, "/m/S01E02.mp4", "/m/S01E01.mp4", "/s/b.srt", "/s/a.srt")
	fill(t, s, session.Media, "/m")
	fill(t, s, session.Subtitles, "/s")

	settle(m, press(m, "enter"))
	assert.Contains(t, m.Alert(), "Renamed 2 of 2 subtitles.")
	assert.Equal(t, []string{"S01E01.srt", "S01E02.srt"}, s.Subtitles().Set().Names())
	assert.Equal(t, "Sync finished", m.Status())

	press(m, "esc")
	assert.Empty(t, m.Alert())
}

func TestSyncMismatchAlert(t *testing.T) {
	m, s := newTestModel(t, "/m/a.mkv", "/m/b.mkv", "/s/a.srt")
	fill(t, s, session.Media, "/m")
	fill(t, s, session.Subtitles, "/s")

	settle(m, press(m, "enter"))
	assert.Contains(t, m.Alert(), "2 media files but 1 subtitle files")
	assert.Equal(t, "Lists differ in length", m.Status())
	assert.Equal(t, []string{"a.srt"}, s.Subtitles().Set().Names())
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestWindowSize(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
}
