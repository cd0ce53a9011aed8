package tui

import (
	"testing"

	"ezsubs/internal/session"
	"ezsubs/pkg/testutils"

	alsrt "github.com/alecthomas/assert"
	tea "github.com/charmbracelet/bubbletea"
)

func TestViewRendersBothLists(t *testing.T) {
	m, s := newTestModel(t, "/m/Pilot.mkv", "/s/eng.srt")
	fill(t, s, session.Media, "/m")
	fill(t, s, session.Subtitles, "/s")
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	out := testutils.StripANSI(m.View())
	alsrt.Contains(t, out, "Media (1)")
	alsrt.Contains(t, out, "Subtitles (1)")
	alsrt.Contains(t, out, "Pilot.mkv")
	alsrt.Contains(t, out, "eng.srt")
	alsrt.Contains(t, out, "sync", "short help should list the sync key")
}

func TestViewShowsPromptAndAlert(t *testing.T) {
	m, s := newTestModel(t, "/m/a.mkv")
	fill(t, s, session.Media, "/m")

	press(m, "a")
	out := testutils.StripANSI(m.View())
	alsrt.Contains(t, out, "add to media:")

	press(m, "esc")
	settle(m, press(m, "enter"))
	out = testutils.StripANSI(m.View())
	alsrt.Contains(t, out, "Cannot sync")
	alsrt.Contains(t, out, "esc to dismiss")
}

func TestViewMarksEntries(t *testing.T) {
	m, s := newTestModel(t, "/m/a.mkv", "/m/b.mkv")
	fill(t, s, session.Media, "/m")
	press(m, " ")

	out := testutils.StripANSI(m.View())
	alsrt.Contains(t, out, "*   1  a.mkv")
	alsrt.Equal(t, 1, m.Cursor())
}
