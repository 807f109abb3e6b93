package logoverlay

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/replshell/internal/log"
)

func setup(t *testing.T) {
	t.Helper()
	log.InitWriter(nil, 100)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNew_Hidden(t *testing.T) {
	setup(t)
	m := New(80, 24)
	require.False(t, m.Visible())
	require.Empty(t, m.View())
	require.Equal(t, "bg", m.Overlay("bg"))
}

func TestToggle(t *testing.T) {
	setup(t)
	m := New(80, 24)
	m.Toggle()
	require.True(t, m.Visible())
	m.Toggle()
	require.False(t, m.Visible())
}

func TestView_ShowsEntries(t *testing.T) {
	setup(t)
	log.Info(log.CatExec, "ran command")
	log.Error(log.CatStorage, "write failed")

	m := New(80, 30)
	m.Show()
	out := ansi.Strip(m.View())

	require.Contains(t, out, "Logs")
	require.Contains(t, out, "ran command")
	require.Contains(t, out, "write failed")
}

func TestView_Empty(t *testing.T) {
	setup(t)
	m := New(80, 30)
	m.Show()
	require.Contains(t, ansi.Strip(m.View()), "No logs to display")
}

func TestFilterLevels(t *testing.T) {
	setup(t)
	log.Debug(log.CatShell, "debug-entry")
	log.Warn(log.CatHistory, "warn-entry")

	m := New(80, 30)
	m.Show()
	m, _ = m.Update(keyMsg("w"))

	out := ansi.Strip(m.View())
	require.NotContains(t, out, "debug-entry")
	require.Contains(t, out, "warn-entry")

	m, _ = m.Update(keyMsg("d"))
	require.Contains(t, ansi.Strip(m.View()), "debug-entry")
}

func TestClearKey(t *testing.T) {
	setup(t)
	log.Info(log.CatUI, "to-be-cleared")
	m := New(80, 30)
	m.Show()

	m, _ = m.Update(keyMsg("c"))

	require.Empty(t, log.GetRecentLogs(10))
	require.NotContains(t, ansi.Strip(m.View()), "to-be-cleared")
}

func TestCloseKey(t *testing.T) {
	setup(t)
	m := New(80, 30)
	m.Show()

	m, cmd := m.Update(keyMsg("esc"))

	require.False(t, m.Visible())
	require.NotNil(t, cmd)
	require.IsType(t, CloseMsg{}, cmd())
}

func TestKeysIgnoredWhenHidden(t *testing.T) {
	setup(t)
	log.Info(log.CatUI, "kept")
	m := New(80, 30)

	_, cmd := m.Update(keyMsg("c"))

	require.Nil(t, cmd)
	require.Len(t, log.GetRecentLogs(10), 1)
}

func TestLogEvent_Refreshes(t *testing.T) {
	setup(t)
	m := New(80, 30)
	m.Show()
	log.Info(log.CatWatcher, "late arrival")

	m, _ = m.Update(log.LogEvent{Payload: "late arrival"})

	require.Contains(t, ansi.Strip(m.View()), "late arrival")
}

func TestLongEntriesWrap(t *testing.T) {
	setup(t)
	log.Info(log.CatUI, strings.Repeat("word ", 40))
	m := New(44, 30)
	m.Show()

	for _, line := range strings.Split(ansi.Strip(m.View()), "\n") {
		require.LessOrEqual(t, ansi.StringWidth(line), 40)
	}
}

func TestOverlay_Centers(t *testing.T) {
	setup(t)
	m := New(60, 20)
	m.Show()
	bg := strings.Repeat(strings.Repeat(".", 60)+"\n", 19) + strings.Repeat(".", 60)
	out := m.Overlay(bg)
	require.Contains(t, ansi.Strip(out), "Logs")
	require.Len(t, strings.Split(out, "\n"), 20)
}
