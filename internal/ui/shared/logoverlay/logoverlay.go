// Package logoverlay provides an in-app log viewer that shows recent log
// entries on top of the shell without leaving the TUI.
package logoverlay

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/zjrosen/replshell/internal/keys"
	"github.com/zjrosen/replshell/internal/log"
	"github.com/zjrosen/replshell/internal/ui/overlay"
	"github.com/zjrosen/replshell/internal/ui/styles"
)

const (
	viewportMaxHeight = 25
	viewportMinHeight = 5
	boxMaxWidth       = 160
	boxMinWidth       = 40
	bufferRead        = 10000
)

// CloseMsg is sent when the overlay closes itself.
type CloseMsg struct{}

// Model is the log overlay component state.
type Model struct {
	visible  bool
	minLevel log.Level
	width    int
	height   int
	viewport viewport.Model
}

// New creates a hidden log overlay sized to width x height.
func New(width, height int) Model {
	return Model{
		minLevel: log.LevelDebug,
		width:    width,
		height:   height,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles keys while visible and keeps the view current when new
// entries arrive.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil
	case log.LogEvent:
		if m.visible {
			atBottom := m.viewport.AtBottom()
			m.refreshViewport()
			if atBottom {
				m.viewport.GotoBottom()
			}
		}
		return m, nil
	case tea.KeyMsg:
		if !m.visible {
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.App.ClearLogs):
			log.ClearBuffer()
			m.refreshViewport()
		case key.Matches(msg, keys.App.CloseLogs):
			m.visible = false
			return m, func() tea.Msg { return CloseMsg{} }
		case key.Matches(msg, keys.App.Quit):
			return m, tea.Quit
		default:
			if lvl, ok := filterKeys[msg.String()]; ok {
				m.minLevel = lvl
				m.refreshViewport()
				return m, nil
			}
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

var filterKeys = map[string]log.Level{
	"d": log.LevelDebug,
	"i": log.LevelInfo,
	"w": log.LevelWarn,
	"e": log.LevelError,
}

// View renders the overlay box, or "" when hidden.
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	boxWidth := m.boxWidth()
	body := m.viewport.View() + "\n" + m.filterHint()
	return styles.RenderWithTitleBorder(body, "Logs", boxWidth, m.viewport.Height+3, true)
}

// Overlay renders the log overlay centered on bg.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.View(), bg)
}

// Visible reports whether the overlay is shown.
func (m Model) Visible() bool {
	return m.visible
}

// Toggle flips visibility.
func (m *Model) Toggle() {
	if m.visible {
		m.Hide()
		return
	}
	m.Show()
}

// Show makes the overlay visible, scrolled to the newest entry.
func (m *Model) Show() {
	m.visible = true
	m.refreshViewport()
	m.viewport.GotoBottom()
}

// Hide makes the overlay invisible.
func (m *Model) Hide() {
	m.visible = false
}

// SetSize updates the screen size the overlay is centered in.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.refreshViewport()
}

func (m Model) boxWidth() int {
	return max(min(m.width-4, boxMaxWidth), boxMinWidth)
}

func (m Model) contentWidth() int {
	return m.boxWidth() - 2
}

func (m *Model) refreshViewport() {
	if m.width == 0 || m.height == 0 {
		return
	}
	// borders (2) + footer (1)
	h := max(min(viewportMaxHeight, m.height-5), viewportMinHeight)
	offset := m.viewport.YOffset
	m.viewport = viewport.New(m.contentWidth(), h)
	m.viewport.SetContent(m.content(m.contentWidth()))
	m.viewport.SetYOffset(offset)
}

func (m Model) content(width int) string {
	var lines []string
	for _, entry := range log.GetRecentLogs(bufferRead) {
		lvl, ok := entryLevel(entry)
		if ok && lvl < m.minLevel {
			continue
		}
		lines = append(lines, colorize(entry, lvl, ok, width))
	}
	if len(lines) == 0 {
		return lipgloss.NewStyle().Foreground(styles.TextMutedColor).Italic(true).Render("No logs to display")
	}
	return strings.Join(lines, "\n")
}

// entryLevel extracts the level tag written by the log package.
func entryLevel(entry string) (log.Level, bool) {
	for _, lvl := range []log.Level{log.LevelError, log.LevelWarn, log.LevelInfo, log.LevelDebug} {
		if strings.Contains(entry, "["+lvl.String()+"]") {
			return lvl, true
		}
	}
	return log.LevelDebug, false
}

// colorize wraps long entries at word boundaries, hard-wrapping words that
// still don't fit.
func colorize(entry string, lvl log.Level, known bool, width int) string {
	entry = strings.TrimSuffix(entry, "\n")
	entry = wrap.String(wordwrap.String(entry, width), width)

	color := styles.TextPrimaryColor
	if known {
		switch lvl {
		case log.LevelError:
			color = styles.StatusErrorColor
		case log.LevelWarn:
			color = styles.StatusWarningColor
		case log.LevelInfo:
			color = styles.StatusInfoColor
		default:
			color = styles.TextMutedColor
		}
	}
	return lipgloss.NewStyle().Foreground(color).Render(entry)
}

func (m Model) filterHint() string {
	hint := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	active := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor).Bold(true)

	parts := []string{hint.Render("[c] Clear")}
	for _, f := range []struct {
		label string
		lvl   log.Level
	}{
		{"[d] Debug", log.LevelDebug},
		{"[i] Info", log.LevelInfo},
		{"[w] Warn", log.LevelWarn},
		{"[e] Error", log.LevelError},
	} {
		if m.minLevel == f.lvl {
			parts = append(parts, active.Render(f.label))
		} else {
			parts = append(parts, hint.Render(f.label))
		}
	}
	return strings.Join(parts, "  ")
}
