// Package toaster shows short notifications at the bottom of the screen.
package toaster

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/replshell/internal/ui/overlay"
	"github.com/zjrosen/replshell/internal/ui/styles"
)

// DefaultDuration is how long a toast stays up.
const DefaultDuration = 4 * time.Second

// Style determines the visual appearance of the toast.
type Style int

const (
	// StyleInfo shows "i" with a blue border.
	StyleInfo Style = iota
	// StyleWarn shows "!" with a yellow border.
	StyleWarn
	// StyleError shows "x" with a red border.
	StyleError
)

// Model holds the toaster state.
type Model struct {
	message string
	style   Style
	visible bool
	seq     int
}

// New creates a new toaster model.
func New() Model {
	return Model{}
}

// Show displays message and returns the command that dismisses it after d.
// A later toast replaces this one and outlives its dismissal.
func (m Model) Show(message string, style Style, d time.Duration) (Model, tea.Cmd) {
	m.message = message
	m.style = style
	m.visible = true
	m.seq++
	return m, scheduleDismiss(m.seq, d)
}

// Hide dismisses the toast.
func (m Model) Hide() Model {
	m.visible = false
	m.message = ""
	return m
}

// Visible returns whether the toast is currently showing.
func (m Model) Visible() bool {
	return m.visible
}

// Message returns the text of the visible toast.
func (m Model) Message() string {
	return m.message
}

// Update handles DismissMsg.
func (m Model) Update(msg tea.Msg) Model {
	if d, ok := msg.(DismissMsg); ok && d.seq == m.seq {
		return m.Hide()
	}
	return m
}

// View renders the toast box.
func (m Model) View() string {
	if !m.visible || m.message == "" {
		return ""
	}

	style := lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder())

	var icon string
	switch m.style {
	case StyleError:
		style = style.BorderForeground(styles.StatusErrorColor)
		icon = styles.ErrorStyle.Render("x")
	case StyleWarn:
		style = style.BorderForeground(styles.StatusWarningColor)
		icon = styles.WarnStyle.Render("!")
	default:
		style = style.BorderForeground(styles.StatusInfoColor)
		icon = styles.InfoStyle.Render("i")
	}

	return style.Render(icon + " " + m.message)
}

// Overlay renders the toast on top of a background view, bottom-centered.
func (m Model) Overlay(bg string, width, height int) string {
	if !m.visible || m.message == "" {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    width,
		Height:   height,
		Position: overlay.Bottom,
		PadY:     1,
	}, m.View(), bg)
}

// DismissMsg hides the toast it was scheduled for.
type DismissMsg struct {
	seq int
}

func scheduleDismiss(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return DismissMsg{seq: seq}
	})
}
