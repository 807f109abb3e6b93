// Package help contains the key help overlay.
package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/replshell/internal/keys"
	"github.com/zjrosen/replshell/internal/ui/overlay"
	"github.com/zjrosen/replshell/internal/ui/styles"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.OverlayTitleColor).
			PaddingLeft(2)

	dividerStyle = lipgloss.NewStyle().
			Foreground(styles.OverlayBorderColor)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.OverlayTitleColor).
			MarginTop(1)

	keyStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondaryColor).
			Width(9)

	descStyle = lipgloss.NewStyle().
			Foreground(styles.TextMutedColor)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.OverlayBorderColor)

	contentStyle = lipgloss.NewStyle().
			Padding(0, 2)

	footerStyle = lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			MarginTop(1)
)

// Section titles, in keys.AppKeyMap.FullHelp order.
var sections = []string{"Shell", "Caret", "Editing", "General"}

// Footer is shown below the key columns.
const Footer = "Press f1 or Esc to close"

// Model holds the help view state.
type Model struct {
	keys   keys.AppKeyMap
	width  int
	height int
}

// New creates a help view for the application keys.
func New() Model {
	return Model{keys: keys.App}
}

// SetSize updates dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// View renders the help box centered in an empty screen.
func (m Model) View() string {
	return m.Overlay("")
}

// Overlay renders the help box on top of a background view.
func (m Model) Overlay(background string) string {
	box := m.renderContent()
	if background == "" {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, box, background)
}

func (m Model) renderContent() string {
	columnStyle := lipgloss.NewStyle().MarginRight(4)

	groups := m.keys.FullHelp()
	cols := make([]string, 0, len(groups))
	for i, group := range groups {
		var col strings.Builder
		if i < len(sections) {
			col.WriteString(sectionStyle.Render(sections[i]))
			col.WriteString("\n")
		}
		for _, b := range group {
			col.WriteString(renderBinding(b))
		}
		if i < len(groups)-1 {
			cols = append(cols, columnStyle.Render(col.String()))
		} else {
			cols = append(cols, col.String())
		}
	}

	columns := lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	boxWidth := lipgloss.Width(columns) + 4
	body := contentStyle.Render(columns + "\n" + footerStyle.Render(Footer))
	divider := dividerStyle.Render(strings.Repeat("─", boxWidth))

	var content strings.Builder
	content.WriteString(titleStyle.Render("Keybindings"))
	content.WriteString("\n")
	content.WriteString(divider)
	content.WriteString("\n")
	content.WriteString(body)

	return boxStyle.Width(boxWidth).Render(content.String())
}

func renderBinding(b key.Binding) string {
	if !b.Enabled() {
		return ""
	}
	h := b.Help()
	return keyStyle.Render(h.Key) + descStyle.Render(h.Desc) + "\n"
}
