package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Border characters (rounded)
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// RenderWithTitleBorder renders content with a title embedded in the top border:
// ╭─ Title ─────╮
func RenderWithTitleBorder(content, title string, width, height int, focused bool) string {
	var borderColor lipgloss.TerminalColor = BorderDefaultColor
	if focused {
		borderColor = BorderFocusColor
	}
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(OverlayTitleColor)

	innerWidth := max(width-2, 1)
	contentHeight := max(height-2, 1)

	lines := strings.Split(content, "\n")
	var sb strings.Builder
	sb.WriteString(buildTopBorder(title, innerWidth, borderStyle, titleStyle))
	for i := 0; i < contentHeight; i++ {
		line := ""
		if i < len(lines) {
			line = ansi.Truncate(lines[i], innerWidth, "")
		}
		if w := lipgloss.Width(line); w < innerWidth {
			line += strings.Repeat(" ", innerWidth-w)
		}
		sb.WriteString("\n")
		sb.WriteString(borderStyle.Render(borderVertical) + line + borderStyle.Render(borderVertical))
	}
	sb.WriteString("\n")
	sb.WriteString(borderStyle.Render(borderBottomLeft + strings.Repeat(borderHorizontal, innerWidth) + borderBottomRight))
	return sb.String()
}

func buildTopBorder(title string, innerWidth int, borderStyle, titleStyle lipgloss.Style) string {
	// "─ " + title + " ─" needs at least 4 cells around the title.
	if title == "" || innerWidth < 5 {
		return borderStyle.Render(borderTopLeft + strings.Repeat(borderHorizontal, innerWidth) + borderTopRight)
	}

	displayTitle := TruncateString(title, innerWidth-4)
	remaining := max(innerWidth-3-lipgloss.Width(displayTitle), 0)

	return borderStyle.Render(borderTopLeft+borderHorizontal+" ") +
		titleStyle.Render(displayTitle) +
		borderStyle.Render(" "+strings.Repeat(borderHorizontal, remaining)+borderTopRight)
}

// TruncateString truncates s to maxWidth cells, ending in "..." when cut.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}
	return ansi.Truncate(s, maxWidth, "...")
}
