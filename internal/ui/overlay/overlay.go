// Package overlay places popup content on top of an already rendered view
// without clearing the screen.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Position specifies where to place the overlay content.
type Position int

const (
	// Center places the overlay in the middle of the viewport.
	Center Position = iota
	// Bottom places the overlay at the bottom center of the viewport.
	Bottom
	// Anchor places the overlay just below the cell at (X, Y), flipping
	// above it when there is no room underneath.
	Anchor
)

// Config controls overlay placement.
type Config struct {
	Width    int
	Height   int
	Position Position
	// PadY is the distance from the bottom edge for Bottom.
	PadY int
	// X and Y are the anchor cell for Anchor.
	X, Y int
}

// Place renders fg on top of bg, ANSI-aware on both sides.
func Place(cfg Config, fg, bg string) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")

	for len(bgLines) < cfg.Height {
		bgLines = append(bgLines, "")
	}

	startX, startY := origin(cfg, lipgloss.Width(fg), len(fgLines))

	for i, fgLine := range fgLines {
		y := startY + i
		if y >= len(bgLines) {
			break
		}
		bgLines[y] = splice(bgLines[y], fgLine, startX)
	}
	return strings.Join(bgLines, "\n")
}

// splice writes fgLine over bgLine starting at cell x.
func splice(bgLine, fgLine string, x int) string {
	left := ansi.Truncate(bgLine, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}
	var right string
	end := x + ansi.StringWidth(fgLine)
	if end < ansi.StringWidth(bgLine) {
		right = ansi.TruncateLeft(bgLine, end, "")
	}
	return left + fgLine + right
}

func origin(cfg Config, fgWidth, fgHeight int) (x, y int) {
	switch cfg.Position {
	case Bottom:
		x = (cfg.Width - fgWidth) / 2
		y = cfg.Height - fgHeight - cfg.PadY
	case Anchor:
		x = min(cfg.X, cfg.Width-fgWidth)
		y = cfg.Y + 1
		if y+fgHeight > cfg.Height && cfg.Y-fgHeight >= 0 {
			y = cfg.Y - fgHeight
		}
	default:
		x = (cfg.Width - fgWidth) / 2
		y = (cfg.Height - fgHeight) / 2
	}
	return max(x, 0), max(y, 0)
}
