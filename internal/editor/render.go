package editor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// RenderOptions controls Render.
type RenderOptions struct {
	// Width wraps lines at this many cells. Zero disables wrapping.
	Width int
	// ShowCursor draws the caret.
	ShowCursor bool
	// Cursor renders the cell under the caret. Nil uses reverse video.
	Cursor func(char string) string
	// Selection styles selected text.
	Selection lipgloss.Style
	// ClassStyle maps a mark class to a style. Nil leaves marks unstyled.
	ClassStyle func(class string) (lipgloss.Style, bool)
	// Widget styles line widget content.
	Widget lipgloss.Style
}

// Rendered is a rendered document plus the row layout needed to map
// positions to screen rows.
type Rendered struct {
	Content string
	Rows    int

	lineRows  []int   // first row of each line
	segStarts [][]int // grapheme column where each wrapped row of a line starts
}

// RowOf returns the screen row showing p.
func (r Rendered) RowOf(p Pos) int {
	if len(r.lineRows) == 0 {
		return 0
	}
	line := min(max(p.Line, 0), len(r.lineRows)-1)
	row := r.lineRows[line]
	for i, start := range r.segStarts[line] {
		if i > 0 && start > p.Ch {
			break
		}
		row = r.lineRows[line] + i
	}
	return row
}

// CellOf returns the screen row and cell column of p. line must be the text
// of p's line.
func (r Rendered) CellOf(p Pos, line string) (row, col int) {
	row = r.RowOf(p)
	if len(r.lineRows) == 0 {
		return row, 0
	}
	l := min(max(p.Line, 0), len(r.lineRows)-1)
	start := r.segStarts[l][row-r.lineRows[l]]
	return row, DisplayWidth(SliceGraphemes(line, start, max(p.Ch, start)))
}

var reverse = lipgloss.NewStyle().Reverse(true)

// Render draws the document.
func (d *Doc) Render(opts RenderOptions) Rendered {
	out := Rendered{
		lineRows:  make([]int, len(d.lines)),
		segStarts: make([][]int, len(d.lines)),
	}
	var rows []string

	for n, line := range d.lines {
		out.lineRows[n] = len(rows)
		segs, starts := d.renderLine(n, line, opts)
		out.segStarts[n] = starts
		rows = append(rows, segs...)

		for _, w := range d.widgets {
			if w.Line != n {
				continue
			}
			for _, wl := range strings.Split(w.Content, "\n") {
				if opts.Width > 0 {
					wl = ansi.Truncate(wl, opts.Width, "")
				}
				rows = append(rows, opts.Widget.Render(wl))
			}
		}
	}

	out.Rows = len(rows)
	out.Content = strings.Join(rows, "\n")
	return out
}

type cell struct {
	text  string
	width int
	style int // index into palette, -1 for plain
}

func (d *Doc) renderLine(n int, line string, opts RenderOptions) ([]string, []int) {
	gs := Graphemes(line)
	cells := make([]cell, len(gs))
	for i, g := range gs {
		if g == "\t" {
			g = " "
		}
		cells[i] = cell{text: g, width: max(DisplayWidth(g), 1), style: -1}
	}

	var palette []lipgloss.Style
	paint := func(from, to int, st lipgloss.Style) {
		from, to = max(from, 0), min(to, len(cells))
		if from >= to {
			return
		}
		palette = append(palette, st)
		for i := from; i < to; i++ {
			cells[i].style = len(palette) - 1
		}
	}

	if d.lexer != nil && d.meta[n].highlightFrom >= 0 && d.meta[n].highlightFrom < len(gs) {
		base := GraphemeToByteOffset(line, d.meta[n].highlightFrom)
		for _, tok := range d.lexer.Tokenize(line[base:]) {
			from := ByteToGraphemeOffset(line, base+tok.Start)
			to := ByteToGraphemeOffset(line, base+tok.End-1) + 1
			paint(from, to, tok.Style)
		}
	}

	if opts.ClassStyle != nil {
		for _, m := range d.marks {
			if n < m.From.Line || n > m.To.Line {
				continue
			}
			st, ok := opts.ClassStyle(m.Class)
			if !ok {
				continue
			}
			from, to := 0, len(cells)
			if n == m.From.Line {
				from = m.From.Ch
			}
			if n == m.To.Line {
				to = m.To.Ch
			}
			paint(from, to, st)
		}
	}

	if d.HasSelection() {
		s, e := minPos(d.anchor, d.head), maxPos(d.anchor, d.head)
		if n >= s.Line && n <= e.Line {
			from, to := 0, len(cells)
			if n == s.Line {
				from = s.Ch
			}
			if n == e.Line {
				to = e.Ch
			}
			paint(from, to, opts.Selection)
		}
	}

	cursorCol := -1
	if opts.ShowCursor && d.head.Line == n {
		cursorCol = d.head.Ch
		if cursorCol >= len(cells) {
			cells = append(cells, cell{text: " ", width: 1, style: -1})
		}
	}

	// Wrap by display width.
	starts := []int{0}
	used := 0
	for i, c := range cells {
		if opts.Width > 0 && used > 0 && used+c.width > opts.Width {
			starts = append(starts, i)
			used = 0
		}
		used += c.width
	}

	segs := make([]string, len(starts))
	for s := range starts {
		end := len(cells)
		if s+1 < len(starts) {
			end = starts[s+1]
		}
		segs[s] = renderCells(cells[starts[s]:end], starts[s], cursorCol, palette, opts.Cursor)
	}
	return segs, starts
}

func renderCells(cells []cell, offset, cursorCol int, palette []lipgloss.Style, cursor func(string) string) string {
	var sb strings.Builder
	var run strings.Builder
	runStyle := -1
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if runStyle >= 0 {
			sb.WriteString(palette[runStyle].Render(run.String()))
		} else {
			sb.WriteString(run.String())
		}
		run.Reset()
	}

	for i, c := range cells {
		if offset+i == cursorCol {
			flush()
			if cursor != nil {
				sb.WriteString(cursor(c.text))
			} else {
				sb.WriteString(reverse.Render(c.text))
			}
			continue
		}
		if c.style != runStyle {
			flush()
			runStyle = c.style
		}
		run.WriteString(c.text)
	}
	flush()
	return sb.String()
}
