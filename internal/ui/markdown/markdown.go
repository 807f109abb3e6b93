// Package markdown renders markdown responses and help text for the terminal.
package markdown

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// noMarginStyle removes document margins so output lines up with the prompt.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer wraps glamour with replshell's settings.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// New creates a markdown renderer wrapping at width. style is a glamour
// standard style ("dark", "light", "notty"); empty means "dark".
// A fixed style avoids WithAutoStyle, whose background query leaks escape
// sequences into the input stream.
func New(width int, style string) (*Renderer, error) {
	if style == "" {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("creating markdown renderer: %w", err)
	}
	return &Renderer{renderer: r, width: width}, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Render transforms markdown to styled terminal output without the trailing
// blank lines glamour appends.
func (r *Renderer) Render(md string) (string, error) {
	out, err := r.renderer.Render(md)
	if err != nil {
		return "", err
	}
	return strings.Trim(out, "\n"), nil
}

// Pool hands out renderers keyed by width, so resizing doesn't rebuild one
// per response.
type Pool struct {
	style string
	mu    sync.Mutex
	byW   map[int]*Renderer
}

// NewPool creates a renderer pool for style.
func NewPool(style string) *Pool {
	return &Pool{style: style, byW: make(map[int]*Renderer)}
}

// Render renders md at width.
func (p *Pool) Render(md string, width int) (string, error) {
	width = max(width, 20)
	p.mu.Lock()
	r, ok := p.byW[width]
	if !ok {
		var err error
		r, err = New(width, p.style)
		if err != nil {
			p.mu.Unlock()
			return "", err
		}
		p.byW[width] = r
	}
	p.mu.Unlock()
	return r.Render(md)
}
