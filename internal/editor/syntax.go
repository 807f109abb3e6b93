package editor

import (
	"fmt"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// Token is a styled byte range [Start, End) of one line.
type Token struct {
	Start int
	End   int
	Style lipgloss.Style
}

// Lexer tokenizes single lines. Tokens must be sorted and non-overlapping;
// gaps render unstyled.
type Lexer interface {
	Tokenize(line string) []Token
}

// ChromaLexer highlights lines with a chroma lexer and style.
type ChromaLexer struct {
	lexer chroma.Lexer
	style *chroma.Style
	cache map[chroma.TokenType]lipgloss.Style
}

// NewChromaLexer returns a lexer for the named language ("lua", "javascript",
// ...) using the named chroma style. An unknown style falls back to chroma's
// default.
func NewChromaLexer(language, style string) (*ChromaLexer, error) {
	l := lexers.Get(language)
	if l == nil {
		return nil, fmt.Errorf("no syntax mode named %q", language)
	}
	return &ChromaLexer{
		lexer: chroma.Coalesce(l),
		style: styles.Get(style),
		cache: make(map[chroma.TokenType]lipgloss.Style),
	}, nil
}

// Name returns the chroma lexer name.
func (c *ChromaLexer) Name() string {
	return c.lexer.Config().Name
}

// Tokenize implements Lexer.
func (c *ChromaLexer) Tokenize(line string) []Token {
	if line == "" {
		return nil
	}
	it, err := c.lexer.Tokenise(nil, line)
	if err != nil {
		return nil
	}
	var out []Token
	pos := 0
	for _, tok := range it.Tokens() {
		start := pos
		pos += len(tok.Value)
		end := min(pos, len(line))
		if start >= end {
			continue
		}
		st, ok := c.styleFor(tok.Type)
		if !ok {
			continue
		}
		out = append(out, Token{Start: start, End: end, Style: st})
	}
	return out
}

func (c *ChromaLexer) styleFor(tt chroma.TokenType) (lipgloss.Style, bool) {
	if st, ok := c.cache[tt]; ok {
		return st, true
	}
	entry := c.style.Get(tt)
	if !entry.Colour.IsSet() && entry.Bold != chroma.Yes && entry.Italic != chroma.Yes {
		return lipgloss.Style{}, false
	}
	st := lipgloss.NewStyle()
	if entry.Colour.IsSet() {
		st = st.Foreground(lipgloss.Color(entry.Colour.String()))
	}
	if entry.Bold == chroma.Yes {
		st = st.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		st = st.Italic(true)
	}
	c.cache[tt] = st
	return st, true
}
