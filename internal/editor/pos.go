package editor

import "fmt"

// Pos is a document position. Ch is a grapheme index within the line, not a
// byte offset.
type Pos struct {
	Line int
	Ch   int
}

// P is shorthand for Pos{Line: line, Ch: ch}.
func P(line, ch int) Pos {
	return Pos{Line: line, Ch: ch}
}

// Compare returns -1, 0 or 1 when p is before, equal to or after o.
func (p Pos) Compare(o Pos) int {
	switch {
	case p.Line < o.Line:
		return -1
	case p.Line > o.Line:
		return 1
	case p.Ch < o.Ch:
		return -1
	case p.Ch > o.Ch:
		return 1
	}
	return 0
}

// Before reports whether p sorts before o.
func (p Pos) Before(o Pos) bool {
	return p.Compare(o) < 0
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Ch)
}

func minPos(a, b Pos) Pos {
	if b.Before(a) {
		return b
	}
	return a
}

func maxPos(a, b Pos) Pos {
	if a.Before(b) {
		return b
	}
	return a
}
