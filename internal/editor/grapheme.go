package editor

import (
	"unicode"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Columns in this package count grapheme clusters: "e" plus a combining
// accent is one column, as is a family emoji. Display width is a separate
// measure and only matters when wrapping.

// GraphemeCount returns the number of grapheme clusters in s.
func GraphemeCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// GraphemeToByteOffset converts a grapheme index to a byte offset, clamped to
// [0, len(s)].
func GraphemeToByteOffset(s string, idx int) int {
	if idx <= 0 {
		return 0
	}
	n := 0
	state := -1
	rest := s
	for len(rest) > 0 {
		_, rest, _, state = uniseg.StepString(rest, state)
		n++
		if n == idx {
			return len(s) - len(rest)
		}
	}
	return len(s)
}

// ByteToGraphemeOffset converts a byte offset to the index of the grapheme
// containing it.
func ByteToGraphemeOffset(s string, off int) int {
	if off <= 0 {
		return 0
	}
	idx := 0
	pos := 0
	state := -1
	rest := s
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.StepString(rest, state)
		pos += len(cluster)
		if off < pos {
			return idx
		}
		idx++
	}
	return idx
}

// SliceGraphemes returns s[start:end] measured in graphemes.
func SliceGraphemes(s string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end < start {
		return ""
	}
	return s[GraphemeToByteOffset(s, start):GraphemeToByteOffset(s, end)]
}

// Graphemes splits s into grapheme clusters.
func Graphemes(s string) []string {
	out := make([]string, 0, len(s))
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.StepString(s, state)
		out = append(out, cluster)
	}
	return out
}

// DisplayWidth returns the number of terminal cells s occupies.
func DisplayWidth(s string) int {
	return runewidth.StringWidth(s)
}

const (
	classSpace = iota
	classWord
	classPunct
)

func graphemeClass(cluster string) int {
	for _, r := range cluster {
		switch {
		case unicode.IsSpace(r):
			return classSpace
		case r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r):
			return classWord
		default:
			return classPunct
		}
	}
	return classSpace
}

// WordLeft returns the column of the start of the word before col.
func WordLeft(line string, col int) int {
	gs := Graphemes(line)
	if col > len(gs) {
		col = len(gs)
	}
	i := col
	for i > 0 && graphemeClass(gs[i-1]) == classSpace {
		i--
	}
	if i == 0 {
		return 0
	}
	class := graphemeClass(gs[i-1])
	for i > 0 && graphemeClass(gs[i-1]) == class {
		i--
	}
	return i
}

// WordRight returns the column just past the end of the word at or after col.
func WordRight(line string, col int) int {
	gs := Graphemes(line)
	i := max(col, 0)
	for i < len(gs) && graphemeClass(gs[i]) == classSpace {
		i++
	}
	if i >= len(gs) {
		return len(gs)
	}
	class := graphemeClass(gs[i])
	for i < len(gs) && graphemeClass(gs[i]) == class {
		i++
	}
	return i
}
