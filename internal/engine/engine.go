// Package engine provides execution callbacks for the shell: a dummy echo
// executor and an embedded Lua interpreter, plus the dot meta commands.
package engine

import (
	"context"
	"fmt"
	"strings"
)

// Status is the parse status an execution reports. It decides the next prompt.
type Status string

const (
	StatusNone       Status = ""
	StatusOK         Status = "OK"
	StatusIncomplete Status = "Incomplete"
	StatusParseError Status = "ParseError"
	StatusErr        Status = "Err"
)

// Result is what an execution returns to the shell.
type Result struct {
	Status Status
	// Output is appended to the shell as a response. Empty prints nothing.
	Output string
	// Class styles Output. Empty means plain output.
	Class string
	// Markdown is rendered below the next prompt line.
	Markdown string
	// Clear asks the shell to drop everything above the prompt.
	Clear bool
}

// Engine executes buffered command lines and offers completions.
type Engine interface {
	Name() string
	Exec(ctx context.Context, lines []string) (*Result, error)
	Complete(ctx context.Context, line string, pos int) ([]string, int)
}

// New returns the engine registered under name.
func New(name string) (Engine, error) {
	switch name {
	case "", "lua":
		return NewLua(), nil
	case "echo":
		return Echo{}, nil
	default:
		return nil, fmt.Errorf("unknown engine %q", name)
	}
}

// Names lists the engines New accepts.
func Names() []string {
	return []string{"lua", "echo"}
}

func lastLine(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[len(lines)-1]
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
