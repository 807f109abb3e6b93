package engine

import (
	"context"
	"regexp"
	"strings"
)

var continuation = regexp.MustCompile(`_\s*$`)

// Echo is the dummy executor. A line ending in "_" continues the command;
// otherwise the buffered command is echoed back.
type Echo struct{}

// Name implements Engine.
func (Echo) Name() string { return "echo" }

// Exec implements Engine.
func (Echo) Exec(ctx context.Context, lines []string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if continuation.MatchString(lastLine(lines)) {
		return &Result{Status: StatusIncomplete}, nil
	}
	var out []string
	for _, l := range lines {
		out = append(out, strings.TrimRight(continuation.ReplaceAllString(l, ""), " "))
	}
	text := strings.TrimSpace(joinLines(out))
	if text == "" {
		return &Result{Status: StatusOK}, nil
	}
	return &Result{Status: StatusOK, Output: text + "\n"}, nil
}

// Complete implements Engine. Echo has nothing to complete.
func (Echo) Complete(context.Context, string, int) ([]string, int) {
	return nil, 0
}
