package engine

import (
	"context"
	"fmt"
	"strings"
)

const helpText = `# replshell

Type a command and press **enter** to run it. A line the engine can't finish
yet switches to the continuation prompt.

| Key | Action |
|---|---|
| up / down | browse history |
| tab | complete |
| ctrl+left / ctrl+right | move by word |
| ctrl+g | cancel the current command |
| f1 | key help |
| f3 | log viewer |
| ctrl+c | quit |

Meta commands:

* ` + "`.help`" + ` shows this text
* ` + "`.history`" + ` lists previous commands
* ` + "`.clear`" + ` clears the screen
`

var metaCommands = []string{".clear", ".help", ".history"}

// Meta handles the dot commands before handing anything else to the
// wrapped engine. Meta commands are only recognized on a fresh command,
// never inside a continuation.
type Meta struct {
	Engine
	// History returns the executed commands, oldest first.
	History func() []string
}

// WithMeta wraps e with the dot commands.
func WithMeta(e Engine, history func() []string) *Meta {
	return &Meta{Engine: e, History: history}
}

// Exec implements Engine.
func (m *Meta) Exec(ctx context.Context, lines []string) (*Result, error) {
	if len(lines) != 1 {
		return m.Engine.Exec(ctx, lines)
	}
	switch strings.TrimSpace(lines[0]) {
	case ".help":
		return &Result{Status: StatusOK, Markdown: helpText}, nil
	case ".clear":
		return &Result{Status: StatusOK, Clear: true}, nil
	case ".history":
		return &Result{Status: StatusOK, Output: m.listHistory(), Class: "muted"}, nil
	}
	return m.Engine.Exec(ctx, lines)
}

func (m *Meta) listHistory() string {
	if m.History == nil {
		return ""
	}
	entries := m.History()
	var sb strings.Builder
	width := len(fmt.Sprint(len(entries)))
	for i, cmd := range entries {
		fmt.Fprintf(&sb, "%*d  %s\n", width, i+1, cmd)
	}
	return sb.String()
}

// Complete implements Engine, adding the meta command names.
func (m *Meta) Complete(ctx context.Context, line string, pos int) ([]string, int) {
	if strings.HasPrefix(line, ".") && !strings.Contains(line, " ") {
		var out []string
		for _, c := range metaCommands {
			if strings.HasPrefix(c, line[:min(pos, len(line))]) {
				out = append(out, c)
			}
		}
		return out, 0
	}
	return m.Engine.Complete(ctx, line, pos)
}
