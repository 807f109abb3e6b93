package shell

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/zjrosen/replshell/internal/editor"
	"github.com/zjrosen/replshell/internal/engine"
	"github.com/zjrosen/replshell/internal/log"
	"github.com/zjrosen/replshell/internal/tracing"
	"github.com/zjrosen/replshell/internal/ui/styles"
)

var tracer = otel.Tracer("github.com/zjrosen/replshell/internal/shell")

// ExecResultMsg carries the outcome of the execution callback. Hosts that
// run commands themselves can send it to finish an EXEC cycle.
type ExecResultMsg struct {
	Result *engine.Result
	Err    error
}

// ResponseMsg appends output from outside the Update loop (for example a
// background job streaming into the shell).
type ResponseMsg struct {
	Text  any
	Class string
}

// HistorySavedMsg reports a failed history save. Successful saves send
// nothing.
type HistorySavedMsg struct {
	Err error
}

type pasteNextMsg struct{}

// execLine runs the text after the prompt. The command joins the buffer of
// continuation lines and everything goes to the execution callback.
func (m *Model) execLine() tea.Cmd {
	if m.state == StateExec {
		return nil
	}
	m.closeCompletion()

	last := m.doc.LastLine()
	command := editor.SliceGraphemes(m.doc.Line(last), m.promptLen, m.doc.LineLen(last))

	m.state = StateExec
	m.prompted = false
	m.doc.ReplaceRange("\n", m.doc.EndPos(), nil, editor.OriginPrompt)
	m.doc.SetCursor(m.doc.EndPos())
	m.doc.ScrollIntoView(m.doc.EndPos())

	m.commandBuffer = append(m.commandBuffer, command)
	var save tea.Cmd
	if m.hist.Push(command) {
		save = m.saveHistory()
	}
	m.hist.ResetPointer()

	log.Debug(log.CatShell, "exec line", "lines", len(m.commandBuffer))
	lines := append([]string(nil), m.commandBuffer...)
	m.refresh()
	return tea.Batch(save, m.runExec(lines))
}

func (m *Model) saveHistory() tea.Cmd {
	hist, ctx := m.hist, m.cfg.Context
	return func() tea.Msg {
		if err := hist.Save(ctx); err != nil {
			log.ErrorErr(log.CatHistory, "saving history failed", err)
			return HistorySavedMsg{Err: err}
		}
		return nil
	}
}

func (m *Model) runExec(lines []string) tea.Cmd {
	exec, parent := m.cfg.Exec, m.cfg.Context
	return func() tea.Msg {
		ctx, span := tracer.Start(parent, tracing.SpanExec)
		defer span.End()
		span.SetAttributes(attribute.Int(tracing.AttrLines, len(lines)))

		start := time.Now()
		res, err := exec(ctx, lines)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "exec failed")
			log.ErrorErr(log.CatExec, "exec failed", err, "lines", len(lines))
			return ExecResultMsg{Err: err}
		}
		status := engine.StatusNone
		if res != nil {
			status = res.Status
		}
		span.SetAttributes(attribute.String(tracing.AttrStatus, string(status)))
		log.Debug(log.CatExec, "exec finished", "status", status, "took", time.Since(start))
		return ExecResultMsg{Result: res}
	}
}

// handleResult ends an EXEC cycle: output, then the next prompt. An
// Incomplete status keeps the command buffer and shows the continuation
// prompt.
func (m *Model) handleResult(msg ExecResultMsg) tea.Cmd {
	if m.state != StateExec {
		log.Warn(log.CatExec, "result outside exec ignored")
		return nil
	}

	status := engine.StatusOK
	var markdown string
	switch res := msg.Result; {
	case msg.Err != nil:
		m.Response(msg.Err.Error()+"\n", styles.ClassError)
		status = engine.StatusErr
	case res == nil:
		status = engine.StatusNone
	default:
		if res.Clear {
			m.Clear()
		}
		if res.Output != "" {
			class := res.Class
			if class == "" {
				class = styles.ClassOutput
			}
			m.Response(res.Output, class)
		}
		if res.Status != engine.StatusNone {
			status = res.Status
		}
		markdown = res.Markdown
	}

	m.state = StateEdit
	if status == engine.StatusIncomplete {
		m.prompt = m.cfg.ContinuationPrompt
	} else {
		m.commandBuffer = nil
		m.prompt = m.cfg.InitialPrompt
	}
	m.writePrompt()

	if markdown != "" {
		out, err := m.md.Render(markdown, m.width)
		if err != nil {
			log.ErrorErr(log.CatUI, "markdown render failed", err)
			out = markdown
		}
		m.InsertNode(out)
	}
	m.refresh()

	if len(m.pasteBuffer) > 0 {
		return func() tea.Msg { return pasteNextMsg{} }
	}
	return nil
}

// pasteNext feeds the next buffered paste line into the fresh prompt. All
// lines but the final one are executed.
func (m *Model) pasteNext() tea.Cmd {
	if m.state != StateEdit || len(m.pasteBuffer) == 0 {
		return nil
	}
	line := m.pasteBuffer[0]
	m.pasteBuffer = m.pasteBuffer[1:]

	last := m.doc.LastLine()
	m.doc.ReplaceRange(line, editor.P(last, m.promptLen), nil, editor.OriginContinue)
	m.doc.SetCursor(m.doc.EndPos())
	m.refresh()

	if len(m.pasteBuffer) > 0 {
		return m.execLine()
	}
	return nil
}

// Cancel abandons the command being entered, continuation lines and
// queued paste lines included, and starts over at a fresh initial prompt.
func (m *Model) Cancel() tea.Cmd {
	if m.state == StateExec {
		return nil
	}
	m.closeCompletion()
	m.commandBuffer = nil
	m.pasteBuffer = nil
	m.hist.ResetPointer()

	m.state = StateExec
	m.prompted = false
	m.doc.ReplaceRange("\n", m.doc.EndPos(), nil, editor.OriginPrompt)
	m.doc.SetCursor(m.doc.EndPos())
	log.Debug(log.CatShell, "command canceled")
	m.refresh()
	return m.runExec([]string{""})
}
