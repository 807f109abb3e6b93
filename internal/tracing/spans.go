package tracing

// Span names.
const (
	SpanExec        = "shell.exec"
	SpanHistorySave = "history.save"
)

// Span attribute keys.
const (
	AttrEngine      = "exec.engine"
	AttrLines       = "exec.lines"
	AttrStatus      = "exec.status"
	AttrHistoryKey  = "history.key"
	AttrHistorySize = "history.entries"
)
