// Package log provides structured logging for replshell.
// It writes leveled, categorized lines to a debug log file, keeps the most
// recent entries in memory for the log overlay and fans them out over a
// pubsub broker. Logging is enabled via --debug or REPLSHELL_DEBUG.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/replshell/internal/pubsub"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string to a Level. Unknown values map to LevelDebug.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelDebug
	}
}

// Category groups related log messages.
type Category string

const (
	CatShell   Category = "shell"   // Prompt, key handling, paste queue
	CatExec    Category = "exec"    // Execution callback round trips
	CatHistory Category = "history" // History navigation and persistence
	CatStorage Category = "storage" // Key/value store backends
	CatConfig  Category = "config"  // Configuration loading/saving
	CatWatcher Category = "watcher" // File watcher events
	CatCache   Category = "cache"   // Cache operations
	CatUI      Category = "ui"      // UI component updates
	CatTrace   Category = "trace"   // Tracing provider lifecycle
)

// DefaultBufferSize is the number of recent entries kept in memory.
const DefaultBufferSize = 500

// Logger provides structured logging.
type Logger struct {
	mu       sync.Mutex
	file     *os.File
	writer   io.Writer
	enabled  bool
	minLevel Level
	broker   *pubsub.Broker[string]

	ring     []string
	ringNext int
	ringFull bool
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// Init initializes the global logger writing to path and keeping the last
// bufferSize entries in memory. Returns a cleanup function that closes the file.
func Init(path string, bufferSize int) (func(), error) {
	var initErr error
	once.Do(func() {
		var f *os.File
		f, initErr = os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644) //nolint:gosec // G304: path is user-controlled debug log path
		if initErr != nil {
			return
		}
		defaultLogger = newLogger(f, f, bufferSize)
	})
	if initErr != nil {
		return nil, initErr
	}
	if defaultLogger == nil {
		return nil, fmt.Errorf("logger initialization failed or already attempted")
	}
	return closeFunc(defaultLogger), nil
}

// InitWithTeaLog initializes the global logger through tea.LogToFile so Bubble
// Tea's own diagnostics land in the same file.
func InitWithTeaLog(path string, prefix string) (func(), error) {
	f, err := tea.LogToFile(path, prefix)
	if err != nil {
		return nil, err
	}
	defaultLogger = newLogger(f, f, DefaultBufferSize)
	return closeFunc(defaultLogger), nil
}

// InitWriter initializes the global logger on an arbitrary writer (tests, stderr).
func InitWriter(w io.Writer, bufferSize int) {
	defaultLogger = newLogger(nil, w, bufferSize)
}

func newLogger(f *os.File, w io.Writer, bufferSize int) *Logger {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Logger{
		file:     f,
		writer:   w,
		enabled:  true,
		minLevel: LevelDebug,
		broker:   pubsub.NewBroker[string](),
		ring:     make([]string, bufferSize),
	}
}

func closeFunc(l *Logger) func() {
	return func() {
		if l == nil {
			return
		}
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.broker != nil {
			l.broker.Close()
		}
		if l.file != nil {
			_ = l.file.Close()
			l.file = nil
			l.writer = nil
		}
	}
}

// SetEnabled toggles logging on/off.
func SetEnabled(enabled bool) {
	if defaultLogger != nil {
		defaultLogger.mu.Lock()
		defaultLogger.enabled = enabled
		defaultLogger.mu.Unlock()
	}
}

// SetMinLevel sets the minimum log level.
func SetMinLevel(level Level) {
	if defaultLogger != nil {
		defaultLogger.mu.Lock()
		defaultLogger.minLevel = level
		defaultLogger.mu.Unlock()
	}
}

// Debug logs at debug level.
func Debug(cat Category, msg string, fields ...any) {
	log(LevelDebug, cat, msg, fields...)
}

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) {
	log(LevelInfo, cat, msg, fields...)
}

// Warn logs at warning level.
func Warn(cat Category, msg string, fields ...any) {
	log(LevelWarn, cat, msg, fields...)
}

// Error logs at error level.
func Error(cat Category, msg string, fields ...any) {
	log(LevelError, cat, msg, fields...)
}

// ErrorErr logs an error with the error value.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	} else {
		fields = append(fields, "error", "<nil>")
	}
	log(LevelError, cat, msg, fields...)
}

func log(level Level, cat Category, msg string, fields ...any) {
	l := defaultLogger
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled || level < l.minLevel {
		return
	}

	// Format: 2025-12-06T10:45:00 [ERROR] [exec] message key=value key2=value2
	var sb strings.Builder
	sb.WriteString(time.Now().Format("2006-01-02T15:04:05"))
	fmt.Fprintf(&sb, " [%s] [%s] %s", level, cat, msg)
	for i := 0; i+1 < len(fields); i += 2 {
		fmt.Fprintf(&sb, " %v=%v", fields[i], fields[i+1])
	}
	if len(fields)%2 != 0 {
		fmt.Fprintf(&sb, " %v=<missing>", fields[len(fields)-1])
	}
	sb.WriteString("\n")
	entry := sb.String()

	if l.writer != nil {
		_, _ = io.WriteString(l.writer, entry)
	}

	l.ring[l.ringNext] = entry
	l.ringNext = (l.ringNext + 1) % len(l.ring)
	if l.ringNext == 0 {
		l.ringFull = true
	}

	if l.broker != nil {
		l.broker.Publish(pubsub.LogAppended, entry)
	}
}

// GetRecentLogs returns up to n of the most recent entries, oldest first.
func GetRecentLogs(n int) []string {
	l := defaultLogger
	if l == nil || n <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	var ordered []string
	if l.ringFull {
		ordered = append(ordered, l.ring[l.ringNext:]...)
	}
	ordered = append(ordered, l.ring[:l.ringNext]...)

	if len(ordered) > n {
		ordered = ordered[len(ordered)-n:]
	}
	out := make([]string, len(ordered))
	copy(out, ordered)
	return out
}

// ClearBuffer drops all in-memory entries. The log file is untouched.
func ClearBuffer() {
	l := defaultLogger
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ring = make([]string, len(l.ring))
	l.ringNext = 0
	l.ringFull = false
}

// LogEvent is a pubsub event containing a log entry.
type LogEvent = pubsub.Event[string]

// LogListener wraps a continuous listener for log events.
type LogListener = pubsub.ContinuousListener[string]

// NewListener creates a new log event listener.
// The listener is automatically cleaned up when the context is cancelled.
func NewListener(ctx context.Context) *LogListener {
	if defaultLogger == nil || defaultLogger.broker == nil {
		return nil
	}
	return pubsub.NewContinuousListener(ctx, defaultLogger.broker, pubsub.LogAppended)
}
