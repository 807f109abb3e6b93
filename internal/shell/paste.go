package shell

import (
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/zjrosen/replshell/internal/editor"
	"github.com/zjrosen/replshell/internal/log"
)

// sniffLen is how much of a file is read to detect its content type.
const sniffLen = 512

// paste inserts bracketed-paste text at the caret. Multi-line text is split
// by the before-change hook: the first line lands now, the rest is queued.
func (m *Model) paste(text string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if content, ok := m.dropFile(text); ok {
		text = content
	}
	from, to := m.selectionRange()
	if m.doc.ReplaceRange(text, from, &to, editor.OriginPaste) {
		m.doc.SetCursor(m.lastChange.End)
	}
}

// dropFile treats a pasted path, the way terminals paste a file dragged onto
// them, as a dropped file. Files whose type is in DropFiles are read and
// their content is pasted instead.
func (m *Model) dropFile(text string) (string, bool) {
	if len(m.cfg.DropFiles) == 0 {
		return "", false
	}
	path := strings.TrimSpace(text)
	if path == "" || strings.Contains(path, "\n") {
		return "", false
	}
	path = strings.Trim(path, `'"`)
	path = strings.TrimPrefix(path, "file://")
	path = strings.ReplaceAll(path, `\ `, " ")

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	mediaType := fileType(path)
	if !matchType(m.cfg.DropFiles, mediaType) {
		log.Debug(log.CatShell, "dropped file type not accepted", "path", path, "type", mediaType)
		return "", false
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: the user pasted this path
	if err != nil {
		log.ErrorErr(log.CatShell, "reading dropped file failed", err, "path", path)
		return "", false
	}
	log.Info(log.CatShell, "file dropped", "path", path, "type", mediaType, "bytes", len(data))
	return strings.ReplaceAll(string(data), "\r\n", "\n"), true
}

func fileType(path string) string {
	typ := mime.TypeByExtension(filepath.Ext(path))
	if typ == "" {
		f, err := os.Open(path) //nolint:gosec // G304: the user pasted this path
		if err != nil {
			return ""
		}
		defer func() { _ = f.Close() }()
		buf := make([]byte, sniffLen)
		n, _ := f.Read(buf)
		typ = http.DetectContentType(buf[:n])
	}
	mediaType, _, err := mime.ParseMediaType(typ)
	if err != nil {
		return ""
	}
	return mediaType
}

// matchType reports whether typ is allowed. "text/*" matches any text type.
func matchType(allowed []string, typ string) bool {
	if typ == "" {
		return false
	}
	for _, a := range allowed {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == typ || a == "*/*" {
			return true
		}
		if prefix, ok := strings.CutSuffix(a, "/*"); ok && strings.HasPrefix(typ, prefix+"/") {
			return true
		}
	}
	return false
}
