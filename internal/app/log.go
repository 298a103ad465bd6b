package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/MUKAPP/bilibili-danmaku-report/internal/report"
)

// Logger 把队列的进度与日志输出到终端，可选落盘；verbose 模式下改输出
// NDJSON 事件行。实现 report.Notifier。
type Logger struct {
	verbose bool
	out     io.Writer
	file    *os.File
	mu      sync.Mutex
}

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

const (
	ansiReset  = "\x1b[0m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiRed    = "\x1b[31m"
)

func NewLogger(verbose bool, logFile string) (*Logger, error) {
	l := &Logger{verbose: verbose}
	if strings.TrimSpace(logFile) == "" {
		return l, nil
	}
	dir := filepath.Dir(logFile)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	l.file = f
	return l, nil
}

func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func (l *Logger) writeLine(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.out
	if out == nil {
		// 延迟到写入时才取 os.Stdout，避免固化构造时的句柄。
		out = os.Stdout
	}
	fmt.Fprintln(out, line)
	if l.file != nil {
		_, _ = l.file.WriteString(ansiEscape.ReplaceAllString(line, "") + "\n")
	}
}

func (l *Logger) Log(level report.Level, msg string) {
	if l.verbose {
		l.Event("log", map[string]any{"level": string(level), "message": msg})
		return
	}
	line := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), msg)
	l.writeLine(colored(level, line))
}

func (l *Logger) Progress(current, total int) {
	if current == 0 && total == 0 {
		return
	}
	if l.verbose {
		l.Event("progress", map[string]any{"current": current, "total": total})
		return
	}
	l.writeLine(fmt.Sprintf("进度: (%d/%d)", current, total))
}

func (l *Logger) Event(event string, fields map[string]any) {
	if !l.verbose {
		return
	}
	m := map[string]any{"ts": time.Now().Format(time.RFC3339Nano), "event": event}
	for k, v := range fields {
		m[k] = v
	}
	b, _ := json.Marshal(m)
	l.writeLine(string(b))
}

func colored(level report.Level, s string) string {
	switch level {
	case report.LevelSuccess:
		return ansiGreen + s + ansiReset
	case report.LevelWarn:
		return ansiYellow + s + ansiReset
	case report.LevelError:
		return ansiRed + s + ansiReset
	default:
		return s
	}
}
