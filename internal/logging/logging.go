package logging

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ANSI color codes for terminal output
const (
	colorRed    = "\033[97;41m" // White text on red background
	colorGreen  = "\033[97;42m" // White text on green background
	colorYellow = "\033[90;43m" // Black text on yellow background
	colorBlue   = "\033[97;44m" // White text on blue background
	colorCyan   = "\033[97;46m" // White text on cyan background
	colorReset  = "\033[0m"
)

// Log levels
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

type levelStyle struct {
	rank  int
	label string
	color string
}

var levels = map[string]levelStyle{
	LevelDebug: {0, "[DEBUG]", colorBlue},
	LevelInfo:  {1, "[INFO]", colorGreen},
	LevelWarn:  {2, "[WARN]", colorYellow},
	LevelError: {3, "[ERROR]", colorRed},
}

// sink is one destination. Only terminals get colors.
type sink struct {
	out   *log.Logger
	color bool
}

type Logger struct {
	sinks    []sink
	writer   *lumberjack.Logger
	minLevel int
	requests bool
}

// NewLogger logs to stdout and, when config.File is set, to a rotating file
func NewLogger(config *LogConfig) (*Logger, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	sinks := []sink{newSink(os.Stdout, isTerminal(os.Stdout))}

	var writer *lumberjack.Logger
	if config.File != "" {
		logFile, err := expandHome(config.File)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		writer = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    config.MaxSize, // MB
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAge, // days
			Compress:   true,
		}
		sinks = append(sinks, newSink(writer, false))
	}

	return newLogger(sinks, writer, config), nil
}

// NewWriterLogger logs to w only, uncolored and without rotation. Tests use
// it to capture output.
func NewWriterLogger(w io.Writer, level string) *Logger {
	return newLogger([]sink{newSink(w, false)}, nil, &LogConfig{Level: level, Requests: true})
}

func newLogger(sinks []sink, writer *lumberjack.Logger, config *LogConfig) *Logger {
	level := strings.ToLower(config.Level)
	if level == "" {
		level = LevelInfo
	}
	return &Logger{
		sinks:    sinks,
		writer:   writer,
		minLevel: levels[level].rank,
		requests: config.Requests,
	}
}

func newSink(w io.Writer, color bool) sink {
	return sink{out: log.New(w, "", log.LstdFlags), color: color}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, path[2:]), nil
}

func (l *Logger) Close() error {
	if l.writer == nil {
		return nil
	}
	return l.writer.Close()
}

// emit writes one line to every sink, rendered for that sink
func (l *Logger) emit(render func(color bool) string) {
	for _, s := range l.sinks {
		s.out.Print(render(s.color))
	}
}

func (l *Logger) logf(level, format string, v ...interface{}) {
	style := levels[level]
	if style.rank < l.minLevel {
		return
	}
	msg := fmt.Sprintf(format, v...)
	l.emit(func(color bool) string {
		return paint(color, style.color, style.label) + " " + msg
	})
}

func (l *Logger) Debug(format string, v ...interface{}) { l.logf(LevelDebug, format, v...) }
func (l *Logger) Info(format string, v ...interface{})  { l.logf(LevelInfo, format, v...) }
func (l *Logger) Warn(format string, v ...interface{})  { l.logf(LevelWarn, format, v...) }
func (l *Logger) Error(format string, v ...interface{}) { l.logf(LevelError, format, v...) }

func paint(color bool, code, text string) string {
	if !color {
		return text
	}
	return code + text + colorReset
}

func methodColor(method string) string {
	switch method {
	case http.MethodPost:
		return colorCyan
	case http.MethodPut, http.MethodPatch:
		return colorYellow
	case http.MethodDelete:
		return colorRed
	}
	return colorBlue
}

func statusColor(status int) string {
	switch {
	case status >= 500:
		return colorRed
	case status >= 400:
		return colorYellow
	case status >= 300:
		return colorCyan
	case status >= 200:
		return colorGreen
	}
	return colorBlue
}

func httpFields(color bool, method, clientIP string, status int) (string, string, string) {
	return paint(color, statusColor(status), fmt.Sprintf(" %d ", status)),
		fmt.Sprintf("%15s", clientIP),
		paint(color, methodColor(method), fmt.Sprintf(" %-7s", method))
}

// LogHTTPRequest logs one served request when request logging is enabled
func (l *Logger) LogHTTPRequest(method, path, clientIP, requestID string, status, bytes int, latency string) {
	if !l.requests {
		return
	}
	l.emit(func(color bool) string {
		st, ip, m := httpFields(color, method, clientIP, status)
		return fmt.Sprintf("[HTTP] %s | %s | %s | %s | %s | %d bytes | %s", st, ip, m, path, requestID, bytes, latency)
	})
}

// LogHTTPError logs a failed request together with the internal error that
// caused it. The error never leaves the server.
func (l *Logger) LogHTTPError(method, path, clientIP string, status int, message string, err error) {
	l.emit(func(color bool) string {
		st, ip, m := httpFields(color, method, clientIP, status)
		return fmt.Sprintf("[HTTP-ERROR] %s | %s | %s | %s | %s: %v", st, ip, m, path, message, err)
	})
}
