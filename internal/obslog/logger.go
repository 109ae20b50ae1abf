// Package obslog provides the structured logger surface used
// throughout the core: the same Logger/Field API the rest of this
// codebase's ancestry exposes, backed by log/slog with a
// lmittmann/tint console handler and lumberjack-rotated file output.
package obslog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Level mirrors slog's level names with the same spelling the rest of
// the codebase's logging calls use.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l Level) slogLevel() slog.Level {
	switch l {
	case DebugLevel:
		return slog.LevelDebug
	case WarnLevel:
		return slog.LevelWarn
	case ErrorLevel:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config selects the console/file destinations and rotation policy.
type Config struct {
	Level      string
	ConsoleOut io.Writer // defaults to os.Stdout
	FilePath   string    // empty disables file output
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Field is a structured logging key/value pair.
type Field struct {
	Key   string
	Value interface{}
}

// Logger wraps a *slog.Logger, exposing the level-named methods the
// rest of the codebase calls.
type Logger struct {
	level Level
	base  *slog.Logger
}

// New builds a Logger from cfg: a tint-colored console handler, and
// when FilePath is set, a plain-text handler writing to a
// lumberjack-rotated file. Both share the configured level.
func New(cfg Config) *Logger {
	level := parseLevel(cfg.Level)
	out := cfg.ConsoleOut
	if out == nil {
		out = os.Stdout
	}

	consoleHandler := tint.NewHandler(out, &tint.Options{Level: level.slogLevel()})
	var handler slog.Handler = consoleHandler

	if cfg.FilePath != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    orDefault(cfg.MaxSizeMB, 100),
			MaxBackups: orDefault(cfg.MaxBackups, 5),
			MaxAge:     orDefault(cfg.MaxAgeDays, 28),
		}
		fileHandler := slog.NewTextHandler(lj, &slog.HandlerOptions{Level: level.slogLevel()})
		handler = &multiHandler{handlers: []slog.Handler{consoleHandler, fileHandler}}
	}

	return &Logger{level: level, base: slog.New(handler)}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// WithComponent returns a child logger tagging every record with a
// "component" attribute.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{level: l.level, base: l.base.With("component", component)}
}

func (l *Logger) Debug(msg string, fields ...Field) { l.log(slog.LevelDebug, msg, fields...) }
func (l *Logger) Info(msg string, fields ...Field)  { l.log(slog.LevelInfo, msg, fields...) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.log(slog.LevelWarn, msg, fields...) }
func (l *Logger) Error(msg string, fields ...Field) { l.log(slog.LevelError, msg, fields...) }

func (l *Logger) log(level slog.Level, msg string, fields ...Field) {
	args := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		args = append(args, f.Key, f.Value)
	}
	l.base.Log(context.Background(), level, msg, args...)
}

func parseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Field constructors, matching the calling convention used throughout
// the rest of the codebase.

func String(key, val string) Field   { return Field{Key: key, Value: val} }
func Int(key string, val int) Field  { return Field{Key: key, Value: val} }
func Uint64(key string, v uint64) Field { return Field{Key: key, Value: v} }
func Bool(key string, val bool) Field { return Field{Key: key, Value: val} }
func Float64(key string, v float64) Field { return Field{Key: key, Value: v} }
func Any(key string, val interface{}) Field { return Field{Key: key, Value: val} }
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: "nil"}
	}
	return Field{Key: "error", Value: err.Error()}
}

// multiHandler fans a record out to several slog.Handlers (console +
// rotated file), matching the teacher's console+file dual-output
// logging setup.
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range m.handlers {
		if err := h.Handle(ctx, r); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("obslog: handler failed: %w", err)
		}
	}
	return firstErr
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: next}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		next[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: next}
}
