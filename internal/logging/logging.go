// Package logging implements interfaces.Logger on top of charmbracelet/log.
// Output is structured key/value text by default, JSON when configured,
// which keeps local runs readable and container logs machine-parseable.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	charm "github.com/charmbracelet/log"

	"github.com/prestafacil/avaluador/internal/interfaces"
)

// Config controls the process-wide logger.
type Config struct {
	// Level is one of debug, info, warn, error.
	Level string

	// JSON switches output from logfmt-style text to JSON lines.
	JSON bool

	// AddSource reports the caller file:line on each entry.
	AddSource bool

	// Output defaults to os.Stdout when nil.
	Output io.Writer
}

// DefaultConfig returns info-level text logging on stdout.
func DefaultConfig() Config {
	return Config{Level: "info"}
}

// Logger adapts a charm logger to the interfaces.Logger contract.
type Logger struct {
	l *charm.Logger
}

// New builds a Logger from cfg.
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	opts := charm.Options{
		ReportTimestamp: true,
		ReportCaller:    cfg.AddSource,
		TimeFormat:      time.RFC3339,
		Level:           parseLevel(cfg.Level),
	}
	l := charm.NewWithOptions(out, opts)
	if cfg.JSON {
		l.SetFormatter(charm.JSONFormatter)
	}
	return &Logger{l: l}
}

// NewStdoutLogger creates a logger for the named component. Convenience
// constructor used by tools and tests.
func NewStdoutLogger(component string) *Logger {
	log := New(DefaultConfig())
	if component == "" {
		return log
	}
	return &Logger{l: log.l.With("component", component)}
}

func (lg *Logger) Debug(msg string, fields ...interfaces.Field) {
	lg.l.Debug(msg, keyvals(fields)...)
}

func (lg *Logger) Info(msg string, fields ...interfaces.Field) {
	lg.l.Info(msg, keyvals(fields)...)
}

func (lg *Logger) Warn(msg string, fields ...interfaces.Field) {
	lg.l.Warn(msg, keyvals(fields)...)
}

func (lg *Logger) Error(msg string, fields ...interfaces.Field) {
	lg.l.Error(msg, keyvals(fields)...)
}

// With returns a child logger carrying fields on every entry.
func (lg *Logger) With(fields ...interfaces.Field) interfaces.Logger {
	return &Logger{l: lg.l.With(keyvals(fields)...)}
}

func keyvals(fields []interfaces.Field) []any {
	kv := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		kv = append(kv, f.Key, f.Value)
	}
	return kv
}

func parseLevel(s string) charm.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return charm.DebugLevel
	case "warn", "warning":
		return charm.WarnLevel
	case "error":
		return charm.ErrorLevel
	default:
		return charm.InfoLevel
	}
}
