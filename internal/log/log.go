// Package log is the diagnostic sink shared by the command and the merge
// engine. It wraps [log/slog] with level and format options and a compact
// colored text handler for terminals.
//
// A process-wide default is configured once at startup with [Config]; library
// code that is not handed an explicit [Logger] writes through [Default].
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"
)

// Logger is a slog.Logger that remembers the configuration it was built from.
// The zero Logger discards everything.
type Logger struct {
	*slog.Logger
	config
}

// Make creates a [Logger] writing to w. The defaults are [DefaultLevel],
// [DefaultFormat] and [DefaultPretty]; opts override them.
func Make(w io.Writer, opts ...Option) Logger {
	cfg := makeConfig(w, opts...)
	return Logger{
		config: cfg,
		Logger: slog.New(cfg.handler()),
	}
}

// Discard returns a Logger that drops every record.
func Discard() Logger {
	return Make(io.Discard, WithLevel(LevelError+1))
}

// Wrap returns a new [Logger] built from l's configuration with opts applied.
func (l Logger) Wrap(opts ...Option) Logger {
	cfg := apply(l.config, opts...)
	return Logger{
		config: cfg,
		Logger: slog.New(cfg.handler()),
	}
}

// Level returns the minimum level written.
func (l Logger) Level() Level {
	if l.Logger == nil {
		return DefaultLevel
	}
	return l.level
}

// Format returns the record encoding.
func (l Logger) Format() Format {
	if l.Logger == nil {
		return DefaultFormat
	}
	return l.format
}

// Trace logs at trace level.
func (l Logger) Trace(msg string, attrs ...slog.Attr) {
	l.log(context.Background(), LevelTrace, msg, attrs...)
}

// Debug logs at debug level.
func (l Logger) Debug(msg string, attrs ...slog.Attr) {
	l.log(context.Background(), LevelDebug, msg, attrs...)
}

// Info logs at info level.
func (l Logger) Info(msg string, attrs ...slog.Attr) {
	l.log(context.Background(), LevelInfo, msg, attrs...)
}

// Warn logs at warn level.
func (l Logger) Warn(msg string, attrs ...slog.Attr) {
	l.log(context.Background(), LevelWarn, msg, attrs...)
}

// Error logs at error level.
func (l Logger) Error(msg string, attrs ...slog.Attr) {
	l.log(context.Background(), LevelError, msg, attrs...)
}

func (l Logger) log(ctx context.Context, level Level, msg string, attrs ...slog.Attr) {
	if l.Logger == nil || !l.Enabled(ctx, slog.Level(level)) {
		return
	}

	// runtime.Callers, log, and the level method
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])

	r := slog.NewRecord(time.Now(), slog.Level(level), msg, pcs[0])
	r.AddAttrs(attrs...)
	_ = l.Handler().Handle(ctx, r)
}

var (
	stdMu sync.RWMutex
	std   = Make(os.Stderr)
)

// Default returns the process-wide Logger.
func Default() Logger {
	stdMu.RLock()
	defer stdMu.RUnlock()
	return std
}

// Config replaces the process-wide Logger with one writing to w and returns
// it. It is meant to be called once, before any pipeline work starts.
func Config(w io.Writer, opts ...Option) Logger {
	l := Make(w, opts...)
	stdMu.Lock()
	std = l
	stdMu.Unlock()
	return l
}
