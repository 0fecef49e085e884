package log

import (
	"io"
	"log/slog"
	"strings"
)

// Level represents the severity of a diagnostic.
type Level slog.Level

const levelTraceMask = -8

const (
	LevelTrace Level = Level(levelTraceMask)
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
)

// DefaultLevel keeps lenient-merge warnings visible without any flags.
const DefaultLevel = LevelWarn

var levelNames = map[Level]string{
	LevelTrace: "trace",
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return strings.ToLower(slog.Level(l).String())
}

// Levels lists the level names accepted by ParseLevel.
func Levels() []string {
	return []string{"trace", "debug", "info", "warn", "error"}
}

// ParseLevel parses a level name. Valid names are "trace", "debug", "info",
// "warn" and "error", case-insensitive, optionally followed by a "+" or "-"
// offset as understood by [slog.Level.UnmarshalText]. Anything else yields
// [DefaultLevel].
func ParseLevel(s string) Level {
	l, _ := LookupLevel(s)
	return l
}

// LookupLevel is [ParseLevel] that also reports whether s was valid.
func LookupLevel(s string) (Level, bool) {
	s = strings.TrimSpace(s)

	// slog does not know about trace
	if len(s) >= len("trace") && strings.EqualFold(s[:len("trace")], "trace") {
		l, ok := LookupLevel("debug" + s[len("trace"):])
		if !ok {
			return DefaultLevel, false
		}
		return l - LevelDebug + LevelTrace, true
	}

	l := new(slog.Level)
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel, false
	}
	return Level(*l), true
}

// Format represents the encoding of diagnostic records.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// DefaultFormat is the default record encoding.
const DefaultFormat = FormatText

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "text"
}

// Formats lists the format names accepted by ParseFormat.
func Formats() []string {
	return []string{"text", "json"}
}

// ParseFormat parses "text" or "json". Anything else yields [DefaultFormat].
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	case "text":
		return FormatText
	default:
		return DefaultFormat
	}
}

// DefaultPretty enables the colored text handler when writing to a terminal.
const DefaultPretty = true

type config struct {
	output io.Writer
	level  Level
	format Format
	pretty bool
}

func makeConfig(w io.Writer, opts ...Option) config {
	return apply(apply(config{}, WithDefaults(w)), opts...)
}

// handler builds the slog.Handler described by c. The colored handler is only
// used for text records, and colors only when the output is a terminal.
func (c config) handler() slog.Handler {
	opts := &slog.HandlerOptions{
		Level: slog.Level(c.level),
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			// "TRACE" instead of "DEBUG-4"
			if a.Key == slog.LevelKey {
				if level, ok := a.Value.Any().(slog.Level); ok {
					a.Value = slog.StringValue(strings.ToUpper(Level(level).String()))
				}
			}
			return a
		},
	}

	switch c.format {
	case FormatJSON:
		return slog.NewJSONHandler(c.output, opts)
	default:
		if c.pretty {
			return newPrettyTextHandler(c.output, opts, IsTerminal(c.output))
		}
		return slog.NewTextHandler(c.output, opts)
	}
}

// WithDefaults resets every setting to its default and writes to w. A nil w
// discards all records.
func WithDefaults(w io.Writer) Option {
	return func(c config) config {
		if w == nil {
			w = io.Discard
		}
		c.output = w
		c.level = DefaultLevel
		c.format = DefaultFormat
		c.pretty = DefaultPretty
		return c
	}
}

// WithOutput sets the destination writer. A nil w discards all records.
func WithOutput(w io.Writer) Option {
	return func(c config) config {
		if w == nil {
			w = io.Discard
		}
		c.output = w
		return c
	}
}

// WithLevel sets the minimum level; records below it are dropped.
func WithLevel(level Level) Option {
	return func(c config) config {
		c.level = level
		return c
	}
}

// WithFormat sets the record encoding.
func WithFormat(format Format) Option {
	return func(c config) config {
		c.format = format
		return c
	}
}

// WithPretty controls whether text records use the compact colored handler
// instead of slog's key=value text handler.
func WithPretty(enable bool) Option {
	return func(c config) config {
		c.pretty = enable
		return c
	}
}
