package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether w is a terminal that can render colors.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type palette struct {
	key, str, num, boolTrue, boolFalse, other *color.Color
	levels                                   map[slog.Level]*color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		key:       color.New(color.FgHiBlack),
		str:       color.New(color.FgCyan),
		num:       color.New(color.FgYellow),
		boolTrue:  color.New(color.FgGreen),
		boolFalse: color.New(color.FgRed),
		other:     color.New(color.FgMagenta),
		levels: map[slog.Level]*color.Color{
			slog.Level(LevelTrace): color.New(color.FgHiBlack),
			slog.LevelDebug:        color.New(color.FgBlue),
			slog.LevelInfo:         color.New(color.FgGreen),
			slog.LevelWarn:         color.New(color.FgYellow, color.Bold),
			slog.LevelError:        color.New(color.FgRed, color.Bold),
		},
	}
	all := []*color.Color{p.key, p.str, p.num, p.boolTrue, p.boolFalse, p.other}
	for _, c := range p.levels {
		all = append(all, c)
	}
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) level(l slog.Level) *color.Color {
	switch {
	case l >= slog.LevelError:
		return p.levels[slog.LevelError]
	case l >= slog.LevelWarn:
		return p.levels[slog.LevelWarn]
	case l >= slog.LevelInfo:
		return p.levels[slog.LevelInfo]
	case l >= slog.LevelDebug:
		return p.levels[slog.LevelDebug]
	default:
		return p.levels[slog.Level(LevelTrace)]
	}
}

// prettyTextHandler writes one line per record: the level, the message and
// then key=value pairs, without timestamps.
//
//	WARN overwriting conflicting value path=a old=1 new=2
type prettyTextHandler struct {
	opts   slog.HandlerOptions
	colors palette
	mu     *sync.Mutex
	w      io.Writer
	prefix string
	attrs  []byte
}

func newPrettyTextHandler(w io.Writer, opts *slog.HandlerOptions, colored bool) *prettyTextHandler {
	return &prettyTextHandler{
		opts:   *opts,
		colors: newPalette(colored),
		mu:     &sync.Mutex{},
		w:      w,
	}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}
	return level >= threshold
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	name := strings.ToUpper(Level(r.Level).String())
	buf.WriteString(h.colors.level(r.Level).Sprint(name))
	buf.WriteByte(' ')
	buf.WriteString(r.Message)
	buf.Write(h.attrs)

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, h.prefix, a)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	buf := bytes.NewBuffer(append([]byte(nil), h.attrs...))
	for _, a := range attrs {
		h.writeAttr(buf, h.prefix, a)
	}
	next := *h
	next.attrs = buf.Bytes()
	return &next
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func (h *prettyTextHandler) writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, g := range a.Value.Group() {
			h.writeAttr(buf, prefix, g)
		}
		return
	}

	buf.WriteByte(' ')
	buf.WriteString(h.colors.key.Sprint(prefix + a.Key))
	buf.WriteByte('=')
	h.writeValue(buf, a.Value)
}

func (h *prettyTextHandler) writeValue(buf *bytes.Buffer, v slog.Value) {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if s == "" || strings.ContainsAny(s, " \t\n\"=") {
			s = strconv.Quote(s)
		}
		buf.WriteString(h.colors.str.Sprint(s))
	case slog.KindInt64:
		buf.WriteString(h.colors.num.Sprint(strconv.FormatInt(v.Int64(), 10)))
	case slog.KindUint64:
		buf.WriteString(h.colors.num.Sprint(strconv.FormatUint(v.Uint64(), 10)))
	case slog.KindFloat64:
		buf.WriteString(h.colors.num.Sprint(strconv.FormatFloat(v.Float64(), 'g', -1, 64)))
	case slog.KindBool:
		if v.Bool() {
			buf.WriteString(h.colors.boolTrue.Sprint("true"))
		} else {
			buf.WriteString(h.colors.boolFalse.Sprint("false"))
		}
	default:
		buf.WriteString(h.colors.other.Sprint(v.String()))
	}
}
