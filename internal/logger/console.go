package logger

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/fatih/color"
)

// keyColors highlights the attribute keys the pipeline logs most. Anything else is dimmed.
var keyColors = map[string]*color.Color{
	"error":           color.New(color.FgRed),
	"err":             color.New(color.FgRed),
	"duration":        color.New(color.FgMagenta),
	"duration_ms":     color.New(color.FgMagenta),
	"attempt":         color.New(color.FgMagenta),
	"count":           color.New(color.FgGreen),
	"diff_size":       color.New(color.FgGreen),
	"languages_count": color.New(color.FgGreen),
	"theme":           color.New(color.FgBlue),
	"provider":        color.New(color.FgBlue),
	"model":           color.New(color.FgBlue),
	"owner":           color.New(color.FgCyan),
	"repo":            color.New(color.FgCyan),
	"pr_number":       color.New(color.FgCyan),
	"video_id":        color.New(color.FgCyan),
	"user":            color.New(color.FgCyan),
}

var dim = color.New(color.FgHiBlack)

// ConsoleHandler writes one colored line per record:
//
//	[LEVEL] message key=value group.key=value (file.go:42)
//
// Attributes bound with WithAttrs come first, qualified by the groups open when they
// were bound. Group values are flattened into dotted keys.
type ConsoleHandler struct {
	level     slog.Leveler
	addSource bool

	mu *sync.Mutex
	w  io.Writer

	// prefix holds the already rendered handler attributes, each preceded by a space.
	prefix []byte
	group  string
}

func NewConsoleHandler(w io.Writer, opts *slog.HandlerOptions) *ConsoleHandler {
	h := &ConsoleHandler{w: w, mu: &sync.Mutex{}, level: slog.LevelWarn}
	if opts != nil {
		if opts.Level != nil {
			h.level = opts.Level
		}
		h.addSource = opts.AddSource
	}
	return h
}

func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer
	buf.WriteString(badge(r.Level))
	buf.WriteByte(' ')
	buf.WriteString(r.Message)
	buf.Write(h.prefix)

	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&buf, h.group, a)
		return true
	})

	if h.addSource && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		if frame.File != "" {
			buf.WriteByte(' ')
			buf.WriteString(dim.Sprintf("(%s:%d)", filepath.Base(frame.File), frame.Line))
		}
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var buf bytes.Buffer
	buf.Write(h.prefix)
	for _, a := range attrs {
		appendAttr(&buf, h.group, a)
	}
	clone := *h
	clone.prefix = buf.Bytes()
	return &clone
}

func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.group = qualify(h.group, name)
	return &clone
}

// appendAttr renders a as " key=value", recursing into groups. Empty attributes are dropped.
func appendAttr(buf *bytes.Buffer, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		// An unnamed group inlines its members.
		nested := qualify(group, a.Key)
		for _, member := range a.Value.Group() {
			appendAttr(buf, nested, member)
		}
		return
	}

	key := qualify(group, a.Key)
	c, ok := keyColors[a.Key]
	if !ok {
		c = dim
	}
	buf.WriteByte(' ')
	buf.WriteString(c.Sprint(key + "=" + a.Value.String()))
}

func qualify(group, key string) string {
	switch {
	case group == "":
		return key
	case key == "":
		return group
	default:
		return group + "." + key
	}
}

// badge names the level the way slog does (INFO, WARN+2) padded to a fixed width.
func badge(level slog.Level) string {
	name := level.String()
	text := "[" + name + "]"
	for len(text) < 7 {
		text += " "
	}

	switch {
	case level >= slog.LevelError:
		return color.RedString("%s", text)
	case level >= slog.LevelWarn:
		return color.YellowString("%s", text)
	case level >= slog.LevelInfo:
		return color.CyanString("%s", text)
	default:
		return dim.Sprint(text)
	}
}
