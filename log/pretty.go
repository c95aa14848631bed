package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// prettyStyles holds the styles used by prettyHandler. Colors degrade to
// plain text when the output is not a terminal.
type prettyStyles struct {
	key, msg, str, num, boolean, dur, time, source lipgloss.Style

	levels map[slog.Level]lipgloss.Style
}

func makePrettyStyles(r *lipgloss.Renderer) prettyStyles {
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return prettyStyles{
		key:     fg("8"),
		msg:     r.NewStyle().Bold(true),
		str:     fg("6"),
		num:     fg("3"),
		boolean: fg("2"),
		dur:     fg("5"),
		time:    fg("4"),
		source:  fg("8").Italic(true),
		levels: map[slog.Level]lipgloss.Style{
			slog.Level(LevelTrace): fg("4"),
			slog.LevelDebug:        fg("4"),
			slog.LevelInfo:         fg("2"),
			slog.LevelWarn:         fg("3").Bold(true),
			slog.LevelError:        fg("1").Bold(true),
		},
	}
}

func (s prettyStyles) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return s.levels[slog.LevelError]
	case l >= slog.LevelWarn:
		return s.levels[slog.LevelWarn]
	case l >= slog.LevelInfo:
		return s.levels[slog.LevelInfo]
	case l >= slog.LevelDebug:
		return s.levels[slog.LevelDebug]
	default:
		return s.levels[slog.Level(LevelTrace)]
	}
}

// prettyHandler writes colorized key=value records, one per line.
type prettyHandler struct {
	opts   slog.HandlerOptions
	styles prettyStyles
	mu     *sync.Mutex
	w      io.Writer
	attrs  []byte   // preformatted attributes from WithAttrs
	prefix string   // dotted group path applied to new attributes
	groups []string // open groups, passed to ReplaceAttr
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		styles: makePrettyStyles(lipgloss.NewRenderer(w)),
		mu:     &sync.Mutex{},
		w:      w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}

	return level >= minLevel
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() {
		h.writeBuiltin(buf, slog.Time(slog.TimeKey, r.Time), h.styles.time)
	}

	h.writeBuiltin(buf, slog.Any(slog.LevelKey, r.Level), h.styles.level(r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			h.writeBuiltin(buf, slog.String(slog.SourceKey,
				fmt.Sprintf("%s:%d", src.File, src.Line)), h.styles.source)
		}
	}

	h.writeBuiltin(buf, slog.String(slog.MessageKey, r.Message), h.styles.msg)

	if len(h.attrs) > 0 {
		buf.WriteByte(' ')
		buf.Write(h.attrs)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, h.prefix, h.groups, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	c := *h

	buf := bytes.NewBuffer(slices.Clone(h.attrs))
	for _, a := range attrs {
		h.writeAttr(buf, h.prefix, h.groups, a)
	}

	c.attrs = bytes.TrimLeft(buf.Bytes(), " ")

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."
	c.groups = append(slices.Clip(h.groups), name)

	return &c
}

// writeBuiltin writes one of the record's own fields after ReplaceAttr.
func (h *prettyHandler) writeBuiltin(
	buf *bytes.Buffer,
	a slog.Attr,
	style lipgloss.Style,
) {
	if h.opts.ReplaceAttr != nil {
		a = h.opts.ReplaceAttr(nil, a)
	}

	if a.Equal(slog.Attr{}) {
		return
	}

	h.sep(buf)
	h.writeKey(buf, a.Key)
	buf.WriteString(paint(style, a.Value.Resolve().String()))
}

func (h *prettyHandler) writeAttr(
	buf *bytes.Buffer,
	prefix string,
	groups []string,
	a slog.Attr,
) {
	a.Value = a.Value.Resolve()

	if h.opts.ReplaceAttr != nil && a.Value.Kind() != slog.KindGroup {
		a = h.opts.ReplaceAttr(groups, a)
		a.Value = a.Value.Resolve()
	}

	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		if len(attrs) == 0 {
			return
		}

		// An inline group with an empty key merges into the parent.
		sub, subGroups := prefix, groups
		if a.Key != "" {
			sub = prefix + a.Key + "."
			subGroups = append(slices.Clip(groups), a.Key)
		}

		for _, ga := range attrs {
			h.writeAttr(buf, sub, subGroups, ga)
		}

		return
	}

	h.sep(buf)
	h.writeKey(buf, prefix+a.Key)
	h.writeValue(buf, a.Value)
}

// paint renders s with style. Multi-line text is written unstyled.
func paint(style lipgloss.Style, s string) string {
	if strings.ContainsRune(s, '\n') {
		return s
	}

	return style.Render(s)
}

func (h *prettyHandler) sep(buf *bytes.Buffer) {
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}
}

func (h *prettyHandler) writeKey(buf *bytes.Buffer, key string) {
	buf.WriteString(paint(h.styles.key, key))
	buf.WriteByte('=')
}

func (h *prettyHandler) writeValue(buf *bytes.Buffer, v slog.Value) {
	switch v.Kind() {
	case slog.KindString:
		buf.WriteString(paint(h.styles.str, v.String()))

	case slog.KindInt64:
		buf.WriteString(paint(h.styles.num, strconv.FormatInt(v.Int64(), 10)))

	case slog.KindUint64:
		buf.WriteString(paint(h.styles.num, strconv.FormatUint(v.Uint64(), 10)))

	case slog.KindFloat64:
		buf.WriteString(paint(h.styles.num,
			strconv.FormatFloat(v.Float64(), 'g', -1, 64)))

	case slog.KindBool:
		buf.WriteString(paint(h.styles.boolean, strconv.FormatBool(v.Bool())))

	case slog.KindDuration:
		buf.WriteString(paint(h.styles.dur, v.Duration().String()))

	case slog.KindTime:
		buf.WriteString(paint(h.styles.time, v.Time().String()))

	default:
		if err, ok := v.Any().(error); ok {
			buf.WriteString(paint(h.styles.str, strconv.Quote(err.Error())))

			return
		}

		buf.WriteString(paint(h.styles.str, v.String()))
	}
}
