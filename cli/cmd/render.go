package cmd

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/ewwc/pkg"
)

type renderStyles struct {
	label  lipgloss.Style
	msg    lipgloss.Style
	arrow  lipgloss.Style
	gutter lipgloss.Style
	caret  lipgloss.Style
}

func makeRenderStyles(r *lipgloss.Renderer) renderStyles {
	return renderStyles{
		label:  r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		msg:    r.NewStyle().Bold(true),
		arrow:  r.NewStyle().Foreground(lipgloss.Color("4")),
		gutter: r.NewStyle().Foreground(lipgloss.Color("4")).Faint(true),
		caret:  r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
}

// Render writes a report of err to w.
//
// When err carries a position inside source, the report names the location
// and quotes the offending line with a caret under the reported column.
// Each error of an [errors.Join] result is reported separately. Colors are
// used only when w is a terminal.
func Render(w io.Writer, path string, source []byte, err error) {
	if err == nil {
		return
	}

	errs := []error{err}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		errs = j.Unwrap()
	}

	st := makeRenderStyles(lipgloss.NewRenderer(w))
	lines := bytes.Split(source, []byte("\n"))

	var b strings.Builder

	for _, e := range errs {
		label := "error"
		if k := pkg.KindOf(e); k != pkg.KindContext {
			label += "[" + k.String() + "]"
		}

		b.WriteString(st.label.Render(label))
		b.WriteString(": ")
		b.WriteString(st.msg.Render(e.Error()))
		b.WriteByte('\n')

		pos, ok := pkg.PositionOf(e)
		if !ok {
			continue
		}

		b.WriteString(st.arrow.Render("  --> "))
		b.WriteString(path + ":" + pos.String())
		b.WriteByte('\n')

		if pos.Line > len(lines) {
			continue
		}

		line := strings.TrimRight(string(lines[pos.Line-1]), "\r")
		num := strconv.Itoa(pos.Line)
		pad := strings.Repeat(" ", len(num))

		b.WriteString(st.gutter.Render(pad + " |"))
		b.WriteByte('\n')
		b.WriteString(st.gutter.Render(num+" |") + " " + line)
		b.WriteByte('\n')

		if pos.Column > 0 {
			b.WriteString(st.gutter.Render(pad+" |") + " " +
				indent(line, pos.Column-1) + st.caret.Render("^"))
			b.WriteByte('\n')
		}
	}

	_, _ = io.WriteString(w, b.String())
}

// indent returns whitespace spanning the first n bytes of line, keeping tabs
// so the caret lines up with the quoted source.
func indent(line string, n int) string {
	n = min(n, len(line))

	var b strings.Builder

	for _, r := range line[:n] {
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}

	return b.String()
}
