package xmltree

import (
	"iter"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/ewwc/pkg"
)

// Node is either an [*Element] or a [*Text].
type Node interface {
	// Pos returns the location where the node begins in the source document.
	Pos() pkg.Position

	node()
}

// Attr is a single element attribute.
type Attr struct {
	Name  string
	Value string
}

// Element is an XML element with its attributes and child nodes in document
// order.
type Element struct {
	tag      string
	attrs    []Attr
	children []Node
	pos      pkg.Position
}

// Text is a non-blank run of character data (including CDATA).
type Text struct {
	raw string
	pos pkg.Position
}

func (*Element) node() {}
func (*Text) node()    {}

// Pos returns the position of the element's start tag.
func (e *Element) Pos() pkg.Position { return e.pos }

// Tag returns the element's local name.
func (e *Element) Tag() string { return e.tag }

// Attrs returns the element's attributes in document order.
func (e *Element) Attrs() []Attr { return e.attrs }

// TagString renders the element's start tag for use in messages, e.g.
// <window name="main">.
func (e *Element) TagString() string {
	var sb strings.Builder

	sb.WriteByte('<')
	sb.WriteString(e.tag)

	for _, a := range e.attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.Name)
		sb.WriteByte('=')
		sb.WriteString(strconv.Quote(a.Value))
	}

	sb.WriteByte('>')

	return sb.String()
}

// ExpectTag fails with [pkg.ErrTagMismatch] unless the element's tag is tag.
func (e *Element) ExpectTag(tag string) error {
	if e.tag == tag {
		return nil
	}

	return pkg.ErrTagMismatch.At(e.pos).
		Describe("Tag needed to be of type '%s', but was: %s", tag, e.TagString()).
		With(slog.String("expected", tag), slog.String("actual", e.tag))
}

// OptionalAttr returns the value of the named attribute, if present.
func (e *Element) OptionalAttr(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}

	return "", false
}

// Attr returns the value of the named attribute, failing with
// [pkg.ErrMissingAttribute] if it is absent.
func (e *Element) Attr(name string) (string, error) {
	if v, ok := e.OptionalAttr(name); ok {
		return v, nil
	}

	return "", pkg.ErrMissingAttribute.At(e.pos).
		Describe("%s is missing required attribute '%s'", e.TagString(), name).
		With(slog.String("tag", e.tag), slog.String("attr", name))
}

// Children returns an iterator over all child nodes in document order.
func (e *Element) Children() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for _, c := range e.children {
			if !yield(c) {
				return
			}
		}
	}
}

// ChildElements returns an iterator over the child elements in document
// order, skipping text.
func (e *Element) ChildElements() iter.Seq[*Element] {
	return func(yield func(*Element) bool) {
		for _, c := range e.children {
			if el, ok := c.(*Element); ok {
				if !yield(el) {
					return
				}
			}
		}
	}
}

// Child returns the single child element tagged tag.
// It fails with [pkg.ErrMissingChild] if there is none and with
// [pkg.ErrChildCardinality] if there are several.
func (e *Element) Child(tag string) (*Element, error) {
	var found []*Element

	for el := range e.ChildElements() {
		if el.tag == tag {
			found = append(found, el)
		}
	}

	switch len(found) {
	case 1:
		return found[0], nil

	case 0:
		return nil, pkg.ErrMissingChild.At(e.pos).
			Describe("%s has no child <%s>", e.TagString(), tag).
			With(slog.String("tag", e.tag), slog.String("child", tag))

	default:
		return nil, pkg.ErrChildCardinality.At(found[1].pos).
			Describe("%s has %d <%s> children, expected one",
				e.TagString(), len(found), tag).
			With(slog.String("tag", e.tag), slog.String("child", tag))
	}
}

// OnlyChild returns the element's single child node, which may be text.
// It fails with [pkg.ErrChildCardinality] unless there is exactly one.
func (e *Element) OnlyChild() (Node, error) {
	if len(e.children) == 1 {
		return e.children[0], nil
	}

	pos := e.pos
	if len(e.children) > 1 {
		pos = e.children[1].Pos()
	}

	return nil, pkg.ErrChildCardinality.At(pos).
		Describe("%s has %d children, expected exactly one",
			e.TagString(), len(e.children)).
		With(slog.String("tag", e.tag), slog.Int("count", len(e.children)))
}

// Text returns the concatenated character data of all descendants, trimmed
// of surrounding whitespace.
func (e *Element) Text() string {
	var sb strings.Builder

	e.appendText(&sb)

	return strings.TrimSpace(sb.String())
}

func (e *Element) appendText(sb *strings.Builder) {
	for _, c := range e.children {
		switch n := c.(type) {
		case *Text:
			sb.WriteString(n.raw)
		case *Element:
			n.appendText(sb)
		}
	}
}

// Pos returns the position where the character data begins.
func (t *Text) Pos() pkg.Position { return t.pos }

// Text returns the character data trimmed of surrounding whitespace.
func (t *Text) Text() string { return strings.TrimSpace(t.raw) }

// Raw returns the character data exactly as it appeared.
func (t *Text) Raw() string { return t.raw }

// AsText returns n as a text node, failing with [pkg.ErrTagMismatch] if it is
// an element.
func AsText(n Node) (*Text, error) {
	switch v := n.(type) {
	case *Text:
		return v, nil

	case *Element:
		return nil, pkg.ErrTagMismatch.At(v.pos).
			Describe("expected text, but was: %s", v.TagString())

	default:
		return nil, pkg.ErrTagMismatch.Describe("expected text")
	}
}

// SourcecodeTag is the element whose content is taken verbatim (dedented)
// by [TextOrSourcecode].
const SourcecodeTag = "sourcecode"

// TextOrSourcecode extracts the textual content of n.
// A text node yields its trimmed text; a <sourcecode> element yields its
// inner text with common indentation removed; any other element yields its
// concatenated descendant text.
func TextOrSourcecode(n Node) string {
	switch v := n.(type) {
	case *Text:
		return v.Text()

	case *Element:
		if v.tag != SourcecodeTag {
			return v.Text()
		}

		var sb strings.Builder

		v.appendText(&sb)

		return dedent(sb.String())

	default:
		return ""
	}
}

// dedent strips leading and trailing blank lines and removes the longest
// common whitespace prefix of the remaining non-blank lines.
func dedent(s string) string {
	lines := strings.Split(s, "\n")

	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}

	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	prefix := ""
	first := true

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			prefix, first = indent, false

			continue
		}

		for !strings.HasPrefix(indent, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}

	for i, line := range lines {
		lines[i] = strings.TrimRight(strings.TrimPrefix(line, prefix), " \t\r")
	}

	return strings.Join(lines, "\n")
}
