package xmltree

import (
	"encoding/xml"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/ewwc/pkg"
)

// Document is a parsed XML document.
type Document struct {
	root *Element
}

// Root returns the document's root element.
func (d *Document) Root() *Element { return d.root }

// ParseString parses an XML document from a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Parse reads a complete XML document from r.
//
// Comments, processing instructions, directives and whitespace-only
// character data are dropped. Adjacent character data, including CDATA
// sections and text on either side of a comment, becomes a single text node.
// Every node records the line and column where it begins.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)

	var (
		doc   Document
		stack []*Element
	)

	for {
		line, col := dec.InputPos()
		pos := pkg.Position{Line: line, Column: col}

		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, syntaxError(err, pos)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{
				tag:   t.Name.Local,
				attrs: makeAttrs(t.Attr),
				pos:   pos,
			}

			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			} else if doc.root != nil {
				return nil, pkg.ErrXMLSyntax.At(pos).
					Describe("multiple root elements: %s", el.TagString())
			} else {
				doc.root = el
			}

			stack = append(stack, el)

		case xml.EndElement:
			stack = stack[:len(stack)-1]

		case xml.CharData:
			blank := strings.TrimSpace(string(t)) == ""

			if len(stack) == 0 {
				if blank {
					continue
				}

				return nil, pkg.ErrXMLSyntax.At(pos).
					Describe("text outside of root element")
			}

			parent := stack[len(stack)-1]

			// Runs split by CDATA or a dropped comment form one text node.
			if prev := lastText(parent); prev != nil {
				prev.raw += string(t)

				continue
			}

			if blank {
				continue
			}

			parent.children = append(parent.children, &Text{
				raw: string(t),
				pos: pos,
			})
		}
	}

	if doc.root == nil {
		return nil, pkg.ErrXMLSyntax.Describe("document has no root element")
	}

	return &doc, nil
}

// lastText returns el's last child if it is a text node.
func lastText(el *Element) *Text {
	if n := len(el.children); n > 0 {
		if t, ok := el.children[n-1].(*Text); ok {
			return t
		}
	}

	return nil
}

func makeAttrs(in []xml.Attr) []Attr {
	if len(in) == 0 {
		return nil
	}

	out := make([]Attr, len(in))
	for i, a := range in {
		name := a.Name.Local
		if a.Name.Space != "" {
			name = a.Name.Space + ":" + name
		}

		out[i] = Attr{Name: name, Value: a.Value}
	}

	return out
}

func syntaxError(err error, pos pkg.Position) error {
	var se *xml.SyntaxError
	if errors.As(err, &se) {
		return pkg.ErrXMLSyntax.At(pkg.Position{Line: se.Line}).
			Describe("%s", se.Msg).
			With(slog.Int("line", se.Line))
	}

	return pkg.ErrIO.At(pos).Wrap(err)
}
