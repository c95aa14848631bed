// Package widget models reusable widget templates and the widget trees that
// instantiate them.
package widget

import (
	"errors"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/ewwc/pkg"
	"github.com/ardnew/ewwc/value"
	"github.com/ardnew/ewwc/xmltree"
)

const (
	// DefinitionTag is the element that declares a widget template.
	DefinitionTag = "def"

	// LabelName is the widget a bare text node is shorthand for.
	LabelName = "label"

	// LabelTextAttr is the attribute of [LabelName] holding its text.
	LabelTextAttr = "text"
)

// Use is one node of a widget tree: a primitive widget or a template
// instantiation, its attributes, and nested uses.
type Use struct {
	Name     string                `json:"name"               yaml:"name"               msgpack:"name"`
	Attrs    map[string]value.Attr `json:"attrs,omitempty"    yaml:"attrs,omitempty"    msgpack:"attrs,omitempty"`
	Children []Use                 `json:"children,omitempty" yaml:"children,omitempty" msgpack:"children,omitempty"`
	Pos      pkg.Position          `json:"-"                  yaml:"-"                  msgpack:"-"`
}

// ParseUse builds a widget tree rooted at n.
// A text node is shorthand for a label whose text attribute is the node's
// text; an element becomes a use named by its tag.
func ParseUse(n xmltree.Node) (Use, error) {
	switch v := n.(type) {
	case *xmltree.Text:
		attr, err := value.ParseAttr(v.Text())
		if err != nil {
			return Use{}, at(err, v.Pos())
		}

		return Use{
			Name:  LabelName,
			Attrs: map[string]value.Attr{LabelTextAttr: attr},
			Pos:   v.Pos(),
		}, nil

	case *xmltree.Element:
		use := Use{Name: v.Tag(), Pos: v.Pos()}

		if attrs := v.Attrs(); len(attrs) > 0 {
			use.Attrs = make(map[string]value.Attr, len(attrs))

			for _, a := range attrs {
				attr, err := value.ParseAttr(a.Value)
				if err != nil {
					return Use{}, at(err, v.Pos(), slog.String("attr", a.Name))
				}

				use.Attrs[a.Name] = attr
			}
		}

		for c := range v.Children() {
			child, err := ParseUse(c)
			if err != nil {
				return Use{}, err
			}

			use.Children = append(use.Children, child)
		}

		return use, nil

	default:
		return Use{}, pkg.ErrTagMismatch.Describe("expected widget node")
	}
}

// Refs returns every variable referenced by an attribute anywhere in the
// tree, sorted and without duplicates.
func (u Use) Refs() []value.VarName {
	seen := map[value.VarName]struct{}{}

	u.walk(func(w Use) {
		for _, a := range w.Attrs {
			for _, r := range a.Refs() {
				seen[r] = struct{}{}
			}
		}
	})

	return slices.SortedFunc(maps.Keys(seen), func(a, b value.VarName) int {
		return strings.Compare(a.String(), b.String())
	})
}

// walk calls fn for u and every descendant in depth-first order.
func (u Use) walk(fn func(Use)) {
	fn(u)

	for _, c := range u.Children {
		c.walk(fn)
	}
}

// Definition is a named widget template.
type Definition struct {
	Name      string       `json:"name"           yaml:"name"           msgpack:"name"`
	Structure Use          `json:"structure"      yaml:"structure"      msgpack:"structure"`
	Size      *[2]int      `json:"size,omitempty" yaml:"size,omitempty" msgpack:"size,omitempty"`
	Pos       pkg.Position `json:"-"              yaml:"-"              msgpack:"-"`
}

// ParseDefinition parses a <def> element.
// The element must carry a name and exactly one child, the template's
// structure. The optional width and height attributes must appear together.
func ParseDefinition(el *xmltree.Element) (Definition, error) {
	if err := el.ExpectTag(DefinitionTag); err != nil {
		return Definition{}, err
	}

	name, err := el.Attr("name")
	if err != nil {
		return Definition{}, err
	}

	size, err := parseSize(el)
	if err != nil {
		return Definition{}, err
	}

	root, err := el.OnlyChild()
	if err != nil {
		return Definition{}, err
	}

	structure, err := ParseUse(root)
	if err != nil {
		return Definition{}, err
	}

	return Definition{
		Name:      name,
		Structure: structure,
		Size:      size,
		Pos:       el.Pos(),
	}, nil
}

func parseSize(el *xmltree.Element) (*[2]int, error) {
	w, hasW := el.OptionalAttr("width")
	h, hasH := el.OptionalAttr("height")

	switch {
	case !hasW && !hasH:
		return nil, nil

	case hasW != hasH:
		missing := "height"
		if !hasW {
			missing = "width"
		}

		return nil, pkg.ErrMissingAttribute.At(el.Pos()).
			Describe("%s sets only one of width and height, missing '%s'",
				el.TagString(), missing)
	}

	var size [2]int

	for i, s := range []string{w, h} {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, pkg.ErrAttributeParse.At(el.Pos()).
				Describe("%s has non-integer size %q", el.TagString(), s).
				Wrap(err)
		}

		size[i] = n
	}

	return &size, nil
}

// at attaches pos and attrs to err unless it already carries a position.
func at(err error, pos pkg.Position, attrs ...slog.Attr) error {
	var e *pkg.Error
	if !errors.As(err, &e) || e.Pos().IsValid() {
		return err
	}

	return e.At(pos).With(attrs...)
}
