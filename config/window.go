package config

import (
	"strconv"

	"github.com/ardnew/ewwc/pkg"
	"github.com/ardnew/ewwc/widget"
	"github.com/ardnew/ewwc/xmltree"
)

// WindowTag is the element that declares a window.
const WindowTag = "window"

// WindowName identifies a window.
type WindowName struct {
	name string
}

// NewWindowName wraps name.
func NewWindowName(name string) WindowName { return WindowName{name: name} }

// String returns the raw name.
func (w WindowName) String() string { return w.name }

// MarshalText renders the raw name.
func (w WindowName) MarshalText() ([]byte, error) { return []byte(w.name), nil }

// UnmarshalText wraps text.
func (w *WindowName) UnmarshalText(text []byte) error {
	w.name = string(text)

	return nil
}

// WindowDefinition places a widget tree on screen.
type WindowDefinition struct {
	Position [2]int     `json:"position" yaml:"position"`
	Size     [2]int     `json:"size"     yaml:"size"`
	Widget   widget.Use `json:"widget"   yaml:"widget"`
}

// ParseWindowDefinition parses a <window> element:
//
//	<window name="main">
//	  <size x="200" y="40"/>
//	  <pos x="0" y="0"/>
//	  <widget><bar/></widget>
//	</window>
//
// The name attribute is read by the caller.
func ParseWindowDefinition(el *xmltree.Element) (WindowDefinition, error) {
	if err := el.ExpectTag(WindowTag); err != nil {
		return WindowDefinition{}, err
	}

	size, err := parsePair(el, "size")
	if err != nil {
		return WindowDefinition{}, err
	}

	pos, err := parsePair(el, "pos")
	if err != nil {
		return WindowDefinition{}, err
	}

	holder, err := el.Child("widget")
	if err != nil {
		return WindowDefinition{}, err
	}

	root, err := holder.OnlyChild()
	if err != nil {
		return WindowDefinition{}, err
	}

	use, err := widget.ParseUse(root)
	if err != nil {
		return WindowDefinition{}, err
	}

	return WindowDefinition{Position: pos, Size: size, Widget: use}, nil
}

// parsePair reads the integer x and y attributes of el's child tagged tag.
func parsePair(el *xmltree.Element, tag string) ([2]int, error) {
	child, err := el.Child(tag)
	if err != nil {
		return [2]int{}, err
	}

	var out [2]int

	for i, axis := range []string{"x", "y"} {
		s, err := child.Attr(axis)
		if err != nil {
			return [2]int{}, err
		}

		n, err := strconv.Atoi(s)
		if err != nil {
			return [2]int{}, pkg.ErrAttributeParse.At(child.Pos()).
				Describe("%s has non-integer %s %q", child.TagString(), axis, s).
				Wrap(err)
		}

		out[i] = n
	}

	return out, nil
}
