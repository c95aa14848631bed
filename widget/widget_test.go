package widget

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/ewwc/pkg"
	"github.com/ardnew/ewwc/value"
	"github.com/ardnew/ewwc/xmltree"
)

func parseRoot(t *testing.T, src string) *xmltree.Element {
	t.Helper()

	doc, err := xmltree.ParseString(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	return doc.Root()
}

// shape reduces a use tree to names and attribute text for comparison.
type shape struct {
	Name     string
	Attrs    map[string]string
	Children []shape
}

func shapeOf(u Use) shape {
	s := shape{Name: u.Name}

	if len(u.Attrs) > 0 {
		s.Attrs = map[string]string{}
		for k, v := range u.Attrs {
			s.Attrs[k] = v.String()
		}
	}

	for _, c := range u.Children {
		s.Children = append(s.Children, shapeOf(c))
	}

	return s
}

func TestParseUse(t *testing.T) {
	root := parseRoot(t, `<box orientation="v" spacing="4">
  <button onclick="notify-send hi">{{ greeting }}</button>
  <label text="static"/>
  plain text
</box>`)

	use, err := ParseUse(root)
	if err != nil {
		t.Fatal(err)
	}

	want := shape{
		Name:  "box",
		Attrs: map[string]string{"orientation": "v", "spacing": "4"},
		Children: []shape{
			{
				Name:  "button",
				Attrs: map[string]string{"onclick": "notify-send hi"},
				Children: []shape{
					{Name: "label", Attrs: map[string]string{"text": "{{ greeting }}"}},
				},
			},
			{Name: "label", Attrs: map[string]string{"text": "static"}},
			{Name: "label", Attrs: map[string]string{"text": "plain text"}},
		},
	}

	if diff := cmp.Diff(want, shapeOf(use)); diff != "" {
		t.Errorf("ParseUse() mismatch (-want +got):\n%s", diff)
	}

	if use.Pos != (pkg.Position{Line: 1, Column: 1}) {
		t.Errorf("Pos = %v", use.Pos)
	}
}

func TestParseUse_BadExpression(t *testing.T) {
	root := parseRoot(t, "<box>\n  <label text=\"{{ 1 + }}\"/>\n</box>")

	_, err := ParseUse(root)
	if !errors.Is(err, pkg.ErrAttributeParse) {
		t.Fatalf("expected ErrAttributeParse, got %v", err)
	}

	pos, ok := pkg.PositionOf(err)
	if !ok || pos.Line != 2 {
		t.Errorf("PositionOf() = %v, %v", pos, ok)
	}
}

func TestUse_Refs(t *testing.T) {
	root := parseRoot(t, `<box class="{{ theme }}">
  <label text="{{ vol > 50 ? 'loud' : 'quiet' }}"/>
  <progress value="{{ vol }}" max="{{ vol-max }}"/>
</box>`)

	use, err := ParseUse(root)
	if err != nil {
		t.Fatal(err)
	}

	var got []string
	for _, r := range use.Refs() {
		got = append(got, r.String())
	}

	want := []string{"theme", "vol", "vol-max"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Refs() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDefinition(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		size    *[2]int
		wantErr error
	}{
		{
			name:  "minimal",
			input: `<def name="bar"><box/></def>`,
		},
		{
			name:  "sized",
			input: `<def name="bar" width="100" height="20"><box/></def>`,
			size:  &[2]int{100, 20},
		},
		{
			name:    "wrong tag",
			input:   `<widget name="bar"><box/></widget>`,
			wantErr: pkg.ErrTagMismatch,
		},
		{
			name:    "no name",
			input:   `<def><box/></def>`,
			wantErr: pkg.ErrMissingAttribute,
		},
		{
			name:    "no structure",
			input:   `<def name="bar"/>`,
			wantErr: pkg.ErrChildCardinality,
		},
		{
			name:    "two roots",
			input:   `<def name="bar"><box/><box/></def>`,
			wantErr: pkg.ErrChildCardinality,
		},
		{
			name:    "width only",
			input:   `<def name="bar" width="10"><box/></def>`,
			wantErr: pkg.ErrMissingAttribute,
		},
		{
			name:    "bad height",
			input:   `<def name="bar" width="10" height="tall"><box/></def>`,
			wantErr: pkg.ErrAttributeParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := ParseDefinition(parseRoot(t, tt.input))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}

				return
			}

			if err != nil {
				t.Fatal(err)
			}

			if def.Name != "bar" || def.Structure.Name != "box" {
				t.Errorf("got %+v", def)
			}

			if diff := cmp.Diff(tt.size, def.Size); diff != "" {
				t.Errorf("Size mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseDefinition_TextStructure(t *testing.T) {
	def, err := ParseDefinition(parseRoot(t, `<def name="hello">Hello, world</def>`))
	if err != nil {
		t.Fatal(err)
	}

	text, ok := def.Structure.Attrs[LabelTextAttr]
	if def.Structure.Name != LabelName || !ok {
		t.Fatalf("got %+v", def.Structure)
	}

	got, err := text.Resolve(value.Table{})
	if err != nil || got.String() != "Hello, world" {
		t.Errorf("Resolve() = %q, %v", got, err)
	}
}
