package value

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/ewwc/pkg"
)

func TestParsePrimitive(t *testing.T) {
	tests := []struct {
		input string
		kind  Kind
	}{
		{input: "true", kind: KindBoolean},
		{input: "false", kind: KindBoolean},
		{input: "True", kind: KindString},
		{input: "42", kind: KindNumber},
		{input: "-3.5", kind: KindNumber},
		{input: "1e3", kind: KindNumber},
		{input: "Inf", kind: KindString},
		{input: "NaN", kind: KindString},
		{input: "", kind: KindString},
		{input: "hello", kind: KindString},
		{input: " 42", kind: KindString},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := ParsePrimitive(tt.input)
			if p.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", p.Kind(), tt.kind)
			}

			if p.String() != tt.input {
				t.Errorf("String() = %q, want %q", p.String(), tt.input)
			}
		})
	}
}

func TestPrimitive_Native(t *testing.T) {
	tests := []struct {
		input string
		want  any
	}{
		{input: "true", want: true},
		{input: "false", want: false},
		{input: "12", want: int64(12)},
		{input: "1.25", want: 1.25},
		{input: "text", want: "text"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParsePrimitive(tt.input).Native(); got != tt.want {
				t.Errorf("Native() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestString_SkipsClassification(t *testing.T) {
	if k := String("true").Kind(); k != KindString {
		t.Errorf("Kind() = %v, want string", k)
	}
}

func TestVarName_Text(t *testing.T) {
	var v VarName
	if err := v.UnmarshalText([]byte("battery-level")); err != nil {
		t.Fatal(err)
	}

	if v != NewVarName("battery-level") {
		t.Errorf("got %v", v)
	}

	b, _ := v.MarshalText()
	if string(b) != "battery-level" {
		t.Errorf("MarshalText() = %q", b)
	}
}

func TestTable_Native(t *testing.T) {
	tab := Table{
		NewVarName("a"): ParsePrimitive("1"),
		NewVarName("b"): ParsePrimitive("yes"),
	}

	want := map[string]any{"a": int64(1), "b": "yes"}
	if diff := cmp.Diff(want, tab.Native()); diff != "" {
		t.Errorf("Native() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAttr(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		isExpr bool
		refs   []string
	}{
		{name: "literal", input: "hello"},
		{name: "braces inside", input: "a {{b}} c"},
		{name: "bare ref", input: "{{battery}}", isExpr: true, refs: []string{"battery"}},
		{name: "hyphen ref", input: "{{ cpu-load }}", isExpr: true, refs: []string{"cpu-load"}},
		{
			name:   "expression",
			input:  "{{ vol > 50 ? 'loud' : quiet }}",
			isExpr: true,
			refs:   []string{"quiet", "vol"},
		},
		{
			name:   "builtin call",
			input:  "{{ upper(name) + name }}",
			isExpr: true,
			refs:   []string{"name"},
		},
		{name: "no vars", input: "{{ 1 + 2 }}", isExpr: true, refs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := ParseAttr(tt.input)
			if err != nil {
				t.Fatalf("ParseAttr(%q): %v", tt.input, err)
			}

			if a.IsExpr() != tt.isExpr {
				t.Fatalf("IsExpr() = %v, want %v", a.IsExpr(), tt.isExpr)
			}

			got := []string{}
			for _, r := range a.Refs() {
				got = append(got, r.String())
			}

			want := tt.refs
			if want == nil {
				want = []string{}
			}

			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Refs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseAttr_Errors(t *testing.T) {
	for _, input := range []string{"{{}}", "{{ 1 + }}", "{{ (a }}"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseAttr(input)
			if !errors.Is(err, pkg.ErrAttributeParse) {
				t.Errorf("expected ErrAttributeParse, got %v", err)
			}
		})
	}
}

func TestAttr_Resolve(t *testing.T) {
	vars := Table{
		NewVarName("vol"):      ParsePrimitive("70"),
		NewVarName("muted"):    ParsePrimitive("false"),
		NewVarName("cpu-load"): ParsePrimitive("12.5"),
		NewVarName("user"):     ParsePrimitive("ada"),
	}

	tests := []struct {
		input string
		want  string
		kind  Kind
	}{
		{input: "plain", want: "plain", kind: KindString},
		{input: "{{ cpu-load }}", want: "12.5", kind: KindNumber},
		{input: "{{ vol > 50 ? 'loud' : 'quiet' }}", want: "loud", kind: KindString},
		{input: "{{ !muted }}", want: "true", kind: KindBoolean},
		{input: "{{ vol + 5 }}", want: "75", kind: KindNumber},
		{input: "{{ 'hi ' + user }}", want: "hi ada", kind: KindString},
		{input: "{{ missing ?? 'none' }}", want: "none", kind: KindString},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			a, err := ParseAttr(tt.input)
			if err != nil {
				t.Fatal(err)
			}

			got, err := a.Resolve(vars)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}

			if got.String() != tt.want || got.Kind() != tt.kind {
				t.Errorf("Resolve() = %q (%v), want %q (%v)",
					got.String(), got.Kind(), tt.want, tt.kind)
			}
		})
	}
}

func TestAttr_ResolveUndefined(t *testing.T) {
	a, err := ParseAttr("{{ nope }}")
	if err != nil {
		t.Fatal(err)
	}

	_, err = a.Resolve(Table{})
	if !errors.Is(err, pkg.ErrUndefinedVariable) {
		t.Errorf("expected ErrUndefinedVariable, got %v", err)
	}
}

func TestAttr_String(t *testing.T) {
	a, err := ParseAttr("{{vol}}")
	if err != nil {
		t.Fatal(err)
	}

	if a.String() != "{{ vol }}" {
		t.Errorf("String() = %q", a.String())
	}

	if s := Literal(ParsePrimitive("x")).String(); s != "x" {
		t.Errorf("String() = %q", s)
	}
}
