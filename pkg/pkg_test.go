package pkg

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	expected := "ewwc"
	if Name != expected {
		t.Errorf("Expected Name to be %q, got %q", expected, Name)
	}
}

func TestVersion(t *testing.T) {
	// Version is embedded from the VERSION file next to this package.
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); Version != content {
		t.Errorf("Expected Version to be %q, got %q", content, Version)
	}
}

func TestAuthor(t *testing.T) {
	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "ardnew"
	}) {
		t.Errorf("Expected Author to contain %q", "ardnew")
	}
}

func TestError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "sentinel only",
			err:  ErrMissingSection,
			want: "missing section",
		},
		{
			name: "positioned with detail",
			err: ErrMissingChild.
				At(Position{Line: 3, Column: 5}).
				Describe("<window> has no <pos>"),
			want: "3:5 | missing child element: <window> has no <pos>",
		},
		{
			name: "wrapped cause",
			err:  ErrAttributeParse.Describe("x").Wrap(errors.New("bad digit")),
			want: "invalid value: x: bad digit",
		},
		{
			name: "context",
			err: Contextf(
				ErrIllegalElement.At(Position{Line: 1, Column: 1}),
				"error parsing %s",
				"variables",
			),
			want: "error parsing variables: 1:1 | illegal element",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_IsMatchesKindThroughContext(t *testing.T) {
	inner := ErrMissingChild.At(Position{Line: 2, Column: 4}).Describe("pos")
	err := Contextf(
		fmt.Errorf("window %q: %w", "main", inner),
		"error parsing window definitions",
	)

	if !errors.Is(err, ErrMissingChild) {
		t.Error("expected errors.Is to match ErrMissingChild")
	}

	if errors.Is(err, ErrMissingAttribute) {
		t.Error("expected errors.Is not to match ErrMissingAttribute")
	}

	if got := KindOf(err); got != KindMissingChild {
		t.Errorf("KindOf() = %v, want %v", got, KindMissingChild)
	}

	pos, ok := PositionOf(err)
	if !ok || pos != (Position{Line: 2, Column: 4}) {
		t.Errorf("PositionOf() = %v, %v", pos, ok)
	}
}

func TestError_ImmutableBuilders(t *testing.T) {
	base := ErrAttributeParse
	derived := base.With(slog.String("attr", "x")).Describe("detail")

	if base.Detail() != "" || len(base.attrs) != 0 {
		t.Error("builder methods must not mutate the receiver")
	}

	if derived.Detail() != "detail" || len(derived.attrs) != 1 {
		t.Errorf("unexpected derived error: %+v", derived)
	}
}

func TestError_LogValue(t *testing.T) {
	err := ErrMissingAttribute.
		At(Position{Line: 7, Column: 2}).
		With(slog.String("attr", "name"))

	group := err.LogValue().Group()

	keys := make([]string, 0, len(group))
	for _, a := range group {
		keys = append(keys, a.Key)
	}

	for _, want := range []string{"error", "pos", "attr"} {
		if !slices.Contains(keys, want) {
			t.Errorf("LogValue() missing key %q in %v", want, keys)
		}
	}
}

func TestKind_String(t *testing.T) {
	if got := KindIllegalElement.String(); got != "illegal-element" {
		t.Errorf("String() = %q", got)
	}

	if got := Kind(99).String(); got != "Kind(99)" {
		t.Errorf("String() = %q", got)
	}
}
