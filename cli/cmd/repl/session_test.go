package repl

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/ewwc/config"
	"github.com/ardnew/ewwc/log"
	"github.com/ardnew/ewwc/pkg"
	"github.com/ardnew/ewwc/proc"
	"github.com/ardnew/ewwc/value"
	"github.com/ardnew/ewwc/xmltree"
)

const document = `<eww>
  <definitions/>
  <windows/>
  <variables>
    <var name="volume">70</var>
    <var name="muted">false</var>
    <script-var name="battery-level">battery</script-var>
  </variables>
</eww>`

func loader(src string) Loader {
	return func(context.Context) (*config.Config, error) {
		doc, err := xmltree.ParseString(src)
		if err != nil {
			return nil, err
		}

		return config.Parse(doc.Root())
	}
}

func fakeRunner() proc.Runner {
	return proc.RunnerFunc(func(_ context.Context, command string) (string, error) {
		return "42", nil
	})
}

func newTestSession(t *testing.T, scripts bool) *Session {
	t.Helper()

	s, err := NewSession(context.Background(), loader(document), scripts,
		log.Make(discard{}), config.WithRunner(fakeRunner()))
	if err != nil {
		t.Fatalf("NewSession(): %v", err)
	}

	return s
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestNewSession_NilLoader(t *testing.T) {
	_, err := NewSession(context.Background(), nil, false, log.Make(discard{}))
	if !errors.Is(err, ErrNoLoader) {
		t.Fatalf("error = %v, want ErrNoLoader", err)
	}
}

func TestSession_Names(t *testing.T) {
	tests := []struct {
		name    string
		scripts bool
		want    []string
	}{
		{"defaults_only", false, []string{"muted", "volume"}},
		{"with_scripts", true, []string{"battery-level", "muted", "volume"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t, tt.scripts)
			if diff := cmp.Diff(tt.want, s.Names()); diff != "" {
				t.Errorf("Names() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSession_Eval(t *testing.T) {
	s := newTestSession(t, true)

	tests := []struct {
		input string
		want  string
		kind  value.Kind
	}{
		{"volume", "70", value.KindNumber},
		{"{{ volume + 5 }}", "75", value.KindNumber},
		{"{{battery-level}}", "42", value.KindNumber},
		{"muted ? 'off' : 'on'", "on", value.KindString},
		{"!muted", "true", value.KindBoolean},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := s.Eval(tt.input)
			if err != nil {
				t.Fatalf("Eval(%q): %v", tt.input, err)
			}

			if got.String() != tt.want || got.Kind() != tt.kind {
				t.Errorf("Eval(%q) = %q (%s), want %q (%s)",
					tt.input, got, got.Kind(), tt.want, tt.kind)
			}
		})
	}
}

func TestSession_EvalErrors(t *testing.T) {
	s := newTestSession(t, false)

	tests := []struct {
		input string
		want  error
	}{
		{"battery-level", pkg.ErrUndefinedVariable},
		{"volume +", pkg.ErrAttributeParse},
		{"", pkg.ErrAttributeParse},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if _, err := s.Eval(tt.input); !errors.Is(err, tt.want) {
				t.Errorf("Eval(%q) error = %v, want %v", tt.input, err, tt.want)
			}
		})
	}
}

func TestSession_SetAndReload(t *testing.T) {
	s := newTestSession(t, false)

	s.Set("volume", "10")
	s.Set("label", "hello world")

	if v, ok := s.Lookup("volume"); !ok || v.String() != "10" {
		t.Errorf("Lookup(volume) = %v, %v", v, ok)
	}

	if v, _ := s.Lookup("label"); v.Kind() != value.KindString {
		t.Errorf("label kind = %s, want string", v.Kind())
	}

	if err := s.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}

	if v, _ := s.Lookup("volume"); v.String() != "70" {
		t.Errorf("volume after reload = %q, want 70", v)
	}

	if _, ok := s.Lookup("label"); ok {
		t.Error("label survived reload")
	}
}

func TestSession_ReloadFailureKeepsState(t *testing.T) {
	src := document
	s, err := NewSession(context.Background(),
		func(ctx context.Context) (*config.Config, error) { return loader(src)(ctx) },
		false, log.Make(discard{}))
	if err != nil {
		t.Fatal(err)
	}

	src = "<eww><windows/></eww>"

	if err := s.Reload(context.Background()); !errors.Is(err, pkg.ErrMissingSection) {
		t.Fatalf("Reload() error = %v, want ErrMissingSection", err)
	}

	if v, ok := s.Lookup("volume"); !ok || v.String() != "70" {
		t.Errorf("volume = %v, %v after failed reload", v, ok)
	}
}
