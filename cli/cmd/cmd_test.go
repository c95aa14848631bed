package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"
	"github.com/vmihailenco/msgpack/v5"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/ewwc/pkg"
	"github.com/ardnew/ewwc/proc"
)

const sample = `<eww>
  <definitions>
    <def name="bar" width="200" height="30">
      <box orientation="h">
        <label text="{{ time }}"/>
        <label text="{{ volume }}"/>
      </box>
    </def>
  </definitions>
  <windows>
    <window name="main">
      <size x="1920" y="30"/>
      <pos x="0" y="10"/>
      <widget><bar/></widget>
    </window>
  </windows>
  <variables>
    <var name="volume">70</var>
    <script-var name="time" interval="1s">date +%H:%M</script-var>
  </variables>
</eww>`

// streams returns a context reading src from stdin and capturing output.
func streams(src string) (ctx context.Context, out, errOut *bytes.Buffer) {
	out, errOut = new(bytes.Buffer), new(bytes.Buffer)
	ctx = WithStdio(context.Background(), strings.NewReader(src), out, errOut)

	return ctx, out, errOut
}

func writeFile(t *testing.T, src string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "eww.xml")
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestStdioFrom_Defaults(t *testing.T) {
	s := stdioFrom(context.Background())
	if s.in != os.Stdin || s.out != os.Stdout || s.err != os.Stderr {
		t.Error("stdioFrom() did not fall back to process streams")
	}
}

func TestCheck_OK(t *testing.T) {
	tests := []struct {
		name string
		file func(t *testing.T) string
	}{
		{"stdin", func(*testing.T) string { return stdinSource }},
		{"file", func(t *testing.T) string { return writeFile(t, sample) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out, errOut := streams(sample)

			c := Check{File: tt.file(t), Strict: true, Validate: true}
			if err := c.Run(ctx); err != nil {
				t.Fatalf("Run(): %v\n%s", err, errOut)
			}

			if got, want := out.String(), "ok: 1 widgets, 1 windows, 2 variables\n"; got != want {
				t.Errorf("output = %q, want %q", got, want)
			}
		})
	}
}

func TestCheck_Errors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		check    Check
		wantKind error
		wantText string
	}{
		{
			name:     "missing_section",
			src:      `<eww><windows/></eww>`,
			wantKind: pkg.ErrMissingSection,
			wantText: "error[missing-section]",
		},
		{
			name:     "malformed",
			src:      "<eww>\n<definitions>\n</eww>",
			wantKind: pkg.ErrXMLSyntax,
			wantText: "error[xml-syntax]",
		},
		{
			name: "strict_duplicate",
			src: `<eww><definitions/><windows/><variables>
<var name="a">1</var>
<var name="a">2</var>
</variables></eww>`,
			check:    Check{Strict: true},
			wantKind: pkg.ErrDuplicateName,
			wantText: "  --> -:3:1",
		},
		{
			name: "undefined_variable",
			src: `<eww>
  <definitions>
    <def name="bar"><label text="{{ nope }}"/></def>
  </definitions>
  <windows/>
</eww>`,
			check:    Check{Validate: true},
			wantKind: pkg.ErrUndefinedVariable,
			wantText: "3 |     <def name=\"bar\"><label text=\"{{ nope }}\"/></def>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out, errOut := streams(tt.src)

			c := tt.check
			c.File = stdinSource

			err := c.Run(ctx)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("error = %v, want ErrInvalidConfig", err)
			}

			if !errors.Is(err, tt.wantKind) {
				t.Errorf("error = %v, want %v", err, tt.wantKind)
			}

			if out.Len() != 0 {
				t.Errorf("unexpected output %q", out)
			}

			if !strings.Contains(errOut.String(), tt.wantText) {
				t.Errorf("diagnostics missing %q:\n%s", tt.wantText, errOut)
			}
		})
	}
}

func TestCheck_UnreadableFile(t *testing.T) {
	ctx, _, _ := streams("")

	c := Check{File: filepath.Join(t.TempDir(), "missing.xml")}
	if err := c.Run(ctx); !errors.Is(err, pkg.ErrIO) {
		t.Fatalf("error = %v, want ErrIO", err)
	}
}

func TestDump_Formats(t *testing.T) {
	decode := map[string]func([]byte, any) error{
		"json":    json.Unmarshal,
		"yaml":    yaml.Unmarshal,
		"msgpack": msgpack.Unmarshal,
	}

	for format, unmarshal := range decode {
		t.Run(format, func(t *testing.T) {
			ctx, out, _ := streams(sample)

			d := Dump{File: stdinSource, Format: format, Indent: 2}
			if err := d.Run(ctx); err != nil {
				t.Fatalf("Run(): %v", err)
			}

			var got struct {
				Windows map[string]struct {
					Size []int `json:"size" msgpack:"size" yaml:"size"`
				} `json:"windows" msgpack:"windows" yaml:"windows"`
				Variables struct {
					Defaults map[string]any `json:"defaults" msgpack:"defaults" yaml:"defaults"`
				} `json:"variables" msgpack:"variables" yaml:"variables"`
			}

			if err := unmarshal(out.Bytes(), &got); err != nil {
				t.Fatalf("decode %s: %v\n%s", format, err, out)
			}

			if diff := cmp.Diff([]int{1920, 30}, got.Windows["main"].Size); diff != "" {
				t.Errorf("window size mismatch (-want +got):\n%s", diff)
			}

			if _, ok := got.Variables.Defaults["volume"]; !ok {
				t.Errorf("defaults = %v, missing volume", got.Variables.Defaults)
			}
		})
	}
}

func clock(out string, err error) proc.Runner {
	return proc.RunnerFunc(func(context.Context, string) (string, error) {
		return out, err
	})
}

func TestState_Text(t *testing.T) {
	ctx, out, _ := streams(sample)

	s := State{File: stdinSource, Jobs: 2, Format: "text", runner: clock("12:00", nil)}
	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run(): %v", err)
	}

	if got, want := out.String(), "time=12:00\nvolume=70\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestState_JSON(t *testing.T) {
	ctx, out, _ := streams(sample)

	s := State{File: stdinSource, Format: "json", runner: clock("12:00", nil)}
	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run(): %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatal(err)
	}

	want := map[string]any{"time": "12:00", "volume": float64(70)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestState_CommandFailure(t *testing.T) {
	ctx, out, _ := streams(sample)

	s := State{
		File:   stdinSource,
		Format: "text",
		runner: clock("", pkg.ErrExternalCommand.Describe("date")),
	}

	err := s.Run(ctx)
	if !errors.Is(err, ErrInitialState) || !errors.Is(err, pkg.ErrExternalCommand) {
		t.Fatalf("error = %v, want ErrInitialState wrapping ErrExternalCommand", err)
	}

	if out.Len() != 0 {
		t.Errorf("partial output %q", out)
	}
}

func TestVersion(t *testing.T) {
	for _, verbose := range []bool{false, true} {
		ctx, out, _ := streams("")

		if err := (&Version{Verbose: verbose}).Run(ctx); err != nil {
			t.Fatal(err)
		}

		if !strings.HasPrefix(out.String(), pkg.Name+" "+pkg.Version+"\n") {
			t.Errorf("output = %q", out)
		}

		if got := strings.Contains(out.String(), "author:"); got != verbose {
			t.Errorf("verbose=%v: author shown = %v", verbose, got)
		}
	}
}

func TestInit(t *testing.T) {
	confPath := filepath.Join(t.TempDir(), "config.yaml")

	var cli struct {
		Level string   `default:"warn"`
		Jobs  int      `default:"4"`
		Path  []string `default:"/opt/bin"`
		Empty string
	}

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx := WithContext(context.Background(), ktx)

	if err := (&Init{}).Run(ctx); err != nil {
		t.Fatalf("Run(): %v", err)
	}

	data, err := os.ReadFile(confPath)
	if err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}

	if jobs := fmt.Sprint(got["jobs"]); jobs != "4" {
		t.Errorf("jobs = %s, want 4", jobs)
	}

	delete(got, "jobs")

	want := map[string]any{
		"level": "warn",
		"path":  []any{"/opt/bin"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	if err := (&Init{}).Run(ctx); !errors.Is(err, ErrFileExists) {
		t.Errorf("second Run() error = %v, want ErrFileExists", err)
	}

	if err := (&Init{Force: true}).Run(ctx); err != nil {
		t.Errorf("forced Run(): %v", err)
	}
}

func TestInit_NoContext(t *testing.T) {
	if err := (&Init{}).Run(context.Background()); !errors.Is(err, ErrWriteConfig) {
		t.Fatalf("error = %v, want ErrWriteConfig", err)
	}
}

type level string

func TestFlagValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"empty_string", "", nil},
		{"string", "json", "json"},
		{"named_string", level("debug"), "debug"},
		{"bool", false, false},
		{"int", 3, int64(3)},
		{"empty_slice", []string{}, nil},
		{"slice", []string{"a", ""}, []any{"a"}},
		{"float", 1.5, 1.5},
		{"map", map[string]int{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, flagValue(tt.in)); diff != "" {
				t.Errorf("flagValue(%v) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestRender(t *testing.T) {
	source := []byte("<eww>\n  <bogus/>\n</eww>")
	err := pkg.Contextf(
		pkg.ErrIllegalElement.At(pkg.Position{Line: 2, Column: 3}).Describe("bogus"),
		"error parsing variables")

	var buf bytes.Buffer
	Render(&buf, "eww.xml", source, err)

	want := strings.Join([]string{
		"error[illegal-element]: error parsing variables: 2:3 | illegal element: bogus",
		"  --> eww.xml:2:3",
		"  |",
		"2 |   <bogus/>",
		"  |   ^",
		"",
	}, "\n")

	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_JoinedAndUnpositioned(t *testing.T) {
	var buf bytes.Buffer

	Render(&buf, "x", nil, nil)
	if buf.Len() != 0 {
		t.Fatalf("nil error rendered %q", buf.String())
	}

	Render(&buf, "x", []byte("a"), errors.Join(
		pkg.ErrIO.Describe("x"),
		pkg.ErrUndefinedVariable.At(pkg.Position{Line: 9}),
	))

	got := buf.String()
	for _, want := range []string{"error[io]: failed to read input: x\n", "  --> x:9\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("Render() = %q, missing %q", got, want)
		}
	}

	if strings.Contains(got, "^") {
		t.Errorf("caret rendered for out-of-range line: %q", got)
	}
}

func TestIndent(t *testing.T) {
	if got := indent("\tab c", 4); got != "\t   " {
		t.Errorf("indent() = %q", got)
	}

	if got := indent("ab", 10); got != "  " {
		t.Errorf("indent() past end = %q", got)
	}
}

func TestBrowser(t *testing.T) {
	ctx, _, _ := streams(sample)

	doc, err := compile(ctx, stdinSource)
	if err != nil {
		t.Fatal(err)
	}

	var got []string
	for _, item := range entries(doc.config) {
		e := item.(entry)
		got = append(got, e.kind+" "+e.name)
	}

	want := []string{"window main", "widget bar", "script-var time", "var volume"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}

	var m tea.Model = newBrowser(doc)

	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	view := m.View()
	for _, s := range []string{"window main", "size     1920x30", "bar"} {
		if !strings.Contains(view, s) {
			t.Errorf("detail view missing %q:\n%s", s, view)
		}
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.(browser).detail != nil {
		t.Error("esc did not close detail view")
	}
}

func TestFormatUse(t *testing.T) {
	ctx, _, _ := streams(sample)

	doc, err := compile(ctx, stdinSource)
	if err != nil {
		t.Fatal(err)
	}

	def, _ := doc.config.Widget("bar")

	want := strings.Join([]string{
		`box orientation="h"`,
		`  label text="{{ time }}"`,
		`  label text="{{ volume }}"`,
	}, "\n")

	if diff := cmp.Diff(want, formatUse(def.Structure)); diff != "" {
		t.Errorf("formatUse() mismatch (-want +got):\n%s", diff)
	}
}

func TestRepl_Session(t *testing.T) {
	ctx, _, _ := streams("")

	r := Repl{File: writeFile(t, sample), Scripts: false}

	s, err := r.session(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"volume"}, s.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}

	_, _, errOut := streams("")
	ctx = WithStdio(context.Background(), nil, nil, errOut)

	r.File = filepath.Join(t.TempDir(), "missing.xml")
	if _, err := r.session(ctx); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}

	if errOut.Len() == 0 {
		t.Error("load failure was not rendered")
	}
}
