package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/google/go-cmp/cmp"
)

func TestResolve_Flattens(t *testing.T) {
	src := `
log:
  level: debug
  pretty: false
log_caller: true
state:
  jobs: 4
  path: [/opt/bin, 7]
ratio: 1.5
`

	r, err := resolve(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	want := config{
		"log-level":  "debug",
		"log-pretty": false,
		"log_caller": true,
		"state-jobs": "4",
		"state-path": []any{"/opt/bin", "7"},
		"ratio":      "1.5",
	}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Errorf("resolve() mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_EmptyAndMalformed(t *testing.T) {
	for _, src := range []string{"", "key: [unclosed"} {
		r, err := resolve(strings.NewReader(src))
		if err != nil {
			t.Fatalf("resolve(%q): %v", src, err)
		}

		if len(r.(config)) != 0 {
			t.Errorf("resolve(%q) = %v, want empty", src, r)
		}
	}
}

func TestConfig_Resolve(t *testing.T) {
	r := config{
		"log-level":  "debug",
		"log_caller": true,
		"jobs":       "2",
		"state-jobs": "8",
	}

	tests := []struct {
		name    string
		flag    string
		command string
		want    any
	}{
		{"hyphen", "log-level", "", "debug"},
		{"underscore", "log-caller", "", true},
		{"global", "jobs", "repl", "2"},
		{"command_scoped", "jobs", "state", "8"},
		{"missing", "log-format", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var parent *kong.Path
			if tt.command != "" {
				parent = &kong.Path{Command: &kong.Command{Name: tt.command}}
			}

			got, err := r.Resolve(nil, parent, &kong.Flag{Value: &kong.Value{Name: tt.flag}})
			if err != nil {
				t.Fatal(err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Resolve(%s) mismatch (-want +got):\n%s", tt.flag, diff)
			}
		})
	}
}

func TestCLI_ConfigFileDefaults(t *testing.T) {
	type cli struct {
		Level string `default:"warn"`
		Count int    `default:"1"`
	}

	var c cli

	parser, err := kong.New(&c,
		kong.Resolvers(config{"level": "info", "count": "3"}),
	)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse([]string{"--level=error"}); err != nil {
		t.Fatal(err)
	}

	if c.Level != "error" || c.Count != 3 {
		t.Errorf("parsed %+v, want flag to override file and file to override default", c)
	}
}
