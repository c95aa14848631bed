package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/ardnew/ewwc/config"
	"github.com/ardnew/ewwc/log"
	"github.com/ardnew/ewwc/proc"
	"github.com/ardnew/ewwc/value"
)

// State compiles a document, runs every script variable's command once and
// prints the resulting variable table.
type State struct {
	File   string   `arg:"" help:"Configuration document or '-' for stdin" name:"file"`
	Jobs   int      `       help:"Maximum number of commands run at once"    default:"1"                          short:"j"`
	Path   []string `       help:"Directory prepended to PATH for commands"                                                 short:"P" type:"path"`
	Shell  string   `       help:"Shell used to run commands"               default:"${shell}"`
	Format string   `       help:"Output format"                             default:"text" enum:"text,json,yaml" short:"F"`

	runner proc.Runner `kong:"-"`
}

// ShellIdentifier is the kong variable identifier containing the default
// command shell.
const ShellIdentifier = "shell"

// Run executes the state command.
func (s *State) Run(ctx context.Context) error {
	doc, err := open(ctx, s.File)
	if err != nil {
		return err
	}

	runner := s.runner
	if runner == nil {
		runner = proc.Shell{Shell: s.Shell, Path: s.Path}
	}

	start := time.Now()

	state, err := doc.config.GenerateInitialState(ctx,
		config.WithRunner(runner),
		config.WithJobs(s.Jobs),
		config.WithStateLogger(log.Default()))
	if err != nil {
		return ErrInitialState.
			Wrap(err).
			With(slog.String("file", doc.path))
	}

	log.DebugContext(ctx, "initial state generated",
		slog.Int("vars", len(state)),
		slog.Int("jobs", s.Jobs),
		slog.Duration("elapsed", time.Since(start)))

	return s.write(ctx, state)
}

func (s *State) write(ctx context.Context, state value.Table) error {
	out := stdioFrom(ctx).out

	if s.Format == "text" {
		names := make([]value.VarName, 0, len(state))
		for name := range state {
			names = append(names, name)
		}

		slices.SortFunc(names, func(a, b value.VarName) int {
			return strings.Compare(a.String(), b.String())
		})

		for _, name := range names {
			if _, err := fmt.Fprintf(out, "%s=%s\n", name, state[name]); err != nil {
				return err
			}
		}

		return nil
	}

	data, err := (&Dump{Format: s.Format, Indent: 2}).encode(state.Native())
	if err != nil {
		return ErrEncode.
			Wrap(err).
			With(slog.String("format", s.Format))
	}

	_, err = out.Write(data)

	return err
}
