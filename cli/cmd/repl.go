package cmd

import (
	"context"

	"github.com/ardnew/ewwc/cli/cmd/repl"
	"github.com/ardnew/ewwc/config"
	"github.com/ardnew/ewwc/log"
	"github.com/ardnew/ewwc/proc"
)

// Repl evaluates attribute expressions interactively against a document's
// variables.
type Repl struct {
	File    string   `arg:"" help:"Configuration document" name:"file" type:"existingfile"`
	Scripts bool     `       help:"Run script variables to seed values" default:"true" negatable:""`
	Jobs    int      `       help:"Maximum number of commands run at once" default:"1" short:"j"`
	Path    []string `       help:"Directory prepended to PATH for commands" short:"P" type:"path"`
	Shell   string   `       help:"Shell used to run commands" default:"${shell}"`
	Cache   string   `       help:"History directory" default:"${cache}" hidden:"" type:"path"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	session, err := r.session(ctx)
	if err != nil {
		return err
	}

	return repl.Run(ctx, session, r.Cache, log.Default())
}

func (r *Repl) session(ctx context.Context) (*repl.Session, error) {
	load := func(ctx context.Context) (*config.Config, error) {
		doc, err := compile(ctx, r.File)

		return doc.config, err
	}

	if _, err := open(ctx, r.File); err != nil {
		return nil, err
	}

	return repl.NewSession(ctx, load, r.Scripts, log.Default(),
		config.WithRunner(proc.Shell{Shell: r.Shell, Path: r.Path}),
		config.WithJobs(r.Jobs),
		config.WithStateLogger(log.Default()))
}
