package config

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ardnew/ewwc/log"
	"github.com/ardnew/ewwc/pkg"
	"github.com/ardnew/ewwc/proc"
	"github.com/ardnew/ewwc/value"
)

// StateOption configures [Config.GenerateInitialState].
type StateOption func(stateOptions) stateOptions

type stateOptions struct {
	runner proc.Runner
	jobs   int
	logger log.Logger
}

// WithRunner sets the command runner. The default is [proc.Shell].
func WithRunner(r proc.Runner) StateOption {
	return func(o stateOptions) stateOptions {
		if r != nil {
			o.runner = r
		}

		return o
	}
}

// WithJobs sets how many commands may run at once. Values below 2 run them
// one at a time in declaration order.
func WithJobs(n int) StateOption {
	return func(o stateOptions) stateOptions {
		o.jobs = n

		return o
	}
}

// WithStateLogger sets the logger that receives per-command diagnostics.
func WithStateLogger(l log.Logger) StateOption {
	return func(o stateOptions) stateOptions {
		o.logger = l

		return o
	}
}

// GenerateInitialState runs every script variable's command once and
// returns the resulting variable table with the declared defaults overlaid.
//
// A default always takes precedence over a command's output for the same
// variable. The first command failure aborts generation with
// [pkg.ErrExternalCommand]; no partial table is returned.
func (c *Config) GenerateInitialState(
	ctx context.Context,
	opts ...StateOption,
) (value.Table, error) {
	o := stateOptions{
		runner: proc.Shell{},
		jobs:   1,
		logger: log.Default(),
	}

	for _, opt := range opts {
		if opt != nil {
			o = opt(o)
		}
	}

	results := make([]value.Primitive, len(c.scriptVars))

	run := func(ctx context.Context, i int) error {
		v := c.scriptVars[i]
		start := time.Now()

		out, err := o.runner.Run(ctx, v.Command)
		if err != nil {
			return pkg.Contextf(err, "script variable '%s'", v.Name)
		}

		results[i] = value.ParsePrimitive(out)

		o.logger.TraceContext(ctx, "script var evaluated",
			slog.String("var", v.Name.String()),
			slog.String("value", out),
			slog.Duration("elapsed", time.Since(start)))

		return nil
	}

	if o.jobs < 2 {
		for i := range c.scriptVars {
			if err := run(ctx, i); err != nil {
				return nil, err
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(o.jobs)

		for i := range c.scriptVars {
			g.Go(func() error { return run(gctx, i) })
		}

		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	state := make(value.Table, len(c.scriptVars)+len(c.defaults))

	for i, v := range c.scriptVars {
		state[v.Name] = results[i]
	}

	for name, val := range c.defaults {
		state[name] = val
	}

	return state, nil
}
