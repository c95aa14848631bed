package repl

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/ewwc/config"
	"github.com/ardnew/ewwc/log"
	"github.com/ardnew/ewwc/value"
)

// Loader compiles the configuration a [Session] evaluates against.
type Loader func(ctx context.Context) (*config.Config, error)

// Session holds a compiled configuration and the variable table that
// expressions are evaluated against.
type Session struct {
	load    Loader
	scripts bool
	opts    []config.StateOption
	logger  log.Logger

	cfg   *config.Config
	state value.Table
}

// NewSession loads the configuration and seeds the variable table.
//
// With scripts set, every script variable's command is run once as by
// [config.Config.GenerateInitialState]; otherwise only declared defaults are
// visible.
func NewSession(
	ctx context.Context,
	load Loader,
	scripts bool,
	logger log.Logger,
	opts ...config.StateOption,
) (*Session, error) {
	if load == nil {
		return nil, ErrNoLoader
	}

	s := &Session{load: load, scripts: scripts, opts: opts, logger: logger}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

// Reload recompiles the configuration and rebuilds the variable table,
// discarding values assigned with [Session.Set]. The session is unchanged
// if either step fails.
func (s *Session) Reload(ctx context.Context) error {
	cfg, err := s.load(ctx)
	if err != nil {
		return err
	}

	state := cfg.DefaultVars()

	if s.scripts {
		state, err = cfg.GenerateInitialState(ctx, s.opts...)
		if err != nil {
			return err
		}
	}

	s.cfg, s.state = cfg, state

	s.logger.TraceContext(ctx, "repl session loaded",
		slog.Int("vars", len(state)),
		slog.Bool("scripts", s.scripts))

	return nil
}

// Config returns the compiled configuration.
func (s *Session) Config() *config.Config { return s.cfg }

// Eval evaluates an attribute expression against the variable table.
// The {{ }} delimiters are optional.
func (s *Session) Eval(input string) (value.Primitive, error) {
	body := strings.TrimSpace(input)

	if inner, ok := strings.CutPrefix(body, "{{"); ok {
		if inner, ok = strings.CutSuffix(inner, "}}"); ok {
			body = strings.TrimSpace(inner)
		}
	}

	attr, err := value.ParseAttr("{{ " + body + " }}")
	if err != nil {
		return value.Primitive{}, err
	}

	return attr.Resolve(s.state)
}

// Set assigns raw, classified by [value.ParsePrimitive], to the named
// variable.
func (s *Session) Set(name, raw string) {
	s.state[value.NewVarName(name)] = value.ParsePrimitive(raw)
}

// Lookup returns the current value of the named variable.
func (s *Session) Lookup(name string) (value.Primitive, bool) {
	v, ok := s.state[value.NewVarName(name)]

	return v, ok
}

// Names returns the names of all variables in sorted order.
func (s *Session) Names() []string {
	names := make([]string, 0, len(s.state))
	for name := range s.state {
		names = append(names, name.String())
	}

	slices.Sort(names)

	return names
}
