package config

import (
	"context"

	"github.com/ardnew/ewwc/log"
)

// Option configures [Parse] and [Load].
type Option func(options) options

type options struct {
	ctx    context.Context
	logger log.Logger
	strict bool
}

func makeOptions(opts ...Option) options {
	o := options{
		ctx:    context.TODO(),
		logger: log.Default(),
	}

	for _, opt := range opts {
		if opt != nil {
			o = opt(o)
		}
	}

	return o
}

// WithStrict controls whether a widget, window or variable name declared more
// than once fails with [pkg.ErrDuplicateName]. By default the last
// declaration in document order wins.
func WithStrict(strict bool) Option {
	return func(o options) options {
		o.strict = strict

		return o
	}
}

// WithLogger sets the logger that receives diagnostics. The package-level
// default logger is used otherwise.
func WithLogger(l log.Logger) Option {
	return func(o options) options {
		o.logger = l

		return o
	}
}

// WithContext sets the context passed to the logger.
func WithContext(ctx context.Context) Option {
	return func(o options) options {
		if ctx != nil {
			o.ctx = ctx
		}

		return o
	}
}
