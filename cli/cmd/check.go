package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/ewwc/config"
)

// Check compiles a document and reports whether it is valid.
type Check struct {
	File     string `arg:"" help:"Configuration document or '-' for stdin" name:"file"`
	Strict   bool   `       help:"Reject duplicate names"                                        short:"s"`
	Validate bool   `       help:"Reject references to undeclared variables"                     short:"V"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) error {
	doc, err := open(ctx, c.File, config.WithStrict(c.Strict))
	if err != nil {
		return err
	}

	if c.Validate {
		if err := doc.config.Validate(); err != nil {
			return doc.fail(ctx, err)
		}
	}

	cfg := doc.config

	_, err = fmt.Fprintf(stdioFrom(ctx).out,
		"ok: %d widgets, %d windows, %d variables\n",
		len(cfg.WidgetNames()), len(cfg.WindowNames()), len(cfg.VarNames()))

	return err
}
