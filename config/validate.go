package config

import (
	"errors"
	"log/slog"
	"slices"

	"github.com/ardnew/ewwc/pkg"
	"github.com/ardnew/ewwc/value"
	"github.com/ardnew/ewwc/widget"
)

// Validate reports every expression in a widget or window that references a
// variable declared nowhere in the configuration. All problems are joined
// into one error, ordered by widget then window name; nil means none.
func (c *Config) Validate() error {
	declared := map[value.VarName]struct{}{}
	for _, name := range c.VarNames() {
		declared[name] = struct{}{}
	}

	var errs []error

	check := func(where string, use widget.Use) {
		for _, ref := range use.Refs() {
			if _, ok := declared[ref]; ok {
				continue
			}

			errs = append(errs, pkg.ErrUndefinedVariable.At(firstUse(use, ref)).
				Describe("%s references '%s'", where, ref).
				With(slog.String("var", ref.String())))
		}
	}

	for _, name := range c.WidgetNames() {
		check("widget '"+name+"'", c.widgets[name].Structure)
	}

	for _, name := range c.WindowNames() {
		check("window '"+name.String()+"'", c.windows[name].Widget)
	}

	return errors.Join(errs...)
}

// firstUse returns the position of the first node in use's tree whose
// attributes reference ref.
func firstUse(use widget.Use, ref value.VarName) pkg.Position {
	for _, a := range use.Attrs {
		if slices.Contains(a.Refs(), ref) {
			return use.Pos
		}
	}

	for _, child := range use.Children {
		if pos := firstUse(child, ref); pos.IsValid() {
			return pos
		}
	}

	return pkg.Position{}
}
