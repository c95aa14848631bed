package cmd

import (
	"context"
	"encoding"
	"errors"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/ewwc/log"
	"github.com/ardnew/ewwc/profile"
)

// Init writes the persistent flag defaults file from the current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// errNoContext is returned when a command needing the parsed command line
// runs without one.
var errNoContext = errors.New("command line context unavailable")

// Run executes the init command.
func (i *Init) Run(ctx context.Context) error {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ErrWriteConfig.Wrap(errNoContext)
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		return ErrWriteConfig.Wrap(errNoContext)
	}

	_, err := os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	data, err := yaml.Marshal(flagValues(ktx))
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	if err := os.WriteFile(confPath, data, 0o600); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath))

	return nil
}

// flagValues maps each application-level flag to its current value, leaving
// out help, profiling and flags whose value is empty.
func flagValues(ktx *kong.Context) map[string]any {
	ignore := []string{"help", profile.Tag}
	values := map[string]any{}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if v := flagValue(ktx.FlagValue(flag)); v != nil {
			values[flag.Name] = v
		}
	}

	return values
}

// flagValue converts a parsed flag value into a YAML-encodable value, or nil
// when it is empty.
func flagValue(val any) any {
	if val == nil {
		return nil
	}

	if m, ok := val.(encoding.TextMarshaler); ok {
		text, err := m.MarshalText()
		if err != nil || len(text) == 0 {
			return nil
		}

		return string(text)
	}

	rv := reflect.ValueOf(val)

	switch rv.Kind() {
	case reflect.String:
		if rv.Len() == 0 {
			return nil
		}

		return rv.String()

	case reflect.Bool:
		return rv.Bool()

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint()

	case reflect.Float32, reflect.Float64:
		return rv.Float()

	case reflect.Slice:
		if rv.Len() == 0 {
			return nil
		}

		items := make([]any, 0, rv.Len())
		for i := range rv.Len() {
			if v := flagValue(rv.Index(i).Interface()); v != nil {
				items = append(items, v)
			}
		}

		return items
	}

	return nil
}
