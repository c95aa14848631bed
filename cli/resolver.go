package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/ewwc/log"
)

// resolve is a [kong.ConfigurationLoader] that reads flag defaults from a
// YAML document.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve, "/path/to/config.yaml")
//
// Nested mappings are flattened by joining keys with hyphens, so these two
// documents are equivalent:
//
//	log:
//	  level: debug
//	  pretty: false
//
//	log-level: debug
//	log_pretty: false
//
// A key prefixed with a command name applies only to that command:
//
//	state:
//	  jobs: 4
//
// Command-line flags override values from the file. An empty document
// yields no defaults; a malformed one is logged and ignored.
func resolve(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if !errors.Is(err, io.EOF) {
			log.Warn("ignoring malformed configuration file",
				slog.String("error", err.Error()))
		}

		return config{}, nil
	}

	return flatten(config{}, "", doc), nil
}

// config implements [kong.Resolver] over a flattened YAML document.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	parent *kong.Path,
	flag *kong.Flag,
) (any, error) {
	names := []string{flag.Name}
	if parent != nil && parent.Command != nil {
		names = append([]string{parent.Command.Name + "-" + flag.Name}, names...)
	}

	for _, name := range names {
		if value, ok := r[name]; ok {
			return value, nil
		}

		if value, ok := r[strings.ReplaceAll(name, "-", "_")]; ok {
			return value, nil
		}
	}

	return nil, nil
}

// flatten copies the entries of m into dst, prefixing nested keys with their
// parents' keys.
func flatten(dst config, prefix string, m map[string]any) config {
	for key, val := range m {
		if prefix != "" {
			key = prefix + "-" + key
		}

		if sub, ok := val.(map[string]any); ok {
			flatten(dst, key, sub)

			continue
		}

		dst[key] = scalar(val)
	}

	return dst
}

// scalar converts numbers to strings, which Kong requires for parsing.
func scalar(val any) any {
	switch v := val.(type) {
	case int, int64, uint64, float64:
		return fmt.Sprint(v)

	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = scalar(e)
		}

		return out

	default:
		return v
	}
}
