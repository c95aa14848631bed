// Package proc runs the external commands that back script variables.
package proc

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/mung"

	"github.com/ardnew/ewwc/pkg"
)

// Runner executes a command line and returns its trimmed standard output.
type Runner interface {
	Run(ctx context.Context, command string) (string, error)
}

// RunnerFunc adapts a function to [Runner].
type RunnerFunc func(ctx context.Context, command string) (string, error)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, command string) (string, error) {
	return f(ctx, command)
}

// DefaultShell is the interpreter used when [Shell.Shell] is empty.
const DefaultShell = "/bin/sh"

// maxStderr bounds the stderr excerpt attached to a failure.
const maxStderr = 512

// Shell runs commands with a POSIX shell.
//
// The zero value runs DefaultShell with the current environment.
type Shell struct {
	// Shell is the interpreter invoked as "<Shell> -c <command>".
	Shell string

	// Path lists directories prepended to PATH for every command.
	Path []string

	// Env holds extra KEY=VALUE pairs appended to the environment.
	Env []string
}

// Run executes command and returns its standard output with surrounding
// whitespace removed.
// Spawn failures, output errors and nonzero exit statuses all fail with
// [pkg.ErrExternalCommand].
func (s Shell) Run(ctx context.Context, command string) (string, error) {
	shell := s.Shell
	if shell == "" {
		shell = DefaultShell
	}

	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, shell, "-c", command)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Env = s.environ()

	if err := cmd.Run(); err != nil {
		fail := pkg.ErrExternalCommand.
			Describe("%q", command).
			Wrap(err).
			With(slog.String("command", command))

		var exit *exec.ExitError
		if errors.As(err, &exit) {
			fail = fail.With(
				slog.Int("status", exit.ExitCode()),
				slog.String("stderr", excerpt(stderr.String())),
			)
		}

		return "", fail
	}

	return strings.TrimSpace(stdout.String()), nil
}

func (s Shell) environ() []string {
	if len(s.Path) == 0 && len(s.Env) == 0 {
		return nil
	}

	env := os.Environ()

	if len(s.Path) > 0 {
		env = append(env, "PATH="+PrefixPath(os.Getenv("PATH"), s.Path...))
	}

	return append(env, s.Env...)
}

// PrefixPath prepends dirs to the PATH-like list path, dropping duplicates.
func PrefixPath(path string, dirs ...string) string {
	return mung.Make(
		mung.WithSubjectItems(path),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
	).String()
}

func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxStderr {
		return s[:maxStderr] + "..."
	}

	return s
}
