package cmd

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/ardnew/ewwc/pkg"
)

// Version prints the program version.
type Version struct {
	Verbose bool `help:"Include build and author information" short:"v"`
}

// Run executes the version command.
func (v *Version) Run(ctx context.Context) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", pkg.Name, pkg.Version)

	if v.Verbose {
		if info, ok := debug.ReadBuildInfo(); ok {
			fmt.Fprintf(&b, "  go:     %s\n", info.GoVersion)
			fmt.Fprintf(&b, "  module: %s\n", info.Main.Path)
		}

		for _, a := range pkg.Author {
			fmt.Fprintf(&b, "  author: %s <%s>\n", a.Name, a.Email)
		}
	}

	_, err := fmt.Fprint(stdioFrom(ctx).out, b.String())

	return err
}
