// Package cli contains the command line interface for ewwc.
//
// # Usage
//
//	ewwc [flags] <command> [args]
//
// The default command is check, so these are equivalent:
//
//	ewwc eww.xml
//	ewwc check eww.xml
//
// # Commands
//
//   - check: compile a document; --strict rejects duplicate names and
//     --validate rejects references to undeclared variables
//   - dump: print the compiled configuration as json, yaml or msgpack
//   - state: run every script variable once and print the variable table
//   - browse: list windows, widgets and variables interactively
//   - repl: evaluate attribute expressions against the variables
//   - init: write the current flag values as persistent defaults
//   - version: print version information
//
// Documents are read from a path, or standard input when the path is "-".
// Compile errors are printed with the offending source line.
//
// # Persistent Defaults
//
// Flag defaults are read from config.yaml and config.json in the user
// configuration directory (for example ~/.config/ewwc). Nested YAML keys are
// joined with hyphens, and a command name scopes a key to that command:
//
//	log:
//	  level: debug
//	state:
//	  jobs: 4
//
// Command-line flags always win over file values.
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: output format (text, json)
//   - --log-time-layout: timestamp layout (RFC3339, Kitchen, none, ...)
//   - --log-caller: include caller information
//   - --[no-]log-pretty: colorize text output on terminals
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: profiling mode (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: profile output directory (default ~/.cache/ewwc/pprof)
package cli
