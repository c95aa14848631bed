// Package cmd implements the ewwc subcommands.
//
// Each command is a kong command struct whose Run method receives the
// context built by package cli. Commands read their document from a file
// path, or standard input when the path is "-", and write results to the
// streams installed with [WithStdio].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path of
	// the persistent flag defaults file.
	ConfigIdentifier = "config"
)
