// Package cmd implements the rebind subcommands.
//
//   - expand rewrites every invocation in source files (the default command)
//   - inspect shows how each binding of one invocation is classified
//   - init writes the current flag values to the configuration file
//   - try expands invocations interactively
//
// Commands that rewrite take their macro name, clone method and placement
// from the shared [Rewrite] flags.
package cmd

const (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
