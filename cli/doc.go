// Package cli contains the command line interface for rebind.
//
// # Usage
//
// Expand every invocation in a file and print the result:
//
//	rebind src/worker.rs
//
// Rewrite files in place, four at a time:
//
//	rebind expand --write --jobs=4 src/*.rs
//
// Show how the bindings of one invocation are classified:
//
//	rebind inspect --format=yaml '(a, mut n = a.len()) move || a + n'
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory (for example ~/.config/rebind/config.yaml). Keys are flag names
// in snake_case:
//
//	macro: bind
//	clone: to_owned
//	placement: inside
//	log_level: debug
//
// The init command writes the current flag values to that file. Flags on the
// command line override the file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (time, RFC3339, kitchen, none, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output when writing to a terminal
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default ~/.cache/rebind/pprof)
package cli
