// Package log is the leveled logger used across rebind, built on [log/slog].
//
// A [Logger] is an immutable value configured with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithBaseDir(wd))
//
// Every logging method takes a context. [LevelTrace] sits below debug and is
// printed as TRACE; the lang package uses it for per-binding detail.
//
// Records are encoded as [FormatText] (default) or [FormatJSON]. With
// [WithPretty] enabled, both are rendered with lipgloss styles that degrade to
// plain text when the writer is not a terminal.
//
// Attributes named "file", "path", or "dir" holding absolute paths beneath the
// [WithBaseDir] directory are shown relative to it, so messages about source
// files read the way the files were named on the command line.
//
// The package-level functions write through a default logger on standard
// error, leaving standard output to expanded source. [Config] replaces it and
// [Default] returns it; both are safe to call while other goroutines log.
package log
