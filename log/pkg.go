package log

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
)

// defaultLog writes to stderr so that it never interleaves with expanded
// source on stdout. Expand jobs read it concurrently with [Config].
var defaultLog atomic.Pointer[Logger]

func init() {
	l := Make(os.Stderr)
	defaultLog.Store(&l)
}

// Config replaces the default logger with a copy that has opts applied.
func Config(opts ...Option) {
	l := Default().Wrap(opts...)
	defaultLog.Store(&l)
}

// Default returns the default logger, for packages that accept a [Logger].
func Default() Logger { return *defaultLog.Load() }

// pkgSkip is the frame distance from logDepth, through a package-level
// function, to its caller.
const pkgSkip = 2

func TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logDepth(ctx, pkgSkip, LevelTrace, msg, attrs)
}

func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logDepth(ctx, pkgSkip, LevelDebug, msg, attrs)
}

func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logDepth(ctx, pkgSkip, LevelInfo, msg, attrs)
}

func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logDepth(ctx, pkgSkip, LevelWarn, msg, attrs)
}

func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logDepth(ctx, pkgSkip, LevelError, msg, attrs)
}
