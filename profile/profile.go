package profile

import (
	"errors"
	"path/filepath"
)

// ErrUnknownMode is returned by [Start] for a mode not listed by [Modes].
var ErrUnknownMode = errors.New("unknown profiling mode")

// Profiler is a running profile. Stop flushes it to disk and may be called
// more than once.
type Profiler interface{ Stop() }

type settings struct {
	dir   string
	label string
	quiet bool
}

// Option configures a profile started by [Start].
type Option func(*settings)

// WithDir sets the directory profiles are written beneath.
func WithDir(dir string) Option {
	return func(s *settings) { s.dir = dir }
}

// WithLabel writes profiles to a subdirectory named label, keeping the
// profiles of different commands apart.
func WithLabel(label string) Option {
	return func(s *settings) { s.label = label }
}

// WithQuiet suppresses the profiler's own messages on standard error.
func WithQuiet(quiet bool) Option {
	return func(s *settings) { s.quiet = quiet }
}

// path returns the directory profiles are written to, or "" for the
// profiler's default temporary directory.
func (s settings) path() string {
	if s.dir == "" || s.label == "" {
		return s.dir
	}

	return filepath.Join(s.dir, filepath.Base(s.label))
}

// Start begins profiling in mode. An empty mode starts nothing and returns a
// no-op [Profiler].
func Start(mode string, opts ...Option) (Profiler, error) {
	if mode == "" {
		return nop{}, nil
	}

	s := settings{quiet: true}
	for _, opt := range opts {
		opt(&s)
	}

	return start(mode, s)
}

type nop struct{}

func (nop) Stop() {}
