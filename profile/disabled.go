//go:build !pprof

package profile

import "fmt"

// Modes returns no modes when built without the pprof build tag.
func Modes() []string { return nil }

func start(mode string, _ settings) (Profiler, error) {
	return nil, fmt.Errorf("%w: %q (built without %s tag)", ErrUnknownMode, mode, Tag)
}
