// Package profile provides optional runtime profiling for rebind.
//
// Profiling uses [github.com/pkg/profile] and is compiled in only with the
// pprof build tag:
//
//	go build -tags pprof .
//	rebind --pprof-mode cpu expand ./src
//
// Without the tag [Modes] is empty and [Start] accepts only the empty mode.
//
//	p, err := profile.Start("heap",
//		profile.WithDir(cacheDir),
//		profile.WithLabel("expand"))
//	if err != nil {
//		return err
//	}
//	defer p.Stop()
//
// Each label gets its own subdirectory, so profiles of different commands do
// not overwrite one another. Inspect them with go tool pprof.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
