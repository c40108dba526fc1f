//go:build pprof

package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/rebind/log"
	"github.com/ardnew/rebind/profile"
)

type pprofConfig struct {
	Mode string `default:""            enum:",${pprofModeEnum}" help:"Enable profiling"         placeholder:"${enum}" short:"p"`
	Dir  string `default:"${pprofDir}"                          help:"Profile output directory"                                 type:"path"`
}

func (pprofConfig) vars(cache string) kong.Vars {
	return kong.Vars{
		"pprofModeEnum": strings.Join(profile.Modes(), ","),
		"pprofDir":      filepath.Join(cache, profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	var group kong.Group

	group.Key = "pprof"
	group.Title = "Profiling (pprof)"

	return group
}

// start profiles the selected command when a mode is set. Profiles of each
// command are written to their own subdirectory of Dir.
func (f pprofConfig) start(ctx context.Context, command string) (stop func()) {
	profiler, err := profile.Start(f.Mode,
		profile.WithDir(f.Dir),
		profile.WithLabel(command),
	)
	if err != nil {
		log.WarnContext(ctx, "profiling disabled", slog.Any("error", err))

		return func() {}
	}

	if f.Mode != "" {
		log.DebugContext(ctx, "pprof start",
			slog.String("mode", f.Mode),
			slog.String("dir", filepath.Join(f.Dir, command)),
		)
	}

	return func() {
		profiler.Stop()
		log.TraceContext(ctx, "pprof stop", slog.String("mode", f.Mode))
	}
}
