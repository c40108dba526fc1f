package cmd

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/ardnew/rebind/cli/cmd/repl"
	"github.com/ardnew/rebind/lang"
	"github.com/ardnew/rebind/log"
)

// historyFile is the base name of the REPL history in the cache directory.
const historyFile = "history.utf8"

// Try expands invocations interactively.
type Try struct {
	History bool `default:"true" help:"Persist input history in the cache directory." negatable:""`
}

// Run executes the try command.
func (t *Try) Run(ctx context.Context, rw *Rewrite) error {
	placement, err := lang.ParsePlacement(rw.Placement)
	if err != nil {
		return err
	}

	var path string

	if ktx := kongContextFrom(ctx); t.History && ktx != nil {
		if dir, ok := ktx.Model.Vars()[CacheIdentifier]; ok {
			path = filepath.Join(dir, historyFile)
		}
	}

	log.DebugContext(ctx, "try start", slog.String("history", path))

	return repl.Run(ctx, repl.Settings{
		Macro:     rw.Macro,
		Clone:     rw.Clone,
		Placement: placement,
	}, path, log.Default())
}
