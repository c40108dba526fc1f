package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/rebind/lang"
	"github.com/ardnew/rebind/log"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the writer kong was configured with, or os.Stdout.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// Rewrite holds the flags shared by every command that expands invocations.
type Rewrite struct {
	Macro     string `default:"${macro}"     help:"Macro name to expand."                placeholder:"NAME"`
	Clone     string `default:"${clone}"     help:"Method that copies bare identifiers." placeholder:"METHOD"`
	Placement string `default:"${placement}" enum:"${placementEnum}"                    help:"Where declarations are placed (${enum})."`
}

// Vars returns the kong variables referenced by the [Rewrite] flag defaults.
func (Rewrite) Vars() kong.Vars {
	return kong.Vars{
		"macro":         lang.DefaultMacro,
		"clone":         lang.DefaultCloneMethod,
		"placement":     lang.PlaceOutside.String(),
		"placementEnum": lang.PlaceOutside.String() + "," + lang.PlaceInsideClosure.String(),
	}
}

// Options converts the flags to [lang.Option] values. Empty fields keep the
// lang defaults.
func (r *Rewrite) Options(logger log.Logger) ([]lang.Option, error) {
	opts := []lang.Option{lang.WithLogger(logger)}

	if r == nil {
		return opts, nil
	}

	if r.Macro != "" {
		opts = append(opts, lang.WithMacro(r.Macro))
	}

	if r.Clone != "" {
		opts = append(opts, lang.WithCloneMethod(r.Clone))
	}

	placement, err := lang.ParsePlacement(r.Placement)
	if err != nil {
		return nil, err
	}

	return append(opts, lang.WithPlacement(placement)), nil
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// stdinName identifies stdin in logs and error attributes.
const stdinName = "<stdin>"

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks and absolute/relative paths.
type fileKey struct {
	dev uint64
	ino uint64
}

// uniqueSources returns paths in order with duplicates removed. Two paths are
// duplicates if they resolve to the same device and inode. Every "-" after
// the first is dropped. Paths that cannot be resolved are kept so that
// reading them reports the error. No paths means stdin.
func uniqueSources(paths []string) []string {
	if len(paths) == 0 {
		return []string{stdinSource}
	}

	var (
		out   = make([]string, 0, len(paths))
		seen  = make(map[fileKey]struct{}, len(paths))
		stdin bool
	)

	for _, path := range paths {
		if path == stdinSource {
			if !stdin {
				out = append(out, path)
			}

			stdin = true

			continue
		}

		key, ok := resolveFileKey(path)
		if ok {
			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
		}

		out = append(out, path)
	}

	return out
}

// resolveFileKey resolves symlinks in path and returns its device and inode.
func resolveFileKey(path string) (fileKey, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fileKey{}, false
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return fileKey{}, false
	}

	return makeFileKey(info)
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: stat.Dev, ino: stat.Ino}, true
}

// displayName returns the name used for a source in output and errors.
func displayName(path string) string {
	if path == stdinSource {
		return stdinName
	}

	return path
}
