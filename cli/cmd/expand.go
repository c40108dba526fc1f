package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strconv"

	"github.com/alecthomas/kong"
	"golang.org/x/sync/errgroup"

	"github.com/ardnew/rebind/lang"
	"github.com/ardnew/rebind/log"
)

// Expand rewrites every invocation in the given source files.
type Expand struct {
	Files []string `arg:"" help:"Source files to expand, or '-' for stdin." optional:"" type:"path"`

	Write bool `help:"Write results back to the source files instead of stdout." short:"w"`
	List  bool `help:"Only list the files that contain invocations."              short:"l"`
	Jobs  int  `default:"${jobs}" help:"Number of files expanded concurrently." short:"j"`
}

// Vars returns the kong variables referenced by the [Expand] flag defaults.
func (Expand) Vars() kong.Vars {
	return kong.Vars{"jobs": strconv.Itoa(runtime.GOMAXPROCS(0))}
}

// expanded is the result of expanding one source.
type expanded struct {
	path    string
	src     string
	out     string
	reports []lang.Report
}

// Run executes the expand command.
func (e *Expand) Run(ctx context.Context, rw *Rewrite) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	opts, err := rw.Options(log.Default())
	if err != nil {
		return err
	}

	return e.run(ctx, os.Stdin, stdout(ctx), opts...)
}

func (e *Expand) run(
	ctx context.Context,
	stdin io.Reader,
	w io.Writer,
	opts ...lang.Option,
) error {
	paths := uniqueSources(e.Files)

	if e.Write {
		for _, path := range paths {
			if path == stdinSource {
				return ErrWriteStdin
			}
		}
	}

	results := make([]expanded, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(e.Jobs, 1))

	for i, path := range paths {
		g.Go(func() error {
			res, err := expandSource(gctx, path, stdin, opts...)
			results[i] = res

			return err
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for _, res := range results {
		if err := e.emit(ctx, w, res); err != nil {
			return err
		}
	}

	return nil
}

// emit writes one result in the mode selected by the flags.
func (e *Expand) emit(ctx context.Context, w io.Writer, res expanded) error {
	switch {
	case e.List:
		if len(res.reports) == 0 {
			return nil
		}

		_, err := fmt.Fprintln(w, displayName(res.path))

		return err

	case e.Write:
		if res.out == res.src {
			return nil
		}

		info, err := os.Stat(res.path)
		if err != nil {
			return ErrWriteSource.With(slog.String("file", res.path)).Wrap(err)
		}

		if err := os.WriteFile(res.path, []byte(res.out), info.Mode().Perm()); err != nil {
			return ErrWriteSource.With(slog.String("file", res.path)).Wrap(err)
		}

		log.InfoContext(ctx, "rewrote source",
			slog.String("file", res.path),
			slog.Int("invocations", len(res.reports)),
		)

		return nil

	default:
		_, err := io.WriteString(w, res.out)

		return err
	}
}

// expandSource reads and expands one source. Stdin is read from stdin.
func expandSource(
	ctx context.Context,
	path string,
	stdin io.Reader,
	opts ...lang.Option,
) (expanded, error) {
	name := displayName(path)
	res := expanded{path: path}

	var (
		data []byte
		err  error
	)

	if path == stdinSource {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return res, ErrReadSource.With(slog.String("file", name)).Wrap(err)
	}

	res.src = string(data)

	res.out, res.reports, err = lang.ExpandSource(ctx, name, res.src, opts...)
	if err != nil {
		return res, err
	}

	log.DebugContext(ctx, "expanded source",
		slog.String("file", name),
		slog.Int("invocations", len(res.reports)),
	)

	return res, nil
}
