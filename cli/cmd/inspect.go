package cmd

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/rebind/lang"
	"github.com/ardnew/rebind/log"
)

// Inspect shows how each binding of one invocation is classified.
type Inspect struct {
	Invocation string `arg:"" help:"Binding list and expression, e.g. '(a, mut b) a + b', or a whole macro call."`

	Format string `default:"text" enum:"text,json,yaml" help:"Output format (${enum})."            short:"f"`
	Indent int    `default:"2"                          help:"Indent width for json and yaml."`
	Filter string `help:"Show only bindings matching an expr predicate, e.g. 'mutable && !copies'." placeholder:"EXPR" short:"F"`
}

// Run executes the inspect command.
func (i *Inspect) Run(ctx context.Context, rw *Rewrite) error {
	opts, err := rw.Options(log.Default())
	if err != nil {
		return err
	}

	return i.run(ctx, stdout(ctx), opts...)
}

func (i *Inspect) run(ctx context.Context, w io.Writer, opts ...lang.Option) error {
	exp, err := inspectExpansion(ctx, i.Invocation, opts...)
	if err != nil {
		return err
	}

	if i.Filter != "" {
		filter, err := lang.CompileFilter(i.Filter)
		if err != nil {
			return err
		}

		if exp, err = exp.Select(filter); err != nil {
			return err
		}
	}

	switch i.Format {
	case "", "text":
		return exp.FormatText(ctx, w)
	case "json":
		return exp.FormatJSON(ctx, w, i.Indent)
	case "yaml":
		return exp.FormatYAML(ctx, w, i.Indent)
	default:
		return ErrInvalidFormat.With(slog.String("format", i.Format))
	}
}

// inspectExpansion classifies input. A leading parenthesis means input is a
// bare binding list; anything else is scanned for the first top-level
// invocation.
func inspectExpansion(
	ctx context.Context,
	input string,
	opts ...lang.Option,
) (*lang.Expansion, error) {
	if strings.HasPrefix(strings.TrimSpace(input), "(") {
		return lang.Transform(ctx, input, opts...)
	}

	_, reports, err := lang.ExpandSource(ctx, "<argument>", input, opts...)
	if err != nil {
		return nil, err
	}

	for _, r := range reports {
		if r.Depth == 0 {
			return r.Expansion, nil
		}
	}

	return nil, ErrNoInvocation
}
