package lang

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
)

// Report describes one invocation rewritten by [ExpandSource].
type Report struct {
	// Pos is the position of the macro name.
	Pos       Position
	Expansion *Expansion
	// Depth is 0 for top-level invocations and grows by one for each
	// enclosing invocation.
	Depth int
}

// ExpandSource replaces every invocation of the configured macro in src
// (by default bind!(...), with any bracket kind) by its expansion, and
// returns the rewritten source with a report per invocation in source order.
//
// Invocations nested inside another invocation's trailing expression or
// binding sources are expanded too. Text outside invocations is copied
// unchanged. The name identifies src in error attributes.
func ExpandSource(
	ctx context.Context,
	name, src string,
	opts ...Option,
) (string, []Report, error) {
	cfg, err := makeConfig(opts...)
	if err != nil {
		return "", nil, err
	}

	toks, err := Scan(src)
	if err != nil {
		return "", nil, WrapError(err).With(slog.String("file", name))
	}

	x := &expander{
		ctx:  ctx,
		cfg:  cfg,
		name: name,
		src:  src,
		toks: toks,
	}

	out, err := x.expand(span{0, len(src)}, 0)
	if err != nil {
		return "", nil, err
	}

	sort.SliceStable(x.reports, func(i, j int) bool {
		return x.reports[i].Pos.Offset < x.reports[j].Pos.Offset
	})

	cfg.logger.DebugContext(ctx, "source expanded",
		slog.String("file", name),
		slog.Int("invocations", len(x.reports)),
	)

	return out, x.reports, nil
}

// ExpandReader reads all of r and expands it with [ExpandSource].
func ExpandReader(
	ctx context.Context,
	name string,
	r io.Reader,
	opts ...Option,
) (string, []Report, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", nil, ErrReadInput.Wrap(err).With(slog.String("file", name))
	}

	return ExpandSource(ctx, name, string(data), opts...)
}

type expander struct {
	ctx     context.Context
	cfg     config
	name    string
	src     string
	toks    []Token
	reports []Report
}

// expand returns the text of s with every invocation inside it expanded.
func (x *expander) expand(s span, depth int) (string, error) {
	if err := x.ctx.Err(); err != nil {
		return "", err
	}

	lo := sort.Search(len(x.toks), func(i int) bool {
		return x.toks[i].Pos.Offset >= s.start
	})
	hi := sort.Search(len(x.toks), func(i int) bool {
		return x.toks[i].Pos.Offset >= s.end
	})

	var sb strings.Builder

	cursor, floor := s.start, lo

	for i := lo; i < hi; i++ {
		if !x.invokes(i, hi) {
			continue
		}

		start := x.pathStart(i, floor)

		closer := matchClose(x.toks[:hi], i+2)
		if closer < 0 {
			return "", ErrMalformedBindingList.
				WithPosition(x.toks[i+2].Pos).
				With(
					slog.String("file", x.name),
					slog.String("reason", "unbalanced invocation"),
				)
		}

		text, exp, err := x.invocation(i, closer, depth)
		if err != nil {
			return "", err
		}

		if x.needsParens(exp, start, closer, lo, hi) {
			text = "(" + text + ")"
		}

		sb.WriteString(x.src[cursor:x.toks[start].Pos.Offset])
		sb.WriteString(text)

		cursor = x.toks[closer].End
		i = closer
		floor = closer + 1
	}

	sb.WriteString(x.src[cursor:s.end])

	return sb.String(), nil
}

// invokes reports whether toks[i] begins an invocation: the macro name, '!',
// and an opening bracket.
func (x *expander) invokes(i, hi int) bool {
	if i+2 >= hi {
		return false
	}

	name, bang, open := x.toks[i], x.toks[i+1], x.toks[i+2]

	return name.Kind == KindIdent && name.Text == x.cfg.macro &&
		bang.Kind == KindPunct && bang.Text == "!" &&
		open.Kind == KindPunct && delimOf(open.Text) != DelimNone
}

// pathStart returns the index of the first token of the path qualifying the
// macro name at toks[i], as in krate::bind!(...), or i when it is unqualified.
// The path never extends below floor.
func (x *expander) pathStart(i, floor int) int {
	for i-1 >= floor && x.toks[i-1].Kind == KindPunct && x.toks[i-1].Text == "::" {
		i--

		if i-1 < floor {
			break
		}

		seg := x.toks[i-1]
		if seg.Kind != KindIdent && !seg.Is("crate") && !seg.Is("self") && !seg.Is("super") {
			break
		}

		i--
	}

	return i
}

// invocation expands the invocation spanning toks[i] to toks[closer].
func (x *expander) invocation(i, closer, depth int) (string, *Expansion, error) {
	site := x.toks[i].Pos

	trees, err := Build(x.toks[i+3 : closer])
	if err != nil {
		return "", nil, ErrMalformedBindingList.Wrap(err).
			With(slog.String("file", x.name))
	}

	exp, err := rewrite(x.ctx, x.cfg, x.src, trees, x.toks[closer].Pos)
	if err != nil {
		return "", nil, WrapError(err).With(
			slog.String("file", x.name),
			slog.String("invocation", site.String()),
		)
	}

	x.reports = append(x.reports, Report{
		Pos:       site,
		Expansion: exp,
		Depth:     depth,
	})

	text, err := exp.render(func(s span) (string, error) {
		return x.expand(s, depth+1)
	})
	if err != nil {
		return "", nil, err
	}

	x.cfg.logger.TraceContext(x.ctx, "invocation expanded",
		slog.String("file", x.name),
		slog.String("position", site.String()),
		slog.Int("bindings", len(exp.Bindings)),
		slog.Int("depth", depth),
	)

	return text, exp, nil
}

// needsParens reports whether the expansion of the invocation spanning
// toks[start] to toks[closer] must be parenthesized to keep its meaning.
// Any next token other than ';', ',' or a closing bracket needs parentheses,
// except a word after a braced invocation. A bare expansion with no bindings
// also needs them after an operator, as in 2 * bind!(() a + b). Tokens
// outside [lo, hi) are the caller's, which always places an expansion in
// operand-safe position.
func (x *expander) needsParens(exp *Expansion, start, closer, lo, hi int) bool {
	if len(exp.Bindings) == 0 && exp.atom {
		return false
	}

	if closer+1 < hi {
		switch next := x.toks[closer+1]; {
		case next.Kind != KindPunct:
			// bind!{...} in statement position ends its statement.
			return x.toks[closer].Text != "}"
		case next.Text == ";", next.Text == ",",
			next.Text == ")", next.Text == "]", next.Text == "}":
		default:
			return true
		}
	}

	if len(exp.Bindings) > 0 || start <= lo {
		return false
	}

	prev := x.toks[start-1]
	if prev.Kind != KindPunct {
		return false
	}

	switch prev.Text {
	case "(", "[", "{", "}", ",", ";", ":", "=>",
		"=", "+=", "-=", "*=", "/=", "%=", "^=", "&=", "|=", "<<=", ">>=":
		return false
	default:
		return true
	}
}
