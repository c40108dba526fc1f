package lang

import (
	"context"
	"log/slog"
	"strings"
)

// Expansion is the result of rewriting one binding list: the classified
// bindings, in input order, and the trailing expression they precede.
type Expansion struct {
	Bindings []Binding
	// Placement is where the declarations are emitted. It is the requested
	// placement, except that PlaceInsideClosure falls back to PlaceOutside
	// when the trailing expression is not a non-move closure.
	Placement Placement
	// Pos is the position of the binding list's opening parenthesis.
	Pos Position

	src   string
	clone string
	expr  span
	atom  bool // trailing expression is a single token tree
	head  span // closure parameters (and return type), PlaceInsideClosure
	body  span // closure body, PlaceInsideClosure
}

// Transform rewrites a bind invocation argument of the form
//
//	( binding, ... ) trailing_expression
//
// into declarations followed by the trailing expression.
func Transform(ctx context.Context, input string, opts ...Option) (*Expansion, error) {
	cfg, err := makeConfig(opts...)
	if err != nil {
		return nil, err
	}

	toks, err := Scan(input)
	if err != nil {
		return nil, ErrMalformedBindingList.Wrap(err)
	}

	trees, err := Build(toks)
	if err != nil {
		return nil, ErrMalformedBindingList.Wrap(err)
	}

	return rewrite(ctx, cfg, input, trees, Position{Line: 1, Column: 1})
}

// rewrite classifies the binding list at the head of trees. Spans in the
// result index src. site locates errors when trees is empty.
func rewrite(
	ctx context.Context,
	cfg config,
	src string,
	trees []Tree,
	site Position,
) (*Expansion, error) {
	if len(trees) == 0 || trees[0].Delim != DelimParen {
		if len(trees) > 0 {
			site = trees[0].Pos
		}

		return nil, ErrMalformedBindingList.WithPosition(site).
			With(slog.String("reason", "expected parenthesized binding list"))
	}

	list, rest := trees[0], trees[1:]

	if len(rest) == 0 {
		return nil, ErrUnexpectedTrailingInput.WithPosition(list.Close.Pos).
			With(slog.String("reason", "expected expression after binding list"))
	}

	if i := extraneous(rest); i >= 0 {
		return nil, ErrUnexpectedTrailingInput.WithPosition(rest[i].Pos).
			With(
				slog.String("reason", "extraneous input after expression"),
				slog.String("token", rest[i].Text),
			)
	}

	exp := &Expansion{
		Placement: PlaceOutside,
		Pos:       list.Pos,
		src:       src,
		clone:     cfg.clone,
		expr:      spanOf(rest),
		atom:      len(rest) == 1,
	}

	parts := bindingParts(list.Trees)

	for i, part := range parts {
		pos := list.Close.Pos
		if len(part) > 0 {
			pos = part[0].Pos
		} else if c := commaPos(list.Trees, i); c != nil {
			pos = *c
		}

		b, err := classify(part, pos)
		if err != nil {
			return nil, WrapError(err).With(slog.Int("binding", i))
		}

		b.Source = b.src.text(src)
		b.Decl = declare(b, b.Source, cfg.clone)

		cfg.logger.TraceContext(ctx, "binding classified",
			slog.Int("index", i),
			slog.String("name", b.Name),
			slog.String("shape", b.Shape.String()),
		)

		exp.Bindings = append(exp.Bindings, b)
	}

	if cfg.placement == PlaceInsideClosure {
		if head, body, ok := closureParts(rest); ok {
			exp.Placement = PlaceInsideClosure
			exp.head, exp.body = head, body
		}
	}

	cfg.logger.DebugContext(ctx, "binding list rewritten",
		slog.String("position", list.Pos.String()),
		slog.Int("bindings", len(exp.Bindings)),
		slog.String("placement", exp.Placement.String()),
	)

	return exp, nil
}

// extraneous returns the index of the first top-level tree of expr that
// cannot continue a single expression, or -1. That is a ';' or ',' outside
// closure parameters and generic arguments, or an identifier or literal
// directly after a complete operand, as in "x y".
func extraneous(expr []Tree) int {
	for i := 0; i < len(expr); i++ {
		t := expr[i]
		if t.IsGroup() {
			continue
		}

		switch t.Kind {
		case KindPunct:
			switch t.Text {
			case ";", ",":
				return i
			case "|":
				if opensClosure(expr, i) {
					body, _ := closureParams(expr, i)
					i = body - 1
				}
			case "::":
				if i+1 < len(expr) && punctAt(expr, i+1, "<") {
					i = skipAngles(expr, i+1) - 1
				}
			case "->":
				i = skipType(expr, i+1) - 1
			}

		case KindKeyword:
			if t.Text == "as" {
				i = skipType(expr, i+1) - 1
			}

		case KindIdent, KindLiteral:
			if i > 0 && endsOperand(expr[i-1]) {
				return i
			}
		}
	}

	return -1
}

// endsOperand reports whether t can be the last tree of a complete operand.
func endsOperand(t Tree) bool {
	switch {
	case t.IsGroup():
		return true
	case t.Kind == KindIdent, t.Kind == KindLiteral:
		return true
	case t.Kind == KindKeyword:
		switch t.Text {
		case "self", "true", "false", "await":
			return true
		}
	}

	return false
}

// bindingParts splits a binding list on its top-level commas. A single
// trailing comma is permitted, and an empty list has no parts.
func bindingParts(list []Tree) [][]Tree {
	if len(list) == 0 {
		return nil
	}

	parts := splitTop(list, ",")
	if len(parts) > 1 && len(parts[len(parts)-1]) == 0 {
		parts = parts[:len(parts)-1]
	}

	return parts
}

// commaPos returns the position of the n'th top-level comma in list.
func commaPos(list []Tree, n int) *Position {
	for _, t := range list {
		if !t.IsGroup() && t.Kind == KindPunct && t.Text == "," {
			if n == 0 {
				return &t.Pos
			}

			n--
		}
	}

	return nil
}

// closureParts splits a non-move closure into its head (parameters and
// optional return type) and body. It reports false for any other expression.
func closureParts(expr []Tree) (head, body span, ok bool) {
	i := 0
	for i < len(expr) && (expr[i].Is("async") || expr[i].Is("static")) &&
		!expr[i].IsGroup() {
		i++
	}

	if i >= len(expr) || expr[i].IsGroup() {
		return head, body, false
	}

	var end int // index just past the parameter list

	switch {
	case expr[i].Is("||"):
		end = i + 1

	case expr[i].Is("|"):
		j := indexTop(expr[i+1:], "|")
		if j < 0 {
			return head, body, false
		}

		end = i + 1 + j + 1

	default:
		// Includes "move": a move closure captures before its body runs.
		return head, body, false
	}

	if end >= len(expr) {
		return head, body, false
	}

	if expr[end].Is("->") && !expr[end].IsGroup() {
		last := expr[len(expr)-1]
		if last.Delim != DelimBrace || len(expr)-1 <= end+1 {
			return head, body, false
		}

		return spanOf(expr[:len(expr)-1]), spanOf(expr[len(expr)-1:]), true
	}

	return spanOf(expr[:end]), spanOf(expr[end:]), true
}

// Expr returns the trailing expression exactly as written.
func (e *Expansion) Expr() string { return e.expr.text(e.src) }

// Decls returns the declaration statements in binding order.
func (e *Expansion) Decls() []string {
	decls := make([]string, len(e.Bindings))
	for i, b := range e.Bindings {
		decls[i] = b.Decl
	}

	return decls
}

// Sequence returns the declarations followed by the trailing expression,
// without any enclosing block.
func (e *Expansion) Sequence() []string {
	return append(e.Decls(), e.Expr())
}

// String returns the expansion as a single expression: a block holding the
// declarations and the trailing expression, or the trailing expression alone
// when there are no bindings.
func (e *Expansion) String() string {
	s, _ := e.render(func(s span) (string, error) { return s.text(e.src), nil })

	return s
}

// render builds the expansion text, obtaining every piece of original source
// through text so that callers can rewrite nested invocations.
func (e *Expansion) render(text func(span) (string, error)) (string, error) {
	if len(e.Bindings) == 0 {
		return text(e.expr)
	}

	var sb strings.Builder

	decls := func() error {
		for _, b := range e.Bindings {
			source, err := text(b.src)
			if err != nil {
				return err
			}

			sb.WriteString(declare(b, source, e.clone))
			sb.WriteByte(' ')
		}

		return nil
	}

	if e.Placement == PlaceInsideClosure {
		head, err := text(e.head)
		if err != nil {
			return "", err
		}

		body, err := text(e.body)
		if err != nil {
			return "", err
		}

		sb.WriteString(head)
		sb.WriteString(" { ")

		if err := decls(); err != nil {
			return "", err
		}

		sb.WriteString(body)
		sb.WriteString(" }")

		return sb.String(), nil
	}

	expr, err := text(e.expr)
	if err != nil {
		return "", err
	}

	sb.WriteString("{ ")

	if err := decls(); err != nil {
		return "", err
	}

	sb.WriteString(expr)
	sb.WriteString(" }")

	return sb.String(), nil
}
