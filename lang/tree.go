package lang

import "log/slog"

// Build groups a flat token sequence into token trees, matching brackets.
// Unbalanced or mismatched brackets are reported as [ErrSyntax].
func Build(toks []Token) ([]Tree, error) {
	trees, rest, err := buildUntil(toks, nil)
	if err != nil {
		return nil, err
	}

	if len(rest) > 0 {
		return nil, ErrSyntax.WithPosition(rest[0].Pos).
			With(slog.String("unexpected", rest[0].Text))
	}

	return trees, nil
}

// buildUntil builds trees until it meets the closing bracket for open (or
// the end of input when open is nil). It returns the remaining tokens,
// starting with the closing bracket.
func buildUntil(toks []Token, open *Token) ([]Tree, []Token, error) {
	var trees []Tree

	for len(toks) > 0 {
		t := toks[0]

		if t.Kind != KindPunct {
			trees = append(trees, Tree{Token: t})
			toks = toks[1:]

			continue
		}

		switch t.Text {
		case "(", "[", "{":
			inner, rest, err := buildUntil(toks[1:], &t)
			if err != nil {
				return nil, nil, err
			}

			trees = append(trees, Tree{
				Token: t,
				Trees: inner,
				Close: rest[0],
				Delim: delimOf(t.Text),
			})
			toks = rest[1:]

		case ")", "]", "}":
			if open == nil {
				return nil, nil, ErrSyntax.WithPosition(t.Pos).
					With(slog.String("unexpected", t.Text))
			}

			if want := closerOf(open.Text); t.Text != want {
				return nil, nil, ErrSyntax.WithPosition(t.Pos).
					With(
						slog.String("expected", want),
						slog.String("found", t.Text),
						slog.String("opened", open.Pos.String()),
					)
			}

			return trees, toks, nil

		default:
			trees = append(trees, Tree{Token: t})
			toks = toks[1:]
		}
	}

	if open != nil {
		return nil, nil, ErrSyntax.WithPosition(open.Pos).
			With(slog.String("unclosed", open.Text))
	}

	return trees, nil, nil
}

// matchClose returns the index of the token closing the bracket at
// toks[open], or -1 if it is never closed or closed by the wrong bracket.
func matchClose(toks []Token, open int) int {
	stack := []string{closerOf(toks[open].Text)}

	for i := open + 1; i < len(toks); i++ {
		t := toks[i]
		if t.Kind != KindPunct {
			continue
		}

		switch t.Text {
		case "(", "[", "{":
			stack = append(stack, closerOf(t.Text))

		case ")", "]", "}":
			if t.Text != stack[len(stack)-1] {
				return -1
			}

			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i
			}
		}
	}

	return -1
}
