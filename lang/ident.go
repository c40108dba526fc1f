package lang

import (
	"maps"
	"slices"
	"unicode"
	"unicode/utf8"
)

// FreeIdentifiers returns the sorted set of identifiers in trees that could
// name a local variable.
//
// The walk is purely lexical. It skips keywords, "_", names that begin with
// an uppercase letter (types, variants, constants), members after '.', path
// segments around "::", macro names, struct field labels ("name:"), the type
// after "as", turbofish arguments, and parameters of closures declared within
// trees.
//
// Because uppercase names are skipped, a bare-expression binding such as
// Config.to_owned() has no free identifier and is rejected as ambiguous. A
// lone Config is still accepted, since the id shape takes any identifier
// without consulting this walk.
func FreeIdentifiers(trees []Tree) []string {
	found := make(map[string]struct{})
	collectIdents(trees, nil, found)

	return slices.Sorted(maps.Keys(found))
}

func collectIdents(trees []Tree, bound map[string]struct{}, found map[string]struct{}) {
	for i := 0; i < len(trees); i++ {
		t := trees[i]

		if t.IsGroup() {
			collectIdents(t.Trees, bound, found)

			continue
		}

		switch t.Kind {
		case KindKeyword:
			if t.Text == "as" {
				i = skipType(trees, i+1) - 1
			}

		case KindPunct:
			switch t.Text {
			case "::":
				if i+1 < len(trees) && punctAt(trees, i+1, "<") {
					i = skipAngles(trees, i+1) - 1
				}

			case "|", "||":
				if !opensClosure(trees, i) {
					continue
				}

				body, params := closureParams(trees, i)
				collectIdents(trees[body:], bindAll(bound, params), found)

				return
			}

		case KindIdent:
			if !isFree(trees, i) {
				continue
			}

			if _, ok := bound[t.Text]; ok {
				continue
			}

			found[t.Text] = struct{}{}
		}
	}
}

// isFree reports whether the identifier at trees[i] is in a position that
// can refer to a local variable.
func isFree(trees []Tree, i int) bool {
	name := trees[i].Text
	if name == "_" || startsUpper(name) {
		return false
	}

	if i > 0 && (punctAt(trees, i-1, ".") || punctAt(trees, i-1, "::")) {
		return false
	}

	if i+1 < len(trees) &&
		(punctAt(trees, i+1, "::") || punctAt(trees, i+1, "!") ||
			punctAt(trees, i+1, ":")) {
		return false
	}

	return true
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)

	return unicode.IsUpper(r)
}

func punctAt(trees []Tree, i int, text string) bool {
	t := trees[i]

	return !t.IsGroup() && t.Kind == KindPunct && t.Text == text
}

// opensClosure reports whether the '|' or '||' at trees[i] begins a closure
// rather than being a binary operator. A closure appears where an operand is
// expected: at the start, after an operator, or after move/return/async.
func opensClosure(trees []Tree, i int) bool {
	if i == 0 {
		return true
	}

	prev := trees[i-1]
	if prev.IsGroup() {
		return false
	}

	switch prev.Kind {
	case KindPunct:
		return prev.Text != "?"
	case KindKeyword:
		switch prev.Text {
		case "move", "return", "async", "static", "in", "else", "break":
			return true
		}
	}

	return false
}

// closureParams returns the index of the first tree after the closure
// parameter list starting at trees[i], and the names bound by the list.
// Type annotations after ':' bind nothing.
func closureParams(trees []Tree, i int) (int, []string) {
	if trees[i].Text == "||" {
		return i + 1, nil
	}

	end := len(trees)
	if j := indexTop(trees[i+1:], "|"); j >= 0 {
		end = i + 1 + j
	}

	var names []string

	for _, param := range splitTop(trees[i+1:end], ",") {
		if k := indexTop(param, ":"); k >= 0 {
			param = param[:k]
		}

		names = appendPatternNames(names, param)
	}

	return min(end+1, len(trees)), names
}

func appendPatternNames(names []string, pat []Tree) []string {
	for _, t := range pat {
		if t.IsGroup() {
			names = appendPatternNames(names, t.Trees)

			continue
		}

		if t.Kind == KindIdent && t.Text != "_" && !startsUpper(t.Text) {
			names = append(names, t.Text)
		}
	}

	return names
}

func bindAll(bound map[string]struct{}, names []string) map[string]struct{} {
	next := maps.Clone(bound)
	if next == nil {
		next = make(map[string]struct{}, len(names))
	}

	for _, n := range names {
		next[n] = struct{}{}
	}

	return next
}

// skipType returns the index just past a type starting at trees[i], such as
// &mut a::B<C>, *const T, or dyn Trait.
func skipType(trees []Tree, i int) int {
	for i < len(trees) && isTypePrefix(trees[i]) {
		i++
	}

	for i < len(trees) {
		t := trees[i]

		switch {
		case t.IsGroup():
			// Tuple, array, and slice types.
			return i + 1

		case t.Kind == KindIdent || t.Kind == KindKeyword:
			i++

			if i < len(trees) && punctAt(trees, i, "<") {
				i = skipAngles(trees, i)
			}

			if i < len(trees) && punctAt(trees, i, "::") {
				i++

				continue
			}

			return i

		default:
			return i
		}
	}

	return i
}

func isTypePrefix(t Tree) bool {
	if t.IsGroup() {
		return false
	}

	switch t.Kind {
	case KindPunct:
		return t.Text == "&" || t.Text == "&&" || t.Text == "*"
	case KindKeyword:
		return t.Text == "mut" || t.Text == "const" || t.Text == "dyn"
	default:
		return false
	}
}

// skipAngles returns the index just past the angle-bracketed list starting
// at trees[i], which must be '<'.
func skipAngles(trees []Tree, i int) int {
	depth := 0

	for ; i < len(trees); i++ {
		t := trees[i]
		if t.IsGroup() || t.Kind != KindPunct {
			continue
		}

		switch t.Text {
		case "<":
			depth++
		case "<<":
			depth += 2
		case ">":
			depth--
		case ">>":
			depth -= 2
		case ">=", ">>=":
			return i + 1
		}

		if depth <= 0 {
			return i + 1
		}
	}

	return i
}
