package lang

import (
	"log/slog"
	"strconv"
	"strings"
)

// Shape identifies which surface form a binding was written in.
type Shape uint8

const (
	ShapeID        Shape = iota // id
	ShapeMutID                  // mut id
	ShapeRename                 // new = id
	ShapeMutRename              // mut new = id
	ShapeAssign                 // new = expr
	ShapeMutAssign              // mut new = expr
	ShapeExpr                   // expr
	ShapeMutExpr                // mut expr
)

var shapeNames = [...]string{
	"id", "mut-id", "rename", "mut-rename",
	"assign", "mut-assign", "expr", "mut-expr",
}

func (s Shape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}

	return "Shape(" + strconv.Itoa(int(s)) + ")"
}

// MarshalText implements encoding.TextMarshaler.
func (s Shape) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Mutable reports whether the shape declares a mutable binding.
func (s Shape) Mutable() bool { return s%2 == 1 }

// Copies reports whether the shape applies the owning-copy method to its
// source identifier.
func (s Shape) Copies() bool { return s <= ShapeMutRename }

// Binding is one classified entry of a binding list.
type Binding struct {
	// Name is the declared identifier, explicit or inferred.
	Name string
	// Source is the verbatim source text of the right-hand side. For the id
	// shapes it is the identifier itself; for rename shapes it is the
	// identifier being copied.
	Source string
	// Decl is the declaration statement emitted for the binding.
	Decl string
	// Pos is where the binding begins.
	Pos   Position
	Shape Shape

	src span
}

// Mutable reports whether the binding is declared mutable.
func (b Binding) Mutable() bool { return b.Shape.Mutable() }

// classify matches one binding against the binding shapes, in order:
// rename/assign forms (a top-level '='), then a lone identifier, then a bare
// expression whose name is its only free identifier (see [FreeIdentifiers]).
// A lone self on the right of '=' is a rename.
func classify(trees []Tree, pos Position) (Binding, error) {
	b := Binding{Pos: pos}

	if len(trees) == 0 {
		return b, ErrMalformedBindingList.WithPosition(pos).
			With(slog.String("reason", "empty binding"))
	}

	mutable := trees[0].Is("mut") && !trees[0].IsGroup()
	if mutable {
		trees = trees[1:]
		if len(trees) == 0 {
			return b, ErrMalformedBindingList.WithPosition(pos).
				With(slog.String("reason", "expected binding after mut"))
		}
	}

	if !beginsOperand(trees[0]) {
		return b, ErrMalformedBindingList.WithPosition(trees[0].Pos).
			With(
				slog.String("reason", "unexpected keyword"),
				slog.String("keyword", trees[0].Text),
			)
	}

	shape := func(immutable, mut Shape) Shape {
		if mutable {
			return mut
		}

		return immutable
	}

	if eq := indexTop(trees, "="); eq >= 0 {
		lhs, rhs := trees[:eq], trees[eq+1:]

		if len(lhs) != 1 || !lhs[0].Ident() {
			return b, ErrMalformedBindingList.WithPosition(trees[0].Pos).
				With(slog.String("reason", "left side of '=' must be an identifier"))
		}

		if len(rhs) == 0 {
			return b, ErrMalformedBindingList.WithPosition(trees[eq].Pos).
				With(slog.String("reason", "expected expression after '='"))
		}

		if !beginsOperand(rhs[0]) {
			return b, ErrMalformedBindingList.WithPosition(rhs[0].Pos).
				With(
					slog.String("reason", "unexpected keyword"),
					slog.String("keyword", rhs[0].Text),
				)
		}

		b.Name = lhs[0].Text
		b.src = spanOf(rhs)

		// A lone self is a one-segment path, copied like any other name.
		if len(rhs) == 1 && (rhs[0].Ident() || rhs[0].Is("self")) {
			b.Shape = shape(ShapeRename, ShapeMutRename)
		} else {
			b.Shape = shape(ShapeAssign, ShapeMutAssign)
		}

		return b, nil
	}

	b.src = spanOf(trees)

	if len(trees) == 1 && trees[0].Ident() {
		b.Name = trees[0].Text
		b.Shape = shape(ShapeID, ShapeMutID)

		return b, nil
	}

	ids := FreeIdentifiers(trees)
	if len(ids) != 1 {
		return b, ErrAmbiguousIdentifier.WithPosition(pos).
			With(
				slog.Int("count", len(ids)),
				slog.String("identifiers", strings.Join(ids, ",")),
			)
	}

	b.Name = ids[0]
	b.Shape = shape(ShapeExpr, ShapeMutExpr)

	return b, nil
}

// exprKeywords are the keywords that may begin an expression.
var exprKeywords = map[string]struct{}{
	"async": {}, "box": {}, "break": {}, "const": {}, "continue": {},
	"crate": {}, "false": {}, "for": {}, "if": {}, "loop": {}, "match": {},
	"move": {}, "return": {}, "self": {}, "Self": {}, "static": {},
	"super": {}, "true": {}, "unsafe": {}, "while": {}, "yield": {},
}

// beginsOperand reports whether t may be the first tree of a binding: any
// tree except a keyword that cannot begin an expression, such as a second
// mut.
func beginsOperand(t Tree) bool {
	if t.IsGroup() || t.Kind != KindKeyword {
		return true
	}

	_, ok := exprKeywords[t.Text]

	return ok
}

// declare renders the declaration for b given the text of its source and the
// owning-copy method name.
func declare(b Binding, source, clone string) string {
	var sb strings.Builder

	sb.WriteString("let ")

	if b.Mutable() {
		sb.WriteString("mut ")
	}

	sb.WriteString(b.Name)
	sb.WriteString(" = ")
	sb.WriteString(source)

	if b.Shape.Copies() {
		sb.WriteString(".")
		sb.WriteString(clone)
		sb.WriteString("()")
	}

	sb.WriteString(";")

	return sb.String()
}

// ParseBinding classifies a single binding written in src, such as
// "mut s = s.to_owned()". The returned binding's Decl uses the default
// owning-copy method.
func ParseBinding(src string) (Binding, error) {
	toks, err := Scan(src)
	if err != nil {
		return Binding{}, ErrMalformedBindingList.Wrap(err)
	}

	trees, err := Build(toks)
	if err != nil {
		return Binding{}, ErrMalformedBindingList.Wrap(err)
	}

	pos := Position{Line: 1, Column: 1}
	if len(trees) > 0 {
		pos = trees[0].Pos
	}

	b, err := classify(trees, pos)
	if err != nil {
		return b, err
	}

	b.Source = b.src.text(src)
	b.Decl = declare(b, b.Source, DefaultCloneMethod)

	return b, nil
}
