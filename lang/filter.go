package lang

import (
	"log/slog"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Filter is a compiled boolean predicate over bindings, written in the
// expr-lang expression language. The predicate sees these variables:
//
//	name     string  declared identifier
//	shape    string  binding shape, such as "mut-rename"
//	mutable  bool    declared mutable
//	copies   bool    owning-copy method applied
//	source   string  right-hand side as written
//	decl     string  emitted declaration
//	index    int     position in the binding list
//	line     int     source line of the binding
//
// For example: mutable && shape startsWith "mut-" or name in ["a", "b"].
type Filter struct {
	source  string
	program *vm.Program
}

// bindingEnv is the variable environment a [Filter] evaluates against.
type bindingEnv struct {
	Name    string `expr:"name"`
	Shape   string `expr:"shape"`
	Mutable bool   `expr:"mutable"`
	Copies  bool   `expr:"copies"`
	Source  string `expr:"source"`
	Decl    string `expr:"decl"`
	Index   int    `expr:"index"`
	Line    int    `expr:"line"`
}

func makeBindingEnv(b Binding, index int) bindingEnv {
	return bindingEnv{
		Name:    b.Name,
		Shape:   b.Shape.String(),
		Mutable: b.Mutable(),
		Copies:  b.Shape.Copies(),
		Source:  b.Source,
		Decl:    b.Decl,
		Index:   index,
		Line:    b.Pos.Line,
	}
}

// CompileFilter compiles source into a [Filter]. An empty (or blank) source
// compiles to a filter that matches every binding.
func CompileFilter(source string) (*Filter, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return &Filter{}, nil
	}

	program, err := expr.Compile(source, expr.Env(bindingEnv{}), expr.AsBool())
	if err != nil {
		return nil, ErrFilter.Wrap(err).With(slog.String("filter", source))
	}

	return &Filter{source: source, program: program}, nil
}

// String returns the filter source.
func (f *Filter) String() string { return f.source }

// Match reports whether the binding at index satisfies f.
// A nil Filter matches everything.
func (f *Filter) Match(b Binding, index int) (bool, error) {
	if f == nil || f.program == nil {
		return true, nil
	}

	out, err := vm.Run(f.program, makeBindingEnv(b, index))
	if err != nil {
		return false, ErrFilter.Wrap(err).With(
			slog.String("filter", f.source),
			slog.String("binding", b.Name),
		)
	}

	ok, _ := out.(bool)

	return ok, nil
}

// Select returns a copy of e retaining only the bindings matched by f.
// The trailing expression, placement, and remaining bindings are unchanged.
func (e *Expansion) Select(f *Filter) (*Expansion, error) {
	c := *e
	c.Bindings = nil

	for i, b := range e.Bindings {
		ok, err := f.Match(b, i)
		if err != nil {
			return nil, err
		}

		if ok {
			c.Bindings = append(c.Bindings, b)
		}
	}

	return &c, nil
}
