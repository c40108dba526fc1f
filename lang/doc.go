// Package lang rewrites bind!(...) closure-capture invocations into plain
// declarations.
//
// An invocation's argument is a parenthesized binding list followed by a
// trailing expression:
//
//	bind!((foo, *bar, baz.to_owned()) move || foo + *bar + baz.len())
//
// Each binding becomes one let declaration, emitted in list order, and the
// trailing expression is copied unchanged after them:
//
//	{ let foo = foo.clone(); let bar = *bar; let baz = baz.to_owned(); move || foo + *bar + baz.len() }
//
// # Bindings
//
// A binding is written in one of eight shapes. An optional leading mut makes
// the declaration mutable.
//
//	id               let id = id.clone();
//	mut id           let mut id = id.clone();
//	new = id         let new = id.clone();
//	mut new = id     let mut new = id.clone();
//	new = expr       let new = expr;
//	mut new = expr   let mut new = expr;
//	expr             let x = expr;      x is the only free identifier of expr
//	mut expr         let mut x = expr;
//
// The free identifiers of a bare expression are found lexically. Members,
// paths, macro names, field labels, capitalized names, cast types, and
// closure parameters are not free. An expression with no free identifier, or
// more than one, is rejected with [ErrAmbiguousIdentifier].
//
// Declarations are sequential, so a binding may refer to one declared before
// it in the same list.
//
// # Entry points
//
// [Transform] rewrites a single invocation argument. [ExpandSource] rewrites
// every invocation found in a source file, including invocations nested in
// another's trailing expression or binding sources. [FreeIdentifiers] and
// [ParseBinding] expose the classification steps.
//
// Options select the macro name, the owning-copy method, and whether
// declarations are placed inside the body of a closure expression.
package lang
