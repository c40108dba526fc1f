package lang_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/ardnew/rebind/lang"
)

func ExampleTransform() {
	exp, err := lang.Transform(context.Background(),
		`(foo, *bar, baz.to_owned()) move || foo + *bar + baz.len()`)
	if err != nil {
		fmt.Println(err)

		return
	}

	for _, b := range exp.Bindings {
		fmt.Printf("%-6s %s\n", b.Shape, b.Decl)
	}

	fmt.Println(exp)
	// Output:
	// id     let foo = foo.clone();
	// expr   let bar = *bar;
	// expr   let baz = baz.to_owned();
	// { let foo = foo.clone(); let bar = *bar; let baz = baz.to_owned(); move || foo + *bar + baz.len() }
}

func ExampleTransform_insideClosure() {
	exp, err := lang.Transform(context.Background(),
		`(mut count = total) |n| count + n`,
		lang.WithPlacement(lang.PlaceInsideClosure),
	)
	if err != nil {
		fmt.Println(err)

		return
	}

	fmt.Println(exp)
	// Output:
	// |n| { let mut count = total.clone(); count + n }
}

func ExampleTransform_ambiguous() {
	_, err := lang.Transform(context.Background(), `(a + b) a`)

	fmt.Println(errors.Is(err, lang.ErrAmbiguousIdentifier))
	fmt.Println(err)
	// Output:
	// true
	// ambiguous identifier at 1:2
}

func ExampleExpandSource() {
	src := `let handler = bind!((state, mut log = logger) move |req| state.serve(req, &mut log));`

	out, reports, err := lang.ExpandSource(context.Background(), "main.rs", src)
	if err != nil {
		fmt.Println(err)

		return
	}

	fmt.Println(out)
	fmt.Println(len(reports), "invocation at", reports[0].Pos)
	// Output:
	// let handler = { let state = state.clone(); let mut log = logger.clone(); move |req| state.serve(req, &mut log) };
	// 1 invocation at 1:15
}

func ExampleFreeIdentifiers() {
	trees, err := lang.Build(must(lang.Scan(`cfg.items.iter().map(|x| x * scale).sum::<u64>()`)))
	if err != nil {
		fmt.Println(err)

		return
	}

	fmt.Println(lang.FreeIdentifiers(trees))
	// Output:
	// [cfg scale]
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}

	return v
}
