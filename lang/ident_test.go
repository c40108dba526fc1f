package lang

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustTrees(t *testing.T, src string) []Tree {
	t.Helper()

	toks, err := Scan(src)
	if err != nil {
		t.Fatalf("scan error: %v", err)
	}

	trees, err := Build(toks)
	if err != nil {
		t.Fatalf("build error: %v", err)
	}

	return trees
}

func TestFreeIdentifiers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "method call", input: `baz.to_owned()`, want: []string{"baz"}},
		{name: "deref", input: `*bar`, want: []string{"bar"}},
		{name: "binary", input: `b + a`, want: []string{"a", "b"}},
		{name: "duplicates", input: `a == a`, want: []string{"a"}},
		{name: "literal", input: `42`, want: []string{}},
		{name: "self", input: `self.x`, want: []string{}},
		{name: "tuple member", input: `pair.0`, want: []string{"pair"}},
		{name: "associated function", input: `Vec::new()`, want: []string{}},
		{name: "path call", input: `std::mem::take(&mut v)`, want: []string{"v"}},
		{name: "macro", input: `format!("{}", name)`, want: []string{"name"}},
		{name: "cast", input: `x as u64`, want: []string{"x"}},
		{name: "generic cast", input: `n as Box<dyn Fn()>`, want: []string{"n"}},
		{name: "turbofish", input: `parse::<T>(s)`, want: []string{"s"}},
		{name: "struct literal", input: `Point { x: a, y: b }`, want: []string{"a", "b"}},
		{
			name:  "closure parameters",
			input: `items.iter().map(|it| it.len() + n)`,
			want:  []string{"items", "n"},
		},
		{
			name:  "typed closure parameters",
			input: `v.sort_by(|(a, _), b: &T| a.cmp(b))`,
			want:  []string{"v"},
		},
		{
			name:  "logical or is not a closure",
			input: `a || b`,
			want:  []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FreeIdentifiers(mustTrees(t, tt.input))
			if got == nil {
				got = []string{}
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FreeIdentifiers(%q) mismatch (-want +got):\n%s",
					tt.input, diff)
			}
		})
	}
}
