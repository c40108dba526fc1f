package lang

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustTransform(t *testing.T, input string) *Expansion {
	t.Helper()

	exp, err := Transform(context.Background(), input)
	if err != nil {
		t.Fatalf("transform error: %v", err)
	}

	return exp
}

func TestExpansion_FormatText(t *testing.T) {
	exp := mustTransform(t, `(a, mut bc = c.len()) a + bc`)

	var buf bytes.Buffer
	if err := exp.FormatText(context.Background(), &buf); err != nil {
		t.Fatalf("format error: %v", err)
	}

	want := "" +
		"id         a   let a = a.clone();\n" +
		"mut-assign bc  let mut bc = c.len();\n" +
		"{ let a = a.clone(); let mut bc = c.len(); a + bc }\n"

	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("FormatText() mismatch (-want +got):\n%s", diff)
	}
}

func TestExpansion_FormatJSON(t *testing.T) {
	exp := mustTransform(t, `(a, mut bc = c.len()) a + bc`)

	var buf bytes.Buffer
	if err := exp.FormatJSON(context.Background(), &buf, 2); err != nil {
		t.Fatalf("format error: %v", err)
	}

	var got struct {
		Placement string `json:"placement"`
		Expr      string `json:"expr"`
		Bindings  []struct {
			Name  string `json:"name"`
			Shape string `json:"shape"`
			Decl  string `json:"decl"`
		} `json:"bindings"`
	}

	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}

	if got.Placement != "outside" || got.Expr != "a + bc" {
		t.Errorf("unexpected placement %q or expr %q", got.Placement, got.Expr)
	}

	if len(got.Bindings) != 2 || got.Bindings[1].Shape != "mut-assign" ||
		got.Bindings[1].Decl != "let mut bc = c.len();" {
		t.Errorf("unexpected bindings %+v", got.Bindings)
	}

	if !strings.Contains(buf.String(), "\n  \"") {
		t.Errorf("expected indented output, got %q", buf.String())
	}
}

func TestExpansion_FormatYAML(t *testing.T) {
	exp := mustTransform(t, `(mut s = s.to_owned()) s`)

	var buf bytes.Buffer
	if err := exp.FormatYAML(context.Background(), &buf, 2); err != nil {
		t.Fatalf("format error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"placement: outside", "name: s", "mut-assign", "bindings:"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in YAML output:\n%s", want, out)
		}
	}
}
