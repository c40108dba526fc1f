package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// bindingReport is the serialized form of a Binding.
type bindingReport struct {
	Index   int    `json:"index"   yaml:"index"`
	Name    string `json:"name"    yaml:"name"`
	Shape   string `json:"shape"   yaml:"shape"`
	Mutable bool   `json:"mutable" yaml:"mutable"`
	Source  string `json:"source"  yaml:"source"`
	Decl    string `json:"decl"    yaml:"decl"`
	Line    int    `json:"line"    yaml:"line"`
	Column  int    `json:"column"  yaml:"column"`
}

// expansionReport is the serialized form of an Expansion.
type expansionReport struct {
	Placement string          `json:"placement" yaml:"placement"`
	Bindings  []bindingReport `json:"bindings"  yaml:"bindings"`
	Expr      string          `json:"expr"      yaml:"expr"`
	Expansion string          `json:"expansion" yaml:"expansion"`
}

func (e *Expansion) report() expansionReport {
	r := expansionReport{
		Placement: e.Placement.String(),
		Bindings:  make([]bindingReport, len(e.Bindings)),
		Expr:      e.Expr(),
		Expansion: e.String(),
	}

	for i, b := range e.Bindings {
		r.Bindings[i] = bindingReport{
			Index:   i,
			Name:    b.Name,
			Shape:   b.Shape.String(),
			Mutable: b.Mutable(),
			Source:  b.Source,
			Decl:    b.Decl,
			Line:    b.Pos.Line,
			Column:  b.Pos.Column,
		}
	}

	return r
}

// FormatText writes a plain text listing of e: one line per binding with its
// shape, name, and declaration, followed by the full expansion.
func (e *Expansion) FormatText(_ context.Context, w io.Writer) error {
	width := 0
	for _, b := range e.Bindings {
		width = max(width, len(b.Name))
	}

	for _, b := range e.Bindings {
		_, err := fmt.Fprintf(w, "%-10s %-*s  %s\n",
			b.Shape, width, b.Name, b.Decl)
		if err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, e.String())

	return err
}

// FormatJSON writes e as JSON to the writer.
func (e *Expansion) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(e.report(), "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(e.report())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes e as YAML to the writer.
func (e *Expansion) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, e.report(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}
