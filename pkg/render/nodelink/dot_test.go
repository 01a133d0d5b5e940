package nodelink

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/gslbridge/pkg/ir"
)

func sample() *ir.Result {
	return &ir.Result{
		Material: "Wood",
		Nodes: []ir.Node{
			{ID: "Value_000", Name: "Value", Class: "ValueModule", Inputs: []string{}, Outputs: []string{"Value"}},
			{ID: "Math_001", Name: "Math", Class: "MathModule",
				Inputs: []string{"A", "B"}, Outputs: []string{"Value"},
				Params: ir.Params{"operation": 2, "b": 0.5}},
		},
		Links: []ir.Link{{From: "Value_000", OutIndex: 0, To: "Math_001", InIndex: 1}},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sample(), Options{})
	for _, want := range []string{
		"digraph G {",
		`label="Wood";`,
		"rankdir=LR;",
		`"Value_000" [label="Value_000", fillcolor=lightgrey];`,
		`"Math_001" [label="Math_001"];`,
		`"Value_000" -> "Math_001" [taillabel="0:Value", headlabel="1:B"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(sample(), Options{Detailed: true})
	want := `label="Math_001\nMathModule\nb: 0.5\noperation: 2"`
	if !strings.Contains(dot, want) {
		t.Errorf("DOT missing %s:\n%s", want, dot)
	}
}

func TestPortLabelOutOfRange(t *testing.T) {
	n := &ir.Node{Inputs: []string{"A"}}
	if got := portLabel(n, 3, true); got != "3" {
		t.Errorf("portLabel() = %q, want 3", got)
	}
	if got := portLabel(nil, 0, false); got != "0" {
		t.Errorf("portLabel(nil) = %q, want 0", got)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(ToDOT(sample(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !bytes.Contains(svg, []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `)) {
		t.Errorf("unexpected SVG root:\n%s", svg)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10.00 20.00" width="10" height="20"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}
	if string(normalizeViewBox([]byte("<svg>"))) != "<svg>" {
		t.Error("input without viewBox changed")
	}
}
