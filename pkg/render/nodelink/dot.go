package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/gslbridge/pkg/ir"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the node class and parameters to each label.
	// When false, only the node ID is shown.
	Detailed bool
}

// ToDOT converts a translation result to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
//
// Edges carry the output index at the tail and the input index at the head,
// so the diagram shows exactly what the link list encodes.
func ToDOT(res *ir.Result, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  label=%q;\n", res.Material)
	buf.WriteString("  labelloc=t;\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range res.Nodes {
		label := fmtLabel(n, opts.Detailed)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(n, label), ", "))
	}

	buf.WriteString("\n")
	for _, l := range res.Links {
		fmt.Fprintf(&buf, "  %q -> %q [taillabel=%q, headlabel=%q];\n",
			l.From, l.To, portLabel(res.Node(l.From), l.OutIndex, false), portLabel(res.Node(l.To), l.InIndex, true))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n ir.Node, detailed bool) string {
	if !detailed {
		return n.ID
	}

	parts := []string{n.Class}
	if n.Mode != "" {
		parts = append(parts, "mode: "+n.Mode)
	}
	for _, k := range slices.Sorted(maps.Keys(n.Params)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Params[k]))
	}
	return n.ID + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n ir.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.Params == nil && len(n.Inputs) == 0 {
		// Pure sources (values, textures without settings) stand out grey.
		attrs = append(attrs, "fillcolor=lightgrey")
	}
	return attrs
}

// portLabel names a link endpoint: the socket name when known, else the index.
func portLabel(n *ir.Node, idx int, input bool) string {
	if n != nil {
		ports := n.Outputs
		if input {
			ports = n.Inputs
		}
		if idx >= 0 && idx < len(ports) && ports[idx] != "" {
			return fmt.Sprintf("%d:%s", idx, ports[idx])
		}
	}
	return strconv.Itoa(idx)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	out, err := render(dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
