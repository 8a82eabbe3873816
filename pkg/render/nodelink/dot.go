package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/steamvent/pkg/network"
	"github.com/matzehuels/steamvent/pkg/network/distance"
	"github.com/matzehuels/steamvent/pkg/search"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Origin is the valve the plan starts from.
	Origin string

	// Route is the opening sequence to highlight, as returned by
	// search.State.Route.
	Route []search.Step

	// Detailed adds the opening minute and released pressure to the labels of
	// opened valves.
	Detailed bool
}

const (
	colorOpened  = "#f4a261"
	colorUseful  = "#e9f5db"
	colorIdle    = "#eeeeee"
	colorWalked  = "#e76f51"
	colorTunnels = "#999999"
)

// ToDOT converts a network to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
//
// Zero-flow valves are drawn small and grey. Valves opened by opts.Route are
// filled and numbered, and every tunnel on a shortest walk between two
// consecutive stops of the route is drawn bold.
func ToDOT(n *network.Network, opts Options) string {
	opened := make(map[string]int, len(opts.Route))
	for i, st := range opts.Route {
		opened[st.Valve] = i
	}
	walked := walkedTunnels(n, opts)

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fontname=\"Helvetica\", fontsize=12];\n")
	fmt.Fprintf(&buf, "  edge [color=%q];\n", colorTunnels)
	buf.WriteString("\n")

	for _, v := range n.Valves() {
		fmt.Fprintf(&buf, "  %q [%s];\n", v.ID, strings.Join(nodeAttrs(v, opts, opened), ", "))
	}

	buf.WriteString("\n")
	for _, e := range tunnels(n) {
		attrs := ""
		if walked[e] {
			attrs = fmt.Sprintf(" [color=%q, penwidth=3]", colorWalked)
		}
		fmt.Fprintf(&buf, "  %q -- %q%s;\n", e.a, e.b, attrs)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(v network.Valve, opts Options, opened map[string]int) []string {
	label := v.ID
	if v.Useful() {
		label = fmt.Sprintf("%s\n%d", v.ID, v.FlowRate)
	}

	fill := colorIdle
	attrs := []string{}
	if i, ok := opened[v.ID]; ok {
		fill = colorOpened
		label = fmt.Sprintf("%s\n#%d", label, i+1)
		if opts.Detailed {
			st := opts.Route[i]
			label = fmt.Sprintf("%s\nt=%d +%d", label, st.Minute, st.Released)
		}
	} else if v.Useful() {
		fill = colorUseful
	} else {
		attrs = append(attrs, "width=0.4", "fontsize=9")
	}
	if v.ID == opts.Origin {
		attrs = append(attrs, "peripheries=2")
	}

	return append([]string{fmt.Sprintf("label=%q", label), fmt.Sprintf("fillcolor=%q", fill)}, attrs...)
}

type edge struct{ a, b string }

func newEdge(a, b string) edge {
	if b < a {
		a, b = b, a
	}
	return edge{a, b}
}

// tunnels returns every distinct tunnel once, in valve order.
func tunnels(n *network.Network) []edge {
	seen := make(map[edge]bool)
	var out []edge
	for _, v := range n.Valves() {
		for _, t := range v.Tunnels {
			e := newEdge(v.ID, t)
			if !seen[e] {
				seen[e] = true
				out = append(out, e)
			}
		}
	}
	return out
}

func walkedTunnels(n *network.Network, opts Options) map[edge]bool {
	walked := make(map[edge]bool)
	if len(opts.Route) == 0 || !n.Has(opts.Origin) {
		return walked
	}
	table := distance.Compute(n)
	from := opts.Origin
	for _, st := range opts.Route {
		path := distance.Path(table, n, from, st.Valve)
		for i := 1; i < len(path); i++ {
			walked[newEdge(path[i-1], path[i])] = true
		}
		from = st.Valve
	}
	return walked
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	data, err := render(dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(data), nil
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

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
