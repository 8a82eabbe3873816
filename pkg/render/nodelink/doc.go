// Package nodelink renders valve networks as node-link diagrams.
//
// # Overview
//
// This package produces undirected graph drawings using Graphviz. Valves are
// nodes labelled with their flow rate and tunnels are edges. When a plan is
// supplied, the valves it opens are numbered in opening order and the tunnels
// walked between them are drawn bold.
//
// # Usage
//
// Convert a network to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(n, nodelink.Options{Origin: "AA", Route: best.Route()})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PNG output:
//
//	png, err := nodelink.RenderPNG(dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Origin: the starting valve, drawn with a double outline
//   - Route: the opening sequence to highlight
//   - Detailed: when true, labels also show the minute each valve is opened
//     and how much pressure it releases
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG] or [RenderPNG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering.
// No external Graphviz installation is needed.
package nodelink
