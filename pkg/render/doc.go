// Package render groups the visual outputs of steamvent.
//
// The only renderer today is [nodelink], which draws the valve network with
// Graphviz and overlays a plan. Formats are chosen by pipeline.Render: DOT
// text, SVG and PNG.
//
// [nodelink]: https://pkg.go.dev/github.com/matzehuels/steamvent/pkg/render/nodelink
package render
