package pipeline

import (
	"encoding/json"

	errs "github.com/matzehuels/steamvent/pkg/errors"
	"github.com/matzehuels/steamvent/pkg/network"
	"github.com/matzehuels/steamvent/pkg/render/nodelink"
)

// RenderOptions configures [Render].
type RenderOptions struct {
	Formats  []string
	Detailed bool // label opened valves with minute and released pressure
}

// Render generates output artifacts for a solved network, keyed by format.
// The best route of res is highlighted in diagram formats; the JSON format is
// the result itself.
func Render(n *network.Network, res *Result, opts RenderOptions) (map[string][]byte, error) {
	if len(opts.Formats) == 0 {
		opts.Formats = []string{FormatSVG}
	}
	for _, f := range opts.Formats {
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
	}

	dot := nodelink.ToDOT(n, nodelink.Options{
		Origin:   res.Origin,
		Route:    res.Route,
		Detailed: opts.Detailed,
	})

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(dot)
		case FormatJSON:
			data, err = json.MarshalIndent(res, "", "  ")
		}

		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "render %s", format)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
