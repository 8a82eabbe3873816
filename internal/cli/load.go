package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	netio "github.com/matzehuels/steamvent/pkg/io"
	"github.com/matzehuels/steamvent/pkg/network"
	"github.com/matzehuels/steamvent/pkg/pipeline"
)

// loadNetwork reads the network at path. Files ending in .json are read as
// JSON, anything else in the puzzle's text format.
func loadNetwork(ctx context.Context, path string) (*network.Network, error) {
	prog := newProgress(loggerFromContext(ctx))
	n, err := netio.ImportFile(path)
	if err != nil {
		return nil, pipeline.Classify(err)
	}
	prog.done(fmt.Sprintf("Loaded %d valves from %s", n.Len(), path))
	return n, nil
}

// searchFlags are the flags shared by commands that run a search.
type searchFlags struct {
	origin  string
	budget  int
	workers int
	top     int
	noCache bool
	refresh bool
}

func addSearchFlags(cmd *cobra.Command, f *searchFlags) {
	cmd.Flags().StringVar(&f.origin, "origin", pipeline.DefaultOrigin, "valve to start from")
	cmd.Flags().IntVarP(&f.budget, "budget", "b", pipeline.DefaultBudget, "minutes available")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "search goroutines (0 = one per CPU, 1 = sequential)")
	cmd.Flags().IntVar(&f.top, "top", pipeline.DefaultTopK, "number of plans to keep")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute and overwrite cached results")
}

// pipelineOptions starts from the configuration and applies the flags the
// user actually set.
func (c *CLI) pipelineOptions(cmd *cobra.Command, f searchFlags) pipeline.Options {
	opts := pipeline.Options{
		Origin:  c.cfg.Origin,
		Budget:  c.cfg.Budget,
		Workers: c.cfg.Workers,
		TopK:    c.cfg.TopK,
		Refresh: f.refresh,
		Logger:  loggerFromContext(cmd.Context()),
	}

	flags := cmd.Flags()
	if flags.Changed("origin") {
		opts.Origin = f.origin
	}
	if flags.Changed("budget") {
		opts.Budget = f.budget
	}
	if flags.Changed("workers") {
		opts.Workers = f.workers
	}
	if flags.Changed("top") {
		opts.TopK = f.top
	}
	return opts
}
