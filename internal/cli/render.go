package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/steamvent/pkg/errors"
	"github.com/matzehuels/steamvent/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	search   searchFlags
	output   string   // output file, base path for several formats, or "-" for stdout
	formats  []string // svg, png, dot, json
	detailed bool     // label opened valves with minute and released pressure
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Draw the network with its best route",
		Long: `Render solves the network and draws it with Graphviz. Valves on the best route
are numbered in opening order and the tunnels walked between them are drawn in
bold. Valves with no flow are drawn small.`,
		Example: `  steamvent render input.txt
  steamvent render input.txt -f svg,png -o out/network --detailed
  steamvent render input.txt -f dot -o - | dot -Tpdf > network.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			for _, f := range opts.formats {
				if err := pipeline.ValidateFormat(f); err != nil {
					return err
				}
			}
			if opts.output == "-" && len(opts.formats) != 1 {
				return errs.New(errs.ErrCodeInvalidInput, "writing to stdout needs exactly one format")
			}
			if opts.output != "" && opts.output != "-" {
				if err := errs.ValidatePath(opts.output); err != nil {
					return err
				}
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	addSearchFlags(cmd, &opts.search)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (several), or - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show opening minute and released pressure")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	n, err := loadNetwork(ctx, input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.search.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Execute(ctx, n, c.pipelineOptions(cmd, opts.search))
	if err != nil {
		return err
	}

	artifacts, err := pipeline.Render(n, res, pipeline.RenderOptions{
		Formats:  opts.formats,
		Detailed: opts.detailed,
	})
	if err != nil {
		return err
	}

	if opts.output == "-" {
		_, err := cmd.OutOrStdout().Write(artifacts[opts.formats[0]])
		return err
	}

	paths := make([]string, 0, len(opts.formats))
	for _, format := range opts.formats {
		path := outputPath(opts.output, input, format, len(opts.formats))
		if err := writeArtifact(ctx, path, artifacts[format]); err != nil {
			return err
		}
		logger.Debugf("Generated %s: %d bytes", path, len(artifacts[format]))
		paths = append(paths, path)
	}

	printSuccess("Rendered route %s (pressure %d)", res.String(), res.Pressure)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// outputPath picks the file for one format. A single format with an explicit
// output goes exactly there; otherwise the format is appended to a base path
// derived from output or input.
func outputPath(output, input, format string, count int) string {
	if output != "" && count == 1 {
		return output
	}
	return basePath(output, input) + "." + format
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func writeArtifact(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
