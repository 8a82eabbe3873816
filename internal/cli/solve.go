package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/steamvent/pkg/network"
	"github.com/matzehuels/steamvent/pkg/observability"
	"github.com/matzehuels/steamvent/pkg/pipeline"
)

type solveOpts struct {
	search searchFlags
	browse bool
	asJSON bool
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var opts solveOpts

	cmd := &cobra.Command{
		Use:   "solve [file]",
		Short: "Find the valve openings that release the most pressure",
		Long: `Solve searches every order in which the valves of a network can be opened
within the time budget and reports the one that releases the most pressure,
followed by the runners-up.

The file is either in the puzzle's text format:

  Valve AA has flow rate=0; tunnels lead to valves DD, II, BB

or a JSON document written by "steamvent render --format json".`,
		Example: `  steamvent solve input.txt
  steamvent solve input.txt --budget 26 --top 10 --browse
  steamvent solve network.json --json | jq .pressure`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSolve(cmd, args[0], opts)
		},
	}

	addSearchFlags(cmd, &opts.search)
	cmd.Flags().BoolVar(&opts.browse, "browse", false, "browse the plans interactively")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the result as JSON")
	cmd.MarkFlagsMutuallyExclusive("browse", "json")

	return cmd
}

func (c *CLI) runSolve(cmd *cobra.Command, path string, opts solveOpts) error {
	ctx := cmd.Context()

	n, err := loadNetwork(ctx, path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.search.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	pipeOpts := c.pipelineOptions(cmd, opts.search)

	if opts.asJSON {
		res, err := runner.Execute(ctx, n, pipeOpts)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	res, err := solveWithSpinner(ctx, runner, n, pipeOpts)
	if err != nil {
		return err
	}

	printResult(res)

	if opts.browse && len(res.Plans) > 0 {
		if _, err := tea.NewProgram(NewPlanBrowserModel(res), tea.WithContext(ctx)).Run(); err != nil {
			return fmt.Errorf("plan browser: %w", err)
		}
		return nil
	}

	printNewline()
	printNextStep("Draw the route", fmt.Sprintf("%s render %s", appName, path))
	return nil
}

// solveWithSpinner runs the pipeline while a spinner shows search progress.
func solveWithSpinner(ctx context.Context, runner *pipeline.Runner, n *network.Network, opts pipeline.Options) (*pipeline.Result, error) {
	spinner := newSpinnerWithContext(ctx, "Searching...")

	prev := observability.Search()
	observability.SetSearchHooks(searchProgress{spinner: spinner})
	defer observability.SetSearchHooks(prev)

	spinner.Start()
	res, err := runner.Execute(ctx, n, opts)
	spinner.Stop()
	return res, err
}

func printResult(res *pipeline.Result) {
	if res.Pressure == 0 {
		printWarning("No valve can be opened within %d minutes", res.Budget)
	} else {
		printSuccess("Released %s pressure in %d minutes", StyleNumber.Render(strconv.Itoa(res.Pressure)), res.Budget)
	}
	printStats(res.Stats.Valves, res.Stats.Useful, res.Stats.Tunnels, res.CacheInfo.ResultHit)
	printNewline()

	printKeyValue("Route", res.String())
	printKeyValue("Total flow", fmt.Sprintf("%d per minute with every valve open", res.Stats.TotalFlow))
	printKeyValue("Searched", fmt.Sprintf("%d states, %d complete plans", res.Stats.Expanded, res.Stats.Terminals))
	if !res.CacheInfo.ResultHit {
		printKeyValue("Took", (res.Stats.DistanceTime + res.Stats.SearchTime).String())
	}

	if len(res.Route) > 0 {
		printNewline()
		fmt.Println(stepsTable(res.Plans[0]))
	}
	if len(res.Plans) > 1 {
		printNewline()
		fmt.Println(plansTable(res.Plans))
	}
}
