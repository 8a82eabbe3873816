package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/steamvent/pkg/errors"
	"github.com/matzehuels/steamvent/pkg/pipeline"
)

// distancesCommand creates the distances command.
func (c *CLI) distancesCommand() *cobra.Command {
	var (
		origin  string
		noCache bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "distances [file]",
		Short: "Print travel times between the valves worth opening",
		Long: `Distances prints the number of minutes needed to walk from the origin and from
every valve with a positive flow rate to each valve with a positive flow rate.
These are the only moves the search considers.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("origin") {
				origin = c.cfg.Origin
			}

			n, err := loadNetwork(ctx, args[0])
			if err != nil {
				return err
			}
			if !n.Has(origin) {
				return errs.New(errs.ErrCodeUnknownValve, "origin valve %q is not in the network", origin)
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			table, cached, err := runner.Distances(ctx, n, false)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(table)
			}

			printSuccess("Distances between %d useful valves", len(n.Useful()))
			printStats(n.Len(), len(n.Useful()), n.TunnelCount(), cached)
			printNewline()
			fmt.Println(distancesTable(table, origin))
			return nil
		},
	}

	cmd.Flags().StringVar(&origin, "origin", pipeline.DefaultOrigin, "valve listed first")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the table as JSON")

	return cmd
}
