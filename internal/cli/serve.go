package cli

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/steamvent/internal/api"
	"github.com/matzehuels/steamvent/pkg/observability"
	"github.com/matzehuels/steamvent/pkg/observability/prom"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve exposes the solver over HTTP:

  GET  /healthz
  POST /v1/solve
  POST /v1/distances
  GET  /metrics

Results are cached in the configured backend. With [cache] backend = "redis"
several replicas share one cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.cfg.Serve.Addr
			}
			if !cmd.Flags().Changed("timeout") {
				timeout = c.cfg.Serve.Timeout
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			hooks, err := prom.New(reg)
			if err != nil {
				return err
			}
			hooks.Install()
			defer observability.Reset()

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			handler := api.NewHandler(&api.Server{
				Runner:   runner,
				Logger:   c.Logger,
				Gatherer: reg,
				Timeout:  timeout,
			})

			printInfo("Serving on %s (cache: %s)", addr, c.cacheBackend(noCache))
			return api.ListenAndServe(ctx, addr, handler, c.Logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().DurationVar(&timeout, "timeout", api.DefaultTimeout, "per-request limit for /v1 routes")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
