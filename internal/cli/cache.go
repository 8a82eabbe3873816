package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/steamvent/pkg/cache"
	"github.com/matzehuels/steamvent/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached distance tables and results",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cc, err := c.newCache(ctx, false)
			if err != nil {
				return err
			}
			defer cc.Close()

			clearer, ok := cc.(cache.Clearer)
			if !ok {
				printInfo("Caching is disabled, nothing to clear")
				return nil
			}

			count, err := clearer.Clear(ctx)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Location: %s", c.cacheLocation())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.cacheLocation())
			return nil
		},
	}
}

// cacheBackend names the backend commands will use.
func (c *CLI) cacheBackend(noCache bool) string {
	if noCache {
		return config.BackendNone
	}
	return c.cfg.Cache.Backend
}

// cacheLocation describes where entries of the configured backend are kept.
func (c *CLI) cacheLocation() string {
	switch c.cfg.Cache.Backend {
	case config.BackendRedis:
		return fmt.Sprintf("redis://%s/%s*", c.cfg.Cache.RedisAddr, c.cfg.Cache.Prefix)
	case config.BackendNone:
		return "(disabled)"
	default:
		dir, err := cacheDir()
		if err != nil {
			return "(unavailable)"
		}
		return dir
	}
}
