package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/barstack/pkg/cache"
	"github.com/matzehuels/barstack/pkg/config"
)

// cacheCommand manages the layout and artifact cache.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached figures, layouts and artifacts",
	}
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := c.Config.OpenCache(cmd.Context())
			if err != nil {
				return err
			}
			defer cc.Close()

			var n int
			switch cc := cc.(type) {
			case *cache.FileCache:
				n, err = cc.Clear()
			case *cache.RedisCache:
				n, err = cc.Clear(cmd.Context())
			default:
				printInfo("Cache is disabled")
				return nil
			}
			if err != nil {
				return err
			}
			printSuccess("Cleared %s", plural(n, "cached entry"))
			printKeyValue("backend", c.Config.Cache.Backend)
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := c.Config.Cache
			switch cc.Backend {
			case config.BackendRedis:
				fmt.Fprintf(cmd.OutOrStdout(), "redis://%s/%d %s*\n", cc.RedisAddr, cc.RedisDB, cc.Prefix)
			case config.BackendNone:
				fmt.Fprintln(cmd.OutOrStdout(), "none")
			default:
				dir, err := c.Config.CacheDir()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), dir)
			}
			return nil
		},
	}
}
