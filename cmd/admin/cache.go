package main

import (
	"fmt"

	"yatube/internal/cache"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the page cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached page",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		rdb, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()

		removed, err := cache.NewPageStore(rdb).Clear(ctx)
		if err != nil {
			return fmt.Errorf("clearing page cache: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached pages\n", removed)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
