package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ochairo/extenscan/internal/domain/interfaces"
)

func newClearCacheCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-cache",
		Short: "Remove every cached registry version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache, err := a.openCache(cmd.Context())
			if err != nil {
				return err
			}
			//nolint:errcheck // Defer close
			defer cache.Close()

			if err := cache.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
			return nil
		},
	}
}

// clearCache empties the cache before a scan; failures only warn
func (a *app) clearCache(ctx context.Context) {
	cache, err := a.openCache(ctx)
	if err != nil {
		a.logger.Warn("failed to open cache", interfaces.F("error", err.Error()))
		return
	}
	//nolint:errcheck // Defer close
	defer cache.Close()

	if err := cache.Clear(ctx); err != nil {
		a.logger.Warn("failed to clear cache", interfaces.F("error", err.Error()))
		return
	}
	a.logger.Info("cache cleared")
}
