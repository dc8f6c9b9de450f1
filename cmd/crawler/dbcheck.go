package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"go-jobpost-crawler/internal/database"
)

func newDBCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dbcheck",
		Short: "Verify the store is reachable and the table is readable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Attempting to connect to the store...")
			store, closeStore, err := openStore(ctx, cfg)
			if err != nil {
				return fmt.Errorf("❌ failed to connect: %w", err)
			}
			defer closeStore()

			if err := store.Ping(ctx); err != nil {
				return fmt.Errorf("❌ %s store unreachable: %w", store.Name(), err)
			}
			fmt.Fprintf(out, "✅ Connected to %s store, table %q is readable\n", store.Name(), cfg.Store.Table)

			if repo, ok := store.(*database.Repository); ok {
				if version, err := repo.ServerVersion(ctx); err == nil {
					fmt.Fprintln(out, "🚀 Database Version:", version)
				}
			}
			return nil
		},
	}
}
