package main

import (
	"context"
	"fmt"
	"time"

	"cryptodb-gateway/internal/db"
	"cryptodb-gateway/internal/storage"

	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Create the storage directory if needed and open the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadLocalConfig()
			if err != nil {
				return err
			}
			if err := storage.EnsureDir(cfg.StorageDir); err != nil {
				return fmt.Errorf("storage dir %s: %w", cfg.StorageDir, err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 8*time.Second)
			defer cancel()
			if err := db.TestConnection(ctx, cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Connection OK.")
			return nil
		},
	}
}
