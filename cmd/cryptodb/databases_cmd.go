package main

import (
	"fmt"

	"cryptodb-gateway/internal/storage"

	"github.com/spf13/cobra"
)

func newDatabasesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "databases",
		Short: "List files in the storage directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadLocalConfig()
			if err != nil {
				return err
			}
			names, err := storage.ListDatabases(cfg.StorageDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(names) == 0 {
				fmt.Fprintf(out, "%s: (empty)\n", cfg.StorageDir)
				return nil
			}
			for _, name := range names {
				marker := " "
				if name == cfg.Database {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %s\n", marker, name)
			}
			return nil
		},
	}
}
