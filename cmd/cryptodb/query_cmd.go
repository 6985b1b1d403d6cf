package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cryptodb-gateway/internal/config"
	"cryptodb-gateway/internal/logger"
	"cryptodb-gateway/internal/query"
	"cryptodb-gateway/internal/storage"

	"github.com/spf13/cobra"
)

var errLocalConfigIncomplete = errors.New("storageDir and database must be set; run: cryptodb config --storage-dir DIR --database NAME")

// loadLocalConfig is the runtime configuration without the secret
// requirement; local commands never see a request.
func loadLocalConfig() (config.Config, error) {
	cfg, err := config.LoadOrDefault()
	if err != nil {
		return config.Config{}, err
	}
	cfg, err = config.ApplyEnv(cfg, ".env")
	if err != nil {
		return config.Config{}, err
	}
	if strings.TrimSpace(cfg.StorageDir) == "" || strings.TrimSpace(cfg.Database) == "" {
		return config.Config{}, errLocalConfigIncomplete
	}
	return cfg, nil
}

func newQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query <sql>",
		Short: "Run one statement against the configured database and print the JSON result",
		Long: `Runs the statement through the same dispatcher as POST /crypto, including the
DROP/ALTER denylist, and prints the response body. The command fails when the
result is an error.`,
		Example: `  cryptodb query "SELECT name FROM sqlite_master WHERE type = 'table'"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadLocalConfig()
			if err != nil {
				return err
			}
			if err := storage.EnsureDir(cfg.StorageDir); err != nil {
				return err
			}

			d := query.NewDispatcher(query.Options{
				StorageDir: cfg.StorageDir,
				Timeout:    cfg.QueryTimeout,
				Logger:     logger.NewZap(nil),
			})
			res := d.Execute(cmd.Context(), cfg.Database, strings.Join(args, " "))

			b, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))

			if res.Kind == query.KindError {
				return errors.New(res.Err)
			}
			return nil
		},
	}
}
