package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"cryptodb-gateway/internal/config"

	"github.com/spf13/cobra"
)

type configFlags struct {
	show           bool
	generateSecret bool
	storageDir     string
	database       string
	secret         string
	apiListen      string
	debug          bool
	metrics        bool
	queryTimeout   time.Duration
	logFile        string
}

func newConfigCmd() *cobra.Command {
	var f configFlags

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or edit the config file",
		Example: `  cryptodb config --show
  cryptodb config --generate-secret --api-listen 0.0.0.0:4444
  cryptodb config --storage-dir /var/lib/cryptodb --database crypto.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfig(cmd, f)
		},
	}

	fs := cmd.Flags()
	fs.BoolVar(&f.show, "show", false, "Print current config summary")
	fs.BoolVar(&f.generateSecret, "generate-secret", false, "Generate a new shared secret and print it")
	fs.StringVar(&f.storageDir, "storage-dir", "", "Directory holding the database file")
	fs.StringVar(&f.database, "database", "", "Database file name inside the storage directory")
	fs.StringVar(&f.secret, "secret", "", "Shared secret expected in the request 'auth' field")
	fs.StringVar(&f.apiListen, "api-listen", "", "API listen address (host:port)")
	fs.BoolVar(&f.debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&f.metrics, "metrics", false, "Serve Prometheus metrics on /metrics")
	fs.DurationVar(&f.queryTimeout, "query-timeout", 0, "Per-statement timeout (0 disables)")
	fs.StringVar(&f.logFile, "log-file", "", "Log file path (empty uses the platform default)")
	cmd.MarkFlagsMutuallyExclusive("secret", "generate-secret")

	return cmd
}

func runConfig(cmd *cobra.Command, f configFlags) error {
	out := cmd.OutOrStdout()
	changedFlag := cmd.Flags().Changed

	cfg, err := config.LoadOrDefault()
	if err != nil {
		return err
	}

	changed := false

	if changedFlag("storage-dir") {
		cfg.StorageDir = strings.TrimSpace(f.storageDir)
		changed = true
	}
	if changedFlag("database") {
		cfg.Database = strings.TrimSpace(f.database)
		changed = true
	}
	if changedFlag("secret") {
		cfg.Secret = strings.TrimSpace(f.secret)
		changed = true
	}
	if changedFlag("api-listen") {
		addr := strings.TrimSpace(f.apiListen)
		if err := config.ValidateListenAddr(addr); err != nil {
			return err
		}
		cfg.APIListen = addr
		changed = true
	}
	if changedFlag("debug") {
		cfg.Debug = f.debug
		changed = true
	}
	if changedFlag("metrics") {
		cfg.Metrics = f.metrics
		changed = true
	}
	if changedFlag("query-timeout") {
		if f.queryTimeout < 0 {
			return fmt.Errorf("invalid query-timeout: %s", f.queryTimeout)
		}
		cfg.QueryTimeout = f.queryTimeout
		changed = true
	}
	if changedFlag("log-file") {
		cfg.LogFile = strings.TrimSpace(f.logFile)
		changed = true
	}

	if f.generateSecret {
		secret, err := newSecret()
		if err != nil {
			return err
		}
		cfg.Secret = secret
		changed = true
		fmt.Fprintf(out, "Secret: %s\n", secret)
	}

	if changed {
		if err := config.Save(cfg); err != nil {
			return err
		}
		fmt.Fprintln(out, "Config saved.")
	}

	if f.show {
		printConfigSummary(out, cfg)
	}

	if !f.show && !changed {
		fmt.Fprintln(out, "No changes requested. Use --show or set flags. Example:")
		fmt.Fprintln(out, "  cryptodb config --generate-secret --api-listen 127.0.0.1:4444")
	}

	return nil
}

func printConfigSummary(out io.Writer, cfg config.Config) {
	fmt.Fprintln(out, "Config summary:")
	fmt.Fprintf(out, "  Storage Dir: %s\n", cfg.StorageDir)
	fmt.Fprintf(out, "  Database: %s\n", cfg.Database)
	fmt.Fprintf(out, "  API Listen: %s\n", cfg.APIListen)
	fmt.Fprintf(out, "  Debug: %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Metrics: %v\n", cfg.Metrics)
	if cfg.Secret == "" {
		fmt.Fprintln(out, "  Secret: (empty)")
	} else {
		fmt.Fprintf(out, "  Secret: (set, len=%d)\n", len(cfg.Secret))
	}
	if cfg.QueryTimeout == 0 {
		fmt.Fprintln(out, "  Query Timeout: (none)")
	} else {
		fmt.Fprintf(out, "  Query Timeout: %s\n", cfg.QueryTimeout)
	}
	if cfg.LogFile == "" {
		fmt.Fprintln(out, "  Log File: (default)")
	} else {
		fmt.Fprintf(out, "  Log File: %s\n", cfg.LogFile)
	}
}
