package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cryptodb-gateway/internal/platform/paths"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var configPath string

var rootCmd = &cobra.Command{
	Use:   "cryptodbd",
	Short: "Serve SQL statements against a local SQLite file over HTTP",
	Long: `cryptodbd exposes POST /crypto. Each request carries a shared secret and one
SQL statement, which is run against the configured SQLite file.

Settings come from the YAML config file, a .env file in the working
directory, and CRYPTODB_* environment variables, in that order.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			if err := os.Setenv(paths.ConfigEnv, configPath); err != nil {
				return err
			}
		}
		if runAsService() {
			return nil
		}
		return run()
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "Path to config.yaml (overrides "+paths.ConfigEnv+")")
}

func run() error {
	app := &serverApp{}
	if err := app.Start(); err != nil {
		return err
	}
	logSvc := app.Logger()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-app.Errors():
		app.Stop(context.Background())
		if isServeError(err) {
			return fmt.Errorf("server stopped: %w", err)
		}
	case sig := <-sigCh:
		logSvc.Info("shutdown signal", zap.Stringer("signal", sig))
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.srv.Shutdown(ctx); err != nil {
			logSvc.Error("shutdown error", err)
		}
		err := <-app.Errors()
		app.Stop(ctx)
		if isServeError(err) {
			return fmt.Errorf("server stopped: %w", err)
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
