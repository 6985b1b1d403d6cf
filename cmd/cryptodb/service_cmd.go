package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"cryptodb-gateway/internal/platform/autostart"
	"cryptodb-gateway/internal/platform/paths"

	"github.com/spf13/cobra"
)

func newServiceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Manage the cryptodbd Windows service",
	}

	var exePath string
	install := &cobra.Command{
		Use:   "install",
		Short: "Register cryptodbd as an automatic Windows service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if exePath == "" {
				p, err := defaultDaemonPath()
				if err != nil {
					return err
				}
				exePath = p
			}

			var svcArgs []string
			if p := os.Getenv(paths.ConfigEnv); p != "" {
				abs, err := filepath.Abs(p)
				if err != nil {
					return err
				}
				svcArgs = append(svcArgs, "--config", abs)
			}

			created, err := autostart.EnsureWindowsServiceAutoStart(autostart.ServiceName, exePath, svcArgs...)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Service %s created.\n", autostart.ServiceName)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Service %s updated.\n", autostart.ServiceName)
			}
			return nil
		},
	}
	install.Flags().StringVar(&exePath, "exe", "", "Path to the cryptodbd executable (default: next to this binary)")

	start := &cobra.Command{
		Use:   "start",
		Short: "Start the service and wait until it runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := autostart.StartWindowsService(autostart.ServiceName); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Service running.")
			return nil
		},
	}

	var stopTimeout time.Duration
	stop := &cobra.Command{
		Use:   "stop",
		Short: "Stop the service and wait until it exits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := autostart.StopWindowsService(autostart.ServiceName, stopTimeout); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Service stopped.")
			return nil
		},
	}
	stop.Flags().DurationVar(&stopTimeout, "timeout", 20*time.Second, "How long to wait for the service to stop")

	cmd.AddCommand(install, start, stop)
	return cmd
}

func defaultDaemonPath() (string, error) {
	self, err := os.Executable()
	if err != nil {
		return "", err
	}
	name := "cryptodbd"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(filepath.Dir(self), name), nil
}
