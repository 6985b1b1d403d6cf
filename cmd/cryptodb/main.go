package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"cryptodb-gateway/internal/platform/paths"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "cryptodb",
		Short:        "Administer the cryptodbd SQL gateway",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return nil
			}
			return os.Setenv(paths.ConfigEnv, configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.yaml (overrides "+paths.ConfigEnv+")")

	root.AddCommand(
		newConfigCmd(),
		newQueryCmd(),
		newCheckCmd(),
		newDatabasesCmd(),
		newServiceCmd(),
	)
	return root
}

func newSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
