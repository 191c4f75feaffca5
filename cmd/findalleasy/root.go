package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"findalleasy/internal/config"
	"findalleasy/internal/logging"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "findalleasy",
		Short:         "Search marketplaces and price results in one currency",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("config", os.Getenv("CONFIG_FILE"), "path to config.yaml (optional)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "log at debug level")

	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewRatesCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads config and builds a logger that writes to the command's stderr.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, fmt.Errorf("config: %w", err)
	}
	level := cfg.Log.Level
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = "debug"
	}
	return cfg, logging.New(cmd.ErrOrStderr(), level, "text"), nil
}
