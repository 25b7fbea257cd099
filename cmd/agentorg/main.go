package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"agentorg/internal/config"
	"agentorg/internal/directory"
	"agentorg/internal/storage"
)

var (
	configPath string

	// Loaded once in PersistentPreRunE, shared by all commands
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "agentorg",
	Short: "Reconciliation and notification patrol for a simulated organization",
	Long: `agentorg keeps a simulated organization of autonomous actors honest:
it periodically reconciles the operational task store with the project
plan, nudges stale work, watches deadlines, budgets, and approvals, and
publishes digests on the announcement channel.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default .agentorg.yaml in working directory)")
}

// openStore opens the configured SQLite store
func openStore(ctx context.Context) (storage.Storage, error) {
	return storage.NewStorage(ctx, &cfg.Storage)
}

// loadDirectory seeds the actor directory from the configured roster.
// A missing roster file yields an empty directory rather than an error;
// the patrol degrades gracefully without one.
func loadDirectory() *directory.Directory {
	dir, err := directory.LoadRoster(cfg.RosterPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Warning: %v (continuing without a roster)\n", err)
		}
		return directory.New()
	}
	return dir
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
