package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"agentorg/internal/ledger"
	"agentorg/internal/patrol"
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Build today's daily digest now",
	Long: `Run a single patrol pass with the digest hour forced to midnight so the
daily digest is built immediately and published on the announcement
channel.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		store, err := openStore(ctx)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer store.Close()

		usage, err := ledger.New(cfg.Allowance)
		if err != nil {
			return err
		}

		patrolCfg := *cfg.Patrol
		patrolCfg.DigestHour = 0

		engine, err := patrol.New(patrol.Deps{
			Tasks:     store,
			Projects:  store,
			Comms:     store,
			Notifier:  store,
			Approvals: store,
			Directory: loadDirectory(),
			Usage:     usage,
			Config:    &patrolCfg,
		})
		if err != nil {
			return err
		}

		report, err := engine.RunOnce(ctx)
		if err != nil {
			return err
		}
		if !report.DailyDigest {
			return fmt.Errorf("daily digest was not built")
		}
		fmt.Println("Daily digest published on the announcement channel")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(digestCmd)
}
