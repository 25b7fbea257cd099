package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"agentorg/internal/ledger"
	"agentorg/internal/memory"
	"agentorg/internal/patrol"
	"agentorg/internal/providers"
)

var patrolOnce bool

var patrolCmd = &cobra.Command{
	Use:   "patrol",
	Short: "Run the patrol engine",
	Long: `Run the patrol engine against the configured store. Without --once the
engine runs detection passes on its configured interval until SIGINT or
SIGTERM.`,
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

		deps := patrol.Deps{
			Tasks:     store,
			Projects:  store,
			Comms:     store,
			Notifier:  store,
			Approvals: store,
			Directory: loadDirectory(),
			Usage:     usage,
			Config:    cfg.Patrol,
		}

		registry := providers.NewRegistry()
		if cfg.AnthropicAPIKey != "" {
			p, err := providers.NewAnthropicProvider(cfg.AnthropicAPIKey)
			if err != nil {
				return err
			}
			if err := registry.Register(p); err != nil {
				return err
			}
		}
		if cfg.OpenAIAPIKey != "" {
			p, err := providers.NewOpenAIProvider(cfg.OpenAIAPIKey)
			if err != nil {
				return err
			}
			if err := registry.Register(p); err != nil {
				return err
			}
		}
		if len(registry.Names()) > 0 {
			deps.Prober = registry
		}

		if cfg.MemoryPath != "" {
			memCfg := memory.DefaultConfig()
			memCfg.PersistPath = cfg.MemoryPath
			maintainer, err := memory.NewMaintainer(memCfg)
			if err != nil {
				return fmt.Errorf("failed to open memory store: %w", err)
			}
			deps.Memory = maintainer
		}

		engine, err := patrol.New(deps)
		if err != nil {
			return err
		}

		if patrolOnce {
			report, err := engine.RunOnce(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Patrol: pass complete: %d finding(s), %d synced, %d repaired\n",
				len(report.Findings), report.Synced, report.Repaired)
			for _, f := range report.Findings {
				fmt.Printf("  [%s/%s] %s\n", f.Kind, f.Severity, f.Detail)
			}
			return nil
		}

		engine.Start(cfg.Patrol.CheckInterval)

		sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-sigCtx.Done()

		engine.Stop()
		return nil
	},
}

func init() {
	patrolCmd.Flags().BoolVar(&patrolOnce, "once", false, "run a single pass and exit")
	rootCmd.AddCommand(patrolCmd)
}
