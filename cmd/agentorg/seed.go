package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"agentorg/internal/types"
)

const demoRoster = `actors:
  - id: ada
    name: Ada
    role: Chief Executive
    announce: true
  - id: grace
    name: Grace
    role: Engineering Lead
    manager: ada
  - id: alan
    name: Alan
    role: Research
    manager: grace
`

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the store with a demo organization",
	Long: `Write a demo roster and populate the store with a small project, a few
tasks, a delegation, a KPI, and a pending approval. Intended for trying
the patrol out on a fresh workspace.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		if _, err := os.Stat(cfg.RosterPath); os.IsNotExist(err) {
			if err := os.MkdirAll(filepath.Dir(cfg.RosterPath), 0o755); err != nil {
				return fmt.Errorf("failed to create roster directory: %w", err)
			}
			if err := os.WriteFile(cfg.RosterPath, []byte(demoRoster), 0o644); err != nil {
				return fmt.Errorf("failed to write roster: %w", err)
			}
			fmt.Printf("Wrote demo roster to %s\n", cfg.RosterPath)
		}

		store, err := openStore(ctx)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer store.Close()

		due := time.Now().UTC().Add(20 * time.Hour)
		project := &types.Project{
			Name:    "Quarterly launch",
			Status:  types.ProjectActive,
			OwnerID: "grace",
			Milestones: []types.Milestone{
				{ID: "ms-demo-1", Name: "Feature freeze", DueDate: due},
			},
		}
		if err := store.CreateProject(ctx, project); err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}

		task := &types.Task{
			Title:      "Implement the export pipeline",
			Status:     types.StatusInProgress,
			AssigneeID: "alan",
			DueDate:    &due,
		}
		if err := store.CreateTask(ctx, task); err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		if err := store.CreateProjectTask(ctx, &types.ProjectTask{
			ProjectID:    project.ID,
			Title:        task.Title,
			Status:       types.StatusTodo,
			LinkedTaskID: task.ID,
		}); err != nil {
			return fmt.Errorf("failed to create project task: %w", err)
		}

		if err := store.CreateDelegation(ctx, &types.DelegatedTask{
			Title:       "Review the launch checklist",
			Status:      types.StatusTodo,
			FromActorID: "grace",
			ToActorID:   "alan",
		}); err != nil {
			return fmt.Errorf("failed to create delegation: %w", err)
		}

		if err := store.CreateKPI(ctx, &types.KPI{
			Name:         "Tasks shipped this quarter",
			Target:       50,
			MetricSource: types.MetricTasksCompleted,
		}); err != nil {
			return fmt.Errorf("failed to create KPI: %w", err)
		}

		if err := store.CreateApproval(ctx, &types.ApprovalRequest{
			Kind:        types.ApprovalHiring,
			RequesterID: "grace",
			Subject:     "Hire a second researcher",
			Status:      types.ApprovalPending,
		}); err != nil {
			return fmt.Errorf("failed to create approval: %w", err)
		}

		fmt.Println("Seeded demo organization. Try: agentorg patrol --once")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
