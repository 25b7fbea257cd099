package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"agentorg/internal/types"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the organization's current state",
	Long:  `Display open work, active projects, the actor roster, and pending approvals.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		store, err := openStore(ctx)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer store.Close()

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s\n\n", cyan("=== Organization Status ==="))

		tasks, err := store.ListTasks(ctx, types.TaskFilter{})
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}
		counts := make(map[types.TaskStatus]int)
		for _, t := range tasks {
			counts[t.Status]++
		}
		fmt.Printf("%s\n", yellow("Work:"))
		for _, s := range []types.TaskStatus{
			types.StatusTodo, types.StatusInProgress, types.StatusReview,
			types.StatusBlocked, types.StatusDone, types.StatusCancelled,
		} {
			if counts[s] == 0 {
				continue
			}
			paint := gray
			switch s {
			case types.StatusInProgress, types.StatusReview:
				paint = green
			case types.StatusBlocked:
				paint = red
			}
			fmt.Printf("  %s: %d\n", paint(string(s)), counts[s])
		}
		if len(tasks) == 0 {
			fmt.Printf("  %s\n", gray("No tasks"))
		}
		fmt.Println()

		projects, err := store.ListActiveProjects(ctx)
		if err != nil {
			return fmt.Errorf("failed to list projects: %w", err)
		}
		fmt.Printf("%s\n", yellow("Active Projects:"))
		if len(projects) == 0 {
			fmt.Printf("  %s\n", gray("No active projects"))
		}
		for _, p := range projects {
			paint := green
			if p.Progress < 0.5 {
				paint = yellow
			}
			fmt.Printf("  %s — %s complete\n", p.Name, paint(fmt.Sprintf("%.0f%%", p.Progress*100)))
		}
		fmt.Println()

		fmt.Printf("%s\n", yellow("Roster:"))
		actors := loadDirectory().List()
		if len(actors) == 0 {
			fmt.Printf("  %s\n", gray("No roster loaded"))
		}
		for _, a := range actors {
			icon, paint := "●", green
			if !a.IsActive() {
				icon, paint = "○", gray
			}
			fmt.Printf("  %s %s (%s) %s\n", paint(icon), a.Name, a.Role, gray(string(a.Status)))
		}
		fmt.Println()

		pending, err := store.ListPendingApprovals(ctx)
		if err != nil {
			return fmt.Errorf("failed to list approvals: %w", err)
		}
		fmt.Printf("%s\n", yellow("Pending Approvals:"))
		if len(pending) == 0 {
			fmt.Printf("  %s\n", gray("None"))
		}
		for _, req := range pending {
			fmt.Printf("  %s %q from %s\n", red(string(req.Kind)), req.Subject, req.RequesterID)
		}
		fmt.Println()

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
