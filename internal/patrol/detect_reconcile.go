package patrol

import (
	"context"
	"fmt"

	"agentorg/internal/types"
)

// syncedStatus maps an operational status to the project-task status it
// implies. The zero value means "leave the project task alone".
//
// Operations are authoritative: reconciliation only ever flows from the
// operational side toward the project plan, never back.
func syncedStatus(op types.TaskStatus) (types.TaskStatus, bool) {
	switch op {
	case types.StatusDone:
		return types.StatusDone, true
	case types.StatusCancelled:
		// A cancelled operation leaves the planned work unfinished but
		// unworkable until someone re-plans it
		return types.StatusBlocked, true
	case types.StatusInProgress, types.StatusReview:
		return types.StatusInProgress, true
	case types.StatusBlocked:
		return types.StatusBlocked, true
	}
	return "", false
}

// detectReconciliation aligns project tasks with their linked operational
// tasks and delegations. Each applied sync appends a provenance note and
// triggers a progress recompute for the owning project. Re-running over
// already-consistent stores applies nothing.
func (p *Patrol) detectReconciliation(ctx context.Context, pass *passState) {
	if p.deps.Projects == nil {
		return
	}

	tasks, err := p.deps.Tasks.ListTasks(ctx, types.TaskFilter{})
	if err != nil {
		fmt.Printf("Patrol: reconciliation: failed to list tasks: %v\n", err)
		return
	}
	taskByID := make(map[string]*types.Task, len(tasks))
	for _, t := range tasks {
		taskByID[t.ID] = t
	}

	delByID := make(map[string]*types.DelegatedTask)
	if p.deps.Comms != nil {
		delegations, err := p.deps.Comms.ListDelegations(ctx, types.DelegationFilter{})
		if err != nil {
			fmt.Printf("Patrol: reconciliation: failed to list delegations: %v\n", err)
			return
		}
		for _, d := range delegations {
			delByID[d.ID] = d
		}
	}

	projects, err := p.deps.Projects.ListActiveProjects(ctx)
	if err != nil {
		fmt.Printf("Patrol: reconciliation: failed to list projects: %v\n", err)
		return
	}

	for _, project := range projects {
		projectTasks, err := p.deps.Projects.ListProjectTasks(ctx, project.ID)
		if err != nil {
			fmt.Printf("Patrol: reconciliation: failed to list tasks for project %s: %v\n", project.ID, err)
			continue
		}

		synced := 0
		for _, pt := range projectTasks {
			var opStatus types.TaskStatus
			switch {
			case pt.LinkedTaskID != "":
				task, ok := taskByID[pt.LinkedTaskID]
				if !ok {
					continue // Dangling links are the integrity detector's problem
				}
				opStatus = task.Status
			case pt.LinkedDelegationID != "":
				del, ok := delByID[pt.LinkedDelegationID]
				if !ok {
					continue
				}
				opStatus = del.Status
			default:
				continue // Unlinked plan items are managed by hand
			}

			target, ok := syncedStatus(opStatus)
			if !ok || target == pt.Status {
				continue
			}
			// Finished plan items stay finished even if the operational
			// side is reopened later
			if pt.Status.IsTerminal() {
				continue
			}

			prevStatus := pt.Status
			if err := p.deps.Projects.UpdateProjectTaskStatus(ctx, pt.ID, target); err != nil {
				fmt.Printf("Patrol: reconciliation: failed to sync project task %s: %v\n", pt.ID, err)
				continue
			}
			note := fmt.Sprintf("synced from operations: %s → %s", prevStatus, target)
			if err := p.deps.Projects.AppendProjectTaskNote(ctx, pt.ID, note); err != nil {
				fmt.Printf("Patrol: reconciliation: failed to note project task %s: %v\n", pt.ID, err)
			}

			reconcileSyncs.Inc()
			pass.report.Synced++
			synced++
			pass.digest.Add("Reconciliation", "%q (%s): %s", pt.Title, pt.ID, note)
		}

		if synced > 0 {
			if _, err := p.deps.Projects.RecomputeProjectProgress(ctx, project.ID); err != nil {
				fmt.Printf("Patrol: reconciliation: failed to recompute progress for %s: %v\n", project.ID, err)
			}
		}
	}
}
