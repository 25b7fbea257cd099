package patrol

import (
	"context"
	"fmt"
	"math"

	"agentorg/internal/types"
)

// detectIntegrity sweeps the stores for inconsistent state and repairs
// what is safe to repair:
//
//   - Active tasks assigned to a missing or terminated actor are
//     cancelled with the reason recorded. Suspended actors keep their
//     assignments. Cancellation is terminal, so this fires once per task.
//   - Project tasks still open while their linked operation is done are
//     logged as mismatches but never auto-fixed; reconciliation should
//     have closed them, so a surviving mismatch means something is wrong
//     with the link itself. Dangling links are reported the same way.
//   - A project whose cached progress has drifted from its completion
//     ratio is recomputed in place.
func (p *Patrol) detectIntegrity(ctx context.Context, pass *passState) {
	p.repairOrphanedTasks(ctx, pass)
	p.checkProjectLinks(ctx, pass)
}

// repairOrphanedTasks cancels active work whose assignee is gone for
// good: unknown to the directory or terminated. Suspended assignees keep
// their tasks; suspension is temporary and cancellation is not.
func (p *Patrol) repairOrphanedTasks(ctx context.Context, pass *passState) {
	if p.deps.Directory == nil {
		return
	}

	tasks, err := p.deps.Tasks.ListTasks(ctx, types.TaskFilter{ActiveOnly: true})
	if err != nil {
		fmt.Printf("Patrol: integrity: failed to list tasks: %v\n", err)
		return
	}

	for _, task := range tasks {
		if task.AssigneeID == "" || !p.assigneeGone(task.AssigneeID) {
			continue
		}

		reason := fmt.Sprintf("assignee %s has left the organization", task.AssigneeID)
		if err := p.deps.Tasks.UpdateTaskStatus(ctx, task.ID, types.StatusCancelled, reason); err != nil {
			fmt.Printf("Patrol: integrity: failed to cancel task %s: %v\n", task.ID, err)
			continue
		}

		pass.report.Repaired++
		detail := fmt.Sprintf("cancelled task %q (%s): %s", task.Title, task.ID, reason)
		pass.emit(Finding{Kind: KindIntegrityIssue, Severity: SeverityMedium, Subject: task.ID, Detail: detail})
		pass.digest.Add("Integrity", "%s", detail)
	}
}

// checkProjectLinks verifies link consistency and cached progress for
// every active project
func (p *Patrol) checkProjectLinks(ctx context.Context, pass *passState) {
	if p.deps.Projects == nil {
		return
	}

	tasks, err := p.deps.Tasks.ListTasks(ctx, types.TaskFilter{})
	if err != nil {
		fmt.Printf("Patrol: integrity: failed to list tasks: %v\n", err)
		return
	}
	taskByID := make(map[string]*types.Task, len(tasks))
	for _, t := range tasks {
		taskByID[t.ID] = t
	}

	projects, err := p.deps.Projects.ListActiveProjects(ctx)
	if err != nil {
		fmt.Printf("Patrol: integrity: failed to list projects: %v\n", err)
		return
	}

	for _, project := range projects {
		projectTasks, err := p.deps.Projects.ListProjectTasks(ctx, project.ID)
		if err != nil {
			fmt.Printf("Patrol: integrity: failed to list tasks for project %s: %v\n", project.ID, err)
			continue
		}

		done := 0
		for _, pt := range projectTasks {
			if pt.Status == types.StatusDone {
				done++
			}
			if pt.LinkedTaskID == "" {
				continue
			}

			linked, exists := taskByID[pt.LinkedTaskID]
			switch {
			case !exists:
				p.reportMismatch(pass, pt.ID,
					fmt.Sprintf("plan item %q (%s) links to missing task %s", pt.Title, pt.ID, pt.LinkedTaskID))
			case linked.Status == types.StatusDone && pt.Status.IsActive():
				p.reportMismatch(pass, pt.ID,
					fmt.Sprintf("plan item %q (%s) still %s though task %s is done",
						pt.Title, pt.ID, pt.Status, linked.ID))
			}
		}

		if len(projectTasks) == 0 {
			continue
		}
		ratio := float64(done) / float64(len(projectTasks))
		if math.Abs(project.Progress-ratio) <= p.config.ProgressTolerance {
			continue
		}
		fresh, err := p.deps.Projects.RecomputeProjectProgress(ctx, project.ID)
		if err != nil {
			fmt.Printf("Patrol: integrity: failed to recompute progress for %s: %v\n", project.ID, err)
			continue
		}
		pass.report.Repaired++
		pass.digest.Add("Integrity", "recomputed progress for project %q: %.0f%% → %.0f%%",
			project.Name, project.Progress*100, fresh*100)
	}
}

// reportMismatch emits one integrity mismatch under the integrity
// cooldown so a persistent inconsistency does not repeat every pass
func (p *Patrol) reportMismatch(pass *passState, subject, detail string) {
	key := Key{FamilyIntegrity, subject}
	if p.cooldowns.InCooldown(key, pass.now) {
		return
	}
	pass.emit(Finding{Kind: KindIntegrityIssue, Severity: SeverityMedium, Subject: subject, Detail: detail})
	pass.digest.Add("Integrity", "%s", detail)
	p.cooldowns.Record(key, pass.now)
}
