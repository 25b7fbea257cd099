package patrol

import (
	"context"
	"fmt"
	"time"

	"agentorg/internal/types"
)

// dueItem is one dated thing the deadline sweep looks at
type dueItem struct {
	id    string
	label string
	due   time.Time
}

// detectDeadlines sweeps due dates across operational tasks, project
// tasks, and project milestones. An item is overdue once its due time is
// now or earlier; it is approaching inside the configured horizon, the
// boundary itself included. The two classifications cool down
// independently, so an item that slips from approaching to overdue is
// reported again.
func (p *Patrol) detectDeadlines(ctx context.Context, pass *passState) {
	var items []dueItem

	tasks, err := p.deps.Tasks.ListTasks(ctx, types.TaskFilter{ActiveOnly: true})
	if err != nil {
		fmt.Printf("Patrol: deadline sweep: failed to list tasks: %v\n", err)
		return
	}
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		items = append(items, dueItem{
			id:    "task:" + t.ID,
			label: fmt.Sprintf("task %q (%s)", t.Title, t.ID),
			due:   *t.DueDate,
		})
	}

	if p.deps.Projects != nil {
		projects, err := p.deps.Projects.ListActiveProjects(ctx)
		if err != nil {
			fmt.Printf("Patrol: deadline sweep: failed to list projects: %v\n", err)
			return
		}
		for _, project := range projects {
			for _, m := range project.Milestones {
				items = append(items, dueItem{
					id:    "milestone:" + m.ID,
					label: fmt.Sprintf("milestone %q of project %q", m.Name, project.Name),
					due:   m.DueDate,
				})
			}

			projectTasks, err := p.deps.Projects.ListProjectTasks(ctx, project.ID)
			if err != nil {
				fmt.Printf("Patrol: deadline sweep: failed to list tasks for project %s: %v\n", project.ID, err)
				continue
			}
			for _, pt := range projectTasks {
				if pt.DueDate == nil || pt.Status.IsTerminal() {
					continue
				}
				items = append(items, dueItem{
					id:    "project-task:" + pt.ID,
					label: fmt.Sprintf("plan item %q (%s)", pt.Title, pt.ID),
					due:   *pt.DueDate,
				})
			}
		}
	}

	for _, item := range items {
		remaining := item.due.Sub(pass.now)
		switch {
		case remaining <= 0:
			p.reportDeadline(pass, item, KindDeadlineOverdue, SeverityHigh,
				fmt.Sprintf("%s overdue by %s", item.label, (-remaining).Round(timeUnit)))
		case remaining <= p.config.DeadlineHorizon:
			p.reportDeadline(pass, item, KindDeadlineApproaching, SeverityMedium,
				fmt.Sprintf("%s due in %s", item.label, remaining.Round(timeUnit)))
		}
	}
}

// reportDeadline emits one deadline finding keyed by classification and
// item so overdue and approaching cool down separately. Deadlines go to
// the digest only; chasing the assignee is the nudge detector's job.
func (p *Patrol) reportDeadline(pass *passState, item dueItem, kind FindingKind, sev Severity, detail string) {
	key := Key{FamilyDeadline, string(kind) + ":" + item.id}
	if p.cooldowns.InCooldown(key, pass.now) {
		return
	}

	pass.emit(Finding{Kind: kind, Severity: sev, Subject: item.id, Detail: detail})
	pass.digest.Add("Deadlines", "%s", detail)
	p.cooldowns.Record(key, pass.now)
}
