package patrol

import (
	"context"
	"fmt"
	"time"

	"agentorg/internal/types"
)

// timeUnit rounds idle durations for display
const timeUnit = time.Minute

// detectStaleWork nudges assignees whose in-progress work has not been
// touched within the staleness threshold. Covers both operational tasks
// and delegated hand-offs; each gets a directive message (when comms are
// configured) plus a digest line, at most once per cooldown window.
func (p *Patrol) detectStaleWork(ctx context.Context, pass *passState) {
	status := types.StatusInProgress

	tasks, err := p.deps.Tasks.ListTasks(ctx, types.TaskFilter{Status: &status})
	if err != nil {
		fmt.Printf("Patrol: failed to list in-progress tasks: %v\n", err)
		return
	}
	for _, task := range tasks {
		if pass.now.Sub(task.UpdatedAt) < p.config.StalenessThreshold {
			continue
		}
		p.nudge(ctx, pass, Key{FamilyNudge, "task:" + task.ID}, task.AssigneeID,
			fmt.Sprintf("task %q (%s) idle for %s", task.Title, task.ID,
				pass.now.Sub(task.UpdatedAt).Round(timeUnit)))
	}

	if p.deps.Comms == nil {
		return
	}
	delegations, err := p.deps.Comms.ListDelegations(ctx, types.DelegationFilter{Status: &status})
	if err != nil {
		fmt.Printf("Patrol: failed to list in-progress delegations: %v\n", err)
		return
	}
	for _, del := range delegations {
		if pass.now.Sub(del.UpdatedAt) < p.config.StalenessThreshold {
			continue
		}
		p.nudge(ctx, pass, Key{FamilyNudge, "delegation:" + del.ID}, del.ToActorID,
			fmt.Sprintf("delegation %q (%s) idle for %s", del.Title, del.ID,
				pass.now.Sub(del.UpdatedAt).Round(timeUnit)))
	}
}

// detectTodoStaleness flags todo items that have sat unstarted past the
// staleness threshold. Unassigned items only get a digest line; assigned
// ones also nudge the assignee.
func (p *Patrol) detectTodoStaleness(ctx context.Context, pass *passState) {
	status := types.StatusTodo
	tasks, err := p.deps.Tasks.ListTasks(ctx, types.TaskFilter{Status: &status})
	if err != nil {
		fmt.Printf("Patrol: failed to list todo tasks: %v\n", err)
		return
	}

	for _, task := range tasks {
		if pass.now.Sub(task.UpdatedAt) < p.config.StalenessThreshold {
			continue
		}
		p.nudge(ctx, pass, Key{FamilyTodo, task.ID}, task.AssigneeID,
			fmt.Sprintf("task %q (%s) still todo after %s", task.Title, task.ID,
				pass.now.Sub(task.UpdatedAt).Round(timeUnit)))
	}
}

// nudge emits one nudge finding unless the subject is in cooldown. The
// directive goes to the actor only when one is set and still active; the
// digest line is written either way.
func (p *Patrol) nudge(ctx context.Context, pass *passState, key Key, actorID, detail string) {
	if p.cooldowns.InCooldown(key, pass.now) {
		return
	}

	pass.emit(Finding{Kind: KindNudge, Severity: SeverityLow, Subject: key.Subject, Detail: detail})
	pass.digest.Add("Work nudges", "%s", detail)

	if actorID != "" && p.actorActive(actorID) && p.deps.Comms != nil {
		body := "Reminder: " + detail + ". Please update its status or flag a blocker."
		if err := p.dispatcher.Dispatch(ctx, actorID, body); err != nil {
			fmt.Printf("Patrol: nudge dispatch to %s failed: %v\n", actorID, err)
		}
	}
	p.cooldowns.Record(key, pass.now)
}
