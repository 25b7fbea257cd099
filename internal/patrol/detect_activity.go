package patrol

import (
	"context"
	"fmt"
	"time"

	"agentorg/internal/types"
)

// detectActivity flags active actors who hold unresolved work but show
// no sign of life within the inactivity threshold. Activity evidence is
// either recorded resource usage or a delegated task the actor started.
// An actor with nothing assigned is allowed to be quiet.
func (p *Patrol) detectActivity(ctx context.Context, pass *passState) {
	if p.deps.Usage == nil || p.deps.Directory == nil {
		return
	}

	open, err := p.deps.Tasks.ListTasks(ctx, types.TaskFilter{ActiveOnly: true})
	if err != nil {
		fmt.Printf("Patrol: activity: failed to list open tasks: %v\n", err)
		return
	}
	workload := make(map[string]int)
	started := make(map[string]time.Time)
	for _, task := range open {
		if task.AssigneeID != "" {
			workload[task.AssigneeID]++
		}
	}
	if p.deps.Comms != nil {
		delegations, err := p.deps.Comms.ListDelegations(ctx, types.DelegationFilter{ActiveOnly: true})
		if err != nil {
			fmt.Printf("Patrol: activity: failed to list delegations: %v\n", err)
			return
		}
		for _, del := range delegations {
			workload[del.ToActorID]++
			if del.StartedAt != nil && del.StartedAt.After(started[del.ToActorID]) {
				started[del.ToActorID] = *del.StartedAt
			}
		}
	}

	for _, actor := range p.deps.Directory.List() {
		if !actor.IsActive() || workload[actor.ID] == 0 {
			continue
		}

		last := p.deps.Usage.LastUsedAt(actor.ID)
		if s := started[actor.ID]; s.After(last) {
			last = s
		}
		if !last.IsZero() && pass.now.Sub(last) < p.config.InactivityThreshold {
			continue
		}

		key := Key{FamilyActivity, actor.ID}
		if p.cooldowns.InCooldown(key, pass.now) {
			continue
		}

		var detail string
		if last.IsZero() {
			detail = fmt.Sprintf("%s holds %d open item(s) but has no recorded activity",
				actor.Name, workload[actor.ID])
		} else {
			detail = fmt.Sprintf("%s holds %d open item(s) but has been idle for %s",
				actor.Name, workload[actor.ID], pass.now.Sub(last).Round(timeUnit))
		}
		pass.emit(Finding{Kind: KindInactiveActor, Severity: SeverityLow, Subject: actor.ID, Detail: detail})
		pass.digest.Add("Activity", "%s", detail)

		if p.deps.Comms != nil {
			body := fmt.Sprintf("Check-in: you hold %d open item(s) with no recent activity. Please resume or hand the work off.", workload[actor.ID])
			if err := p.dispatcher.Dispatch(ctx, actor.ID, body); err != nil {
				fmt.Printf("Patrol: activity dispatch to %s failed: %v\n", actor.ID, err)
			}
		}
		p.cooldowns.Record(key, pass.now)
	}
}
