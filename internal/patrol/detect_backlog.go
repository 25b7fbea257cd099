package patrol

import (
	"context"
	"fmt"

	"agentorg/internal/types"
)

// detectBacklog flags communication that nobody has picked up: messages
// unacknowledged past the staleness window and delegated hand-offs the
// recipient never acknowledged. Digest-only; the point is visibility, not
// another unread message.
func (p *Patrol) detectBacklog(ctx context.Context, pass *passState) {
	if p.deps.Comms == nil {
		return
	}

	cutoff := pass.now.Add(-p.config.MessageStaleness)

	messages, err := p.deps.Comms.ListUnacknowledgedMessages(ctx, cutoff)
	if err != nil {
		fmt.Printf("Patrol: backlog: failed to list messages: %v\n", err)
		return
	}
	for _, msg := range messages {
		key := Key{FamilyBacklog, "message:" + msg.ID}
		if p.cooldowns.InCooldown(key, pass.now) {
			continue
		}
		detail := fmt.Sprintf("message from %s to %s unread for %s",
			msg.FromID, msg.ToID, pass.now.Sub(msg.CreatedAt).Round(timeUnit))
		pass.emit(Finding{Kind: KindBacklog, Severity: SeverityLow, Subject: msg.ID, Detail: detail})
		pass.digest.Add("Backlog", "%s", detail)
		p.cooldowns.Record(key, pass.now)
	}

	delegations, err := p.deps.Comms.ListDelegations(ctx, types.DelegationFilter{
		ActiveOnly:         true,
		UnacknowledgedOnly: true,
	})
	if err != nil {
		fmt.Printf("Patrol: backlog: failed to list delegations: %v\n", err)
		return
	}
	for _, del := range delegations {
		if del.CreatedAt.After(cutoff) {
			continue
		}
		key := Key{FamilyBacklog, "delegation:" + del.ID}
		if p.cooldowns.InCooldown(key, pass.now) {
			continue
		}
		detail := fmt.Sprintf("delegation %q to %s unacknowledged for %s",
			del.Title, del.ToActorID, pass.now.Sub(del.CreatedAt).Round(timeUnit))
		pass.emit(Finding{Kind: KindBacklog, Severity: SeverityLow, Subject: del.ID, Detail: detail})
		pass.digest.Add("Backlog", "%s", detail)
		p.cooldowns.Record(key, pass.now)
	}
}
