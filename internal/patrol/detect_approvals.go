package patrol

import (
	"context"
	"fmt"
)

// detectApprovals flags hiring/budget/promotion requests that have sat
// pending past the staleness window. The patrol never decides approvals;
// it only keeps them from being forgotten.
func (p *Patrol) detectApprovals(ctx context.Context, pass *passState) {
	if p.deps.Approvals == nil {
		return
	}

	pending, err := p.deps.Approvals.ListPendingApprovals(ctx)
	if err != nil {
		fmt.Printf("Patrol: approvals: failed to list pending requests: %v\n", err)
		return
	}

	for _, req := range pending {
		age := pass.now.Sub(req.CreatedAt)
		if age < p.config.ApprovalStaleness {
			continue
		}
		key := Key{FamilyApproval, req.ID}
		if p.cooldowns.InCooldown(key, pass.now) {
			continue
		}
		detail := fmt.Sprintf("%s request %q from %s pending for %s",
			req.Kind, req.Subject, req.RequesterID, age.Round(timeUnit))
		pass.emit(Finding{Kind: KindApprovalStale, Severity: SeverityMedium, Subject: req.ID, Detail: detail})
		pass.digest.Add("Approvals", "%s", detail)
		p.cooldowns.Record(key, pass.now)
	}
}
