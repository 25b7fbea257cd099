package patrol

import (
	"context"
	"fmt"
	"strings"

	"agentorg/internal/types"
)

// buildDailyDigest announces an end-of-day summary of the organization:
// open and completed work, project progress, pending approvals, and
// resource spend. Built once per calendar day on the first pass at or
// after the configured hour; the date marker lives in memory, so a
// restart during the evening may repeat it once.
func (p *Patrol) buildDailyDigest(ctx context.Context, pass *passState) {
	if p.deps.Notifier == nil {
		return
	}
	if pass.now.Hour() < p.config.DigestHour {
		return
	}

	today := dayKey(pass.now)
	p.mu.Lock()
	already := p.lastDigestDay == today
	p.mu.Unlock()
	if already {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Daily digest for %s\n", today)

	open, err := p.deps.Tasks.ListTasks(ctx, types.TaskFilter{ActiveOnly: true})
	if err != nil {
		fmt.Printf("Patrol: daily digest: failed to list open tasks: %v\n", err)
		return
	}
	done := types.StatusDone
	completed, err := p.deps.Tasks.ListTasks(ctx, types.TaskFilter{Status: &done})
	if err != nil {
		fmt.Printf("Patrol: daily digest: failed to list completed tasks: %v\n", err)
		return
	}
	completedToday := 0
	for _, t := range completed {
		if !t.UpdatedAt.Before(dayStart(pass.now)) {
			completedToday++
		}
	}
	fmt.Fprintf(&b, "- Work: %d open, %d completed today\n", len(open), completedToday)

	if p.deps.Projects != nil {
		projects, err := p.deps.Projects.ListActiveProjects(ctx)
		if err == nil && len(projects) > 0 {
			var sum float64
			for _, project := range projects {
				sum += project.Progress
			}
			fmt.Fprintf(&b, "- Projects: %d active, average progress %.0f%%\n",
				len(projects), sum/float64(len(projects))*100)
		}
	}

	if p.deps.Directory != nil {
		active := 0
		total := 0
		for _, actor := range p.deps.Directory.List() {
			total++
			if actor.IsActive() {
				active++
			}
		}
		fmt.Fprintf(&b, "- Headcount: %d active of %d\n", active, total)
	}

	if p.deps.Approvals != nil {
		if pending, err := p.deps.Approvals.ListPendingApprovals(ctx); err == nil && len(pending) > 0 {
			fmt.Fprintf(&b, "- Approvals: %d pending\n", len(pending))
		}
	}

	if p.deps.Usage != nil {
		usage := p.deps.Usage.TotalSince(dayStart(pass.now))
		fmt.Fprintf(&b, "- Resources: %d tokens ($%.2f) across %d calls, allowance %d\n",
			usage.Tokens, usage.CostUSD, usage.Calls, p.deps.Usage.Allowance().DailyTokens)
	}

	ann := &types.Announcement{AnnouncerID: p.announcerID(), Body: b.String()}
	if err := p.deps.Notifier.Announce(ctx, ann); err != nil {
		fmt.Printf("Patrol: daily digest: failed to announce: %v\n", err)
		return
	}

	p.mu.Lock()
	p.lastDigestDay = today
	p.mu.Unlock()
	pass.report.DailyDigest = true
}
