package patrol

import (
	"context"
	"fmt"
	"math"

	"agentorg/internal/types"
)

// detectKPIRefresh recomputes every KPI that declares a metric source and
// writes back the fresh value. A kpi-delta finding is emitted only when
// the refresh moves the value by more than the configured fraction of the
// KPI's target; hand-managed KPIs (empty source) are never touched.
func (p *Patrol) detectKPIRefresh(ctx context.Context, pass *passState) {
	kpis, err := p.deps.Tasks.ListKPIs(ctx)
	if err != nil {
		fmt.Printf("Patrol: KPI refresh: failed to list KPIs: %v\n", err)
		return
	}

	for _, kpi := range kpis {
		if kpi.MetricSource == "" {
			continue
		}

		value, ok := p.metricValue(ctx, pass, kpi.MetricSource)
		if !ok {
			continue
		}
		// Take the old value before the write-back: the store may hand
		// out live records, and the delta must compare against what the
		// KPI read before this refresh.
		prev := kpi.Value
		if value == prev {
			continue
		}

		if err := p.deps.Tasks.UpdateKPIValue(ctx, kpi.ID, value); err != nil {
			fmt.Printf("Patrol: KPI refresh: failed to update %s: %v\n", kpi.ID, err)
			continue
		}

		if kpi.Target <= 0 {
			continue
		}
		if math.Abs(value-prev) <= p.config.KPIDeltaRatio*kpi.Target {
			continue
		}

		key := Key{FamilyKPI, kpi.ID}
		if p.cooldowns.InCooldown(key, pass.now) {
			continue
		}
		detail := fmt.Sprintf("KPI %q moved %.2f → %.2f (target %.2f)", kpi.Name, prev, value, kpi.Target)
		pass.emit(Finding{Kind: KindKPIDelta, Severity: SeverityMedium, Subject: kpi.ID, Detail: detail})
		pass.digest.Add("KPIs", "%s", detail)
		p.cooldowns.Record(key, pass.now)
	}
}

// metricValue computes the current value for a metric source. Sources
// whose backing collaborator is absent report not-ok and are skipped.
func (p *Patrol) metricValue(ctx context.Context, pass *passState, source string) (float64, bool) {
	switch source {
	case types.MetricTasksCompleted:
		status := types.StatusDone
		done, err := p.deps.Tasks.ListTasks(ctx, types.TaskFilter{Status: &status})
		if err != nil {
			fmt.Printf("Patrol: KPI refresh: failed to count completed tasks: %v\n", err)
			return 0, false
		}
		return float64(len(done)), true

	case types.MetricResourceSpend:
		if p.deps.Usage == nil {
			return 0, false
		}
		return p.deps.Usage.TotalSince(dayStart(pass.now)).CostUSD, true

	case types.MetricHeadcount:
		if p.deps.Directory == nil {
			return 0, false
		}
		count := 0
		for _, actor := range p.deps.Directory.List() {
			if actor.IsActive() {
				count++
			}
		}
		return float64(count), true
	}

	fmt.Printf("Patrol: KPI refresh: unknown metric source %q\n", source)
	return 0, false
}
