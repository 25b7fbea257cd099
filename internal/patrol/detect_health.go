package patrol

import (
	"context"
	"fmt"
	"time"
)

// detectProviderHealth probes every configured LLM provider and reports
// availability transitions only. A provider that stays down makes noise
// once, not every pass; providers never seen before are assumed to have
// been available.
func (p *Patrol) detectProviderHealth(ctx context.Context, pass *passState) {
	if p.deps.Prober == nil {
		return
	}

	for _, result := range p.deps.Prober.ProbeAll(ctx) {
		p.mu.Lock()
		prev, seen := p.healthStatus[result.Provider]
		if !seen {
			prev = true
		}
		p.healthStatus[result.Provider] = result.Available
		p.mu.Unlock()

		if result.Available == prev {
			continue
		}

		var detail string
		sev := SeverityLow
		if result.Available {
			detail = fmt.Sprintf("provider %s recovered (probe %s)", result.Provider, result.Latency.Round(time.Millisecond))
		} else {
			sev = SeverityHigh
			detail = fmt.Sprintf("provider %s became unavailable: %v", result.Provider, result.Err)
		}
		pass.emit(Finding{Kind: KindHealthChange, Severity: sev, Subject: result.Provider, Detail: detail})
		pass.digest.Add("Provider health", "%s", detail)
	}
}
