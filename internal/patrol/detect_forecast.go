package patrol

import (
	"context"
	"fmt"
	"time"
)

// dayStart truncates t to midnight UTC
func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// dayKey formats t's calendar day for keying once-per-day state
func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// detectResourceForecast extrapolates today's token consumption to a full
// day and warns when either the spend so far or the projection crosses
// the high-water fraction of the daily allowance. The warning is keyed by
// calendar day, so one burn-rate problem yields one warning per day no
// matter how many passes observe it.
func (p *Patrol) detectResourceForecast(ctx context.Context, pass *passState) {
	if p.deps.Usage == nil {
		return
	}

	allowance := p.deps.Usage.Allowance()
	if allowance.DailyTokens <= 0 {
		return
	}

	start := dayStart(pass.now)
	elapsed := pass.now.Sub(start).Hours()
	if elapsed < 0.25 {
		// Too early in the day for a meaningful extrapolation
		return
	}

	consumed := p.deps.Usage.TotalSince(start).Tokens
	ratePerHour := float64(consumed) / elapsed
	projected := ratePerHour * 24

	highWater := p.config.ForecastHighWater * float64(allowance.DailyTokens)
	if float64(consumed) < highWater && projected < highWater {
		return
	}

	key := Key{FamilyForecast, dayKey(pass.now)}
	if p.cooldowns.InCooldown(key, pass.now) {
		return
	}

	detail := fmt.Sprintf("consumed %d tokens in %.1fh (%.0f/h); projected %.0f of %d daily allowance",
		consumed, elapsed, ratePerHour, projected, allowance.DailyTokens)
	sev := SeverityMedium
	if float64(consumed) >= float64(allowance.DailyTokens) {
		sev = SeverityHigh
	}
	pass.emit(Finding{Kind: KindResourceForecast, Severity: sev, Subject: dayKey(pass.now), Detail: detail})
	pass.digest.Add("Resource forecast", "%s", detail)
	p.cooldowns.Record(key, pass.now)
}
