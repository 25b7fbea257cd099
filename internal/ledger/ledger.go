package ledger

import (
	"fmt"
	"sync"
	"time"
)

// UsageRecord is a single unit of resource consumption attributed to an
// actor (one LLM call, typically).
type UsageRecord struct {
	ActorID string    `json:"actor_id"`
	Tokens  int64     `json:"tokens"`
	CostUSD float64   `json:"cost_usd"`
	At      time.Time `json:"at"`
}

// Summary aggregates usage over a window
type Summary struct {
	Tokens  int64
	CostUSD float64
	Calls   int
}

// Allowance holds the configured resource limits
type Allowance struct {
	// DailyTokens is the organization-wide token allowance per calendar day
	// Default: 1_000_000
	DailyTokens int64
}

// DefaultAllowance returns the default resource allowance
func DefaultAllowance() Allowance {
	return Allowance{DailyTokens: 1_000_000}
}

// Validate checks if the allowance has valid values
func (a Allowance) Validate() error {
	if a.DailyTokens <= 0 {
		return fmt.Errorf("daily_tokens must be positive (got %d)", a.DailyTokens)
	}
	return nil
}

// Ledger tracks per-actor and aggregate resource usage in memory.
// Entries older than the retention horizon are dropped on record to bound
// memory; summaries are therefore only meaningful within that horizon.
type Ledger struct {
	mu        sync.RWMutex
	records   []UsageRecord
	allowance Allowance
	retention time.Duration
}

// New creates a ledger with the given allowance. Records are retained for
// 48 hours, enough for daily forecasting and the 2-hour activity window.
func New(allowance Allowance) (*Ledger, error) {
	if err := allowance.Validate(); err != nil {
		return nil, fmt.Errorf("invalid allowance: %w", err)
	}
	return &Ledger{
		allowance: allowance,
		retention: 48 * time.Hour,
	}, nil
}

// Allowance returns the configured resource limits
func (l *Ledger) Allowance() Allowance {
	return l.allowance
}

// Record appends a usage record
func (l *Ledger) Record(actorID string, tokens int64, costUSD float64, at time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, UsageRecord{
		ActorID: actorID,
		Tokens:  tokens,
		CostUSD: costUSD,
		At:      at,
	})
	l.pruneLocked(at)
}

// ActorSummary aggregates an actor's usage within [since, now]
func (l *Ledger) ActorSummary(actorID string, since time.Time) Summary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var sum Summary
	for _, r := range l.records {
		if r.ActorID == actorID && !r.At.Before(since) {
			sum.Tokens += r.Tokens
			sum.CostUSD += r.CostUSD
			sum.Calls++
		}
	}
	return sum
}

// TotalSince aggregates all usage within [since, now]
func (l *Ledger) TotalSince(since time.Time) Summary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var sum Summary
	for _, r := range l.records {
		if !r.At.Before(since) {
			sum.Tokens += r.Tokens
			sum.CostUSD += r.CostUSD
			sum.Calls++
		}
	}
	return sum
}

// LastUsedAt returns the timestamp of an actor's most recent usage record,
// or the zero time if the actor has no recorded usage.
func (l *Ledger) LastUsedAt(actorID string) time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var last time.Time
	for _, r := range l.records {
		if r.ActorID == actorID && r.At.After(last) {
			last = r.At
		}
	}
	return last
}

// pruneLocked drops records older than the retention horizon.
// Caller must hold the write lock.
func (l *Ledger) pruneLocked(now time.Time) {
	cutoff := now.Add(-l.retention)
	kept := l.records[:0]
	for _, r := range l.records {
		if !r.At.Before(cutoff) {
			kept = append(kept, r)
		}
	}
	l.records = kept
}
