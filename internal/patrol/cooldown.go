package patrol

import (
	"sync"
	"time"
)

// Family namespaces cooldown keys per detector so unrelated detectors
// never collide on the same subject.
type Family string

const (
	FamilyNudge     Family = "nudge"
	FamilyTodo      Family = "todo"
	FamilyDeadline  Family = "deadline"
	FamilyKPI       Family = "kpi"
	FamilyBacklog   Family = "backlog"
	FamilyApproval  Family = "approval"
	FamilyActivity  Family = "activity"
	FamilyIntegrity Family = "integrity"
	FamilyForecast  Family = "forecast"
)

// Key identifies "what was alerted about whom" for one detector family.
// A typed key rather than a formatted string keeps key spaces disjoint by
// construction.
type Key struct {
	Family  Family
	Subject string
}

// CooldownLedger is a keyed last-triggered-time table. Entries live in
// process memory only and reset on restart; across restarts notification
// is therefore at-least-once, occasionally more eager.
type CooldownLedger struct {
	mu      sync.Mutex
	entries map[Key]time.Time
	windows map[Family]time.Duration
}

// NewCooldownLedger creates a ledger with per-family windows
func NewCooldownLedger(windows map[Family]time.Duration) *CooldownLedger {
	w := make(map[Family]time.Duration, len(windows))
	for family, window := range windows {
		w[family] = window
	}
	return &CooldownLedger{
		entries: make(map[Key]time.Time),
		windows: w,
	}
}

// Window returns the cooldown window for a family. Families without a
// configured window get an hour.
func (l *CooldownLedger) Window(family Family) time.Duration {
	if w, ok := l.windows[family]; ok {
		return w
	}
	return time.Hour
}

// InCooldown reports whether the key fired within its family window.
// A key fires again on the first pass at or after lastTriggered+window.
func (l *CooldownLedger) InCooldown(key Key, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	last, ok := l.entries[key]
	if !ok {
		return false
	}
	return now.Sub(last) < l.Window(key.Family)
}

// Record marks the key as triggered at now
func (l *CooldownLedger) Record(key Key, now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[key] = now
}

// Prune removes entries older than twice their family window to bound
// memory. Called at the end of each pass.
func (l *CooldownLedger) Prune(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, last := range l.entries {
		if now.Sub(last) >= 2*l.Window(key.Family) {
			delete(l.entries, key)
		}
	}
}

// Reset drops every entry. Used by Reinitialize.
func (l *CooldownLedger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make(map[Key]time.Time)
}

// Len returns the number of live entries
func (l *CooldownLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
