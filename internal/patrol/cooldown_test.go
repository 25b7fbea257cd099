package patrol

import (
	"testing"
	"time"
)

func TestCooldownWindowBoundary(t *testing.T) {
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	l := NewCooldownLedger(map[Family]time.Duration{FamilyNudge: time.Hour})
	key := Key{FamilyNudge, "t1"}

	if l.InCooldown(key, base) {
		t.Fatal("unseen key reported in cooldown")
	}
	l.Record(key, base)

	tests := []struct {
		offset time.Duration
		want   bool
	}{
		{0, true},
		{59 * time.Minute, true},
		{time.Hour - time.Nanosecond, true},
		{time.Hour, false}, // Fires again exactly at the window boundary
		{2 * time.Hour, false},
	}
	for _, tt := range tests {
		if got := l.InCooldown(key, base.Add(tt.offset)); got != tt.want {
			t.Errorf("InCooldown at +%v = %v, want %v", tt.offset, got, tt.want)
		}
	}
}

func TestCooldownFamiliesAreDisjoint(t *testing.T) {
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	l := NewCooldownLedger(map[Family]time.Duration{
		FamilyNudge:    time.Hour,
		FamilyDeadline: 24 * time.Hour,
	})

	l.Record(Key{FamilyNudge, "same-subject"}, base)
	if l.InCooldown(Key{FamilyDeadline, "same-subject"}, base) {
		t.Fatal("cooldown leaked across families sharing a subject")
	}
}

func TestCooldownDefaultWindow(t *testing.T) {
	l := NewCooldownLedger(nil)
	if got := l.Window(FamilyKPI); got != time.Hour {
		t.Fatalf("expected 1h default window, got %v", got)
	}
}

func TestCooldownPruneBoundsMemory(t *testing.T) {
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	l := NewCooldownLedger(map[Family]time.Duration{FamilyNudge: time.Hour})

	l.Record(Key{FamilyNudge, "old"}, base)
	l.Record(Key{FamilyNudge, "recent"}, base.Add(90*time.Minute))

	// "old" is two windows stale, "recent" is not
	l.Prune(base.Add(2 * time.Hour))
	if l.Len() != 1 {
		t.Fatalf("expected 1 surviving entry, got %d", l.Len())
	}
	if l.InCooldown(Key{FamilyNudge, "old"}, base.Add(2*time.Hour)) {
		t.Fatal("pruned entry still in cooldown")
	}
}

func TestCooldownReset(t *testing.T) {
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	l := NewCooldownLedger(map[Family]time.Duration{FamilyNudge: time.Hour})
	l.Record(Key{FamilyNudge, "t1"}, base)
	l.Reset()
	if l.Len() != 0 {
		t.Fatalf("expected empty ledger after reset, got %d entries", l.Len())
	}
}
