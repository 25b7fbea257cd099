package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndSummarize(t *testing.T) {
	l, err := New(DefaultAllowance())
	require.NoError(t, err)

	now := time.Now().UTC()
	l.Record("actor-1", 1000, 0.01, now.Add(-2*time.Hour))
	l.Record("actor-1", 2000, 0.02, now.Add(-30*time.Minute))
	l.Record("actor-2", 500, 0.005, now.Add(-10*time.Minute))

	sum := l.ActorSummary("actor-1", now.Add(-time.Hour))
	assert.Equal(t, int64(2000), sum.Tokens)
	assert.Equal(t, 1, sum.Calls)

	total := l.TotalSince(now.Add(-3 * time.Hour))
	assert.Equal(t, int64(3500), total.Tokens)
	assert.Equal(t, 3, total.Calls)
	assert.InDelta(t, 0.035, total.CostUSD, 1e-9)
}

func TestLastUsedAt(t *testing.T) {
	l, err := New(DefaultAllowance())
	require.NoError(t, err)
	now := time.Now().UTC()

	assert.True(t, l.LastUsedAt("actor-1").IsZero(), "unknown actor should have zero last-used time")

	l.Record("actor-1", 100, 0, now.Add(-time.Hour))
	l.Record("actor-1", 100, 0, now.Add(-5*time.Minute))
	l.Record("actor-1", 100, 0, now.Add(-30*time.Minute))

	assert.True(t, l.LastUsedAt("actor-1").Equal(now.Add(-5*time.Minute)))
}

func TestRetentionPruning(t *testing.T) {
	l, err := New(DefaultAllowance())
	require.NoError(t, err)
	now := time.Now().UTC()

	l.Record("actor-1", 100, 0, now.Add(-72*time.Hour))
	l.Record("actor-1", 200, 0, now)

	total := l.TotalSince(now.Add(-96 * time.Hour))
	assert.Equal(t, int64(200), total.Tokens, "72h-old record should be pruned")
}

func TestAllowanceValidate(t *testing.T) {
	assert.Error(t, Allowance{DailyTokens: 0}.Validate())

	_, err := New(Allowance{DailyTokens: -1})
	assert.Error(t, err)
}
