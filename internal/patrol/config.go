package patrol

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the complete patrol configuration
type Config struct {
	// CheckInterval is how often to run a detection pass
	// Default: 5 minutes
	CheckInterval time.Duration

	// WarmupDelay is how long to wait before the first pass so the rest
	// of the application finishes its own startup
	// Default: 30 seconds
	WarmupDelay time.Duration

	// StalenessThreshold is how long an in-progress item may sit without
	// an update before its assignee is nudged
	// Default: 30 minutes
	StalenessThreshold time.Duration

	// MessageStaleness is how long an outbound message or delegated
	// hand-off may sit unacknowledged before it is flagged
	// Default: 30 minutes
	MessageStaleness time.Duration

	// ApprovalStaleness is how long an approval request may sit pending
	// before it is flagged
	// Default: 30 minutes
	ApprovalStaleness time.Duration

	// InactivityThreshold is how long an actor holding unresolved work
	// may show no recorded activity before being flagged
	// Default: 2 hours
	InactivityThreshold time.Duration

	// DeadlineHorizon is how far ahead a due date counts as approaching
	// Default: 24 hours
	DeadlineHorizon time.Duration

	// ForecastHighWater is the fraction of the daily allowance at which
	// current or projected consumption triggers a warning
	// Default: 0.8, Range: 0.1-1.0
	ForecastHighWater float64

	// KPIDeltaRatio is the fraction of a KPI's target a refresh must move
	// the value by before a kpi-delta finding is emitted
	// Default: 0.10
	KPIDeltaRatio float64

	// ProgressTolerance is how far a project's cached progress may drift
	// from its task completion ratio before it is recomputed
	// Default: 0.01
	ProgressTolerance float64

	// DigestHour is the hour of day (0-23) after which the daily digest
	// may be built
	// Default: 18
	DigestHour int

	// DispatchPacing is the delay enforced between successive directive
	// dispatches within one pass
	// Default: 3 seconds
	DispatchPacing time.Duration

	// AnnouncerID attributes digest announcements when the directory
	// declares no announcer
	// Default: "patrol"
	AnnouncerID string

	// Cooldown windows per detector family
	NudgeCooldown     time.Duration // Default: 60 minutes
	DeadlineCooldown  time.Duration // Default: 24 hours
	ApprovalCooldown  time.Duration // Default: 60 minutes
	BacklogCooldown   time.Duration // Default: 60 minutes
	ActivityCooldown  time.Duration // Default: 2 hours
	KPICooldown       time.Duration // Default: 6 hours
	IntegrityCooldown time.Duration // Default: 6 hours
	ForecastCooldown  time.Duration // Default: 24 hours
}

// DefaultConfig returns the default patrol configuration
func DefaultConfig() *Config {
	return &Config{
		CheckInterval:       5 * time.Minute,
		WarmupDelay:         30 * time.Second,
		StalenessThreshold:  30 * time.Minute,
		MessageStaleness:    30 * time.Minute,
		ApprovalStaleness:   30 * time.Minute,
		InactivityThreshold: 2 * time.Hour,
		DeadlineHorizon:     24 * time.Hour,
		ForecastHighWater:   0.8,
		KPIDeltaRatio:       0.10,
		ProgressTolerance:   0.01,
		DigestHour:          18,
		DispatchPacing:      3 * time.Second,
		AnnouncerID:         "patrol",
		NudgeCooldown:       60 * time.Minute,
		DeadlineCooldown:    24 * time.Hour,
		ApprovalCooldown:    60 * time.Minute,
		BacklogCooldown:     60 * time.Minute,
		ActivityCooldown:    2 * time.Hour,
		KPICooldown:         6 * time.Hour,
		IntegrityCooldown:   6 * time.Hour,
		ForecastCooldown:    24 * time.Hour,
	}
}

// FromEnv returns the default configuration with AGENTORG_PATROL_*
// environment overrides applied
func FromEnv() (*Config, error) {
	cfg := DefaultConfig()

	durations := map[string]*time.Duration{
		"AGENTORG_PATROL_CHECK_INTERVAL":      &cfg.CheckInterval,
		"AGENTORG_PATROL_WARMUP_DELAY":        &cfg.WarmupDelay,
		"AGENTORG_PATROL_STALENESS":           &cfg.StalenessThreshold,
		"AGENTORG_PATROL_MESSAGE_STALENESS":   &cfg.MessageStaleness,
		"AGENTORG_PATROL_APPROVAL_STALENESS":  &cfg.ApprovalStaleness,
		"AGENTORG_PATROL_INACTIVITY":          &cfg.InactivityThreshold,
		"AGENTORG_PATROL_DEADLINE_HORIZON":    &cfg.DeadlineHorizon,
		"AGENTORG_PATROL_DISPATCH_PACING":     &cfg.DispatchPacing,
		"AGENTORG_PATROL_NUDGE_COOLDOWN":      &cfg.NudgeCooldown,
		"AGENTORG_PATROL_DEADLINE_COOLDOWN":   &cfg.DeadlineCooldown,
	}
	for name, target := range durations {
		if raw := os.Getenv(name); raw != "" {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %w", name, err)
			}
			*target = d
		}
	}

	if raw := os.Getenv("AGENTORG_PATROL_DIGEST_HOUR"); raw != "" {
		hour, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid AGENTORG_PATROL_DIGEST_HOUR: %w", err)
		}
		cfg.DigestHour = hour
	}
	if raw := os.Getenv("AGENTORG_PATROL_FORECAST_HIGH_WATER"); raw != "" {
		hw, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid AGENTORG_PATROL_FORECAST_HIGH_WATER: %w", err)
		}
		cfg.ForecastHighWater = hw
	}
	if raw := os.Getenv("AGENTORG_PATROL_ANNOUNCER"); raw != "" {
		cfg.AnnouncerID = raw
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if the configuration has valid values
func (c *Config) Validate() error {
	if c.CheckInterval < time.Second {
		return fmt.Errorf("check_interval must be at least 1s (got %v)", c.CheckInterval)
	}
	if c.WarmupDelay < 0 {
		return fmt.Errorf("warmup_delay cannot be negative (got %v)", c.WarmupDelay)
	}
	if c.StalenessThreshold <= 0 {
		return fmt.Errorf("staleness_threshold must be positive (got %v)", c.StalenessThreshold)
	}
	if c.DeadlineHorizon <= 0 {
		return fmt.Errorf("deadline_horizon must be positive (got %v)", c.DeadlineHorizon)
	}
	if c.ForecastHighWater < 0.1 || c.ForecastHighWater > 1.0 {
		return fmt.Errorf("forecast_high_water must be between 0.1 and 1.0 (got %g)", c.ForecastHighWater)
	}
	if c.KPIDeltaRatio <= 0 || c.KPIDeltaRatio > 1.0 {
		return fmt.Errorf("kpi_delta_ratio must be between 0 and 1.0 (got %g)", c.KPIDeltaRatio)
	}
	if c.ProgressTolerance <= 0 || c.ProgressTolerance > 0.5 {
		return fmt.Errorf("progress_tolerance must be between 0 and 0.5 (got %g)", c.ProgressTolerance)
	}
	if c.DigestHour < 0 || c.DigestHour > 23 {
		return fmt.Errorf("digest_hour must be between 0 and 23 (got %d)", c.DigestHour)
	}
	if c.DispatchPacing < 0 {
		return fmt.Errorf("dispatch_pacing cannot be negative (got %v)", c.DispatchPacing)
	}
	if c.AnnouncerID == "" {
		return fmt.Errorf("announcer_id is required")
	}
	for name, window := range c.cooldownWindows() {
		if window <= 0 {
			return fmt.Errorf("%s cooldown must be positive (got %v)", name, window)
		}
	}
	return nil
}

// cooldownWindows maps detector families to their configured windows
func (c *Config) cooldownWindows() map[Family]time.Duration {
	return map[Family]time.Duration{
		FamilyNudge:     c.NudgeCooldown,
		FamilyTodo:      c.NudgeCooldown,
		FamilyDeadline:  c.DeadlineCooldown,
		FamilyApproval:  c.ApprovalCooldown,
		FamilyBacklog:   c.BacklogCooldown,
		FamilyActivity:  c.ActivityCooldown,
		FamilyKPI:       c.KPICooldown,
		FamilyIntegrity: c.IntegrityCooldown,
		FamilyForecast:  c.ForecastCooldown,
	}
}
