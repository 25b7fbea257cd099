package patrol

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"check interval too short", func(c *Config) { c.CheckInterval = 500 * time.Millisecond }, "check_interval"},
		{"negative warmup", func(c *Config) { c.WarmupDelay = -time.Second }, "warmup_delay"},
		{"zero staleness", func(c *Config) { c.StalenessThreshold = 0 }, "staleness_threshold"},
		{"zero horizon", func(c *Config) { c.DeadlineHorizon = 0 }, "deadline_horizon"},
		{"high water too low", func(c *Config) { c.ForecastHighWater = 0.05 }, "forecast_high_water"},
		{"high water too high", func(c *Config) { c.ForecastHighWater = 1.5 }, "forecast_high_water"},
		{"zero delta ratio", func(c *Config) { c.KPIDeltaRatio = 0 }, "kpi_delta_ratio"},
		{"huge tolerance", func(c *Config) { c.ProgressTolerance = 0.9 }, "progress_tolerance"},
		{"digest hour out of range", func(c *Config) { c.DigestHour = 24 }, "digest_hour"},
		{"negative pacing", func(c *Config) { c.DispatchPacing = -time.Second }, "dispatch_pacing"},
		{"empty announcer", func(c *Config) { c.AnnouncerID = "" }, "announcer_id"},
		{"zero cooldown", func(c *Config) { c.NudgeCooldown = 0 }, "cooldown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("AGENTORG_PATROL_CHECK_INTERVAL", "2m")
	t.Setenv("AGENTORG_PATROL_DIGEST_HOUR", "20")
	t.Setenv("AGENTORG_PATROL_FORECAST_HIGH_WATER", "0.9")
	t.Setenv("AGENTORG_PATROL_ANNOUNCER", "herald")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error: %v", err)
	}
	if cfg.CheckInterval != 2*time.Minute {
		t.Errorf("CheckInterval = %v, want 2m", cfg.CheckInterval)
	}
	if cfg.DigestHour != 20 {
		t.Errorf("DigestHour = %d, want 20", cfg.DigestHour)
	}
	if cfg.ForecastHighWater != 0.9 {
		t.Errorf("ForecastHighWater = %g, want 0.9", cfg.ForecastHighWater)
	}
	if cfg.AnnouncerID != "herald" {
		t.Errorf("AnnouncerID = %q, want herald", cfg.AnnouncerID)
	}
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	t.Setenv("AGENTORG_PATROL_CHECK_INTERVAL", "not-a-duration")
	if _, err := FromEnv(); err == nil {
		t.Fatal("expected error for malformed duration")
	}
}

func TestFromEnvRejectsInvalidResult(t *testing.T) {
	t.Setenv("AGENTORG_PATROL_DIGEST_HOUR", "99")
	if _, err := FromEnv(); err == nil {
		t.Fatal("expected validation error for out-of-range digest hour")
	}
}
