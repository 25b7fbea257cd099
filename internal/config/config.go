package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"agentorg/internal/ledger"
	"agentorg/internal/patrol"
	"agentorg/internal/storage"
)

// Config is the application-level configuration assembled by the CLI:
// a YAML file (lowest precedence), then AGENTORG_* environment
// variables, then explicit flags handled by the commands themselves.
type Config struct {
	// Storage holds the SQLite database location
	Storage storage.Config

	// RosterPath is the actor roster YAML seeded into the directory
	// Default: ".agentorg/roster.yaml"
	RosterPath string

	// Allowance holds the organization's daily resource limits
	Allowance ledger.Allowance

	// MemoryPath persists the long-term memory store; empty disables the
	// memory subsystem
	MemoryPath string

	// AnthropicAPIKey and OpenAIAPIKey enable the respective provider
	// probes; a provider without a key is simply not registered
	AnthropicAPIKey string
	OpenAIAPIKey    string

	// Patrol holds the engine configuration
	Patrol *patrol.Config
}

// Load assembles the configuration. The file at path is optional; a
// missing file falls back to defaults plus environment overrides. An
// empty path searches for .agentorg.yaml in the working directory.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("storage.path", storage.DefaultConfig().Path)
	v.SetDefault("roster", ".agentorg/roster.yaml")
	v.SetDefault("allowance.daily_tokens", ledger.DefaultAllowance().DailyTokens)
	v.SetDefault("memory.path", "")

	v.SetEnvPrefix("AGENTORG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else {
		v.SetConfigName(".agentorg")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return nil, fmt.Errorf("config: %w", err)
			}
		}
	}

	patrolCfg, err := patrol.FromEnv()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Storage:         storage.Config{Path: v.GetString("storage.path")},
		RosterPath:      v.GetString("roster"),
		Allowance:       ledger.Allowance{DailyTokens: v.GetInt64("allowance.daily_tokens")},
		MemoryPath:      v.GetString("memory.path"),
		AnthropicAPIKey: v.GetString("anthropic_api_key"),
		OpenAIAPIKey:    v.GetString("openai_api_key"),
		Patrol:          patrolCfg,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if the configuration has valid values
func (c *Config) Validate() error {
	if c.Storage.Path == "" {
		return fmt.Errorf("config: storage path is required")
	}
	if err := c.Allowance.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Patrol == nil {
		return fmt.Errorf("config: patrol config is required")
	}
	return c.Patrol.Validate()
}
