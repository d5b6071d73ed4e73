// Package config loads the journal's configuration from a YAML or JSON
// file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete application configuration.
type Config struct {
	Account AccountConfig `json:"account" yaml:"account"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Pricing PricingConfig `json:"pricing" yaml:"pricing"`
	Upload  UploadConfig  `json:"upload" yaml:"upload"`
	Signals SignalsConfig `json:"signals" yaml:"signals"`
	Risk    RiskConfig    `json:"risk" yaml:"risk"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// AccountConfig identifies the journal owner. Balance feeds the risk check;
// zero disables the risk-of-equity warning.
type AccountConfig struct {
	ID       string  `json:"id" yaml:"id"`
	Currency string  `json:"currency" yaml:"currency"`
	Balance  float64 `json:"balance" yaml:"balance"`
}

// JournalConfig locates the SQLite database.
type JournalConfig struct {
	DBPath string `json:"db_path" yaml:"db_path"`
}

// PricingConfig configures the live-price feed.
type PricingConfig struct {
	BaseURL      string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Token        string `json:"token,omitempty" yaml:"token,omitempty"`
	StreamURL    string `json:"stream_url,omitempty" yaml:"stream_url,omitempty"`
	MaxAttempts  int    `json:"max_attempts,omitempty" yaml:"max_attempts,omitempty"`
	PollInterval string `json:"poll_interval,omitempty" yaml:"poll_interval,omitempty"` // e.g. "10s"
}

// ParsePollInterval converts the poll interval to a duration; empty means
// the poller default.
func (p PricingConfig) ParsePollInterval() (time.Duration, error) {
	if p.PollInterval == "" {
		return 0, nil
	}
	return time.ParseDuration(p.PollInterval)
}

// UploadConfig configures the screenshot host.
type UploadConfig struct {
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Preset   string `json:"preset,omitempty" yaml:"preset,omitempty"`
}

// SignalsConfig configures the broadcast advisory feed.
type SignalsConfig struct {
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// RiskConfig holds the discipline limits trades are checked against.
type RiskConfig struct {
	MaxRiskPct  float64 `json:"max_risk_pct" yaml:"max_risk_pct"`
	MinRR       float64 `json:"min_rr" yaml:"min_rr"`
	MaxLeverage float64 `json:"max_leverage" yaml:"max_leverage"`
}

// LoggingConfig sets the log level.
type LoggingConfig struct {
	Level string `json:"level" yaml:"level"`
}

// LoadFromFile loads configuration from a file, trying YAML first and
// falling back to JSON.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile writes the configuration, choosing the format by extension.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	if c.Account.ID == "" {
		return fmt.Errorf("account.id is required")
	}
	if c.Account.Balance < 0 {
		return fmt.Errorf("account.balance must not be negative")
	}
	if c.Journal.DBPath == "" {
		return fmt.Errorf("journal.db_path is required")
	}
	if c.Risk.MaxRiskPct < 0 || c.Risk.MaxRiskPct > 1 {
		return fmt.Errorf("risk.max_risk_pct must be between 0 and 1")
	}
	if c.Risk.MinRR < 0 {
		return fmt.Errorf("risk.min_rr must not be negative")
	}
	if c.Risk.MaxLeverage < 0 {
		return fmt.Errorf("risk.max_leverage must not be negative")
	}
	if _, err := c.Pricing.ParsePollInterval(); err != nil {
		return fmt.Errorf("pricing.poll_interval: %w", err)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			ID:       "default",
			Currency: "USD",
		},
		Journal: JournalConfig{
			DBPath: "./tradebook.sqlite",
		},
		Pricing: PricingConfig{
			MaxAttempts:  3,
			PollInterval: "10s",
		},
		Risk: RiskConfig{
			MaxRiskPct:  0.02,
			MinRR:       1.5,
			MaxLeverage: 20,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
