package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFileYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.Account.ID = "trader-1"
	cfg.Pricing.BaseURL = "https://prices.example.com"
	cfg.Pricing.PollInterval = "5s"
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "trader-1", loaded.Account.ID)
	assert.Equal(t, "https://prices.example.com", loaded.Pricing.BaseURL)

	interval, err := loaded.Pricing.ParsePollInterval()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, interval)
}

func TestLoadFromFileJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	cfg := Default()
	cfg.Risk.MinRR = 2.0
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2.0, loaded.Risk.MinRR)
}

func TestLoadFromFileMissing(t *testing.T) {
	t.Parallel()

	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "default is valid", mutate: func(*Config) {}},
		{name: "missing account id", mutate: func(c *Config) { c.Account.ID = "" }, wantErr: true},
		{name: "negative balance", mutate: func(c *Config) { c.Account.Balance = -1 }, wantErr: true},
		{name: "missing db path", mutate: func(c *Config) { c.Journal.DBPath = "" }, wantErr: true},
		{name: "risk pct above one", mutate: func(c *Config) { c.Risk.MaxRiskPct = 1.5 }, wantErr: true},
		{name: "negative min rr", mutate: func(c *Config) { c.Risk.MinRR = -1 }, wantErr: true},
		{name: "bad poll interval", mutate: func(c *Config) { c.Pricing.PollInterval = "soon" }, wantErr: true},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantErr: true},
		{name: "empty log level ok", mutate: func(c *Config) { c.Logging.Level = "" }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
