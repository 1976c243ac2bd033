package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir is a stand-in for testing.T.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("restoring working directory: %v", err)
		}
	})
}

func TestInitializeConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, ",", cfg.CSV.Delimiter)
	assert.Equal(t, "data", cfg.Data.Directory)
	assert.Equal(t, "output", cfg.Data.OutputDirectory)
	assert.Equal(t, 300, cfg.Engine.ClassifyWindowSeconds)
	assert.Equal(t, 30, cfg.Engine.ResolveWindowSeconds)
	assert.InDelta(t, 5000, cfg.Engine.FraudEscalateThreshold, 1e-9)
	assert.InDelta(t, 1000, cfg.Engine.FraudReviewThreshold, 1e-9)
	assert.InDelta(t, 5000, cfg.Engine.FraudHighAmountThreshold, 1e-9)
	assert.Equal(t, "gemini-2.0-flash", cfg.AI.Model)
}

func TestInitializeConfig_EnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DISPUTE_LOG_LEVEL", "debug")
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "test-key", cfg.AI.APIKey)
}

func TestWindowDurations(t *testing.T) {
	var cfg Config
	cfg.Engine.ClassifyWindowSeconds = 300
	cfg.Engine.ResolveWindowSeconds = 30

	assert.Equal(t, 300*time.Second, cfg.ClassifyWindow())
	assert.Equal(t, 30*time.Second, cfg.ResolveWindow())
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		var cfg Config
		cfg.Log.Level = "info"
		cfg.Log.Format = "text"
		cfg.CSV.Delimiter = ","
		cfg.Engine.ClassifyWindowSeconds = 300
		cfg.Engine.ResolveWindowSeconds = 30
		cfg.Engine.FraudEscalateThreshold = 5000
		cfg.Engine.FraudReviewThreshold = 1000
		return &cfg
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		expectErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "verbose" }, expectErr: true},
		{name: "bad log format", mutate: func(c *Config) { c.Log.Format = "xml" }, expectErr: true},
		{name: "multi-char delimiter", mutate: func(c *Config) { c.CSV.Delimiter = ",," }, expectErr: true},
		{name: "empty delimiter", mutate: func(c *Config) { c.CSV.Delimiter = "" }, expectErr: true},
		{name: "negative classify window", mutate: func(c *Config) { c.Engine.ClassifyWindowSeconds = -1 }, expectErr: true},
		{name: "negative resolve window", mutate: func(c *Config) { c.Engine.ResolveWindowSeconds = -1 }, expectErr: true},
		{
			name:      "review threshold above escalate threshold",
			mutate:    func(c *Config) { c.Engine.FraudReviewThreshold = 9000 },
			expectErr: true,
		},
		{name: "zero windows allowed", mutate: func(c *Config) {
			c.Engine.ClassifyWindowSeconds = 0
			c.Engine.ResolveWindowSeconds = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := validateConfig(cfg)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
