// Package config provides Viper-based hierarchical configuration management:
// defaults, then an optional config file, then environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Data struct {
		Directory       string `mapstructure:"directory" yaml:"directory"`
		OutputDirectory string `mapstructure:"output_directory" yaml:"output_directory"`
		RulesFile       string `mapstructure:"rules_file" yaml:"rules_file"`
	} `mapstructure:"data" yaml:"data"`

	Engine struct {
		// ClassifyWindowSeconds is the near-duplicate corroboration window
		// used during classification.
		ClassifyWindowSeconds int `mapstructure:"classify_window_seconds" yaml:"classify_window_seconds"`
		// ResolveWindowSeconds is the duplicate-confirmation window used by
		// the resolution engine. Deliberately separate from the classify
		// window; the two thresholds serve different checks.
		ResolveWindowSeconds int `mapstructure:"resolve_window_seconds" yaml:"resolve_window_seconds"`
		// FraudEscalateThreshold is the amount above which a fraud dispute
		// is escalated to the bank.
		FraudEscalateThreshold float64 `mapstructure:"fraud_escalate_threshold" yaml:"fraud_escalate_threshold"`
		// FraudReviewThreshold is the amount above which a fraud dispute is
		// marked as potential fraud rather than sent to manual review.
		FraudReviewThreshold float64 `mapstructure:"fraud_review_threshold" yaml:"fraud_review_threshold"`
		// FraudHighAmountThreshold is the amount above which the classifier
		// appends a high-amount note. Defaults to the same value as
		// FraudEscalateThreshold but is configured independently.
		FraudHighAmountThreshold float64 `mapstructure:"fraud_high_amount_threshold" yaml:"fraud_high_amount_threshold"`
	} `mapstructure:"engine" yaml:"engine"`

	AI struct {
		Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
		Model          string `mapstructure:"model" yaml:"model"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		APIKey         string `mapstructure:"api_key" yaml:"-"` // Never serialize the API key
	} `mapstructure:"ai" yaml:"ai"`
}

// ClassifyWindow returns the classification corroboration window as a duration.
func (c *Config) ClassifyWindow() time.Duration {
	return time.Duration(c.Engine.ClassifyWindowSeconds) * time.Second
}

// ResolveWindow returns the resolution confirmation window as a duration.
func (c *Config) ResolveWindow() time.Duration {
	return time.Duration(c.Engine.ResolveWindowSeconds) * time.Second
}

// InitializeConfig initializes Viper configuration with hierarchical loading.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.dispute-assist")
	v.AddConfigPath(".dispute-assist")
	v.AddConfigPath(".")

	v.SetEnvPrefix("DISPUTE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Config file is optional; defaults plus env vars are a valid setup.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	// The Gemini API key always comes from the environment, unprefixed.
	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_API_KEY: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("data.directory", "data")
	v.SetDefault("data.output_directory", "output")
	v.SetDefault("data.rules_file", "rules.yaml")

	v.SetDefault("engine.classify_window_seconds", 300)
	v.SetDefault("engine.resolve_window_seconds", 30)
	v.SetDefault("engine.fraud_escalate_threshold", 5000)
	v.SetDefault("engine.fraud_review_threshold", 1000)
	v.SetDefault("engine.fraud_high_amount_threshold", 5000)

	v.SetDefault("ai.enabled", true)
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout_seconds", 30)
}

func validateConfig(config *Config) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(config.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s", config.Log.Format)
	}

	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("csv delimiter must be a single character, got %q", config.CSV.Delimiter)
	}

	if config.Engine.ClassifyWindowSeconds < 0 || config.Engine.ResolveWindowSeconds < 0 {
		return fmt.Errorf("duplicate windows must not be negative")
	}

	if config.Engine.FraudReviewThreshold > config.Engine.FraudEscalateThreshold {
		return fmt.Errorf("fraud review threshold %v exceeds escalate threshold %v",
			config.Engine.FraudReviewThreshold, config.Engine.FraudEscalateThreshold)
	}

	return nil
}
