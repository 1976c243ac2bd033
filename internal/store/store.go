// Package store loads the optional YAML rules file that overrides the
// built-in classification keyword sets. A missing file is not an error:
// the classifier falls back to its defaults.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/dispute-assist/internal/logging"
	"fjacquet/dispute-assist/internal/models"

	"gopkg.in/yaml.v3"
)

// RuleStore manages loading of keyword rule overrides.
type RuleStore struct {
	RulesFile string
	logger    logging.Logger
}

// NewRuleStore creates a store for the given rules file. The file name may
// be relative, in which case standard config locations are searched.
func NewRuleStore(rulesFile string, logger logging.Logger) *RuleStore {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &RuleStore{
		RulesFile: rulesFile,
		logger:    logger,
	}
}

// FindConfigFile looks for a configuration file in standard locations.
func (s *RuleStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".config", "dispute-assist", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// LoadRules loads keyword rule overrides from the YAML file. A missing
// file yields an empty slice and no error.
func (s *RuleStore) LoadRules() ([]models.RuleConfig, error) {
	filename := s.RulesFile
	if filename == "" {
		filename = "rules.yaml"
	}

	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.WithField("file", filename).Debug("Rules file not found, using built-in keyword sets")
			return []models.RuleConfig{}, nil
		}
		return nil, fmt.Errorf("error resolving rules file: %w", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("could not read rules file: %w", err)
	}

	var config models.RulesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("could not parse rules file: %w", err)
	}

	s.logger.WithField("count", len(config.Rules)).Debug("Loaded keyword rule overrides")
	return config.Rules, nil
}
