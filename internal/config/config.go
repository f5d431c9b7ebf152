// Package config holds all refinery configuration.
//
// The tree is split one file per pipeline concern. Every threshold lives
// here rather than in the phase packages so a single Validate pass can
// reject a bad configuration before any phase runs.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all refinery configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Extraction settings (role markers, clustering)
	Extraction ExtractionConfig `yaml:"extraction"`

	// Role scoring and admission
	Scoring ScoringConfig `yaml:"scoring"`

	// Resonance validation gate
	Resonance ResonanceConfig `yaml:"resonance"`

	// Refinement loop engine
	Refinement RefinementConfig `yaml:"refinement"`

	// Governance quadruple filter
	Governance GovernanceConfig `yaml:"governance"`

	// Purity filter
	Purity PurityConfig `yaml:"purity"`

	// Live micro-refinement
	Live LiveConfig `yaml:"live"`

	// Reward calculation
	Reward RewardConfig `yaml:"reward"`

	// Session buffer
	Session SessionConfig `yaml:"session"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ValidationError reports a configuration value outside its legal range.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: invalid %s: %s", e.Field, e.Reason)
}

// Default returns the reference configuration (demo-scale loop values).
func Default() *Config {
	return &Config{
		Name:       "refinery",
		Version:    "1.0.0",
		Extraction: defaultExtraction(),
		Scoring:    defaultScoring(),
		Resonance:  defaultResonance(),
		Refinement: defaultRefinement(),
		Governance: defaultGovernance(),
		Purity:     defaultPurity(),
		Live:       defaultLive(),
		Reward:     defaultReward(),
		Session:    defaultSession(),
		Logging:    defaultLogging(),
	}
}

// Load reads a YAML config file and overlays it on the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every threshold and count. Returns the first
// *ValidationError found.
func (c *Config) Validate() error {
	checks := []func() error{
		c.Extraction.validate,
		c.Scoring.validate,
		c.Resonance.validate,
		c.Refinement.validate,
		c.Governance.validate,
		c.Purity.validate,
		c.Live.validate,
		c.Reward.validate,
		c.Session.validate,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func unit(field string, v float64) error {
	if v < 0 || v > 1 {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("%v outside [0,1]", v)}
	}
	return nil
}

func positive(field string, v int) error {
	if v <= 0 {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("%d must be > 0", v)}
	}
	return nil
}
