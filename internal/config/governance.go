package config

// GovernanceConfig configures the quadruple threshold filter.
type GovernanceConfig struct {
	// AlignmentMin is the minimum alignment score (>=).
	AlignmentMin float64 `yaml:"alignment_min"`
	// ParadoxMax is the maximum paradox density (<=).
	ParadoxMax float64 `yaml:"paradox_max"`
	// EvidenceMin is the minimum evidence score (>=).
	EvidenceMin float64 `yaml:"evidence_min"`
	// StabilityMin is the minimum stability score (>=).
	StabilityMin float64 `yaml:"stability_min"`
}

func defaultGovernance() GovernanceConfig {
	return GovernanceConfig{
		AlignmentMin: 0.99,
		ParadoxMax:   0.05,
		EvidenceMin:  0.95,
		StabilityMin: 0.98,
	}
}

func (c GovernanceConfig) validate() error {
	for _, t := range []struct {
		field string
		v     float64
	}{
		{"governance.alignment_min", c.AlignmentMin},
		{"governance.paradox_max", c.ParadoxMax},
		{"governance.evidence_min", c.EvidenceMin},
		{"governance.stability_min", c.StabilityMin},
	} {
		if err := unit(t.field, t.v); err != nil {
			return err
		}
	}
	return nil
}

// PurityConfig configures the secondary ambiguity gate.
type PurityConfig struct {
	// AmbiguityMax is the ambiguity (hedge-word density) an item must
	// stay strictly below to pass.
	AmbiguityMax float64 `yaml:"ambiguity_max"`
}

func defaultPurity() PurityConfig {
	return PurityConfig{AmbiguityMax: 0.01}
}

func (c PurityConfig) validate() error {
	return unit("purity.ambiguity_max", c.AmbiguityMax)
}

// LiveConfig configures the live micro-refinement phase.
type LiveConfig struct {
	// Passes is the fixed number of refinement passes per record.
	Passes int `yaml:"passes"`
	// MaxLength truncates runaway record text inside the guardian stage.
	MaxLength int `yaml:"max_length"`
}

func defaultLive() LiveConfig {
	return LiveConfig{Passes: 3, MaxLength: 4096}
}

func (c LiveConfig) validate() error {
	if err := positive("live.passes", c.Passes); err != nil {
		return err
	}
	return positive("live.max_length", c.MaxLength)
}
