package config

// RewardTier is one row of the reward tier table.
type RewardTier struct {
	Name   string  `yaml:"name"`
	Weight float64 `yaml:"weight"`
}

// RewardConfig configures terminal reward calculation.
type RewardConfig struct {
	// QualityThreshold and DensityThreshold are the two independent
	// checks that select the tier.
	QualityThreshold float64 `yaml:"quality_threshold"`
	DensityThreshold float64 `yaml:"density_threshold"`

	// Tiers in selection order: both checks pass, quality only, density
	// only, neither. Reference weights 10.0 / 3.0 / 2.0 / 1.5.
	Tiers [4]RewardTier `yaml:"tiers"`

	// NovelPatternMarkers trigger the 10x bonus when present in the
	// terminal output.
	NovelPatternMarkers []string `yaml:"novel_pattern_markers"`

	// BonusFactor multiplies the reward when a novel pattern is found.
	BonusFactor float64 `yaml:"bonus_factor"`

	// RollingWindow is how many terminal results the rolling average
	// covers. Reporting only; never feeds back into gating.
	RollingWindow int `yaml:"rolling_window"`
}

func defaultReward() RewardConfig {
	return RewardConfig{
		QualityThreshold: 0.90,
		DensityThreshold: 0.90,
		Tiers: [4]RewardTier{
			{Name: "transcendent", Weight: 10.0},
			{Name: "excellent", Weight: 3.0},
			{Name: "dense", Weight: 2.0},
			{Name: "baseline", Weight: 1.5},
		},
		NovelPatternMarkers: []string{"breakthrough", "synthesis", "emergence", "novel", "unprecedented"},
		BonusFactor:         10.0,
		RollingWindow:       10,
	}
}

func (c RewardConfig) validate() error {
	if err := unit("reward.quality_threshold", c.QualityThreshold); err != nil {
		return err
	}
	if err := unit("reward.density_threshold", c.DensityThreshold); err != nil {
		return err
	}
	for _, tier := range c.Tiers {
		if tier.Weight <= 0 {
			return &ValidationError{Field: "reward.tiers", Reason: "tier weight must be > 0"}
		}
		if tier.Name == "" {
			return &ValidationError{Field: "reward.tiers", Reason: "tier name required"}
		}
	}
	if c.BonusFactor <= 0 {
		return &ValidationError{Field: "reward.bonus_factor", Reason: "must be > 0"}
	}
	return positive("reward.rolling_window", c.RollingWindow)
}
