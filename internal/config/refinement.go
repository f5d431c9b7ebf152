package config

// ResonanceConfig configures the aggregate validation gate.
type ResonanceConfig struct {
	// Threshold the aggregate resonance must reach.
	Threshold float64 `yaml:"threshold"`

	// Mode is "strict" or "lenient". Strict fails the pipeline when the
	// resonance is below threshold. Lenient clamps the score up to the
	// threshold but records the raw value and an inflation marker; it
	// never silently self-certifies.
	Mode string `yaml:"mode"`
}

func defaultResonance() ResonanceConfig {
	return ResonanceConfig{Threshold: 0.97, Mode: "strict"}
}

func (c ResonanceConfig) validate() error {
	if err := unit("resonance.threshold", c.Threshold); err != nil {
		return err
	}
	if c.Mode != "strict" && c.Mode != "lenient" {
		return &ValidationError{Field: "resonance.mode", Reason: "must be strict or lenient"}
	}
	return nil
}

// RefinementConfig configures the round x cycle refinement loop.
type RefinementConfig struct {
	// Rounds and Cycles control the loop nesting. Reference demo values
	// are 5x10; full-scale reference values are 20x100.
	Rounds int `yaml:"rounds"`
	Cycles int `yaml:"cycles"`

	// Ceiling caps every acceleration channel. Values always satisfy
	// 0 < v <= Ceiling.
	Ceiling float64 `yaml:"ceiling"`

	// ChannelConstants maps each of the five channels (clarity, depth,
	// coherence, synthesis, grounding) to its logarithmic damping
	// constant k in log_damp(x) = 1 + ln(1+x)/k.
	ChannelConstants map[string]float64 `yaml:"channel_constants"`

	// GrowthMultiplier and DecayMultiplier nudge channel baselines at
	// round boundaries depending on the performance signal.
	GrowthMultiplier float64 `yaml:"growth_multiplier"`
	DecayMultiplier  float64 `yaml:"decay_multiplier"`

	// LengthThreshold is the mean output length that counts as good
	// performance for the round-boundary signal.
	LengthThreshold int `yaml:"length_threshold"`
}

func defaultRefinement() RefinementConfig {
	return RefinementConfig{
		Rounds:  5,
		Cycles:  10,
		Ceiling: 10.0,
		ChannelConstants: map[string]float64{
			"clarity":   3.0,
			"depth":     4.0,
			"coherence": 5.0,
			"synthesis": 6.0,
			"grounding": 7.0,
		},
		GrowthMultiplier: 1.1,
		DecayMultiplier:  0.95,
		LengthThreshold:  80,
	}
}

func (c RefinementConfig) validate() error {
	if err := positive("refinement.rounds", c.Rounds); err != nil {
		return err
	}
	if err := positive("refinement.cycles", c.Cycles); err != nil {
		return err
	}
	if c.Ceiling <= 0 {
		return &ValidationError{Field: "refinement.ceiling", Reason: "must be > 0"}
	}
	for _, ch := range []string{"clarity", "depth", "coherence", "synthesis", "grounding"} {
		k, ok := c.ChannelConstants[ch]
		if !ok {
			return &ValidationError{Field: "refinement.channel_constants." + ch, Reason: "missing channel constant"}
		}
		if k <= 0 {
			return &ValidationError{Field: "refinement.channel_constants." + ch, Reason: "must be > 0"}
		}
	}
	if c.GrowthMultiplier <= 0 || c.DecayMultiplier <= 0 {
		return &ValidationError{Field: "refinement.multipliers", Reason: "must be > 0"}
	}
	return positive("refinement.length_threshold", c.LengthThreshold)
}
