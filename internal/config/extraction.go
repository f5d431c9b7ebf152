package config

// ExtractionConfig configures the raw unit extractor and exchange clustering.
type ExtractionConfig struct {
	// RoleMarkers maps a role name to the marker substrings that tag a
	// line with that role. Matching is case-insensitive. When markers
	// from more than one role match the same line, the first role in
	// declaration order wins: teacher, student, bond, ground.
	RoleMarkers map[string][]string `yaml:"role_markers"`

	// ClusterSize is how many adjacent units form one exchange.
	ClusterSize int `yaml:"cluster_size"`

	// MinUnits is the minimum number of extracted units required for the
	// pipeline to proceed. Below this the run fails with insufficient
	// input.
	MinUnits int `yaml:"min_units"`
}

func defaultExtraction() ExtractionConfig {
	return ExtractionConfig{
		RoleMarkers: map[string][]string{
			"teacher": {"teacher:", "mentor:", "guide:"},
			"student": {"student:", "learner:", "seeker:"},
			"bond":    {"both:", "together:"},
			"ground":  {"narrator:", "note:"},
		},
		ClusterSize: 2,
		MinUnits:    1,
	}
}

func (c ExtractionConfig) validate() error {
	if len(c.RoleMarkers) == 0 {
		return &ValidationError{Field: "extraction.role_markers", Reason: "at least one role marker required"}
	}
	if err := positive("extraction.cluster_size", c.ClusterSize); err != nil {
		return err
	}
	return positive("extraction.min_units", c.MinUnits)
}
