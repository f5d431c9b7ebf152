package config

// SessionConfig configures the session buffer.
type SessionConfig struct {
	// DecayRate is the exponential decay applied to recalled weights,
	// per elapsed second. The stored weight itself never changes.
	DecayRate float64 `yaml:"decay_rate"`

	// MaxEntries bounds the buffer. When full, the entry with the lowest
	// current (decayed) weight is evicted.
	MaxEntries int `yaml:"max_entries"`

	// StructuredWeight is assigned to non-scalar values when no explicit
	// weight is given.
	StructuredWeight float64 `yaml:"structured_weight"`

	// ImportanceKeywords raise the automatic weight of text values.
	ImportanceKeywords []string `yaml:"importance_keywords"`
}

func defaultSession() SessionConfig {
	return SessionConfig{
		DecayRate:          0.001,
		MaxEntries:         1024,
		StructuredWeight:   0.8,
		ImportanceKeywords: []string{"critical", "important", "remember", "key", "essential"},
	}
}

func (c SessionConfig) validate() error {
	if c.DecayRate < 0 {
		return &ValidationError{Field: "session.decay_rate", Reason: "must be >= 0"}
	}
	if err := positive("session.max_entries", c.MaxEntries); err != nil {
		return err
	}
	return unit("session.structured_weight", c.StructuredWeight)
}

// LoggingConfig configures categorized debug logging.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Dir        string          `yaml:"dir"`
	Level      string          `yaml:"level"`
	Categories map[string]bool `yaml:"categories"`
}

func defaultLogging() LoggingConfig {
	return LoggingConfig{
		DebugMode: false,
		Dir:       "logs",
		Level:     "info",
	}
}
