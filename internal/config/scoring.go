package config

// ScoringConfig configures role scoring and record admission.
type ScoringConfig struct {
	// Vocabularies are the disjoint keyword lists behind each role score.
	// A role score is the fraction of its vocabulary present in the
	// exchange text, clamped to [0,1].
	TeacherVocabulary []string `yaml:"teacher_vocabulary"`
	StudentVocabulary []string `yaml:"student_vocabulary"`
	BondVocabulary    []string `yaml:"bond_vocabulary"`
	GroundVocabulary  []string `yaml:"ground_vocabulary"`

	// AdmissionThreshold is the minimum every one of the four role scores
	// must exceed for an exchange to become a Record. Exchanges below it
	// are dropped silently.
	AdmissionThreshold float64 `yaml:"admission_threshold"`

	// Aggregate blend weights. Documented, not hidden: the aggregate is
	// a linear combination of the four role scores with these weights.
	TeacherWeight float64 `yaml:"teacher_weight"`
	StudentWeight float64 `yaml:"student_weight"`
	BondWeight    float64 `yaml:"bond_weight"`
	GroundWeight  float64 `yaml:"ground_weight"`

	// Parallelism bounds the number of exchanges scored concurrently.
	// 1 keeps scoring fully synchronous.
	Parallelism int `yaml:"parallelism"`
}

func defaultScoring() ScoringConfig {
	return ScoringConfig{
		TeacherVocabulary: []string{"because", "consider", "example", "notice", "principle", "practice"},
		StudentVocabulary: []string{"why", "how", "wonder", "curious", "confused", "understand"},
		BondVocabulary:    []string{"we", "together", "trust", "share", "between", "with you"},
		GroundVocabulary:  []string{"here", "now", "today", "breath", "body", "present"},
		AdmissionThreshold: 0.15,
		TeacherWeight:      0.30,
		StudentWeight:      0.30,
		BondWeight:         0.25,
		GroundWeight:       0.15,
		Parallelism:        4,
	}
}

func (c ScoringConfig) validate() error {
	for _, v := range []struct {
		field string
		vocab []string
	}{
		{"scoring.teacher_vocabulary", c.TeacherVocabulary},
		{"scoring.student_vocabulary", c.StudentVocabulary},
		{"scoring.bond_vocabulary", c.BondVocabulary},
		{"scoring.ground_vocabulary", c.GroundVocabulary},
	} {
		if len(v.vocab) == 0 {
			return &ValidationError{Field: v.field, Reason: "vocabulary must not be empty"}
		}
	}
	if err := unit("scoring.admission_threshold", c.AdmissionThreshold); err != nil {
		return err
	}
	for _, w := range []struct {
		field  string
		weight float64
	}{
		{"scoring.teacher_weight", c.TeacherWeight},
		{"scoring.student_weight", c.StudentWeight},
		{"scoring.bond_weight", c.BondWeight},
		{"scoring.ground_weight", c.GroundWeight},
	} {
		if err := unit(w.field, w.weight); err != nil {
			return err
		}
	}
	return positive("scoring.parallelism", c.Parallelism)
}
