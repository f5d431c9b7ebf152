// Package purity implements the secondary per-item ambiguity gate applied
// after governance, plus its transparency report.
package purity

import (
	"time"

	"refinery/internal/config"
	"refinery/internal/logging"
	"refinery/internal/refine"
	"refinery/internal/scoring"
)

// hedgeVocabulary is the ambiguity marker set. Ambiguity is measured as
// hedge-word density over the item text.
var hedgeVocabulary = []string{"maybe", "perhaps", "possibly", "might", "unclear", "somehow", "sort of", "kind of"}

// Violation records one item that failed the ambiguity gate.
type Violation struct {
	Ref       string    `json:"ref"` // content fingerprint of the failing item
	Round     int       `json:"round"`
	Cycle     int       `json:"cycle"`
	Ambiguity float64   `json:"ambiguity"`
	Timestamp time.Time `json:"timestamp"`
}

// Report summarizes one purification pass. Passing items are pass-through:
// Substitutions is always zero because no interpretive substitution is
// ever performed on them.
type Report struct {
	Evaluated     int    `json:"evaluated"`
	Passed        int    `json:"passed"`
	Rejected      int    `json:"rejected"`
	Substitutions int    `json:"substitutions"`
	Statement     string `json:"statement"`
}

// Filter applies the ambiguity gate.
type Filter struct {
	threshold float64
	now       func() time.Time
}

// New builds a Filter from config.
func New(cfg config.PurityConfig) *Filter {
	return &Filter{threshold: cfg.AmbiguityMax, now: time.Now}
}

// SetClock overrides the timestamp source. Used by tests.
func (f *Filter) SetClock(now func() time.Time) { f.now = now }

// Ambiguity returns the hedge-word density of text.
func (f *Filter) Ambiguity(text string) float64 {
	return scoring.Density(text, hedgeVocabulary)
}

// Purify returns the items whose ambiguity is strictly below the
// threshold, unchanged and in order, plus a populated violation log for
// the rest and the transparency report.
func (f *Filter) Purify(items []refine.CycleResult) ([]refine.CycleResult, []Violation, Report) {
	kept := make([]refine.CycleResult, 0, len(items))
	var violations []Violation

	for _, item := range items {
		ambiguity := f.Ambiguity(item.Content)
		if ambiguity < f.threshold {
			kept = append(kept, item)
			continue
		}
		violations = append(violations, Violation{
			Ref:       refine.Fingerprint(item.Content),
			Round:     item.Round,
			Cycle:     item.Cycle,
			Ambiguity: ambiguity,
			Timestamp: f.now(),
		})
	}

	report := Report{
		Evaluated:     len(items),
		Passed:        len(kept),
		Rejected:      len(violations),
		Substitutions: 0,
		Statement:     "passing items were passed through unchanged; no interpretive substitution was performed",
	}
	logging.Get(logging.CategoryPurify).Info("purified %d/%d items (%d violations)",
		report.Passed, report.Evaluated, report.Rejected)
	return kept, violations, report
}
