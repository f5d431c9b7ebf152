// Package governance implements the quadruple threshold filter applied to
// refined cycle outputs, with a mandatory append-only audit trail. Every
// decision is audited with its four raw scores; no item is silently
// dropped.
package governance

import (
	"time"

	"refinery/internal/config"
	"refinery/internal/logging"
	"refinery/internal/refine"
	"refinery/internal/scoring"
)

// Verdict is the outcome of one governance review.
type Verdict string

const (
	VerdictAccepted Verdict = "ACCEPTED"
	VerdictRejected Verdict = "REJECTED"
)

// Scores holds the four independent filter measurements for one item.
type Scores struct {
	Alignment      float64 `json:"alignment"`
	ParadoxDensity float64 `json:"paradox_density"`
	Evidence       float64 `json:"evidence"`
	Stability      float64 `json:"stability"`
}

// Decision is one audit trail entry. Appended for every reviewed item,
// accepted or rejected, in traversal order.
type Decision struct {
	Ref       string    `json:"ref"` // content fingerprint of the reviewed item
	Round     int       `json:"round"`
	Cycle     int       `json:"cycle"`
	Verdict   Verdict   `json:"verdict"`
	Scores    Scores    `json:"scores"`
	Timestamp time.Time `json:"timestamp"`
}

// Filter applies the four independent threshold filters.
type Filter struct {
	cfg config.GovernanceConfig

	alignment scoring.Strategy
	evidence  scoring.Strategy
	stability scoring.Strategy

	paradoxVocabulary []string

	now func() time.Time
}

// paradoxVocabulary feeds the one filter measured as a raw density rather
// than through a strategy: the reframing transform upstream is expected to
// have removed these.
var defaultParadoxVocabulary = []string{"paradox", "contradiction", "impossible"}

// New builds a Filter. The alignment, evidence and stability measurements
// ride on the consolidated scoring strategies.
func New(cfg config.GovernanceConfig) (*Filter, error) {
	alignment, err := scoring.ForConcern(scoring.ConcernEthicalScaling, scoring.VariantVocabulary)
	if err != nil {
		return nil, err
	}
	evidence, err := scoring.ForConcern(scoring.ConcernRealityGrounding, scoring.VariantTag)
	if err != nil {
		return nil, err
	}
	stability, err := scoring.ForConcern(scoring.ConcernTruthScanning, scoring.VariantTag)
	if err != nil {
		return nil, err
	}
	return &Filter{
		cfg:               cfg,
		alignment:         alignment,
		evidence:          evidence,
		stability:         stability,
		paradoxVocabulary: defaultParadoxVocabulary,
		now:               time.Now,
	}, nil
}

// SetClock overrides the timestamp source. Used by tests.
func (f *Filter) SetClock(now func() time.Time) { f.now = now }

// Evaluate computes the four filter scores for one text.
func (f *Filter) Evaluate(text string) Scores {
	return Scores{
		Alignment:      f.alignment.Score(text),
		ParadoxDensity: scoring.Density(text, f.paradoxVocabulary),
		Evidence:       f.evidence.Score(text),
		Stability:      f.stability.Score(text),
	}
}

// Passes reports whether all four sub-scores meet their thresholds
// simultaneously.
func (f *Filter) Passes(s Scores) bool {
	return s.Alignment >= f.cfg.AlignmentMin &&
		s.ParadoxDensity <= f.cfg.ParadoxMax &&
		s.Evidence >= f.cfg.EvidenceMin &&
		s.Stability >= f.cfg.StabilityMin
}

// Review filters the cycle results, returning the accepted subset in
// order plus the complete audit trail, one Decision per input item.
func (f *Filter) Review(items []refine.CycleResult) ([]refine.CycleResult, []Decision) {
	log := logging.Get(logging.CategoryGovern)
	accepted := make([]refine.CycleResult, 0, len(items))
	decisions := make([]Decision, 0, len(items))

	for _, item := range items {
		scores := f.Evaluate(item.Content)
		verdict := VerdictRejected
		if f.Passes(scores) {
			verdict = VerdictAccepted
			accepted = append(accepted, item)
		}
		decisions = append(decisions, Decision{
			Ref:       refine.Fingerprint(item.Content),
			Round:     item.Round,
			Cycle:     item.Cycle,
			Verdict:   verdict,
			Scores:    scores,
			Timestamp: f.now(),
		})
	}

	log.Info("reviewed %d items: %d accepted, %d rejected",
		len(items), len(accepted), len(items)-len(accepted))
	return accepted, decisions
}
