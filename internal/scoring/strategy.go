package scoring

import "fmt"

// Strategy is the canonical interface for the four swappable scoring
// concerns: reality grounding, ethical scaling, temporal fidelity and
// truth scanning. The source material carried duplicate, mutually
// incompatible implementations of several of these; they are consolidated
// here as tagged variants selected explicitly by name.
type Strategy interface {
	// Name identifies the concern and variant, e.g. "reality_grounding/tag".
	Name() string
	// Score maps text to [0,1].
	Score(text string) float64
}

// Concern names.
const (
	ConcernRealityGrounding = "reality_grounding"
	ConcernEthicalScaling   = "ethical_scaling"
	ConcernTemporalFidelity = "temporal_fidelity"
	ConcernTruthScanning    = "truth_scanning"
)

// Variant tags.
const (
	// VariantTag scores by presence of explicit annotation tags.
	VariantTag = "tag"
	// VariantVocabulary scores by keyword vocabulary statistics.
	VariantVocabulary = "vocabulary"
)

type fractionStrategy struct {
	name  string
	vocab []string
}

func (s fractionStrategy) Name() string              { return s.name }
func (s fractionStrategy) Score(text string) float64 { return Fraction(text, s.vocab) }

type inverseStrategy struct {
	name    string
	vocab   []string
	amplify float64
}

func (s inverseStrategy) Name() string              { return s.name }
func (s inverseStrategy) Score(text string) float64 { return InverseDensity(text, s.vocab, s.amplify) }

// Default vocabularies per concern. Each variant of a concern draws on a
// disjoint marker set so the strategies stay independent.
var (
	groundingTags       = []string{"[ground:", "[tempo:"}
	groundingWords      = []string{"observed", "measured", "concrete", "specific", "evidence"}
	harmMarkers         = []string{"harm", "deceive", "exploit", "manipulate", "coerce"}
	temporalTags        = []string{"[tempo:"}
	temporalWords       = []string{"now", "today", "currently", "present"}
	instabilityMarkers  = []string{"chaos", "collapse", "shatter", "unravel", "spiral"}
	exaggerationMarkers = []string{"always", "never", "everything", "nothing", "infinite"}
)

// ForConcern returns the strategy for a concern/variant pair.
func ForConcern(concern, variant string) (Strategy, error) {
	name := concern + "/" + variant
	switch concern {
	case ConcernRealityGrounding:
		switch variant {
		case VariantTag:
			return fractionStrategy{name: name, vocab: groundingTags}, nil
		case VariantVocabulary:
			return fractionStrategy{name: name, vocab: groundingWords}, nil
		}
	case ConcernEthicalScaling:
		switch variant {
		case VariantTag, VariantVocabulary:
			return inverseStrategy{name: name, vocab: harmMarkers, amplify: 10}, nil
		}
	case ConcernTemporalFidelity:
		switch variant {
		case VariantTag:
			return fractionStrategy{name: name, vocab: temporalTags}, nil
		case VariantVocabulary:
			return fractionStrategy{name: name, vocab: temporalWords}, nil
		}
	case ConcernTruthScanning:
		switch variant {
		case VariantTag:
			return inverseStrategy{name: name, vocab: instabilityMarkers, amplify: 10}, nil
		case VariantVocabulary:
			return inverseStrategy{name: name, vocab: exaggerationMarkers, amplify: 10}, nil
		}
	}
	return nil, fmt.Errorf("scoring: unknown strategy %q", name)
}
