// Package scoring provides the deterministic text scorers used across the
// pipeline. Every function maps text to a scalar in [0,1] from keyword or
// marker presence; there is no randomness and no model inference anywhere.
package scoring

import "strings"

// Clamp01 clamps v to [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Fraction returns the fraction of vocabulary terms present in text,
// case-insensitive substring match, clamped to [0,1]. An empty vocabulary
// scores 0.
func Fraction(text string, vocabulary []string) float64 {
	if len(vocabulary) == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	hits := 0
	for _, term := range vocabulary {
		if strings.Contains(lower, strings.ToLower(term)) {
			hits++
		}
	}
	return Clamp01(float64(hits) / float64(len(vocabulary)))
}

// Density returns total vocabulary occurrences per word of text, clamped
// to [0,1]. Empty text scores 0.
func Density(text string, vocabulary []string) float64 {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	hits := 0
	for _, term := range vocabulary {
		hits += strings.Count(lower, strings.ToLower(term))
	}
	return Clamp01(float64(hits) / float64(words))
}

// InverseDensity returns 1 minus an amplified vocabulary density. The
// amplification factor makes a handful of marker hits in ordinary prose
// visible against the high thresholds the governance filter uses.
func InverseDensity(text string, vocabulary []string, amplify float64) float64 {
	return Clamp01(1 - amplify*Density(text, vocabulary))
}

// CountAny reports whether any vocabulary term is present in text.
func CountAny(text string, vocabulary []string) bool {
	lower := strings.ToLower(text)
	for _, term := range vocabulary {
		if strings.Contains(lower, strings.ToLower(term)) {
			return true
		}
	}
	return false
}
