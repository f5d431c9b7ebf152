package refine

import (
	"fmt"
	"regexp"
	"strings"
)

// Transform is one step of the content transform chain. Apply must be a
// pure function of (text, acceleration); the chain is strictly ordered and
// reproducible for the same input.
type Transform struct {
	Name  string
	Apply func(text string, a Acceleration) string
}

var (
	tempoTagPattern  = regexp.MustCompile(`\[tempo:[0-9.]+\]`)
	groundTagPattern = regexp.MustCompile(`\[ground:[0-9.]+\]`)
)

// paradoxReplacer reframes paradox language into tension language.
var paradoxReplacer = strings.NewReplacer(
	"paradox", "productive tension",
	"Paradox", "Productive tension",
	"contradiction", "creative friction",
	"Contradiction", "Creative friction",
)

// impossibilityReplacer softens impossibility language into not-yet
// language.
var impossibilityReplacer = strings.NewReplacer(
	"impossible", "not yet achieved",
	"Impossible", "Not yet achieved",
	"can't", "cannot yet",
	"Can't", "Cannot yet",
	"hopeless", "still open",
	"Hopeless", "Still open",
)

// positiveReplacer reframes negative framing words.
var positiveReplacer = strings.NewReplacer(
	"problem", "opportunity",
	"Problem", "Opportunity",
	"failure", "lesson",
	"Failure", "Lesson",
	"obstacle", "stepping stone",
	"Obstacle", "Stepping stone",
)

// Chain returns the fixed, ordered transform chain:
// paradox reframing, impossibility-language replacement, positive
// reframing, temporal-tag annotation, grounding-tag annotation.
func Chain() []Transform {
	return []Transform{
		{
			Name: "paradox_reframe",
			Apply: func(text string, a Acceleration) string {
				out := paradoxReplacer.Replace(text)
				// Depth past mid-scale earns an explicit holding note.
				if a.Depth >= 5 && strings.Contains(out, "productive tension") &&
					!strings.Contains(out, "(held, not resolved)") {
					out = strings.Replace(out, "productive tension",
						"productive tension (held, not resolved)", 1)
				}
				return out
			},
		},
		{
			Name: "impossibility_rewrite",
			Apply: func(text string, a Acceleration) string {
				return impossibilityReplacer.Replace(text)
			},
		},
		{
			Name: "positive_reframe",
			Apply: func(text string, a Acceleration) string {
				return positiveReplacer.Replace(text)
			},
		},
		{
			Name: "temporal_tag",
			Apply: func(text string, a Acceleration) string {
				return upsertTag(text, tempoTagPattern, fmt.Sprintf("[tempo:%.2f]", a.Synthesis))
			},
		},
		{
			Name: "grounding_tag",
			Apply: func(text string, a Acceleration) string {
				return upsertTag(text, groundTagPattern, fmt.Sprintf("[ground:%.2f]", a.Grounding))
			},
		},
	}
}

// upsertTag replaces an existing tag of the same family or appends one,
// so repeated cycles keep a single, current tag instead of growing the
// text without bound.
func upsertTag(text string, pattern *regexp.Regexp, tag string) string {
	if pattern.MatchString(text) {
		return pattern.ReplaceAllString(text, tag)
	}
	return strings.TrimRight(text, " ") + " " + tag
}
