// Package resonance implements the aggregate validation gate over the
// admitted record set.
package resonance

import (
	"refinery/internal/config"
	"refinery/internal/logging"
	"refinery/internal/record"
	"refinery/internal/scoring"
)

// Mode selects how a below-threshold resonance is handled.
type Mode string

const (
	// ModeStrict fails the pipeline when resonance is below threshold.
	ModeStrict Mode = "strict"
	// ModeLenient clamps the reported value up to the threshold but
	// records the raw measurement and an inflation marker. The raw value
	// is never altered silently.
	ModeLenient Mode = "lenient"
)

// Result is the outcome of one validation.
type Result struct {
	// Resonance is the reported value, possibly inflated in lenient mode.
	Resonance float64 `json:"resonance"`
	// Raw is the measured value before any inflation.
	Raw float64 `json:"raw"`
	// Passed reports whether the pipeline may continue.
	Passed bool `json:"passed"`
	// Inflated is set when lenient mode raised the reported value.
	Inflated bool `json:"inflated"`
	// Records is how many records the aggregate covered.
	Records int `json:"records"`
}

// Validator computes the aggregate resonance and gates continuation.
type Validator struct {
	threshold float64
	mode      Mode
}

// New builds a Validator from config.
func New(cfg config.ResonanceConfig) *Validator {
	return &Validator{threshold: cfg.Threshold, mode: Mode(cfg.Mode)}
}

// Validate computes resonance as a weighted combination of the mean bond
// score and the mean teacher/student quality:
//
//	resonance = 0.5*mean(bond) + 0.5*mean((teacher+student)/2)
//
// An empty record set scores 0 and never passes.
func (v *Validator) Validate(records []*record.Record) Result {
	res := Result{Records: len(records)}
	if len(records) == 0 {
		return res
	}

	var bondSum, qualitySum float64
	for _, r := range records {
		bondSum += r.Scores.Bond
		qualitySum += (r.Scores.Teacher + r.Scores.Student) / 2
	}
	n := float64(len(records))
	res.Raw = scoring.Clamp01(0.5*(bondSum/n) + 0.5*(qualitySum/n))
	res.Resonance = res.Raw
	res.Passed = res.Raw >= v.threshold

	if !res.Passed && v.mode == ModeLenient {
		res.Resonance = v.threshold
		res.Inflated = true
		res.Passed = true
		logging.Get(logging.CategoryValidate).Warn(
			"lenient mode inflated resonance %.4f -> %.4f", res.Raw, res.Resonance)
	}

	logging.Get(logging.CategoryValidate).Info(
		"resonance=%.4f raw=%.4f threshold=%.4f passed=%v records=%d",
		res.Resonance, res.Raw, v.threshold, res.Passed, len(records))
	return res
}

// Threshold exposes the configured gate for reporting.
func (v *Validator) Threshold() float64 { return v.threshold }
