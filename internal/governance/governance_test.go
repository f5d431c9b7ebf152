package governance

import (
	"testing"
	"time"

	"refinery/internal/config"
	"refinery/internal/refine"
)

func testFilter(t *testing.T) *Filter {
	t.Helper()
	f, err := New(config.Default().Governance)
	if err != nil {
		t.Fatal(err)
	}
	f.SetClock(func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	})
	return f
}

func TestPassesRequiresAllFourThresholds(t *testing.T) {
	t.Parallel()

	f := testFilter(t)

	// Per-dimension passing and failing values against the reference
	// thresholds (alignment >= 0.99, paradox <= 0.05, evidence >= 0.95,
	// stability >= 0.98).
	pass := Scores{Alignment: 1.0, ParadoxDensity: 0.0, Evidence: 1.0, Stability: 1.0}
	fail := Scores{Alignment: 0.5, ParadoxDensity: 0.5, Evidence: 0.5, Stability: 0.5}

	// All 16 combinations; only the all-pass combination is accepted.
	for mask := 0; mask < 16; mask++ {
		s := Scores{
			Alignment:      pick(mask&1 != 0, pass.Alignment, fail.Alignment),
			ParadoxDensity: pick(mask&2 != 0, pass.ParadoxDensity, fail.ParadoxDensity),
			Evidence:       pick(mask&4 != 0, pass.Evidence, fail.Evidence),
			Stability:      pick(mask&8 != 0, pass.Stability, fail.Stability),
		}
		want := mask == 15
		if got := f.Passes(s); got != want {
			t.Errorf("mask %04b: Passes(%+v) = %v, want %v", mask, s, got, want)
		}
	}
}

func pick(ok bool, pass, fail float64) float64 {
	if ok {
		return pass
	}
	return fail
}

func TestPassesExactBoundaries(t *testing.T) {
	t.Parallel()

	f := testFilter(t)
	cfg := config.Default().Governance

	// Thresholds are inclusive on the passing side.
	boundary := Scores{
		Alignment:      cfg.AlignmentMin,
		ParadoxDensity: cfg.ParadoxMax,
		Evidence:       cfg.EvidenceMin,
		Stability:      cfg.StabilityMin,
	}
	if !f.Passes(boundary) {
		t.Errorf("exact-threshold scores must pass: %+v", boundary)
	}
}

func TestEvaluateCleanTaggedText(t *testing.T) {
	t.Parallel()

	f := testFilter(t)
	s := f.Evaluate("the observed detail holds steady [tempo:1.00] [ground:1.00]")

	if s.Alignment != 1.0 {
		t.Errorf("alignment = %v", s.Alignment)
	}
	if s.ParadoxDensity != 0.0 {
		t.Errorf("paradox density = %v", s.ParadoxDensity)
	}
	if s.Evidence != 1.0 {
		t.Errorf("evidence = %v, both annotation tags present", s.Evidence)
	}
	if s.Stability != 1.0 {
		t.Errorf("stability = %v", s.Stability)
	}
	if !f.Passes(s) {
		t.Errorf("clean tagged text should pass: %+v", s)
	}
}

func TestEvaluateFlagsResidualParadoxLanguage(t *testing.T) {
	t.Parallel()

	f := testFilter(t)
	// One paradox word in ten words: density 0.1 exceeds the 0.05 bound.
	s := f.Evaluate("this paradox sits inside the text like a buried stone")
	if s.ParadoxDensity <= 0.05 {
		t.Errorf("paradox density = %v, want > 0.05", s.ParadoxDensity)
	}
	if f.Passes(s) {
		t.Error("residual paradox language must be rejected")
	}
}

func TestEvaluateFlagsHarmLanguage(t *testing.T) {
	t.Parallel()

	f := testFilter(t)
	s := f.Evaluate("they plan to deceive and exploit [tempo:1.00] [ground:1.00]")
	if s.Alignment >= 0.99 {
		t.Errorf("alignment = %v, harm markers should pull it below threshold", s.Alignment)
	}
}

func TestReviewAuditsEveryItem(t *testing.T) {
	t.Parallel()

	f := testFilter(t)
	items := []refine.CycleResult{
		{Round: 1, Cycle: 1, Content: "grounded and calm [tempo:1.00] [ground:1.00]"},
		{Round: 1, Cycle: 2, Content: "everything will collapse into chaos and harm"},
		{Round: 2, Cycle: 1, Content: "still grounded here [tempo:1.10] [ground:1.10]"},
	}

	accepted, decisions := f.Review(items)

	if len(accepted) != 2 {
		t.Fatalf("accepted = %d, want 2", len(accepted))
	}
	if accepted[0].Cycle != 1 || accepted[1].Round != 2 {
		t.Errorf("accepted order broken: %+v", accepted)
	}

	// One decision per input, in traversal order, rejected items included.
	if len(decisions) != len(items) {
		t.Fatalf("decisions = %d, want one per item", len(decisions))
	}
	wantVerdicts := []Verdict{VerdictAccepted, VerdictRejected, VerdictAccepted}
	for i, d := range decisions {
		if d.Verdict != wantVerdicts[i] {
			t.Errorf("decision %d verdict = %s, want %s", i, d.Verdict, wantVerdicts[i])
		}
		if d.Round != items[i].Round || d.Cycle != items[i].Cycle {
			t.Errorf("decision %d coordinates = (%d,%d)", i, d.Round, d.Cycle)
		}
		if d.Ref != refine.Fingerprint(items[i].Content) {
			t.Errorf("decision %d ref does not fingerprint its item", i)
		}
		if d.Timestamp.IsZero() {
			t.Errorf("decision %d missing timestamp", i)
		}
	}
}

func TestReviewEmptyInput(t *testing.T) {
	t.Parallel()

	f := testFilter(t)
	accepted, decisions := f.Review(nil)
	if len(accepted) != 0 || len(decisions) != 0 {
		t.Errorf("empty review should produce nothing, got %d/%d", len(accepted), len(decisions))
	}
}
