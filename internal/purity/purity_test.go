package purity

import (
	"testing"
	"time"

	"refinery/internal/config"
	"refinery/internal/refine"
)

func testFilter() *Filter {
	f := New(config.PurityConfig{AmbiguityMax: 0.01})
	f.SetClock(func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	})
	return f
}

func TestAmbiguityMeasuresHedgeDensity(t *testing.T) {
	t.Parallel()

	f := testFilter()
	if got := f.Ambiguity("a direct statement with no hedging at all"); got != 0 {
		t.Errorf("clean text ambiguity = %v", got)
	}
	// Two hedge words in ten words.
	got := f.Ambiguity("maybe the answer is here or perhaps it is not")
	if got < 0.19 || got > 0.21 {
		t.Errorf("hedged text ambiguity = %v, want ~0.2", got)
	}
}

func TestPurifyPassesCleanItemsUnchanged(t *testing.T) {
	t.Parallel()

	f := testFilter()
	items := []refine.CycleResult{
		{Round: 1, Cycle: 1, Content: "the lesson stands on its own"},
		{Round: 1, Cycle: 2, Content: "each step is named and concrete"},
	}

	kept, violations, report := f.Purify(items)

	if len(kept) != 2 || len(violations) != 0 {
		t.Fatalf("kept=%d violations=%d", len(kept), len(violations))
	}
	// Pass-through contract: surviving items are byte-identical and in
	// order.
	for i := range items {
		if kept[i] != items[i] {
			t.Errorf("item %d altered: %+v", i, kept[i])
		}
	}
	if report.Substitutions != 0 {
		t.Errorf("substitutions = %d, must always be zero", report.Substitutions)
	}
	if report.Statement == "" {
		t.Error("transparency statement missing")
	}
}

func TestPurifyPopulatesViolationLog(t *testing.T) {
	t.Parallel()

	f := testFilter()
	items := []refine.CycleResult{
		{Round: 1, Cycle: 1, Content: "clear and settled"},
		{Round: 2, Cycle: 3, Content: "maybe this holds, sort of, perhaps"},
	}

	kept, violations, report := f.Purify(items)

	if len(kept) != 1 || kept[0].Cycle != 1 {
		t.Fatalf("kept = %+v", kept)
	}
	if len(violations) != 1 {
		t.Fatalf("violations = %d", len(violations))
	}

	v := violations[0]
	if v.Round != 2 || v.Cycle != 3 {
		t.Errorf("violation coordinates = (%d,%d)", v.Round, v.Cycle)
	}
	if v.Ref != refine.Fingerprint(items[1].Content) {
		t.Error("violation ref does not fingerprint the failing item")
	}
	if v.Ambiguity < 0.01 {
		t.Errorf("violation ambiguity = %v, should exceed the gate", v.Ambiguity)
	}
	if v.Timestamp.IsZero() {
		t.Error("violation missing timestamp")
	}

	if report.Evaluated != 2 || report.Passed != 1 || report.Rejected != 1 {
		t.Errorf("report counts = %+v", report)
	}
}

func TestPurifyThresholdIsStrict(t *testing.T) {
	t.Parallel()

	// Ambiguity must be strictly below the bound: an item landing exactly
	// on it is rejected.
	f := New(config.PurityConfig{AmbiguityMax: 0.1})
	// One hedge word in ten words: density exactly 0.1.
	items := []refine.CycleResult{
		{Round: 1, Cycle: 1, Content: "maybe the answer rests in the next line we write"},
	}
	kept, violations, _ := f.Purify(items)
	if len(kept) != 0 || len(violations) != 1 {
		t.Errorf("exact-threshold item must be rejected: kept=%d violations=%d", len(kept), len(violations))
	}
}

func TestPurifyEmptyInput(t *testing.T) {
	t.Parallel()

	kept, violations, report := testFilter().Purify(nil)
	if len(kept) != 0 || len(violations) != 0 || report.Evaluated != 0 {
		t.Errorf("empty purify: kept=%d violations=%d report=%+v", len(kept), len(violations), report)
	}
}
