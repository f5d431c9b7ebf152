package session

import (
	"fmt"
	"math"
	"testing"
	"time"

	"refinery/internal/config"
)

func testBuffer(maxEntries int, decay float64) (*Buffer, *time.Time) {
	b := New(config.SessionConfig{
		DecayRate:          decay,
		MaxEntries:         maxEntries,
		StructuredWeight:   0.8,
		ImportanceKeywords: []string{"critical", "remember"},
	})
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b.SetClock(func() time.Time { return now })
	return b, &now
}

func TestRecallAtZeroElapsedIsExact(t *testing.T) {
	t.Parallel()

	b, _ := testBuffer(16, 0.1)
	b.StoreWeighted("k", "v", 0.73)

	view, ok := b.Recall("k")
	if !ok {
		t.Fatal("missing entry")
	}
	// t=0: current weight equals stored weight exactly, no tolerance.
	if view.CurrentWeight != view.StoredWeight || view.StoredWeight != 0.73 {
		t.Errorf("current=%v stored=%v", view.CurrentWeight, view.StoredWeight)
	}
}

func TestRecallDecaysExponentially(t *testing.T) {
	t.Parallel()

	// decay_rate=0.1, weight=1.0, 10 seconds elapsed -> exp(-1).
	b, now := testBuffer(16, 0.1)
	b.StoreWeighted("k", "v", 1.0)
	*now = now.Add(10 * time.Second)

	view, ok := b.Recall("k")
	if !ok {
		t.Fatal("missing entry")
	}
	if math.Abs(view.CurrentWeight-math.Exp(-1)) > 1e-9 {
		t.Errorf("current weight = %v, want exp(-1)", view.CurrentWeight)
	}
	// The stored weight itself never decays.
	if view.StoredWeight != 1.0 {
		t.Errorf("stored weight mutated: %v", view.StoredWeight)
	}
}

func TestRecallApproachesZero(t *testing.T) {
	t.Parallel()

	b, now := testBuffer(16, 0.1)
	b.StoreWeighted("k", "v", 1.0)
	*now = now.Add(24 * 365 * time.Hour)

	view, _ := b.Recall("k")
	if view.CurrentWeight > 1e-12 {
		t.Errorf("current weight should approach 0, got %v", view.CurrentWeight)
	}
}

func TestRecallIncrementsAccessCount(t *testing.T) {
	t.Parallel()

	b, _ := testBuffer(16, 0.1)
	b.Store("k", "v")

	for want := 1; want <= 3; want++ {
		view, ok := b.Recall("k")
		if !ok || view.AccessCount != want {
			t.Fatalf("access count = %d, want %d", view.AccessCount, want)
		}
	}
}

func TestRecallMissingKey(t *testing.T) {
	t.Parallel()

	b, _ := testBuffer(16, 0.1)
	if _, ok := b.Recall("absent"); ok {
		t.Error("expected miss")
	}
}

func TestStoreLastWriteWins(t *testing.T) {
	t.Parallel()

	b, _ := testBuffer(16, 0.1)
	b.StoreWeighted("k", "first", 0.2)
	b.StoreWeighted("k", "second", 0.9)

	view, _ := b.Recall("k")
	if view.Value != "second" || view.StoredWeight != 0.9 {
		t.Errorf("view = %+v", view)
	}
	// Overwrite resets the access counter with the new entry.
	if view.AccessCount != 1 {
		t.Errorf("access count = %d", view.AccessCount)
	}
}

func TestEvictionKeepsHigherWeights(t *testing.T) {
	t.Parallel()

	b, _ := testBuffer(2, 0.1)
	b.StoreWeighted("low", "v", 0.1)
	b.StoreWeighted("high", "v", 0.9)
	b.StoreWeighted("new", "v", 0.5)

	if b.Len() != 2 {
		t.Fatalf("len = %d, want bound of 2", b.Len())
	}
	if _, ok := b.Recall("low"); ok {
		t.Error("lowest-weight entry should have been evicted")
	}
	if _, ok := b.Recall("high"); !ok {
		t.Error("high-weight entry evicted")
	}
	if _, ok := b.Recall("new"); !ok {
		t.Error("new entry missing")
	}
}

func TestAutoWeightShapes(t *testing.T) {
	t.Parallel()

	b, _ := testBuffer(16, 0.1)

	b.Store("text", "a short line")
	b.Store("important", "remember this critical line")
	b.Store("scalar", 42)
	b.Store("structured", map[string]any{"a": 1})

	text, _ := b.Recall("text")
	important, _ := b.Recall("important")
	scalar, _ := b.Recall("scalar")
	structured, _ := b.Recall("structured")

	if important.StoredWeight <= text.StoredWeight {
		t.Errorf("importance keywords should raise weight: %v <= %v",
			important.StoredWeight, text.StoredWeight)
	}
	if structured.StoredWeight != 0.8 {
		t.Errorf("structured weight = %v", structured.StoredWeight)
	}
	if scalar.StoredWeight != 0.4 {
		t.Errorf("scalar weight = %v", scalar.StoredWeight)
	}
	if structured.StoredWeight <= scalar.StoredWeight {
		t.Error("structured values should outweigh scalars")
	}
}

func TestKeysAndLen(t *testing.T) {
	t.Parallel()

	b, _ := testBuffer(16, 0.1)
	for i := 0; i < 5; i++ {
		b.Store(fmt.Sprintf("k%d", i), i)
	}
	if b.Len() != 5 || len(b.Keys()) != 5 {
		t.Errorf("len=%d keys=%d", b.Len(), len(b.Keys()))
	}
}
