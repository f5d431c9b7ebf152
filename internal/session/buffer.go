// Package session implements the weighted, decaying key/value buffer the
// pipeline writes intermediate artifacts through.
//
// The buffer is observability state only: phases write to it, and it can
// be read afterward for debugging, but it never gates a pipeline decision.
package session

import (
	"math"
	"sync"
	"time"

	"refinery/internal/config"
	"refinery/internal/logging"
	"refinery/internal/scoring"
)

// Entry is one stored value. Weight is assigned once at store time and
// never mutated afterward; recall decays only the returned view.
type Entry struct {
	Key         string    `json:"key"`
	Value       any       `json:"value"`
	Weight      float64   `json:"weight"`
	StoredAt    time.Time `json:"stored_at"`
	AccessCount int       `json:"access_count"`
}

// View is what Recall returns: the stored value plus the decayed current
// weight at recall time.
type View struct {
	Value         any       `json:"value"`
	StoredWeight  float64   `json:"stored_weight"`
	CurrentWeight float64   `json:"current_weight"`
	AccessCount   int       `json:"access_count"`
	StoredAt      time.Time `json:"stored_at"`
}

// Buffer is a bounded key/value store with exponential recall decay.
// Writes are serialized by the internal mutex, so concurrent phases can
// share one buffer with last-write-wins semantics per key.
type Buffer struct {
	mu      sync.Mutex
	entries map[string]*Entry

	decayRate        float64
	maxEntries       int
	structuredWeight float64
	importance       []string

	now func() time.Time
}

// New builds a Buffer from config.
func New(cfg config.SessionConfig) *Buffer {
	return &Buffer{
		entries:          make(map[string]*Entry),
		decayRate:        cfg.DecayRate,
		maxEntries:       cfg.MaxEntries,
		structuredWeight: cfg.StructuredWeight,
		importance:       cfg.ImportanceKeywords,
		now:              time.Now,
	}
}

// SetClock overrides the time source. Used by tests.
func (b *Buffer) SetClock(now func() time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.now = now
}

// Store writes value under key with an automatically computed weight.
func (b *Buffer) Store(key string, value any) {
	b.StoreWeighted(key, value, b.autoWeight(value))
}

// StoreWeighted writes value under key with an explicit weight in [0,1].
func (b *Buffer) StoreWeighted(key string, value any, weight float64) {
	weight = scoring.Clamp01(weight)

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.entries[key]; !exists && len(b.entries) >= b.maxEntries {
		b.evictLocked()
	}
	b.entries[key] = &Entry{
		Key:      key,
		Value:    value,
		Weight:   weight,
		StoredAt: b.now(),
	}
	logging.Buffer("store key=%s weight=%.3f entries=%d", key, weight, len(b.entries))
}

// Recall returns the stored value with its decayed current weight:
//
//	current = stored * exp(-decayRate * elapsedSeconds)
//
// The access counter increments on every successful recall. The stored
// weight is never overwritten.
func (b *Buffer) Recall(key string) (View, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.entries[key]
	if !ok {
		return View{}, false
	}
	entry.AccessCount++

	elapsed := b.now().Sub(entry.StoredAt).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	return View{
		Value:         entry.Value,
		StoredWeight:  entry.Weight,
		CurrentWeight: entry.Weight * math.Exp(-b.decayRate*elapsed),
		AccessCount:   entry.AccessCount,
		StoredAt:      entry.StoredAt,
	}, true
}

// Len returns the number of stored entries.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Keys returns the stored keys in unspecified order.
func (b *Buffer) Keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	keys := make([]string, 0, len(b.entries))
	for k := range b.entries {
		keys = append(keys, k)
	}
	return keys
}

// evictLocked removes the entry with the lowest current (decayed) weight.
// Caller must hold the mutex.
func (b *Buffer) evictLocked() {
	var victim string
	lowest := math.Inf(1)
	now := b.now()
	for key, entry := range b.entries {
		elapsed := now.Sub(entry.StoredAt).Seconds()
		if elapsed < 0 {
			elapsed = 0
		}
		current := entry.Weight * math.Exp(-b.decayRate*elapsed)
		if current < lowest {
			lowest = current
			victim = key
		}
	}
	if victim != "" {
		delete(b.entries, victim)
		logging.Buffer("evict key=%s current=%.4f", victim, lowest)
	}
}

// autoWeight derives a store weight from the value shape: text weighs in
// by length plus importance-keyword hits; structured values get the fixed
// configured weight; other scalars sit at a low floor.
func (b *Buffer) autoWeight(value any) float64 {
	switch v := value.(type) {
	case string:
		w := 0.3 + float64(len(v))/2000
		if scoring.CountAny(v, b.importance) {
			w += 0.2
		}
		return scoring.Clamp01(w)
	case int, int64, float64, bool:
		return 0.4
	default:
		return b.structuredWeight
	}
}
