package refine

import (
	"context"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"time"

	"refinery/internal/config"
	"refinery/internal/logging"
	"refinery/internal/session"
)

// CycleResult is the output of one refinement cycle. Immutable.
type CycleResult struct {
	Round        int          `json:"round"`
	Cycle        int          `json:"cycle"`
	Content      string       `json:"content"`
	Acceleration Acceleration `json:"acceleration"`
}

// KnowledgeEntry fingerprints one cycle's transformed content. The hash is
// a dedup/audit fingerprint, not a security primitive. Append-only; the
// log preserves exact (round, cycle) traversal order.
type KnowledgeEntry struct {
	Hash      string    `json:"hash"`
	Round     int       `json:"round"`
	Cycle     int       `json:"cycle"`
	Timestamp time.Time `json:"timestamp"`
}

// Output is everything one engine run produced.
type Output struct {
	Cycles    []CycleResult    `json:"cycles"`
	Knowledge []KnowledgeEntry `json:"knowledge"`
	Final     string           `json:"final"`
	Channels  Acceleration     `json:"channels"` // baselines after the last round
}

// Engine runs R rounds of C cycles over a working text, applying the
// transform chain under the acceleration schedule.
type Engine struct {
	cfg    config.RefinementConfig
	buffer *session.Buffer
	chain  []Transform
	now    func() time.Time
}

// NewEngine builds an Engine. buffer may be nil, in which case round
// summaries are simply not cached.
func NewEngine(cfg config.RefinementConfig, buffer *session.Buffer) *Engine {
	return &Engine{cfg: cfg, buffer: buffer, chain: Chain(), now: time.Now}
}

// SetClock overrides the timestamp source. Used by tests.
func (e *Engine) SetClock(now func() time.Time) { e.now = now }

// Run executes the full round x cycle loop starting from seed. An empty
// seed is a no-op, not an error: the phase short-circuits to empty
// results when upstream produced nothing.
//
// ctx is checked at every round boundary so a wall-clock budget or
// cancellation bounds the otherwise nested loop.
func (e *Engine) Run(ctx context.Context, seed string) (Output, error) {
	var out Output
	if seed == "" {
		return out, nil
	}

	log := logging.Get(logging.CategoryRefine)
	state := newChannelState(e.cfg)
	current := seed

	for round := 1; round <= e.cfg.Rounds; round++ {
		if err := ctx.Err(); err != nil {
			return out, fmt.Errorf("refinement interrupted in round %d: %w", round, err)
		}

		roundLengthSum := 0
		for cycle := 1; cycle <= e.cfg.Cycles; cycle++ {
			accel := state.vector(cycle, round)
			for _, t := range e.chain {
				current = t.Apply(current, accel)
			}
			out.Cycles = append(out.Cycles, CycleResult{
				Round:        round,
				Cycle:        cycle,
				Content:      current,
				Acceleration: accel,
			})
			out.Knowledge = append(out.Knowledge, KnowledgeEntry{
				Hash:      Fingerprint(current),
				Round:     round,
				Cycle:     cycle,
				Timestamp: e.now(),
			})
			roundLengthSum += len(current)
		}

		meanLength := roundLengthSum / e.cfg.Cycles
		performed := meanLength >= e.cfg.LengthThreshold
		state.recalibrate(performed)
		log.Debug("round %d/%d meanLen=%d performed=%v", round, e.cfg.Rounds, meanLength, performed)

		if e.buffer != nil {
			e.buffer.Store(fmt.Sprintf("refine/round/%d", round), map[string]any{
				"round":       round,
				"mean_length": meanLength,
				"performed":   performed,
			})
		}
	}

	out.Final = current
	out.Channels = state.snapshot()
	log.Info("refinement complete: %d cycles, %d knowledge entries", len(out.Cycles), len(out.Knowledge))
	return out, nil
}

// Fingerprint returns the 128-bit FNV-1a hex digest of content. Same
// content always yields the same hash across runs.
func Fingerprint(content string) string {
	h := fnv.New128a()
	h.Write([]byte(content))
	return hex.EncodeToString(h.Sum(nil))
}
