// Package record builds admitted, scored Records from extracted raw units.
package record

import (
	"time"

	"github.com/google/uuid"
)

// RoleScores holds the four independent per-exchange quality sub-scores,
// each in [0,1].
type RoleScores struct {
	Teacher float64 `json:"teacher"`
	Student float64 `json:"student"`
	Bond    float64 `json:"bond"`
	Ground  float64 `json:"ground"`
}

// Min returns the lowest of the four sub-scores.
func (s RoleScores) Min() float64 {
	min := s.Teacher
	for _, v := range []float64{s.Student, s.Bond, s.Ground} {
		if v < min {
			min = v
		}
	}
	return min
}

// Record is an admitted scored unit of input. Created by the Builder,
// consumed read-only by every later phase, and mutated in place only by
// the live micro-refinement phase.
type Record struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	Scores    RoleScores `json:"scores"`
	Aggregate float64    `json:"aggregate"`
	Admitted  bool       `json:"admitted"`
	CreatedAt time.Time  `json:"created_at"`
}

func newRecord(text string, scores RoleScores, aggregate float64, now time.Time) *Record {
	return &Record{
		ID:        uuid.NewString(),
		Text:      text,
		Scores:    scores,
		Aggregate: aggregate,
		Admitted:  true,
		CreatedAt: now,
	}
}
