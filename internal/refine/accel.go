// Package refine implements the round x cycle refinement loop with its
// acceleration schedule and ordered content transform chain.
package refine

import (
	"math"

	"refinery/internal/config"
)

// Channel names one of the five acceleration channels.
type Channel string

const (
	ChannelClarity   Channel = "clarity"
	ChannelDepth     Channel = "depth"
	ChannelCoherence Channel = "coherence"
	ChannelSynthesis Channel = "synthesis"
	ChannelGrounding Channel = "grounding"
)

// Channels is the fixed channel order.
var Channels = []Channel{ChannelClarity, ChannelDepth, ChannelCoherence, ChannelSynthesis, ChannelGrounding}

// Acceleration is the per-cycle amplification vector applied to the
// transform chain. Every value satisfies 0 < v <= ceiling.
type Acceleration struct {
	Clarity   float64 `json:"clarity"`
	Depth     float64 `json:"depth"`
	Coherence float64 `json:"coherence"`
	Synthesis float64 `json:"synthesis"`
	Grounding float64 `json:"grounding"`
}

// Get returns the value for a channel.
func (a Acceleration) Get(ch Channel) float64 {
	switch ch {
	case ChannelClarity:
		return a.Clarity
	case ChannelDepth:
		return a.Depth
	case ChannelCoherence:
		return a.Coherence
	case ChannelSynthesis:
		return a.Synthesis
	case ChannelGrounding:
		return a.Grounding
	}
	return 0
}

func (a *Acceleration) set(ch Channel, v float64) {
	switch ch {
	case ChannelClarity:
		a.Clarity = v
	case ChannelDepth:
		a.Depth = v
	case ChannelCoherence:
		a.Coherence = v
	case ChannelSynthesis:
		a.Synthesis = v
	case ChannelGrounding:
		a.Grounding = v
	}
}

// Accelerate computes one channel's value for cycle c of C in round r of R:
//
//	accel = min(ceiling, current * baseGrowth(c, r) * logDamp(c) * logDamp(r))
//	baseGrowth(c, r) = 1 + (c/C)*(r/R)
//	logDamp(x)       = 1 + ln(1+x)/k
//
// Growth is dampened logarithmically so no channel diverges, and the hard
// ceiling enforces the numeric invariant 0 < value <= ceiling.
func Accelerate(current float64, cycle, cycles, round, rounds int, k, ceiling float64) float64 {
	baseGrowth := 1 + (float64(cycle)/float64(cycles))*(float64(round)/float64(rounds))
	v := current * baseGrowth * logDamp(cycle, k) * logDamp(round, k)
	return math.Min(ceiling, v)
}

func logDamp(x int, k float64) float64 {
	return 1 + math.Log(1+float64(x))/k
}

// channelState tracks per-channel baselines across rounds.
type channelState struct {
	cfg       config.RefinementConfig
	baselines map[Channel]float64
}

func newChannelState(cfg config.RefinementConfig) *channelState {
	baselines := make(map[Channel]float64, len(Channels))
	for _, ch := range Channels {
		baselines[ch] = 1.0
	}
	return &channelState{cfg: cfg, baselines: baselines}
}

// vector computes the acceleration vector for one cycle from the current
// baselines.
func (s *channelState) vector(cycle, round int) Acceleration {
	var a Acceleration
	for _, ch := range Channels {
		a.set(ch, Accelerate(
			s.baselines[ch], cycle, s.cfg.Cycles, round, s.cfg.Rounds,
			s.cfg.ChannelConstants[string(ch)], s.cfg.Ceiling))
	}
	return a
}

// recalibrate nudges every baseline at a round boundary: up when the round
// performed (mean output length cleared the threshold), down otherwise.
// Baselines stay clamped to (0, ceiling].
func (s *channelState) recalibrate(performed bool) {
	mult := s.cfg.DecayMultiplier
	if performed {
		mult = s.cfg.GrowthMultiplier
	}
	for _, ch := range Channels {
		v := s.baselines[ch] * mult
		if v > s.cfg.Ceiling {
			v = s.cfg.Ceiling
		}
		s.baselines[ch] = v
	}
}

// snapshot returns the current baselines as an Acceleration for reporting.
func (s *channelState) snapshot() Acceleration {
	var a Acceleration
	for _, ch := range Channels {
		a.set(ch, s.baselines[ch])
	}
	return a
}
