// Package reward computes the tiered reward for terminal pipeline outputs.
//
// Tier selection is two independent threshold checks over the quality and
// density scores; the rolling average is reporting only and never feeds
// back into gating decisions within a run.
package reward

import (
	"refinery/internal/config"
	"refinery/internal/logging"
	"refinery/internal/scoring"
)

// Breakdown is one terminal reward computation.
type Breakdown struct {
	Tier       string  `json:"tier"`
	Base       float64 `json:"base"`
	Multiplier float64 `json:"multiplier"` // bounded to [0, 2.0]
	Bonus      float64 `json:"bonus"`      // 1.0, or the bonus factor on a novel pattern
	Total      float64 `json:"total"`
}

// Calculator selects reward tiers and tracks the rolling average.
type Calculator struct {
	cfg     config.RewardConfig
	history []float64
}

// New builds a Calculator from config.
func New(cfg config.RewardConfig) *Calculator {
	return &Calculator{cfg: cfg}
}

// Score computes the reward for a terminal result. quality and density
// select the tier, the performance multiplier derives from quality, and
// the novel-pattern vocabulary decides the bonus from the terminal text.
func (c *Calculator) Score(quality, density float64, text string) Breakdown {
	tier := c.selectTier(quality, density)

	multiplier := 2 * scoring.Clamp01(quality)
	if multiplier > 2.0 {
		multiplier = 2.0
	}

	bonus := 1.0
	if scoring.CountAny(text, c.cfg.NovelPatternMarkers) {
		bonus = c.cfg.BonusFactor
	}

	b := Breakdown{
		Tier:       tier.Name,
		Base:       tier.Weight,
		Multiplier: multiplier,
		Bonus:      bonus,
		Total:      tier.Weight * multiplier * bonus,
	}

	c.history = append(c.history, b.Total)
	if len(c.history) > c.cfg.RollingWindow {
		c.history = c.history[len(c.history)-c.cfg.RollingWindow:]
	}

	logging.Get(logging.CategoryReward).Info("tier=%s base=%.1f mult=%.2f bonus=%.1f total=%.2f",
		b.Tier, b.Base, b.Multiplier, b.Bonus, b.Total)
	return b
}

// selectTier runs the two independent threshold checks.
func (c *Calculator) selectTier(quality, density float64) config.RewardTier {
	qualityHigh := quality >= c.cfg.QualityThreshold
	densityHigh := density >= c.cfg.DensityThreshold
	switch {
	case qualityHigh && densityHigh:
		return c.cfg.Tiers[0]
	case qualityHigh:
		return c.cfg.Tiers[1]
	case densityHigh:
		return c.cfg.Tiers[2]
	default:
		return c.cfg.Tiers[3]
	}
}

// RollingAverage returns the mean total over the last N scored results.
func (c *Calculator) RollingAverage() float64 {
	if len(c.history) == 0 {
		return 0
	}
	var sum float64
	for _, v := range c.history {
		sum += v
	}
	return sum / float64(len(c.history))
}
