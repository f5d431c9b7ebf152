package reward

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"refinery/internal/config"
)

func testCalculator() *Calculator {
	return New(config.Default().Reward)
}

func TestScoreSelectsTierFromBothThresholds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		quality  float64
		density  float64
		wantTier string
		wantBase float64
	}{
		{"both high", 0.95, 0.95, "transcendent", 10.0},
		{"quality only", 0.95, 0.5, "excellent", 3.0},
		{"density only", 0.5, 0.95, "dense", 2.0},
		{"neither", 0.5, 0.5, "baseline", 1.5},
		{"exact thresholds", 0.90, 0.90, "transcendent", 10.0},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			b := testCalculator().Score(tc.quality, tc.density, "plain closing text")
			assert.Equal(t, tc.wantTier, b.Tier)
			assert.Equal(t, tc.wantBase, b.Base)
		})
	}
}

func TestScoreMultiplierTracksQuality(t *testing.T) {
	t.Parallel()

	b := testCalculator().Score(0.6, 0.5, "text")
	assert.InDelta(t, 1.2, b.Multiplier, 1e-12)
	assert.InDelta(t, b.Base*b.Multiplier*b.Bonus, b.Total, 1e-12)
}

func TestScoreMultiplierIsBounded(t *testing.T) {
	t.Parallel()

	// Out-of-range quality inputs clamp rather than overflow the bound.
	assert.Equal(t, 2.0, testCalculator().Score(1.7, 0.5, "text").Multiplier)
	assert.Equal(t, 0.0, testCalculator().Score(-0.3, 0.5, "text").Multiplier)
}

func TestScoreNovelPatternBonus(t *testing.T) {
	t.Parallel()

	c := testCalculator()
	plain := c.Score(0.95, 0.95, "a fine but ordinary conclusion")
	assert.Equal(t, 1.0, plain.Bonus)

	novel := c.Score(0.95, 0.95, "a genuine synthesis emerged from the exchange")
	assert.Equal(t, 10.0, novel.Bonus)
	assert.InDelta(t, novel.Total, plain.Total*10, 1e-9)
}

func TestRollingAverageWindow(t *testing.T) {
	t.Parallel()

	c := New(config.RewardConfig{
		QualityThreshold: 0.9,
		DensityThreshold: 0.9,
		Tiers: [4]config.RewardTier{
			{Name: "transcendent", Weight: 10.0},
			{Name: "excellent", Weight: 3.0},
			{Name: "dense", Weight: 2.0},
			{Name: "baseline", Weight: 1.5},
		},
		NovelPatternMarkers: []string{"synthesis"},
		BonusFactor:         10.0,
		RollingWindow:       3,
	})

	assert.Zero(t, c.RollingAverage())

	// Five baseline scores at quality 0.5: each total 1.5 * 1.0 * 1.0.
	for i := 0; i < 5; i++ {
		c.Score(0.5, 0.5, "text")
	}
	assert.InDelta(t, 1.5, c.RollingAverage(), 1e-12)

	// One large score: the window holds only the last three results.
	big := c.Score(0.95, 0.95, "a synthesis")
	want := (1.5 + 1.5 + big.Total) / 3
	assert.InDelta(t, want, c.RollingAverage(), 1e-9)
}

func TestScoreTotalComposition(t *testing.T) {
	t.Parallel()

	b := testCalculator().Score(0.95, 0.95, "an unprecedented result")
	// transcendent base 10, multiplier 1.9, bonus 10.
	assert.InDelta(t, 10.0*1.9*10.0, b.Total, 1e-9)
	assert.True(t, math.Abs(b.Multiplier-1.9) < 1e-12)
}
