package elasticity

import (
	"math"
	"testing"

	"github.com/Dan9191/spend-calendar/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func housing() Ratio {
	for _, r := range BaselineRatios(models.TierMiddle) {
		if r.Category == "housing" {
			return r
		}
	}
	panic("housing ratio missing")
}

func TestNewScalerRejectsNonPositiveReference(t *testing.T) {
	_, err := NewScaler(0)
	assert.Error(t, err)
	_, err = NewScaler(-1)
	assert.Error(t, err)
	_, err = NewScaler(math.NaN())
	assert.Error(t, err)

	s, err := NewScaler(DefaultReferenceIncome)
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestScale(t *testing.T) {
	s, err := NewScaler(70000)
	require.NoError(t, err)
	h := housing()

	tests := []struct {
		name     string
		income   float64
		size     int
		regional float64
		want     float64
	}{
		{"reference income is unchanged", 70000, 1, 1, 0.30},
		{"double income lowers housing share", 140000, 1, 1, 0.30 * math.Pow(2, -0.3)},
		{"very high income clamps to min", 700000, 1, 1, 0.20},
		{"expensive region", 70000, 1, 1.5, 0.45},
		{"extreme region clamps to max", 70000, 1, 3, 0.50},
		{"household of three", 70000, 3, 1, 0.30 * 1.10},
		{"zero regional means neutral", 70000, 1, 0, 0.30},
		{"zero household means single", 70000, 0, 1, 0.30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, s.Scale(h, tt.income, tt.size, tt.regional), 1e-9)
		})
	}
}

func TestFoodHouseholdSlope(t *testing.T) {
	s, err := NewScaler(70000)
	require.NoError(t, err)
	weights := s.ScaleAll(models.TierMiddle, 70000, 2, 1)
	assert.InDelta(t, 0.15*1.30, weights["food"], 1e-9)
	assert.InDelta(t, 0.30*1.05, weights["housing"], 1e-9)
}

func TestRegionalMultiplierOnlyAffectsSensitiveRatios(t *testing.T) {
	s, err := NewScaler(70000)
	require.NoError(t, err)
	weights := s.ScaleAll(models.TierMiddle, 70000, 1, 0.5)
	assert.InDelta(t, 0.15, weights["food"], 1e-9)
	assert.InDelta(t, 0.20, weights["housing"], 1e-9)
}

func TestBaselinesSumToOne(t *testing.T) {
	for _, tier := range models.Tiers {
		sum := 0.0
		for _, r := range BaselineRatios(tier) {
			sum += r.Baseline
			assert.GreaterOrEqual(t, r.Baseline, r.Min, "%s %s", tier, r.Category)
			assert.LessOrEqual(t, r.Baseline, r.Max, "%s %s", tier, r.Category)
		}
		assert.InDelta(t, 1.0, sum, 1e-9, tier.String())
	}
}

func TestBlendDoesNotNormalize(t *testing.T) {
	defaults := models.CategoryWeights{"housing": 0.5, "food": 0.5}
	observed := models.CategoryWeights{"housing": 0.7, "pets": 0.2}

	blended := Blend(defaults, observed, 0.5)
	assert.InDelta(t, 0.6, blended["housing"], 1e-9)
	assert.InDelta(t, 0.5, blended["food"], 1e-9)
	assert.InDelta(t, 0.1, blended["pets"], 1e-9)
	assert.InDelta(t, 1.2, blended.Sum(), 1e-9)
	assert.False(t, blended.IsNormalized())

	normalized := blended.Normalize()
	assert.InDelta(t, 1.0, normalized.Sum(), 1e-9)
	assert.InDelta(t, 0.5, normalized["housing"], 1e-9)
}

func TestBlendAlphaIsClamped(t *testing.T) {
	defaults := models.CategoryWeights{"food": 0.4}
	observed := models.CategoryWeights{"food": 0.1}
	assert.InDelta(t, 0.1, Blend(defaults, observed, 5)["food"], 1e-9)
	assert.InDelta(t, 0.4, Blend(defaults, observed, -1)["food"], 1e-9)
}
