package elasticity

import "github.com/Dan9191/spend-calendar/internal/models"

// ratioShape holds the parts of a Ratio shared by every tier
type ratioShape struct {
	elasticity      float64
	min, max        float64
	householdSlope  float64
	regionSensitive bool
}

var categoryOrder = []string{
	"housing", "food", "transport", "utilities", "healthcare", "savings", "entertainment", "personal",
}

// Food carries the steepest household slope and a negative elasticity (Engel's law).
var shapes = map[string]ratioShape{
	"housing":       {elasticity: -0.3, min: 0.20, max: 0.50, householdSlope: 0.05, regionSensitive: true},
	"food":          {elasticity: -0.4, min: 0.08, max: 0.35, householdSlope: 0.30},
	"transport":     {elasticity: -0.1, min: 0.05, max: 0.20, householdSlope: 0.10, regionSensitive: true},
	"utilities":     {elasticity: -0.2, min: 0.03, max: 0.15, householdSlope: 0.10, regionSensitive: true},
	"healthcare":    {elasticity: 0, min: 0.03, max: 0.12, householdSlope: 0.15},
	"savings":       {elasticity: 0.5, min: 0.05, max: 0.30, householdSlope: -0.05},
	"entertainment": {elasticity: 0.3, min: 0.03, max: 0.20},
	"personal":      {elasticity: 0.1, min: 0.05, max: 0.20, householdSlope: 0.05},
}

// baselines per tier, in categoryOrder; each row sums to 1.0
var baselines = map[models.IncomeTier][]float64{
	models.TierLow:         {0.35, 0.18, 0.13, 0.09, 0.07, 0.05, 0.05, 0.08},
	models.TierLowerMiddle: {0.32, 0.16, 0.13, 0.08, 0.06, 0.08, 0.07, 0.10},
	models.TierMiddle:      {0.30, 0.15, 0.12, 0.08, 0.06, 0.10, 0.09, 0.10},
	models.TierUpperMiddle: {0.28, 0.12, 0.11, 0.06, 0.05, 0.15, 0.11, 0.12},
	models.TierHigh:        {0.25, 0.10, 0.09, 0.05, 0.05, 0.20, 0.12, 0.14},
}

// BaselineRatios returns the default ratio table of a tier. Unknown tiers get
// the middle tier's table.
func BaselineRatios(tier models.IncomeTier) []Ratio {
	row, ok := baselines[tier]
	if !ok {
		row = baselines[models.TierMiddle]
	}
	out := make([]Ratio, 0, len(categoryOrder))
	for i, category := range categoryOrder {
		shape := shapes[category]
		out = append(out, Ratio{
			Category:        category,
			Baseline:        row[i],
			Elasticity:      shape.elasticity,
			Min:             shape.min,
			Max:             shape.max,
			HouseholdSlope:  shape.householdSlope,
			RegionSensitive: shape.regionSensitive,
		})
	}
	return out
}
