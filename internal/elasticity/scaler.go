// Package elasticity scales baseline spending ratios with income, region and
// household size using a power-law income elasticity.
package elasticity

import (
	"fmt"
	"math"

	"github.com/Dan9191/spend-calendar/internal/models"
)

// DefaultReferenceIncome is the annual USD income at which baseline ratios apply unchanged
const DefaultReferenceIncome = 70000.0

// Ratio describes how one category's share of income responds to income,
// region and household size.
type Ratio struct {
	Category        string
	Baseline        float64
	Elasticity      float64
	Min             float64
	Max             float64
	HouseholdSlope  float64
	RegionSensitive bool
}

// Scaler applies the elasticity formula against a fixed reference income
type Scaler struct {
	referenceIncome float64
}

// NewScaler creates a scaler. referenceIncome must be positive.
func NewScaler(referenceIncome float64) (*Scaler, error) {
	if referenceIncome <= 0 || math.IsNaN(referenceIncome) || math.IsInf(referenceIncome, 0) {
		return nil, fmt.Errorf("reference income must be positive, got %v", referenceIncome)
	}
	return &Scaler{referenceIncome: referenceIncome}, nil
}

// Scale returns baseline * (target/reference)^elasticity * regional * household,
// clamped to the ratio's band. A non-positive regional multiplier counts as 1
// and household sizes below one count as a single person.
func (s *Scaler) Scale(r Ratio, targetIncome float64, householdSize int, regional float64) float64 {
	scaled := r.Baseline
	if targetIncome > 0 {
		scaled *= math.Pow(targetIncome/s.referenceIncome, r.Elasticity)
	}
	if regional > 0 && r.RegionSensitive {
		scaled *= regional
	}
	if householdSize > 1 {
		scaled *= math.Max(0, 1+r.HouseholdSlope*float64(householdSize-1))
	}
	return clamp(scaled, r.Min, r.Max)
}

// ScaleAll scales every ratio of the tier's baseline table
func (s *Scaler) ScaleAll(tier models.IncomeTier, targetIncome float64, householdSize int, regional float64) models.CategoryWeights {
	ratios := BaselineRatios(tier)
	out := make(models.CategoryWeights, len(ratios))
	for _, r := range ratios {
		out[r.Category] = s.Scale(r, targetIncome, householdSize, regional)
	}
	return out
}

// Blend mixes default weights with shares observed in the user's own spending.
// alpha is the weight given to observations, clamped to [0, 1]. The result is
// not renormalized: callers that need ratios must call Normalize explicitly.
func Blend(defaults, observed models.CategoryWeights, alpha float64) models.CategoryWeights {
	alpha = clamp(alpha, 0, 1)
	out := make(models.CategoryWeights, len(defaults))
	for k, v := range defaults {
		if o, ok := observed[k]; ok {
			out[k] = (1-alpha)*v + alpha*o
		} else {
			out[k] = v
		}
	}
	for k, o := range observed {
		if _, ok := defaults[k]; !ok {
			out[k] = alpha * o
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
