package models

import (
	"fmt"
	"math"
)

// CategoryWeights maps a category id to its fractional weight
type CategoryWeights map[string]float64

// WeightTolerance is the band around 1.0 accepted for a full weight set
const WeightTolerance = 0.01

// Sum returns the total of all weights
func (w CategoryWeights) Sum() float64 {
	var sum float64
	for _, v := range w {
		sum += v
	}
	return sum
}

// Validate rejects negative weights
func (w CategoryWeights) Validate() error {
	for category, v := range w {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("weight for %s must be non-negative, got %v", category, v)
		}
	}
	return nil
}

// IsNormalized reports whether the weights sum to 1.0 within WeightTolerance
func (w CategoryWeights) IsNormalized() bool {
	return math.Abs(w.Sum()-1) <= WeightTolerance
}

// Normalize returns a copy of the weights scaled to sum to 1.0. An empty or
// all-zero set is returned unchanged.
func (w CategoryWeights) Normalize() CategoryWeights {
	out := make(CategoryWeights, len(w))
	sum := w.Sum()
	for k, v := range w {
		if sum > 0 {
			out[k] = v / sum
		} else {
			out[k] = v
		}
	}
	return out
}
