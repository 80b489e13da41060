package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Thresholds holds the four annual income cut points separating the five tiers
type Thresholds struct {
	Low         decimal.Decimal `json:"low" toml:"low"`
	LowerMiddle decimal.Decimal `json:"lower_middle" toml:"lower_middle"`
	Middle      decimal.Decimal `json:"middle" toml:"middle"`
	UpperMiddle decimal.Decimal `json:"upper_middle" toml:"upper_middle"`
}

// NewThresholds builds a table from whole-unit cut points
func NewThresholds(low, lowerMiddle, middle, upperMiddle int64) Thresholds {
	return Thresholds{
		Low:         decimal.NewFromInt(low),
		LowerMiddle: decimal.NewFromInt(lowerMiddle),
		Middle:      decimal.NewFromInt(middle),
		UpperMiddle: decimal.NewFromInt(upperMiddle),
	}
}

// Values returns the cut points in ascending tier order
func (t Thresholds) Values() [4]decimal.Decimal {
	return [4]decimal.Decimal{t.Low, t.LowerMiddle, t.Middle, t.UpperMiddle}
}

// Validate checks that the cut points are positive and strictly ascending
func (t Thresholds) Validate() error {
	v := t.Values()
	if !v[0].IsPositive() {
		return fmt.Errorf("threshold low must be positive, got %s", v[0])
	}
	for i := 1; i < len(v); i++ {
		if !v[i].GreaterThan(v[i-1]) {
			return fmt.Errorf("thresholds must be strictly ascending: %s <= %s", v[i], v[i-1])
		}
	}
	return nil
}

// RegionProfile represents the budgeting parameters of a country
type RegionProfile struct {
	Code          string                `json:"code"`
	Currency      string                `json:"currency"`
	DefaultPolicy BehaviorPolicy        `json:"default_policy"`
	Thresholds    Thresholds            `json:"thresholds"`
	Subregions    map[string]Thresholds `json:"subregions,omitempty"`
	CostOfLiving  float64               `json:"cost_of_living"`
	UnitsPerUSD   decimal.Decimal       `json:"units_per_usd"`
}

// ThresholdsFor returns the subregion override when one exists, otherwise the
// country-level thresholds. Overrides replace the country table entirely.
func (p RegionProfile) ThresholdsFor(subregion string) Thresholds {
	if subregion != "" {
		if t, ok := p.Subregions[subregion]; ok {
			return t
		}
	}
	return p.Thresholds
}

// Validate checks every threshold table of the profile
func (p RegionProfile) Validate() error {
	if err := p.Thresholds.Validate(); err != nil {
		return fmt.Errorf("region %s: %w", p.Code, err)
	}
	for code, t := range p.Subregions {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("region %s subregion %s: %w", p.Code, code, err)
		}
	}
	if p.CostOfLiving < 0 {
		return fmt.Errorf("region %s: cost of living multiplier must not be negative", p.Code)
	}
	if p.UnitsPerUSD.IsNegative() {
		return fmt.Errorf("region %s: units per USD must not be negative", p.Code)
	}
	return nil
}
