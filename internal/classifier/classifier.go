package classifier

import (
	"strings"

	"github.com/Dan9191/spend-calendar/internal/models"
	"github.com/shopspring/decimal"
)

var monthsPerYear = decimal.NewFromInt(12)

// Registry resolves region profiles and classifies incomes into tiers.
// It is read-only after construction and safe for concurrent use.
type Registry struct {
	profiles map[string]models.RegionProfile
}

// NewRegistry builds a registry from the built-in profiles with overrides
// applied on top. An override replaces the built-in profile of the same code.
func NewRegistry(overrides map[string]models.RegionProfile) *Registry {
	profiles := DefaultProfiles()
	for code, p := range overrides {
		profiles[strings.ToUpper(code)] = p
	}
	return &Registry{profiles: profiles}
}

// Profile returns the profile for region, falling back to the default profile
func (r *Registry) Profile(region string) (models.RegionProfile, bool) {
	p, ok := r.profiles[strings.ToUpper(strings.TrimSpace(region))]
	if !ok {
		return r.profiles[DefaultRegion], false
	}
	return p, true
}

// Classify maps a positive monthly income to a tier. Income must be validated
// by the caller; unknown regions and subregions resolve through fallbacks.
func (r *Registry) Classify(monthlyIncome decimal.Decimal, region, subregion string) models.IncomeTier {
	profile, _ := r.Profile(region)
	thresholds := profile.ThresholdsFor(strings.ToUpper(strings.TrimSpace(subregion)))
	annual := monthlyIncome.Mul(monthsPerYear)
	return ClassifyAnnual(annual, thresholds)
}

// ClassifyAnnual compares an annual income against four ascending cut points.
// An income exactly on a boundary falls into the lower tier.
func ClassifyAnnual(annual decimal.Decimal, t models.Thresholds) models.IncomeTier {
	for i, cut := range t.Values() {
		if annual.LessThanOrEqual(cut) {
			return models.Tiers[i]
		}
	}
	return models.TierHigh
}
