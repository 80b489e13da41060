package calendar

import (
	"strings"

	"github.com/Dan9191/spend-calendar/internal/models"
)

// Policies maps a category id to its behavior policy
type Policies map[string]models.BehaviorPolicy

// anchor categories are paid at the very start of the month
var anchorCategories = map[string]bool{
	"rent":        true,
	"mortgage":    true,
	"tuition":     true,
	"school_fees": true,
	"childcare":   true,
}

// IsAnchor reports whether a FIXED category belongs on day 1
func IsAnchor(category string) bool {
	return anchorCategories[normalize(category)]
}

// DefaultPolicies returns the built-in category policy table
func DefaultPolicies() Policies {
	return Policies{
		"rent":          models.PolicyFixed,
		"mortgage":      models.PolicyFixed,
		"tuition":       models.PolicyFixed,
		"school_fees":   models.PolicyFixed,
		"childcare":     models.PolicyFixed,
		"utilities":     models.PolicyFixed,
		"subscriptions": models.PolicyFixed,
		"insurance":     models.PolicyFixed,
		"phone":         models.PolicyFixed,
		"internet":      models.PolicyFixed,
		"loan":          models.PolicyFixed,
		"savings":       models.PolicyFixed,
		"groceries":     models.PolicySpread,
		"food":          models.PolicySpread,
		"transport":     models.PolicySpread,
		"coffee":        models.PolicySpread,
		"healthcare":    models.PolicySpread,
		"personal":      models.PolicySpread,
		"dining":        models.PolicyClustered,
		"entertainment": models.PolicyClustered,
		"shopping":      models.PolicyClustered,
		"travel":        models.PolicyClustered,
	}
}

// Lookup finds the policy of a category, ignoring case and surrounding space
func (p Policies) Lookup(category string) (models.BehaviorPolicy, bool) {
	if policy, ok := p[category]; ok {
		return policy, true
	}
	policy, ok := p[normalize(category)]
	return policy, ok
}

// Merge returns a copy of p with overrides applied
func (p Policies) Merge(overrides Policies) Policies {
	out := make(Policies, len(p)+len(overrides))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range overrides {
		out[normalize(k)] = v
	}
	return out
}

func normalize(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}
