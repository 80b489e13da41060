// Package allocator splits a monthly income into fixed, savings and
// discretionary parts and breaks the discretionary part down by category.
package allocator

import (
	"math"
	"sort"

	"github.com/Dan9191/spend-calendar/internal/models"
	"github.com/shopspring/decimal"
)

const (
	baseConfidence     = 0.5
	degradedConfidence = 0.75
)

// Input holds everything needed to build a monthly plan
type Input struct {
	Income        decimal.Decimal
	FixedExpenses map[string]decimal.Decimal
	SavingsGoal   decimal.Decimal
	// Frequencies holds how often each discretionary category is used per month
	Frequencies map[string]float64
	// Guidelines are optional recommended shares of income per category
	Guidelines          models.CategoryWeights
	NormalizeGuidelines bool
}

// Validate rejects inputs that must not reach the allocation
func (in Input) Validate() error {
	if !in.Income.IsPositive() {
		return &models.InputValidationError{Field: "income", Reason: "must be positive"}
	}
	for category, amount := range in.FixedExpenses {
		if amount.IsNegative() {
			return &models.InputValidationError{Field: "fixed_expenses." + category, Reason: "must not be negative"}
		}
	}
	if in.SavingsGoal.IsNegative() {
		return &models.InputValidationError{Field: "savings_goal", Reason: "must not be negative"}
	}
	for category, freq := range in.Frequencies {
		if freq < 0 || math.IsNaN(freq) || math.IsInf(freq, 0) {
			return &models.InputValidationError{Field: "frequencies." + category, Reason: "must be a non-negative number"}
		}
	}
	if err := in.Guidelines.Validate(); err != nil {
		return &models.InputValidationError{Field: "guidelines", Reason: err.Error()}
	}
	return nil
}

// Allocate builds a plan. It fails with *models.InputValidationError or
// *models.InfeasibleBudgetError and never returns a partial plan.
func Allocate(in Input) (*models.MonthlyBudgetPlan, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	fixed := make(map[string]decimal.Decimal, len(in.FixedExpenses))
	fixedTotal := decimal.Zero
	for category, amount := range in.FixedExpenses {
		fixed[category] = amount
		fixedTotal = fixedTotal.Add(amount)
	}
	if fixedTotal.GreaterThan(in.Income) {
		return nil, &models.InfeasibleBudgetError{Income: in.Income, FixedTotal: fixedTotal}
	}

	plan := &models.MonthlyBudgetPlan{
		TotalIncome:   in.Income,
		FixedExpenses: fixed,
		FixedTotal:    fixedTotal,
		SavingsGoal:   in.SavingsGoal,
	}

	discretionary := in.Income.Sub(fixedTotal).Sub(in.SavingsGoal)
	if discretionary.IsNegative() {
		applied := decimal.Max(decimal.Zero, in.Income.Sub(fixedTotal))
		plan.Warnings = append(plan.Warnings, models.DegradedAllocationWarning{
			RequestedSavings: in.SavingsGoal,
			AppliedSavings:   applied,
		})
		plan.SavingsGoal = applied
		discretionary = decimal.Zero
	}
	plan.DiscretionaryTotal = discretionary

	breakdown, observed := Breakdown(discretionary, in.Frequencies)
	plan.DiscretionaryBreakdown = breakdown
	plan.Confidence = confidence(observed, len(in.Frequencies), plan.Degraded())
	plan.Guidelines = GuidelineAmounts(in.Income, in.Guidelines, in.NormalizeGuidelines)
	return plan, nil
}

// Breakdown splits the discretionary total by frequency weight (freq / sum),
// rounding each amount half-up to cents. When every frequency is zero each
// category gets an equal share. It also returns how many categories had a positive
// frequency. The multiplication happens before the division so that exact
// shares such as 8/20 stay exact.
func Breakdown(discretionary decimal.Decimal, frequencies map[string]float64) (map[string]decimal.Decimal, int) {
	out := make(map[string]decimal.Decimal, len(frequencies))
	if len(frequencies) == 0 {
		return out, 0
	}

	categories := make([]string, 0, len(frequencies))
	sum := decimal.Zero
	observed := 0
	for category, f := range frequencies {
		categories = append(categories, category)
		sum = sum.Add(decimal.NewFromFloat(f))
		if f > 0 {
			observed++
		}
	}
	sort.Strings(categories)

	n := decimal.NewFromInt(int64(len(categories)))
	for _, category := range categories {
		var amount decimal.Decimal
		if sum.IsPositive() {
			amount = discretionary.Mul(decimal.NewFromFloat(frequencies[category])).Div(sum)
		} else {
			amount = discretionary.Div(n)
		}
		out[category] = RoundCents(amount)
	}
	return out, observed
}

// GuidelineAmounts converts weights into monetary amounts of income. Weights
// are only renormalized when normalize is set.
func GuidelineAmounts(income decimal.Decimal, weights models.CategoryWeights, normalize bool) map[string]decimal.Decimal {
	if len(weights) == 0 {
		return nil
	}
	if normalize {
		weights = weights.Normalize()
	}
	out := make(map[string]decimal.Decimal, len(weights))
	for category, w := range weights {
		out[category] = RoundCents(income.Mul(decimal.NewFromFloat(w)))
	}
	return out
}

// RoundCents rounds half away from zero to two places, which is half-up for
// the non-negative amounts handled here.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func confidence(observed, total int, degraded bool) float64 {
	c := baseConfidence
	if total > 0 && observed > 0 {
		c += (1 - baseConfidence) * float64(observed) / float64(total)
	}
	if degraded {
		c *= degradedConfidence
	}
	return c
}
