package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InputValidationError is returned when a request is rejected before any computation
type InputValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *InputValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InfeasibleBudgetError is returned when fixed expenses alone exceed income
type InfeasibleBudgetError struct {
	Income     decimal.Decimal `json:"income"`
	FixedTotal decimal.Decimal `json:"fixed_total"`
}

func (e *InfeasibleBudgetError) Error() string {
	return fmt.Sprintf("budget infeasible: fixed expenses %s exceed income %s",
		e.FixedTotal.StringFixed(2), e.Income.StringFixed(2))
}

// Shortfall returns how much the fixed expenses exceed income
func (e *InfeasibleBudgetError) Shortfall() decimal.Decimal {
	return e.FixedTotal.Sub(e.Income)
}

// DegradedAllocationWarning is attached to a plan whose savings goal was reduced
// so that the discretionary total stays non-negative.
type DegradedAllocationWarning struct {
	RequestedSavings decimal.Decimal `json:"requested_savings"`
	AppliedSavings   decimal.Decimal `json:"applied_savings"`
}

func (w DegradedAllocationWarning) Error() string {
	return fmt.Sprintf("savings goal reduced from %s to %s",
		w.RequestedSavings.StringFixed(2), w.AppliedSavings.StringFixed(2))
}

// UnmappedCategoryPolicy reports a category that had no behavior policy and
// was placed with the fallback policy (SPREAD unless the region says otherwise)
type UnmappedCategoryPolicy struct {
	Category string         `json:"category"`
	Applied  BehaviorPolicy `json:"applied"`
}

func (e *UnmappedCategoryPolicy) Error() string {
	return fmt.Sprintf("category %s has no behavior policy, defaulting to %s", e.Category, e.Applied)
}
