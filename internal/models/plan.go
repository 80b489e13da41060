package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyBudgetPlan represents one allocation of a user's monthly income.
// A plan is never edited after creation; a newer plan supersedes it.
type MonthlyBudgetPlan struct {
	ID                     string                      `json:"id"`
	UserID                 string                      `json:"user_id,omitempty"`
	Tier                   IncomeTier                  `json:"tier"`
	Region                 string                      `json:"region"`
	TotalIncome            decimal.Decimal             `json:"total_income"`
	FixedExpenses          map[string]decimal.Decimal  `json:"fixed_expenses"`
	FixedTotal             decimal.Decimal             `json:"fixed_total"`
	SavingsGoal            decimal.Decimal             `json:"savings_goal"`
	DiscretionaryTotal     decimal.Decimal             `json:"discretionary_total"`
	DiscretionaryBreakdown map[string]decimal.Decimal  `json:"discretionary_breakdown"`
	Guidelines             map[string]decimal.Decimal  `json:"guidelines,omitempty"`
	Confidence             float64                     `json:"confidence"`
	Warnings               []DegradedAllocationWarning `json:"warnings,omitempty"`
	CreatedAt              time.Time                   `json:"created_at"`
}

// Degraded reports whether the savings goal had to be reduced
func (p *MonthlyBudgetPlan) Degraded() bool {
	return len(p.Warnings) > 0
}

// MonthlyAmounts merges fixed expenses and the discretionary breakdown into a
// single category to amount map. Discretionary entries win on a name clash.
func (p *MonthlyBudgetPlan) MonthlyAmounts() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(p.FixedExpenses)+len(p.DiscretionaryBreakdown))
	for k, v := range p.FixedExpenses {
		out[k] = v
	}
	for k, v := range p.DiscretionaryBreakdown {
		out[k] = v
	}
	return out
}
