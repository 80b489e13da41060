// Package calendar places monthly category amounts onto the days of a month.
package calendar

import (
	"sort"
	"time"

	"github.com/Dan9191/spend-calendar/internal/models"
	"github.com/shopspring/decimal"
)

// Result is a distributed month
type Result struct {
	Days []models.CalendarDay
	// Unmapped lists categories that had no policy and got the fallback
	Unmapped []string
}

// Total returns the sum of all day totals
func (r *Result) Total() decimal.Decimal {
	total := decimal.Zero
	for _, day := range r.Days {
		total = total.Add(day.Total)
	}
	return total
}

// Distribute places every category amount onto days of the month according
// to its policy. Amounts are rounded to cents first and then split in whole
// cents, so the month total equals the sum of the rounded inputs exactly.
// Each day's limit starts out equal to its planned total. Categories without
// a policy are spread.
func Distribute(amounts map[string]decimal.Decimal, year int, month time.Month, policies Policies) (*Result, error) {
	return DistributeWithDefault(amounts, year, month, policies, models.PolicySpread)
}

// DistributeWithDefault is Distribute with fallback as the policy of
// categories missing from policies.
func DistributeWithDefault(amounts map[string]decimal.Decimal, year int, month time.Month, policies Policies, fallback models.BehaviorPolicy) (*Result, error) {
	if month < time.January || month > time.December {
		return nil, &models.InputValidationError{Field: "month", Reason: "must be between 1 and 12"}
	}
	if year < 1 {
		return nil, &models.InputValidationError{Field: "year", Reason: "must be positive"}
	}

	categories := make([]string, 0, len(amounts))
	for category, amount := range amounts {
		if amount.IsNegative() {
			return nil, &models.InputValidationError{Field: "amounts." + category, Reason: "must not be negative"}
		}
		categories = append(categories, category)
	}
	sort.Strings(categories)

	start := models.MonthStart(year, month)
	days := make([]models.CalendarDay, models.DaysIn(year, month))
	for i := range days {
		days[i] = models.CalendarDay{
			Date:       start.AddDate(0, 0, i),
			Categories: make(map[string]decimal.Decimal),
		}
	}

	result := &Result{}
	for _, category := range categories {
		policy, ok := policies.Lookup(category)
		if !ok {
			policy = fallback
			result.Unmapped = append(result.Unmapped, category)
		}

		amount := amounts[category].Round(2)
		if amount.IsZero() {
			continue
		}

		selected := SelectDays(category, policy, year, month)
		for i, share := range SplitCents(amount, len(selected)) {
			if share.IsZero() {
				continue
			}
			day := &days[selected[i]]
			day.Categories[category] = day.Categories[category].Add(share)
		}
	}

	for i := range days {
		days[i].Recalculate()
		days[i].Limit = days[i].Total
	}
	result.Days = days
	return result, nil
}

// SplitCents splits a cent-rounded amount into n whole-cent shares. The
// remainder goes to the first share.
func SplitCents(amount decimal.Decimal, n int) []decimal.Decimal {
	if n <= 0 {
		return nil
	}
	cents := amount.Shift(2).IntPart()
	per := cents / int64(n)
	rem := cents - per*int64(n)

	shares := make([]decimal.Decimal, n)
	for i := range shares {
		c := per
		if i == 0 {
			c += rem
		}
		shares[i] = decimal.New(c, -2)
	}
	return shares
}
