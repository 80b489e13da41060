// Package redistribution moves surplus from under-spent days to over-spent
// days of a realized calendar.
package redistribution

import (
	"sort"

	"github.com/Dan9191/spend-calendar/internal/models"
	"github.com/shopspring/decimal"
)

// Result is the outcome of one redistribution run
type Result struct {
	Days      []models.DayBalance `json:"days"`
	Transfers []models.Transfer   `json:"transfers"`
	// ResidualOverage is overage that no shortfall could absorb
	ResidualOverage decimal.Decimal `json:"residual_overage"`
}

// Balanced reports whether every overage was absorbed
func (r Result) Balanced() bool {
	return r.ResidualOverage.IsZero()
}

type slot struct {
	idx       int
	remaining decimal.Decimal
}

// Redistribute matches the largest overages with the largest shortfalls.
// The input is not modified. Transfers are zero-sum, a destination never
// receives more than its own shortfall, and a calendar with no day over its
// limit yields no transfers. Ties are broken by date, then input position.
func Redistribute(days []models.DayBalance) Result {
	out := make([]models.DayBalance, len(days))
	copy(out, days)

	var over, under []slot
	for i, day := range out {
		if o := day.Overage(); o.IsPositive() {
			over = append(over, slot{idx: i, remaining: o})
		}
		if s := day.Shortfall(); s.IsPositive() {
			under = append(under, slot{idx: i, remaining: s})
		}
	}
	sortSlots(over, out)
	sortSlots(under, out)

	transfers := make([]models.Transfer, 0, len(over))
	for i := range over {
		src := &over[i]
		for j := range under {
			if !src.remaining.IsPositive() {
				break
			}
			dst := &under[j]
			if !dst.remaining.IsPositive() {
				continue
			}
			amount := decimal.Min(src.remaining, dst.remaining)

			out[src.idx].Actual = out[src.idx].Actual.Sub(amount)
			out[dst.idx].Actual = out[dst.idx].Actual.Add(amount)
			transfers = append(transfers, models.Transfer{
				From:   out[src.idx].Date,
				To:     out[dst.idx].Date,
				Amount: amount,
			})
			src.remaining = src.remaining.Sub(amount)
			dst.remaining = dst.remaining.Sub(amount)
		}
	}

	residual := decimal.Zero
	for _, s := range over {
		residual = residual.Add(s.remaining)
	}
	return Result{Days: out, Transfers: transfers, ResidualOverage: residual}
}

// Total returns the sum of actual amounts across days
func Total(days []models.DayBalance) decimal.Decimal {
	total := decimal.Zero
	for _, day := range days {
		total = total.Add(day.Actual)
	}
	return total
}

func sortSlots(slots []slot, days []models.DayBalance) {
	sort.SliceStable(slots, func(a, b int) bool {
		if c := slots[a].remaining.Cmp(slots[b].remaining); c != 0 {
			return c > 0
		}
		da, db := days[slots[a].idx].Date, days[slots[b].idx].Date
		if !da.Equal(db) {
			return da.Before(db)
		}
		return slots[a].idx < slots[b].idx
	})
}
