package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire and storage format of calendar dates
const DateLayout = "2006-01-02"

// CalendarDay represents the plan for a single day of a month
type CalendarDay struct {
	Date       time.Time                  `json:"date"`
	Categories map[string]decimal.Decimal `json:"categories"`
	Total      decimal.Decimal            `json:"total"`
	Spent      decimal.Decimal            `json:"spent"`
	Limit      decimal.Decimal            `json:"limit"`
}

// Recalculate sets Total to the sum of the category amounts
func (d *CalendarDay) Recalculate() {
	total := decimal.Zero
	for _, v := range d.Categories {
		total = total.Add(v)
	}
	d.Total = total
}

// DayBalance is a realized day: what was spent against what was allowed
type DayBalance struct {
	Date   time.Time       `json:"date"`
	Actual decimal.Decimal `json:"actual"`
	Limit  decimal.Decimal `json:"limit"`
}

// Overage returns max(0, actual - limit)
func (b DayBalance) Overage() decimal.Decimal {
	return decimal.Max(decimal.Zero, b.Actual.Sub(b.Limit))
}

// Shortfall returns max(0, limit - actual)
func (b DayBalance) Shortfall() decimal.Decimal {
	return decimal.Max(decimal.Zero, b.Limit.Sub(b.Actual))
}

// Transfer records one redistribution move from an over-spent day to an under-spent day
type Transfer struct {
	From   time.Time       `json:"from"`
	To     time.Time       `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

// CalendarRecord is the persisted shape of one (day, category) entry
type CalendarRecord struct {
	UserID        string          `json:"user_id"`
	Date          time.Time       `json:"date"`
	Category      string          `json:"category"`
	PlannedAmount decimal.Decimal `json:"planned_amount"`
	SpentAmount   decimal.Decimal `json:"spent_amount"`
}

// MonthStart returns midnight UTC on the first day of the month
func MonthStart(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// DaysIn returns the number of days in the month
func DaysIn(year int, month time.Month) int {
	return MonthStart(year, month).AddDate(0, 1, -1).Day()
}
