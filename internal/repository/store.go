package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Dan9191/spend-calendar/internal/models"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=store.go -destination=store_mock.go -package=repository

// ErrNotFound is returned when a calendar or entry does not exist
var ErrNotFound = errors.New("not found")

// Store defines the persistence operations used by the service
type Store interface {
	// SavePlan stores a new plan; earlier plans are kept as history
	SavePlan(ctx context.Context, plan *models.MonthlyBudgetPlan) error
	// HasCalendar reports whether a plan has been laid out for the user's
	// month. Entries holding only spending do not count.
	HasCalendar(ctx context.Context, userID string, year int, month time.Month) (bool, error)
	// ReplaceCalendar atomically swaps the planned amounts of the user's month
	// for one record per (day, category). Spending already recorded is kept
	// and the month's transfers are cleared.
	ReplaceCalendar(ctx context.Context, userID string, year int, month time.Month, records []models.CalendarRecord) error
	// LoadCalendar returns the user's month ordered by date and category
	LoadCalendar(ctx context.Context, userID string, year int, month time.Month) ([]models.CalendarRecord, error)
	// RecordSpend adds amount to the spent total of one entry, creating it with
	// a zero plan when the category was not planned for that day
	RecordSpend(ctx context.Context, userID string, date time.Time, category string, amount decimal.Decimal) error
	// WithMonthLock runs fn while holding the exclusive lock of the user's month
	WithMonthLock(ctx context.Context, userID string, year int, month time.Month, fn func(ctx context.Context, tx MonthTx) error) error
	// ListCalendarUsers returns every user with a planned calendar for the month
	ListCalendarUsers(ctx context.Context, year int, month time.Month) ([]string, error)
}

// MonthTx is the view of one user's month available under its lock
type MonthTx interface {
	// DayBalances returns one balance per day: spent adjusted by earlier
	// transfers against the planned total
	DayBalances(ctx context.Context) ([]models.DayBalance, error)
	// SaveTransfers appends the transfers of one run to the audit trail
	SaveTransfers(ctx context.Context, runID string, transfers []models.Transfer) error
}

// monthRange returns the [start, end) dates of a month
func monthRange(year int, month time.Month) (time.Time, time.Time) {
	start := models.MonthStart(year, month)
	return start, start.AddDate(0, 1, 0)
}

// balancesFromRecords folds entries and transfers into one balance per day of
// the month. Days without entries get a zero balance.
func balancesFromRecords(year int, month time.Month, records []models.CalendarRecord, transfers []models.Transfer) []models.DayBalance {
	start := models.MonthStart(year, month)
	days := make([]models.DayBalance, models.DaysIn(year, month))
	for i := range days {
		days[i] = models.DayBalance{Date: start.AddDate(0, 0, i), Actual: decimal.Zero, Limit: decimal.Zero}
	}
	index := func(t time.Time) (int, bool) {
		i := t.Day() - 1
		if t.Year() != year || t.Month() != month || i < 0 || i >= len(days) {
			return 0, false
		}
		return i, true
	}

	for _, r := range records {
		if i, ok := index(r.Date); ok {
			days[i].Actual = days[i].Actual.Add(r.SpentAmount)
			days[i].Limit = days[i].Limit.Add(r.PlannedAmount)
		}
	}
	for _, t := range transfers {
		if i, ok := index(t.From); ok {
			days[i].Actual = days[i].Actual.Sub(t.Amount)
		}
		if i, ok := index(t.To); ok {
			days[i].Actual = days[i].Actual.Add(t.Amount)
		}
	}
	return days
}
