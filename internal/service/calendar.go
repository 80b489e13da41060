package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/spend-calendar/internal/calendar"
	"github.com/Dan9191/spend-calendar/internal/models"
	"github.com/Dan9191/spend-calendar/internal/repository"
	"github.com/shopspring/decimal"
)

// BuildCalendar distributes the plan over the month. When userID is set the
// calendar is stored, replacing a stored calendar only for months that have
// not started yet.
func (s *Service) BuildCalendar(ctx context.Context, userID string, plan *models.MonthlyBudgetPlan, year int, month time.Month) ([]models.CalendarDay, error) {
	if plan == nil {
		return nil, &models.InputValidationError{Field: "plan", Reason: "is required"}
	}

	profile, _ := s.regions.Profile(plan.Region)
	policies := s.policies.Merge(fixedPolicies(plan))
	res, err := calendar.DistributeWithDefault(plan.MonthlyAmounts(), year, month, policies, profile.DefaultPolicy)
	if err != nil {
		return nil, err
	}
	for _, category := range res.Unmapped {
		unmapped := &models.UnmappedCategoryPolicy{Category: category, Applied: profile.DefaultPolicy}
		s.log.WithField("plan_id", plan.ID).Warn(unmapped.Error())
	}

	if userID == "" {
		return res.Days, nil
	}

	exists, err := s.store.HasCalendar(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}
	if exists && s.monthStarted(year, month) {
		return nil, fmt.Errorf("calendar %04d-%02d for user %s: %w", year, month, userID, ErrMonthInProgress)
	}

	if err := s.store.ReplaceCalendar(ctx, userID, year, month, toRecords(userID, res.Days)); err != nil {
		return nil, err
	}
	s.log.Infof("Calendar %04d-%02d stored for user %s (%s planned)", year, month, userID, res.Total().StringFixed(2))
	return res.Days, nil
}

// Calendar loads a stored month as one CalendarDay per day
func (s *Service) Calendar(ctx context.Context, userID string, year int, month time.Month) ([]models.CalendarDay, error) {
	records, err := s.store.LoadCalendar(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("calendar %04d-%02d for user %s: %w", year, month, userID, repository.ErrNotFound)
	}
	return fromRecords(year, month, records), nil
}

// RecordSpend adds a spend reported by a collaborating system
func (s *Service) RecordSpend(ctx context.Context, userID string, date time.Time, category string, amount decimal.Decimal) error {
	if category == "" {
		return &models.InputValidationError{Field: "category", Reason: "is required"}
	}
	if !amount.IsPositive() {
		return &models.InputValidationError{Field: "amount", Reason: "must be positive"}
	}
	if date.IsZero() {
		return &models.InputValidationError{Field: "date", Reason: "is required"}
	}
	if err := s.store.RecordSpend(ctx, userID, date, category, amount.Round(2)); err != nil {
		return err
	}
	s.log.Debugf("Spend recorded for user %s on %s: %s %s", userID, date.Format(models.DateLayout), category, amount.StringFixed(2))
	return nil
}

// fixedPolicies pins every fixed expense to FIXED. A name that is also a
// discretionary category keeps its own policy, since the discretionary
// amount is the one distributed.
func fixedPolicies(plan *models.MonthlyBudgetPlan) calendar.Policies {
	out := make(calendar.Policies, len(plan.FixedExpenses))
	for category := range plan.FixedExpenses {
		if _, ok := plan.DiscretionaryBreakdown[category]; ok {
			continue
		}
		out[category] = models.PolicyFixed
	}
	return out
}

func toRecords(userID string, days []models.CalendarDay) []models.CalendarRecord {
	var records []models.CalendarRecord
	for _, day := range days {
		for category, amount := range day.Categories {
			records = append(records, models.CalendarRecord{
				UserID:        userID,
				Date:          day.Date,
				Category:      category,
				PlannedAmount: amount,
				SpentAmount:   decimal.Zero,
			})
		}
	}
	return records
}

func fromRecords(year int, month time.Month, records []models.CalendarRecord) []models.CalendarDay {
	start := models.MonthStart(year, month)
	days := make([]models.CalendarDay, models.DaysIn(year, month))
	for i := range days {
		days[i] = models.CalendarDay{
			Date:       start.AddDate(0, 0, i),
			Categories: make(map[string]decimal.Decimal),
		}
	}
	for _, r := range records {
		i := r.Date.Day() - 1
		if r.Date.Year() != year || r.Date.Month() != month || i < 0 || i >= len(days) {
			continue
		}
		days[i].Categories[r.Category] = r.PlannedAmount
		days[i].Spent = days[i].Spent.Add(r.SpentAmount)
	}
	for i := range days {
		days[i].Recalculate()
		days[i].Limit = days[i].Total
	}
	return days
}
