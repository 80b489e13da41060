package service

import (
	"context"

	"github.com/Dan9191/spend-calendar/internal/allocator"
	"github.com/Dan9191/spend-calendar/internal/elasticity"
	"github.com/Dan9191/spend-calendar/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlanRequest holds the onboarding answers needed to build a plan
type PlanRequest struct {
	UserID          string                     `json:"-"`
	PrimaryIncome   decimal.Decimal            `json:"primary_income"`
	SecondaryIncome decimal.Decimal            `json:"secondary_income"`
	Region          string                     `json:"region"`
	Subregion       string                     `json:"subregion,omitempty"`
	HouseholdSize   int                        `json:"household_size"`
	FixedExpenses   map[string]decimal.Decimal `json:"fixed_expenses"`
	// SavingsGoal defaults to the savings guideline when omitted
	SavingsGoal *decimal.Decimal   `json:"savings_goal,omitempty"`
	Frequencies map[string]float64 `json:"frequencies"`
	// ObservedSpending holds the user's own monthly spend per guideline category
	ObservedSpending map[string]decimal.Decimal `json:"observed_spending,omitempty"`
}

var monthsPerYear = decimal.NewFromInt(12)

// ClassifyAndAllocate classifies the income, derives guideline ratios and
// allocates a monthly plan. The plan is stored when the request names a user.
func (s *Service) ClassifyAndAllocate(ctx context.Context, req PlanRequest) (*models.MonthlyBudgetPlan, error) {
	if req.SecondaryIncome.IsNegative() {
		return nil, &models.InputValidationError{Field: "secondary_income", Reason: "must not be negative"}
	}
	income := req.PrimaryIncome.Add(req.SecondaryIncome)
	if !income.IsPositive() {
		return nil, &models.InputValidationError{Field: "income", Reason: "must be positive"}
	}
	for category, amount := range req.ObservedSpending {
		if amount.IsNegative() {
			return nil, &models.InputValidationError{Field: "observed_spending." + category, Reason: "must not be negative"}
		}
	}

	tier := s.regions.Classify(income, req.Region, req.Subregion)
	profile, known := s.regions.Profile(req.Region)
	if !known {
		s.log.Debugf("Unknown region %q, using default thresholds", req.Region)
	}

	units := s.unitsPerUSD(ctx, profile)
	annualUSD, _ := income.Mul(monthsPerYear).Div(units).Float64()
	weights := s.scaler.ScaleAll(tier, annualUSD, req.HouseholdSize, profile.CostOfLiving)
	if len(req.ObservedSpending) > 0 {
		weights = elasticity.Blend(weights, observedShares(income, req.ObservedSpending), s.config.ObservedBlend)
	}
	if !s.config.NormalizeGuidelines && !weights.IsNormalized() {
		s.log.WithField("user_id", req.UserID).Warnf("Guideline weights sum to %.3f and are used as is", weights.Sum())
	}

	var savings decimal.Decimal
	if req.SavingsGoal != nil {
		savings = *req.SavingsGoal
	} else {
		savings = allocator.GuidelineAmounts(income, weights, s.config.NormalizeGuidelines)["savings"]
	}

	plan, err := allocator.Allocate(allocator.Input{
		Income:              income,
		FixedExpenses:       req.FixedExpenses,
		SavingsGoal:         savings,
		Frequencies:         req.Frequencies,
		Guidelines:          weights,
		NormalizeGuidelines: s.config.NormalizeGuidelines,
	})
	if err != nil {
		s.log.WithField("user_id", req.UserID).Infof("Allocation rejected: %v", err)
		return nil, err
	}

	plan.ID = uuid.NewString()
	plan.UserID = req.UserID
	plan.Tier = tier
	plan.Region = profile.Code
	plan.CreatedAt = s.now().UTC()

	for _, w := range plan.Warnings {
		s.log.WithField("user_id", req.UserID).Warnf("Degraded allocation: %s", w.Error())
	}

	if req.UserID != "" {
		if err := s.store.SavePlan(ctx, plan); err != nil {
			return nil, err
		}
	}

	s.log.Infof("Plan %s created: tier=%s discretionary=%s confidence=%.2f",
		plan.ID, plan.Tier, plan.DiscretionaryTotal.StringFixed(2), plan.Confidence)
	return plan, nil
}

// unitsPerUSD prefers the live rate and falls back to the profile's static rate
func (s *Service) unitsPerUSD(ctx context.Context, profile models.RegionProfile) decimal.Decimal {
	if profile.Currency == "" || profile.Currency == "USD" {
		return decimal.NewFromInt(1)
	}
	if s.rates != nil {
		rate, err := s.rates.UnitsPerUSD(ctx, profile.Currency)
		if err == nil && rate.IsPositive() {
			return rate
		}
		s.log.Warnf("Live rate for %s unavailable, using static rate: %v", profile.Currency, err)
	}
	if profile.UnitsPerUSD.IsPositive() {
		return profile.UnitsPerUSD
	}
	return decimal.NewFromInt(1)
}

func observedShares(income decimal.Decimal, observed map[string]decimal.Decimal) models.CategoryWeights {
	shares := make(models.CategoryWeights, len(observed))
	for category, amount := range observed {
		share, _ := amount.Div(income).Float64()
		shares[category] = share
	}
	return shares
}
