package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Dan9191/spend-calendar/internal/models"
	"github.com/Dan9191/spend-calendar/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testNow = time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr(v decimal.Decimal) *decimal.Decimal {
	return &v
}

func TestClassifyAndAllocate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := repository.NewMockStore(ctrl)
	svc := newTestService(t, mockStore, testNow)
	ctx := context.Background()

	mockStore.EXPECT().
		SavePlan(ctx, gomock.Any()).
		DoAndReturn(func(ctx context.Context, plan *models.MonthlyBudgetPlan) error {
			assert.Equal(t, "user123", plan.UserID)
			assert.NotEmpty(t, plan.ID)
			assert.Equal(t, testNow, plan.CreatedAt)
			return nil
		})

	plan, err := svc.ClassifyAndAllocate(ctx, PlanRequest{
		UserID:          "user123",
		PrimaryIncome:   d("4500"),
		SecondaryIncome: d("1000"),
		Region:          "US",
		HouseholdSize:   1,
		FixedExpenses:   map[string]decimal.Decimal{"rent": d("1200"), "utilities": d("150")},
		SavingsGoal:     ptr(d("500")),
		Frequencies:     map[string]float64{"dining": 8, "entertainment": 4, "shopping": 8},
	})
	require.NoError(t, err)

	// 66,000 a year sits just above the US lower-middle cut of 65,000
	assert.Equal(t, models.TierMiddle, plan.Tier)
	assert.Equal(t, "US", plan.Region)
	assert.True(t, plan.TotalIncome.Equal(d("5500")))
	assert.True(t, plan.DiscretionaryTotal.Equal(d("3650")))
	assert.True(t, plan.DiscretionaryBreakdown["dining"].Equal(d("1460")))
	assert.True(t, plan.DiscretionaryBreakdown["entertainment"].Equal(d("730")))
	assert.True(t, plan.DiscretionaryBreakdown["shopping"].Equal(d("1460")))
	assert.NotEmpty(t, plan.Guidelines)

	total := decimal.Zero
	for _, v := range plan.Guidelines {
		total = total.Add(v)
	}
	assert.True(t, total.Sub(d("5500")).Abs().LessThanOrEqual(d("0.10")), "normalized guidelines add up to income, got %s", total)
}

func TestClassifyAndAllocateInfeasible(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := repository.NewMockStore(ctrl)
	svc := newTestService(t, mockStore, testNow)

	plan, err := svc.ClassifyAndAllocate(context.Background(), PlanRequest{
		UserID:        "user123",
		PrimaryIncome: d("1000"),
		Region:        "US",
		FixedExpenses: map[string]decimal.Decimal{"rent": d("1200")},
		SavingsGoal:   ptr(decimal.Zero),
	})
	assert.Nil(t, plan)
	var infeasible *models.InfeasibleBudgetError
	assert.ErrorAs(t, err, &infeasible)
}

func TestClassifyAndAllocateValidation(t *testing.T) {
	svc := newTestService(t, repository.NewMemoryStore(), testNow)
	ctx := context.Background()

	tests := []struct {
		name  string
		req   PlanRequest
		field string
	}{
		{"no income", PlanRequest{}, "income"},
		{"negative secondary", PlanRequest{PrimaryIncome: d("100"), SecondaryIncome: d("-1")}, "secondary_income"},
		{"negative observed", PlanRequest{PrimaryIncome: d("100"), ObservedSpending: map[string]decimal.Decimal{"food": d("-5")}}, "observed_spending.food"},
		{"negative fixed", PlanRequest{PrimaryIncome: d("100"), FixedExpenses: map[string]decimal.Decimal{"rent": d("-5")}}, "fixed_expenses.rent"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ClassifyAndAllocate(ctx, tt.req)
			var invalid *models.InputValidationError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestClassifyAndAllocateDefaultsSavingsToGuideline(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := newTestService(t, store, testNow)

	plan, err := svc.ClassifyAndAllocate(context.Background(), PlanRequest{
		UserID:        "u1",
		PrimaryIncome: d("6000"),
		Region:        "ZZ",
		Frequencies:   map[string]float64{"dining": 1},
	})
	require.NoError(t, err)

	assert.True(t, plan.SavingsGoal.IsPositive())
	assert.True(t, plan.SavingsGoal.Equal(plan.Guidelines["savings"]))
	assert.True(t, plan.DiscretionaryTotal.Equal(d("6000").Sub(plan.SavingsGoal)))
	assert.Equal(t, "DEFAULT", plan.Region)
	assert.Len(t, store.Plans("u1"), 1)
}

func TestClassifyAndAllocateWithoutUserIsNotStored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := newTestService(t, repository.NewMockStore(ctrl), testNow)
	plan, err := svc.ClassifyAndAllocate(context.Background(), PlanRequest{
		PrimaryIncome: d("3000"),
		SavingsGoal:   ptr(d("100")),
	})
	require.NoError(t, err)
	assert.Empty(t, plan.UserID)
}

func TestClassifyAndAllocateDegradedSavings(t *testing.T) {
	svc := newTestService(t, repository.NewMemoryStore(), testNow)
	plan, err := svc.ClassifyAndAllocate(context.Background(), PlanRequest{
		PrimaryIncome: d("2000"),
		FixedExpenses: map[string]decimal.Decimal{"rent": d("1800")},
		SavingsGoal:   ptr(d("500")),
		Frequencies:   map[string]float64{"dining": 1},
	})
	require.NoError(t, err)
	require.True(t, plan.Degraded())
	assert.True(t, plan.SavingsGoal.Equal(d("200")))
	assert.True(t, plan.DiscretionaryTotal.IsZero())
	assert.Less(t, plan.Confidence, 1.0)
}

type stubRates struct {
	rate decimal.Decimal
	err  error
}

func (s stubRates) UnitsPerUSD(ctx context.Context, currency string) (decimal.Decimal, error) {
	return s.rate, s.err
}

func TestUnitsPerUSDFallsBackToProfile(t *testing.T) {
	svc := newTestService(t, repository.NewMemoryStore(), testNow)
	profile, ok := svc.regions.Profile("IN")
	require.True(t, ok)

	assert.True(t, svc.unitsPerUSD(context.Background(), profile).Equal(profile.UnitsPerUSD))

	svc.rates = stubRates{rate: d("80")}
	assert.True(t, svc.unitsPerUSD(context.Background(), profile).Equal(d("80")))

	svc.rates = stubRates{err: assert.AnError}
	assert.True(t, svc.unitsPerUSD(context.Background(), profile).Equal(profile.UnitsPerUSD))

	us, _ := svc.regions.Profile("US")
	assert.True(t, svc.unitsPerUSD(context.Background(), us).Equal(decimal.NewFromInt(1)))
}

func TestClassifyAndAllocateWarnsOnUnnormalizedGuidelines(t *testing.T) {
	svc := newTestService(t, repository.NewMemoryStore(), testNow)
	svc.config.NormalizeGuidelines = false
	hook := test.NewLocal(svc.log)

	_, err := svc.ClassifyAndAllocate(context.Background(), PlanRequest{
		PrimaryIncome:    d("5000"),
		Region:           "US",
		HouseholdSize:    1,
		Frequencies:      map[string]float64{"dining": 1},
		ObservedSpending: map[string]decimal.Decimal{"pets": d("2500")},
	})
	require.NoError(t, err)

	var warned bool
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel && strings.Contains(entry.Message, "Guideline weights") {
			warned = true
		}
	}
	assert.True(t, warned)
}
