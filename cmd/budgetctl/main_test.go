package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Dan9191/spend-calendar/internal/models"
	"github.com/Dan9191/spend-calendar/internal/redistribution"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const requestJSON = `{
	"primary_income": "5500",
	"region": "US",
	"household_size": 2,
	"fixed_expenses": {"rent": "1200", "utilities": "150"},
	"savings_goal": "500",
	"frequencies": {"dining": 8, "entertainment": 4, "shopping": 8}
}`

// run executes the root command with stdin and returns stdout
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestPlanCommand(t *testing.T) {
	out, err := run(t, requestJSON, "plan", "--input", "-")
	require.NoError(t, err)

	var plan models.MonthlyBudgetPlan
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	assert.Equal(t, models.TierMiddle, plan.Tier)
	assert.True(t, plan.DiscretionaryTotal.Equal(decimal.RequireFromString("3650")))
	assert.NotEmpty(t, plan.Guidelines)
}

func TestPlanCommandInfeasible(t *testing.T) {
	_, err := run(t, `{"primary_income":"1000","fixed_expenses":{"rent":"1500"}}`, "plan", "--input", "-")
	var infeasible *models.InfeasibleBudgetError
	assert.ErrorAs(t, err, &infeasible)
}

func TestCalendarCommandFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"request":`+requestJSON+`}`), 0o600))

	out, err := run(t, "", "calendar", "--input", path, "--month", "2026-02", "--json=true")
	require.NoError(t, err)

	var days []models.CalendarDay
	require.NoError(t, json.Unmarshal([]byte(out), &days))
	require.Len(t, days, 28)
	total := decimal.Zero
	for _, day := range days {
		total = total.Add(day.Total)
	}
	assert.True(t, total.Equal(decimal.RequireFromString("5000")), total.String())
	assert.True(t, days[0].Categories["rent"].Equal(decimal.RequireFromString("1200")))

	table, err := run(t, "", "calendar", "--input", path, "--month", "2026-02", "--json=false")
	require.NoError(t, err)
	assert.Contains(t, table, "2026-02-01")
	assert.Contains(t, table, "rent=1200.00")
}

func TestCalendarCommandErrors(t *testing.T) {
	_, err := run(t, `{}`, "calendar", "--input", "-", "--month", "2026-02")
	assert.Error(t, err)

	_, err = run(t, `{"request":`+requestJSON+`}`, "calendar", "--input", "-", "--month", "2026-13")
	assert.Error(t, err)

	_, err = run(t, `{"unknown": 1}`, "calendar", "--input", "-", "--month", "2026-02")
	assert.Error(t, err)
}

func TestRedistributeCommand(t *testing.T) {
	input := `{"days":[
		{"date":"2026-10-01T00:00:00Z","actual":"150","limit":"100"},
		{"date":"2026-10-02T00:00:00Z","actual":"70","limit":"100"},
		{"date":"2026-10-03T00:00:00Z","actual":"85","limit":"100"}
	]}`

	out, err := run(t, input, "redistribute", "--input", "-", "--json=false")
	require.NoError(t, err)
	assert.Contains(t, out, "2026-10-01 -> 2026-10-02  30.00")
	assert.Contains(t, out, "2026-10-01 -> 2026-10-03  15.00")
	assert.Contains(t, out, "Residual overage: 5.00")

	out, err = run(t, input, "redistribute", "--input", "-", "--json=true")
	require.NoError(t, err)
	var res redistribution.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Len(t, res.Transfers, 2)
}

func TestParseMonth(t *testing.T) {
	year, month, err := parseMonth("2026-11")
	require.NoError(t, err)
	assert.Equal(t, 2026, year)
	assert.Equal(t, 11, month)

	for _, bad := range []string{"", "2026", "2026-00", "11/2026"} {
		_, _, err := parseMonth(bad)
		assert.Error(t, err, bad)
	}
}
