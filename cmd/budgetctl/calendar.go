package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Dan9191/spend-calendar/internal/models"
	"github.com/Dan9191/spend-calendar/internal/service"
	"github.com/spf13/cobra"
)

var (
	flagCalendarInput string
	flagMonth         string
	flagCalendarJSON  bool
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Distribute a plan over the days of a month",
	Long: "Reads either a plan ({\"plan\": {...}}) or an onboarding request ({\"request\": {...}})\n" +
		"and prints the daily amounts of the month.",
	RunE: runCalendar,
}

func init() {
	calendarCmd.Flags().StringVarP(&flagCalendarInput, "input", "i", "-", "Plan or request JSON file")
	calendarCmd.Flags().StringVarP(&flagMonth, "month", "m", time.Now().UTC().Format("2006-01"), "Target month (YYYY-MM)")
	calendarCmd.Flags().BoolVar(&flagCalendarJSON, "json", false, "Print JSON instead of a table")
	rootCmd.AddCommand(calendarCmd)
}

type calendarInput struct {
	Plan    *models.MonthlyBudgetPlan `json:"plan"`
	Request *service.PlanRequest      `json:"request"`
}

func runCalendar(cmd *cobra.Command, _ []string) error {
	year, month, err := parseMonth(flagMonth)
	if err != nil {
		return err
	}
	var in calendarInput
	if err := readJSON(cmd, flagCalendarInput, &in); err != nil {
		return err
	}
	svc, err := newService(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	plan := in.Plan
	if plan == nil {
		if in.Request == nil {
			return fmt.Errorf("input needs a plan or a request")
		}
		if plan, err = svc.ClassifyAndAllocate(cmd.Context(), *in.Request); err != nil {
			return err
		}
	}
	days, err := svc.BuildCalendar(cmd.Context(), "", plan, year, time.Month(month))
	if err != nil {
		return err
	}

	if flagCalendarJSON {
		return writeJSON(cmd, days)
	}
	return renderCalendar(cmd, days)
}

func renderCalendar(cmd *cobra.Command, days []models.CalendarDay) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Date\tDay\tTotal\tCategories\t")
	for _, day := range days {
		names := make([]string, 0, len(day.Categories))
		for name := range day.Categories {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, 0, len(names))
		for _, name := range names {
			parts = append(parts, name+"="+day.Categories[name].StringFixed(2))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n",
			day.Date.Format(models.DateLayout), day.Date.Weekday().String()[:3], day.Total.StringFixed(2), strings.Join(parts, " "))
	}
	return tw.Flush()
}
