package main

import (
	"github.com/Dan9191/spend-calendar/internal/service"
	"github.com/spf13/cobra"
)

var flagPlanInput string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Classify income and allocate a monthly plan",
	Example: `  budgetctl plan --input onboarding.json
  cat onboarding.json | budgetctl plan --input -`,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&flagPlanInput, "input", "i", "-", "Plan request JSON file")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, _ []string) error {
	var req service.PlanRequest
	if err := readJSON(cmd, flagPlanInput, &req); err != nil {
		return err
	}
	svc, err := newService(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	plan, err := svc.ClassifyAndAllocate(cmd.Context(), req)
	if err != nil {
		return err
	}
	return writeJSON(cmd, plan)
}
