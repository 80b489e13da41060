package main

import (
	"fmt"

	"github.com/Dan9191/spend-calendar/internal/models"
	"github.com/spf13/cobra"
)

var (
	flagRedistributeInput string
	flagRedistributeJSON  bool
)

var redistributeCmd = &cobra.Command{
	Use:   "redistribute",
	Short: "Move surplus from under-spent days to over-spent days",
	Long:  "Reads {\"days\": [{\"date\", \"actual\", \"limit\"}, ...]} and prints the transfers.",
	RunE:  runRedistribute,
}

func init() {
	redistributeCmd.Flags().StringVarP(&flagRedistributeInput, "input", "i", "-", "Day balances JSON file")
	redistributeCmd.Flags().BoolVar(&flagRedistributeJSON, "json", false, "Print the full result as JSON")
	rootCmd.AddCommand(redistributeCmd)
}

func runRedistribute(cmd *cobra.Command, _ []string) error {
	var in struct {
		Days []models.DayBalance `json:"days"`
	}
	if err := readJSON(cmd, flagRedistributeInput, &in); err != nil {
		return err
	}
	svc, err := newService(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	res := svc.Redistribute(in.Days)

	if flagRedistributeJSON {
		return writeJSON(cmd, res)
	}
	out := cmd.OutOrStdout()
	if len(res.Transfers) == 0 {
		fmt.Fprintln(out, "No transfers needed.")
	}
	for _, t := range res.Transfers {
		fmt.Fprintf(out, "%s -> %s  %s\n", t.From.Format(models.DateLayout), t.To.Format(models.DateLayout), t.Amount.StringFixed(2))
	}
	if !res.Balanced() {
		fmt.Fprintf(out, "Residual overage: %s\n", res.ResidualOverage.StringFixed(2))
	}
	return nil
}
