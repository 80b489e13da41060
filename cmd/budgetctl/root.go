package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Dan9191/spend-calendar/internal/classifier"
	"github.com/Dan9191/spend-calendar/internal/config"
	"github.com/Dan9191/spend-calendar/internal/models"
	"github.com/Dan9191/spend-calendar/internal/repository"
	"github.com/Dan9191/spend-calendar/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagRegions         string
	flagReferenceIncome float64
	flagNoNormalize     bool
	flagBlend           float64
	flagVerbose         bool
)

var rootCmd = &cobra.Command{
	Use:           "budgetctl",
	Short:         "Offline budget planning tool",
	Long:          "Allocate income, lay a plan out on a month and rebalance realized spending, reading JSON input files.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "budgetctl: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagRegions, "regions", "", "TOML file with region threshold overrides")
	rootCmd.PersistentFlags().Float64Var(&flagReferenceIncome, "reference-income", 70000, "Annual USD income at which baseline ratios apply")
	rootCmd.PersistentFlags().BoolVar(&flagNoNormalize, "no-normalize", false, "Keep blended guideline weights as they are")
	rootCmd.PersistentFlags().Float64Var(&flagBlend, "observed-blend", 0.5, "Weight of observed spending in guidelines (0..1)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log warnings to stderr")
}

// newService builds a storeless service from the global flags
func newService(stderr io.Writer) (*service.Service, error) {
	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetLevel(logrus.ErrorLevel)
	if flagVerbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	var overrides map[string]models.RegionProfile
	if flagRegions != "" {
		var err error
		if overrides, err = classifier.LoadRegionsFile(flagRegions); err != nil {
			return nil, err
		}
	}

	cfg := &config.Config{
		ReferenceIncome:     flagReferenceIncome,
		NormalizeGuidelines: !flagNoNormalize,
		ObservedBlend:       flagBlend,
		BatchConcurrency:    1,
	}
	return service.NewService(repository.NewMemoryStore(), logger, cfg, classifier.NewRegistry(overrides), nil)
}

// readJSON decodes a file, or stdin when path is "-"
func readJSON(cmd *cobra.Command, path string, v interface{}) error {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseMonth(s string) (int, int, error) {
	var year, month int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d-%d", &year, &month); err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month must look like 2026-11, got %q", s)
	}
	return year, month, nil
}
