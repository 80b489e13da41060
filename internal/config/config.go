package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration
type Config struct {
	Port      string
	DBConn    string
	LogLevel  string
	JWTSecret string
	// Store selects the persistence backend: "postgres" or "memory"
	Store       string
	RegionsFile string
	CBRURL      string
	CBREnabled  bool
	// ReferenceIncome is the annual USD income at which baseline ratios apply
	ReferenceIncome float64
	// NormalizeGuidelines renormalizes blended guideline weights to sum to 1
	NormalizeGuidelines bool
	ObservedBlend       float64
	RebalanceSchedule   string
	BatchConcurrency    int
	AllowedOrigins      []string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DBConn:            getEnv("DB_CONN", "host=localhost port=5436 user=test password=test dbname=budget sslmode=disable"),
		LogLevel:          getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:         getEnv("JWT_SECRET", "secret"),
		Store:             strings.ToLower(getEnv("STORE", "postgres")),
		RegionsFile:       getEnv("REGIONS_FILE", ""),
		CBRURL:            getEnv("CBR_URL", "https://www.cbr.ru/DailyInfoWebServ/DailyInfo.asmx"),
		RebalanceSchedule: getEnv("REBALANCE_SCHEDULE", "30 2 * * *"),
		AllowedOrigins:    splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
	}

	var err error
	if cfg.CBREnabled, err = strconv.ParseBool(getEnv("CBR_ENABLED", "false")); err != nil {
		return nil, fmt.Errorf("CBR_ENABLED must be a boolean: %w", err)
	}
	if cfg.NormalizeGuidelines, err = strconv.ParseBool(getEnv("NORMALIZE_GUIDELINES", "true")); err != nil {
		return nil, fmt.Errorf("NORMALIZE_GUIDELINES must be a boolean: %w", err)
	}
	if cfg.ReferenceIncome, err = strconv.ParseFloat(getEnv("REFERENCE_INCOME", "70000"), 64); err != nil {
		return nil, fmt.Errorf("REFERENCE_INCOME must be a number: %w", err)
	}
	if cfg.ObservedBlend, err = strconv.ParseFloat(getEnv("OBSERVED_BLEND", "0.5"), 64); err != nil {
		return nil, fmt.Errorf("OBSERVED_BLEND must be a number: %w", err)
	}
	if cfg.BatchConcurrency, err = strconv.Atoi(getEnv("BATCH_CONCURRENCY", "8")); err != nil {
		return nil, fmt.Errorf("BATCH_CONCURRENCY must be an integer: %w", err)
	}

	if cfg.Store != "postgres" && cfg.Store != "memory" {
		return nil, fmt.Errorf("STORE must be postgres or memory, got %q", cfg.Store)
	}
	if cfg.Store == "postgres" && cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.ReferenceIncome <= 0 {
		return nil, fmt.Errorf("REFERENCE_INCOME must be positive")
	}
	if cfg.ObservedBlend < 0 || cfg.ObservedBlend > 1 {
		return nil, fmt.Errorf("OBSERVED_BLEND must be between 0 and 1")
	}
	if cfg.BatchConcurrency < 1 {
		return nil, fmt.Errorf("BATCH_CONCURRENCY must be at least 1")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
