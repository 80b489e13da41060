package classifier

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Dan9191/spend-calendar/internal/models"
	"github.com/shopspring/decimal"
)

// DefaultRegion is the code of the profile used when a region is unknown
const DefaultRegion = "DEFAULT"

// defaultThresholds is the fallback table for unknown regions (annual, USD)
var defaultThresholds = models.NewThresholds(30000, 60000, 100000, 200000)

// DefaultProfiles returns the built-in region table
func DefaultProfiles() map[string]models.RegionProfile {
	return map[string]models.RegionProfile{
		DefaultRegion: {
			Code:          DefaultRegion,
			Currency:      "USD",
			DefaultPolicy: models.PolicySpread,
			Thresholds:    defaultThresholds,
			CostOfLiving:  1.0,
			UnitsPerUSD:   decimal.NewFromInt(1),
		},
		"US": {
			Code:          "US",
			Currency:      "USD",
			DefaultPolicy: models.PolicySpread,
			Thresholds:    models.NewThresholds(35000, 65000, 110000, 200000),
			Subregions: map[string]models.Thresholds{
				"CA": models.NewThresholds(45000, 85000, 140000, 250000),
				"NY": models.NewThresholds(45000, 80000, 135000, 240000),
				"TX": models.NewThresholds(32000, 60000, 100000, 180000),
			},
			CostOfLiving: 1.0,
			UnitsPerUSD:  decimal.NewFromInt(1),
		},
		"CA": {
			Code:          "CA",
			Currency:      "CAD",
			DefaultPolicy: models.PolicySpread,
			Thresholds:    models.NewThresholds(40000, 75000, 120000, 220000),
			CostOfLiving:  0.95,
			UnitsPerUSD:   decimal.RequireFromString("1.37"),
		},
		"GB": {
			Code:          "GB",
			Currency:      "GBP",
			DefaultPolicy: models.PolicySpread,
			Thresholds:    models.NewThresholds(20000, 35000, 60000, 120000),
			Subregions: map[string]models.Thresholds{
				"LDN": models.NewThresholds(28000, 48000, 80000, 150000),
			},
			CostOfLiving: 1.05,
			UnitsPerUSD:  decimal.RequireFromString("0.79"),
		},
		"IN": {
			Code:          "IN",
			Currency:      "INR",
			DefaultPolicy: models.PolicySpread,
			Thresholds:    models.NewThresholds(300000, 800000, 1500000, 3000000),
			CostOfLiving:  0.35,
			UnitsPerUSD:   decimal.RequireFromString("83.5"),
		},
		"RU": {
			Code:          "RU",
			Currency:      "RUB",
			DefaultPolicy: models.PolicySpread,
			Thresholds:    models.NewThresholds(600000, 1200000, 2400000, 4800000),
			Subregions: map[string]models.Thresholds{
				"MOW": models.NewThresholds(900000, 1800000, 3600000, 7200000),
			},
			CostOfLiving: 0.45,
			UnitsPerUSD:  decimal.RequireFromString("92.0"),
		},
	}
}

// regionsFile is the TOML layout accepted by LoadRegionsFile
type regionsFile struct {
	Regions map[string]regionEntry `toml:"regions"`
}

type regionEntry struct {
	Currency      string                       `toml:"currency"`
	DefaultPolicy string                       `toml:"default_policy"`
	Thresholds    models.Thresholds            `toml:"thresholds"`
	Subregions    map[string]models.Thresholds `toml:"subregions"`
	CostOfLiving  float64                      `toml:"cost_of_living"`
	UnitsPerUSD   string                       `toml:"units_per_usd"`
}

// LoadRegionsFile reads region profiles from a TOML file. Every profile is
// validated; a single bad table rejects the whole file.
func LoadRegionsFile(path string) (map[string]models.RegionProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read regions file: %w", err)
	}
	return ParseRegions(data)
}

// ParseRegions decodes TOML region profiles
func ParseRegions(data []byte) (map[string]models.RegionProfile, error) {
	var file regionsFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse regions: %w", err)
	}

	profiles := make(map[string]models.RegionProfile, len(file.Regions))
	for code, entry := range file.Regions {
		code = strings.ToUpper(code)
		profile := models.RegionProfile{
			Code:         code,
			Currency:     strings.ToUpper(entry.Currency),
			Thresholds:   entry.Thresholds,
			Subregions:   make(map[string]models.Thresholds, len(entry.Subregions)),
			CostOfLiving: entry.CostOfLiving,
			UnitsPerUSD:  decimal.NewFromInt(1),
		}
		for sub, t := range entry.Subregions {
			profile.Subregions[strings.ToUpper(sub)] = t
		}
		if profile.CostOfLiving == 0 {
			profile.CostOfLiving = 1.0
		}
		if entry.DefaultPolicy != "" {
			policy, err := models.ParseBehaviorPolicy(entry.DefaultPolicy)
			if err != nil {
				return nil, fmt.Errorf("region %s: %w", code, err)
			}
			profile.DefaultPolicy = policy
		}
		if entry.UnitsPerUSD != "" {
			rate, err := decimal.NewFromString(entry.UnitsPerUSD)
			if err != nil {
				return nil, fmt.Errorf("region %s: invalid units_per_usd: %w", code, err)
			}
			profile.UnitsPerUSD = rate
		}
		if err := profile.Validate(); err != nil {
			return nil, err
		}
		profiles[code] = profile
	}
	return profiles, nil
}
