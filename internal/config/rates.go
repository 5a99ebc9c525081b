package config

import (
	"fmt"
	"strings"

	"agrosite/internal/models"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
)

// RateSchedule overrides the built-in staking rates. Categories left out keep their defaults.
type RateSchedule struct {
	Rates    map[models.Category]decimal.Decimal
	Fallback *decimal.Decimal
}

type rateFile struct {
	Fallback string            `toml:"fallback"`
	Rates    map[string]string `toml:"rates"`
}

// LoadRateSchedule reads a TOML rate schedule such as:
//
//	fallback = "0.10"
//	[rates]
//	COFFEE = "0.15"
func LoadRateSchedule(path string) (*RateSchedule, error) {
	var raw rateFile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("failed to read rate schedule %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("rate schedule %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return parseRateFile(raw)
}

func parseRateFile(raw rateFile) (*RateSchedule, error) {
	schedule := &RateSchedule{Rates: make(map[models.Category]decimal.Decimal, len(raw.Rates))}

	for name, value := range raw.Rates {
		category, ok := models.ParseCategory(name)
		if !ok {
			return nil, fmt.Errorf("rate schedule: unknown category %q", name)
		}
		rate, err := parseRate(value)
		if err != nil {
			return nil, fmt.Errorf("rate schedule: %s: %w", name, err)
		}
		schedule.Rates[category] = rate
	}

	if raw.Fallback != "" {
		rate, err := parseRate(raw.Fallback)
		if err != nil {
			return nil, fmt.Errorf("rate schedule: fallback: %w", err)
		}
		schedule.Fallback = &rate
	}

	return schedule, nil
}

func parseRate(value string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, err
	}
	if rate.IsNegative() {
		return decimal.Zero, fmt.Errorf("rate %s is negative", rate)
	}
	return rate, nil
}
