package services

import (
	"time"

	"agrosite/internal/models"

	"github.com/shopspring/decimal"
)

// FallbackRate applies to any category the table does not recognize
var FallbackRate = decimal.RequireFromString("0.10")

// DefaultRates is the built-in annual yield schedule
func DefaultRates() map[models.Category]decimal.Decimal {
	return map[models.Category]decimal.Decimal{
		models.CategorySugarcane: decimal.RequireFromString("0.12"),
		models.CategoryCoffee:    decimal.RequireFromString("0.15"),
		models.CategorySoy:       decimal.RequireFromString("0.18"),
		models.CategoryLivestock: decimal.RequireFromString("0.14"),
		models.CategoryBasket:    decimal.RequireFromString("0.16"),
	}
}

// RateTable maps staking categories to annual rates. It is read-only after construction.
type RateTable struct {
	rates     map[models.Category]decimal.Decimal
	fallback  decimal.Decimal
	updatedAt time.Time
}

// DefaultRateTable builds the built-in schedule stamped with the current time
func DefaultRateTable() *RateTable {
	return NewRateTable(DefaultRates(), FallbackRate, time.Now().UTC())
}

// NewRateTable copies rates so later mutation of the argument has no effect
func NewRateTable(rates map[models.Category]decimal.Decimal, fallback decimal.Decimal, updatedAt time.Time) *RateTable {
	copied := make(map[models.Category]decimal.Decimal, len(rates))
	for k, v := range rates {
		copied[k] = v
	}
	return &RateTable{
		rates:     copied,
		fallback:  fallback,
		updatedAt: updatedAt,
	}
}

// RateOf returns the annual rate for category, or the fallback rate when it is not in the table
func (t *RateTable) RateOf(category models.Category) decimal.Decimal {
	if rate, ok := t.rates[category]; ok {
		return rate
	}
	return t.fallback
}

// All returns a copy of the configured schedule
func (t *RateTable) All() map[models.Category]decimal.Decimal {
	out := make(map[models.Category]decimal.Decimal, len(t.rates))
	for k, v := range t.rates {
		out[k] = v
	}
	return out
}

// UpdatedAt is the snapshot time reported alongside the schedule
func (t *RateTable) UpdatedAt() time.Time {
	return t.updatedAt
}
