package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is the commodity an AGROX staking position is indexed to
type Category string

const (
	CategorySugarcane Category = "SUGARCANE"
	CategoryCoffee    Category = "COFFEE"
	CategorySoy       Category = "SOY"
	CategoryLivestock Category = "LIVESTOCK"
	CategoryBasket    Category = "BASKET"
)

// Categories returns the recognized staking categories in display order
func Categories() []Category {
	return []Category{
		CategorySugarcane,
		CategoryCoffee,
		CategorySoy,
		CategoryLivestock,
		CategoryBasket,
	}
}

// ParseCategory reports whether s names a recognized category. Matching is exact.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories() {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

type StakingStatus string

const (
	StakingStatusActive StakingStatus = "ACTIVE"
	StakingStatusClosed StakingStatus = "CLOSED"
)

// StakingPosition is one fixed-term lock of AGROX principal.
// Only the ACTIVE -> CLOSED transition mutates a row; RewardsEarned is written by it and never again.
type StakingPosition struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"amount"`
	APYType       Category        `gorm:"column:apy_type;size:20;not null" json:"apy_type"`
	StartDate     time.Time       `gorm:"not null" json:"start_date"`
	EndDate       time.Time       `gorm:"not null" json:"end_date"`
	Status        StakingStatus   `gorm:"size:20;not null;default:ACTIVE;index" json:"status"`
	RewardsEarned decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0" json:"rewards_earned"`
	ClosedAt      *time.Time      `json:"closed_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TableName specifies the table name for StakingPosition
func (StakingPosition) TableName() string {
	return "token_stakings"
}

// IsActive reports whether the position is still locked or awaiting unlock
func (p *StakingPosition) IsActive() bool {
	return p.Status == StakingStatusActive
}

// LockStakeRequest represents the request to open a staking position.
// Pointer fields distinguish an absent value from zero. DurationDays may be
// fractional and is truncated to whole days.
type LockStakeRequest struct {
	UserID       *uint            `json:"user_id"`
	Amount       *decimal.Decimal `json:"amount"`
	APYType      string           `json:"apy_type"`
	DurationDays *decimal.Decimal `json:"duration_days"`
}

// CalculatorRequest represents a staking return projection request
type CalculatorRequest struct {
	Amount       *decimal.Decimal `json:"amount"`
	APYType      string           `json:"apy_type"`
	DurationDays *decimal.Decimal `json:"duration_days"`
}

// LockStakeResponse is returned after a position is opened
type LockStakeResponse struct {
	Message   string `json:"message"`
	StakingID uint   `json:"staking_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// UnlockStakeResponse is returned after a position is closed
type UnlockStakeResponse struct {
	Message       string          `json:"message"`
	StakingID     uint            `json:"staking_id"`
	Amount        decimal.Decimal `json:"amount"`
	RewardsEarned decimal.Decimal `json:"rewards_earned"`
	TotalReturn   decimal.Decimal `json:"total_return"`
}

// StakingPositionView is the read projection of a position with live rate figures
type StakingPositionView struct {
	ID               uint             `json:"id"`
	Amount           decimal.Decimal  `json:"amount"`
	APYType          Category         `json:"apy_type"`
	APYRate          decimal.Decimal  `json:"apy_rate"`
	StartDate        string           `json:"start_date"`
	EndDate          string           `json:"end_date"`
	IsActive         bool             `json:"is_active"`
	Status           StakingStatus    `json:"status"`
	RewardsEarned    decimal.Decimal  `json:"rewards_earned"`
	CurrentRewards   *decimal.Decimal `json:"current_rewards,omitempty"`
	ProjectedRewards *decimal.Decimal `json:"projected_rewards,omitempty"`
}

// StakingProjection is the result of the staking calculator
type StakingProjection struct {
	InitialAmount    decimal.Decimal `json:"initial_amount"`
	APYType          Category        `json:"apy_type"`
	APYRate          decimal.Decimal `json:"apy_rate"`
	DurationDays     int             `json:"duration_days"`
	ProjectedRewards decimal.Decimal `json:"projected_rewards"`
	TotalReturn      decimal.Decimal `json:"total_return"`
}

// APYRatesResponse reports the current rate schedule
type APYRatesResponse struct {
	APYRates    map[Category]decimal.Decimal `json:"apy_rates"`
	LastUpdated string                       `json:"last_updated"`
}
