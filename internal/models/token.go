package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Token represents an agricultural token listed in the catalog
type Token struct {
	ID             uint             `gorm:"primaryKey" json:"id"`
	CreatorID      uint             `gorm:"not null;index" json:"creator_id"`
	Name           string           `gorm:"size:100;not null" json:"name"`
	Symbol         string           `gorm:"uniqueIndex;size:20;not null" json:"symbol"`
	Type           string           `gorm:"size:50;not null;index" json:"type"`
	InitialSupply  decimal.Decimal  `gorm:"type:decimal(30,8);not null" json:"initial_supply"`
	CurrentSupply  decimal.Decimal  `gorm:"type:decimal(30,8);not null" json:"current_supply"`
	FarmLocation   string           `gorm:"size:200;not null" json:"farm_location"`
	Country        string           `gorm:"size:100;not null;index" json:"country"`
	FarmSize       *decimal.Decimal `gorm:"type:decimal(20,4)" json:"farm_size,omitempty"`
	SocialNetworks datatypes.JSON   `json:"social_networks"`
	TokenImage     string           `gorm:"size:500" json:"token_image"`
	FarmImages     datatypes.JSON   `json:"farm_images"`
	Price          decimal.Decimal  `gorm:"type:decimal(20,8);not null;default:0" json:"price"`
	MarketCap      decimal.Decimal  `gorm:"type:decimal(38,8);not null;default:0;index" json:"market_cap"`
	PriceChange24h decimal.Decimal  `gorm:"column:price_change_24h;type:decimal(10,4);not null;default:0" json:"price_change_24h"`
	CreatedAt      time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// TableName specifies the table name for Token model
func (Token) TableName() string {
	return "tokens"
}

// CreateTokenRequest represents the request to mint a new catalog token
type CreateTokenRequest struct {
	CreatorID      uint              `json:"creator_id" binding:"required"`
	Name           string            `json:"name" binding:"required,max=100"`
	Symbol         string            `json:"symbol" binding:"required,max=20"`
	Type           string            `json:"type" binding:"required,max=50"`
	InitialSupply  *decimal.Decimal  `json:"initial_supply" binding:"required"`
	FarmLocation   string            `json:"farm_location" binding:"required"`
	Country        string            `json:"country" binding:"required"`
	FarmSize       *decimal.Decimal  `json:"farm_size"`
	SocialNetworks map[string]string `json:"social_networks"`
	TokenImage     string            `json:"token_image"`
	FarmImages     []string          `json:"farm_images"`
	Price          *decimal.Decimal  `json:"price"`
}

// TokenListQuery holds the catalog filter, sort and pagination parameters
type TokenListQuery struct {
	Type      string `form:"type"`
	Country   string `form:"country"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}

// LeaderboardQuery selects the ranking and its length
type LeaderboardQuery struct {
	Category string `form:"category"`
	Limit    int    `form:"limit"`
}

// TokenPage is one page of catalog results
type TokenPage struct {
	Tokens      []Token `json:"tokens"`
	Total       int64   `json:"total"`
	Pages       int     `json:"pages"`
	CurrentPage int     `json:"current_page"`
}

// Leaderboard is the ranked token list for one category
type Leaderboard struct {
	Category string  `json:"category"`
	Tokens   []Token `json:"tokens"`
}
