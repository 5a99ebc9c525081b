package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"agrosite/internal/models"
	"agrosite/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

const (
	DefaultPerPage   = 10
	MaxPerPage       = 100
	DefaultBoardSize = 10
)

var tokenSortColumns = map[string]string{
	"market_cap":   "market_cap",
	"price_change": "price_change_24h",
	"created_at":   "created_at",
}

var leaderboardColumns = map[string]string{
	"market_cap": "market_cap DESC",
	"winners":    "price_change_24h DESC",
}

// TokenService manages the agricultural token catalog
type TokenService struct {
	repo *repository.Repository
}

// NewTokenService creates a new token service
func NewTokenService(repo *repository.Repository) *TokenService {
	return &TokenService{repo: repo}
}

// CreateToken lists a new token. Market cap starts at price times initial supply.
func (s *TokenService) CreateToken(ctx context.Context, req models.CreateTokenRequest) (*models.Token, error) {
	if req.InitialSupply == nil || !req.InitialSupply.IsPositive() {
		return nil, fmt.Errorf("%w: initial_supply must be greater than zero", ErrInvalidArgument)
	}
	price := decimal.Zero
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidArgument)
		}
		price = *req.Price
	}

	exists, err := s.repo.UserExists(ctx, req.CreatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up creator: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: creator %d", ErrNotFound, req.CreatorID)
	}

	symbol := strings.TrimSpace(req.Symbol)
	taken, err := s.repo.SymbolTaken(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to check symbol: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("%w: token symbol %s already exists", ErrAlreadyExists, symbol)
	}

	socials := req.SocialNetworks
	if socials == nil {
		socials = map[string]string{}
	}
	socialJSON, err := json.Marshal(socials)
	if err != nil {
		return nil, fmt.Errorf("%w: social_networks: %v", ErrInvalidArgument, err)
	}
	images := req.FarmImages
	if images == nil {
		images = []string{}
	}
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return nil, fmt.Errorf("%w: farm_images: %v", ErrInvalidArgument, err)
	}

	token := &models.Token{
		CreatorID:      req.CreatorID,
		Name:           strings.TrimSpace(req.Name),
		Symbol:         symbol,
		Type:           strings.TrimSpace(req.Type),
		InitialSupply:  *req.InitialSupply,
		CurrentSupply:  *req.InitialSupply,
		FarmLocation:   req.FarmLocation,
		Country:        strings.TrimSpace(req.Country),
		FarmSize:       req.FarmSize,
		SocialNetworks: datatypes.JSON(socialJSON),
		TokenImage:     req.TokenImage,
		FarmImages:     datatypes.JSON(imagesJSON),
		Price:          price,
		MarketCap:      price.Mul(*req.InitialSupply),
		PriceChange24h: decimal.Zero,
	}

	// AGROX spent on listing is simulated; nothing is debited.
	if err := s.repo.CreateToken(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"token_id":   token.ID,
		"symbol":     token.Symbol,
		"creator_id": token.CreatorID,
	}).Info("token created")

	return token, nil
}

// GetToken retrieves a token by ID
func (s *TokenService) GetToken(ctx context.Context, id uint) (*models.Token, error) {
	token, err := s.repo.GetToken(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: token %d", ErrNotFound, id)
		}
		return nil, err
	}
	return token, nil
}

// ListTokens returns one filtered, sorted page of the catalog
func (s *TokenService) ListTokens(ctx context.Context, q models.TokenListQuery) (*models.TokenPage, error) {
	if q.SortBy == "" {
		q.SortBy = "market_cap"
	}
	if q.SortOrder == "" {
		q.SortOrder = "desc"
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PerPage == 0 {
		q.PerPage = DefaultPerPage
	}

	column, ok := tokenSortColumns[q.SortBy]
	if !ok {
		return nil, fmt.Errorf("%w: sort_by must be one of: market_cap, price_change, created_at", ErrInvalidArgument)
	}
	order := strings.ToLower(q.SortOrder)
	if order != "asc" && order != "desc" {
		return nil, fmt.Errorf("%w: sort_order must be asc or desc", ErrInvalidArgument)
	}
	if q.Page < 1 {
		return nil, fmt.Errorf("%w: page must be at least 1", ErrInvalidArgument)
	}
	if q.PerPage < 1 || q.PerPage > MaxPerPage {
		return nil, fmt.Errorf("%w: per_page must be between 1 and %d", ErrInvalidArgument, MaxPerPage)
	}

	tokens, total, err := s.repo.ListTokens(ctx, q.Type, q.Country, column+" "+strings.ToUpper(order), q.PerPage, (q.Page-1)*q.PerPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}

	pages := int((total + int64(q.PerPage) - 1) / int64(q.PerPage))
	return &models.TokenPage{
		Tokens:      tokens,
		Total:       total,
		Pages:       pages,
		CurrentPage: q.Page,
	}, nil
}

// Leaderboard ranks tokens by market cap or by 24h price change ("winners")
func (s *TokenService) Leaderboard(ctx context.Context, category string, limit int) (*models.Leaderboard, error) {
	if category == "" {
		category = "market_cap"
	}
	orderBy, ok := leaderboardColumns[category]
	if !ok {
		return nil, fmt.Errorf("%w: invalid category, use \"market_cap\" or \"winners\"", ErrInvalidArgument)
	}
	if limit == 0 {
		limit = DefaultBoardSize
	}
	if limit < 1 || limit > MaxPerPage {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidArgument, MaxPerPage)
	}

	tokens, err := s.repo.TopTokens(ctx, orderBy, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	return &models.Leaderboard{Category: category, Tokens: tokens}, nil
}

// Types lists every token type in the catalog
func (s *TokenService) Types(ctx context.Context) ([]string, error) {
	return s.repo.DistinctTokenTypes(ctx)
}

// Countries lists every country with a listed token
func (s *TokenService) Countries(ctx context.Context) ([]string, error) {
	return s.repo.DistinctTokenCountries(ctx)
}
