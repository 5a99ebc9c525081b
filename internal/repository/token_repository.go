package repository

import (
	"context"

	"agrosite/internal/models"

	"gorm.io/gorm"
)

// CreateToken persists a new catalog token
func (r *Repository) CreateToken(ctx context.Context, token *models.Token) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// GetToken retrieves a token by ID
func (r *Repository) GetToken(ctx context.Context, id uint) (*models.Token, error) {
	var token models.Token
	if err := r.db.WithContext(ctx).First(&token, id).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// SymbolTaken reports whether a token already uses symbol
func (r *Repository) SymbolTaken(ctx context.Context, symbol string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Token{}).Where("symbol = ?", symbol).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListTokens returns one page of tokens matching the filters plus the total match count.
// orderBy must be a trusted column expression.
func (r *Repository) ListTokens(ctx context.Context, tokenType, country, orderBy string, limit, offset int) ([]models.Token, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Token{})
	if tokenType != "" {
		query = query.Where("type = ?", tokenType)
	}
	if country != "" {
		query = query.Where("country = ?", country)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tokens []models.Token
	if err := query.Session(&gorm.Session{}).Order(orderBy).Order("id ASC").Limit(limit).Offset(offset).Find(&tokens).Error; err != nil {
		return nil, 0, err
	}
	return tokens, total, nil
}

// TopTokens returns the first limit tokens by orderBy, a trusted column expression
func (r *Repository) TopTokens(ctx context.Context, orderBy string, limit int) ([]models.Token, error) {
	var tokens []models.Token
	if err := r.db.WithContext(ctx).Order(orderBy).Order("id ASC").Limit(limit).Find(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

// DistinctTokenTypes returns every token type in use
func (r *Repository) DistinctTokenTypes(ctx context.Context) ([]string, error) {
	return r.distinctTokenColumn(ctx, "type")
}

// DistinctTokenCountries returns every country with at least one token
func (r *Repository) DistinctTokenCountries(ctx context.Context) ([]string, error) {
	return r.distinctTokenColumn(ctx, "country")
}

func (r *Repository) distinctTokenColumn(ctx context.Context, column string) ([]string, error) {
	values := []string{}
	err := r.db.WithContext(ctx).
		Model(&models.Token{}).
		Distinct(column).
		Order(column).
		Pluck(column, &values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}
