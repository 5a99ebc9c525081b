package repository

import (
	"context"
	"time"

	"agrosite/internal/models"

	"github.com/shopspring/decimal"
)

// CreateWallet persists a new wallet link
func (r *Repository) CreateWallet(ctx context.Context, wallet *models.Wallet) error {
	return r.db.WithContext(ctx).Create(wallet).Error
}

// GetWalletByAddress retrieves a wallet by its address
func (r *Repository) GetWalletByAddress(ctx context.Context, address string) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.WithContext(ctx).Where("address = ?", address).First(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

// ListWalletsByUser retrieves all wallets linked to a user
func (r *Repository) ListWalletsByUser(ctx context.Context, userID uint) ([]models.Wallet, error) {
	var wallets []models.Wallet
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("connected_at ASC").
		Find(&wallets).Error
	if err != nil {
		return nil, err
	}
	return wallets, nil
}

// TouchWallet refreshes last activity and returns the number of rows updated
func (r *Repository) TouchWallet(ctx context.Context, address string, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Wallet{}).
		Where("address = ?", address).
		Update("last_active", at)
	return result.RowsAffected, result.Error
}

// UpdateWalletBalance sets the simulated AGROX balance and returns the number of rows updated
func (r *Repository) UpdateWalletBalance(ctx context.Context, address string, balance decimal.Decimal, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Wallet{}).
		Where("address = ?", address).
		Updates(map[string]interface{}{
			"balance_agrox": balance,
			"last_active":   at,
		})
	return result.RowsAffected, result.Error
}

// DeleteWallet removes a wallet link and returns the number of rows deleted
func (r *Repository) DeleteWallet(ctx context.Context, address string) (int64, error) {
	result := r.db.WithContext(ctx).Where("address = ?", address).Delete(&models.Wallet{})
	return result.RowsAffected, result.Error
}
