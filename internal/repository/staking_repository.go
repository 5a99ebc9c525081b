package repository

import (
	"context"
	"time"

	"agrosite/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateStakingPosition persists a new position
func (r *Repository) CreateStakingPosition(ctx context.Context, position *models.StakingPosition) error {
	return r.db.WithContext(ctx).Create(position).Error
}

// GetStakingPosition retrieves a position by ID
func (r *Repository) GetStakingPosition(ctx context.Context, id uint) (*models.StakingPosition, error) {
	var position models.StakingPosition
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&position).Error
	if err != nil {
		return nil, err
	}
	return &position, nil
}

// ListStakingPositionsByUser retrieves all positions owned by a user, oldest first
func (r *Repository) ListStakingPositionsByUser(ctx context.Context, userID uint) ([]models.StakingPosition, error) {
	var positions []models.StakingPosition
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date ASC, id ASC").
		Find(&positions).Error
	if err != nil {
		return nil, err
	}
	return positions, nil
}

// CloseStakingPosition moves an ACTIVE position to CLOSED and records its reward.
// The update is conditional on status, so of two concurrent closes only one can
// succeed; the loser gets ErrNotActive.
func (r *Repository) CloseStakingPosition(ctx context.Context, id uint, reward decimal.Decimal, closedAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.StakingPosition{}).
			Where("id = ? AND status = ?", id, models.StakingStatusActive).
			Updates(map[string]interface{}{
				"status":         models.StakingStatusClosed,
				"rewards_earned": reward,
				"closed_at":      closedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotActive
		}
		return nil
	})
}
