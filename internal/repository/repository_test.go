package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"agrosite/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Wallet{}, &models.Token{}, &models.StakingPosition{}))
	return db
}

func TestCloseStakingPosition_OnlyOnce(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	position := &models.StakingPosition{
		UserID:        1,
		Amount:        decimal.NewFromInt(100),
		APYType:       models.CategoryBasket,
		StartDate:     start,
		EndDate:       start.AddDate(0, 0, 30),
		Status:        models.StakingStatusActive,
		RewardsEarned: decimal.Zero,
	}
	require.NoError(t, repo.CreateStakingPosition(ctx, position))

	closedAt := start.AddDate(0, 0, 31)
	require.NoError(t, repo.CloseStakingPosition(ctx, position.ID, decimal.RequireFromString("1.25"), closedAt))

	err := repo.CloseStakingPosition(ctx, position.ID, decimal.RequireFromString("99"), closedAt.Add(time.Hour))
	assert.ErrorIs(t, err, ErrNotActive)

	stored, err := repo.GetStakingPosition(ctx, position.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StakingStatusClosed, stored.Status)
	assert.True(t, decimal.RequireFromString("1.25").Equal(stored.RewardsEarned))
	require.NotNil(t, stored.ClosedAt)
	assert.True(t, closedAt.Equal(*stored.ClosedAt))

	assert.ErrorIs(t, repo.CloseStakingPosition(ctx, 4242, decimal.Zero, closedAt), ErrNotActive)
}

func TestGetStakingPosition_NotFound(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	_, err := repo.GetStakingPosition(context.Background(), 77)
	assert.True(t, IsNotFound(err))
}

func TestListStakingPositionsByUser(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()
	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	for i, userID := range []uint{1, 2, 1} {
		require.NoError(t, repo.CreateStakingPosition(ctx, &models.StakingPosition{
			UserID:    userID,
			Amount:    decimal.NewFromInt(10),
			APYType:   models.CategorySoy,
			StartDate: start.AddDate(0, 0, i),
			EndDate:   start.AddDate(0, 0, i+10),
			Status:    models.StakingStatusActive,
		}))
	}

	positions, err := repo.ListStakingPositionsByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, positions, 2)
	assert.True(t, positions[0].StartDate.Before(positions[1].StartDate))

	none, err := repo.ListStakingPositionsByUser(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUserLookups(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	user := &models.User{Username: "irene", Email: "irene@agrox.test"}
	require.NoError(t, repo.CreateUser(ctx, user))

	exists, err := repo.UserExists(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.UserExists(ctx, user.ID+1)
	require.NoError(t, err)
	assert.False(t, exists)

	byName, err := repo.GetUserByUsername(ctx, "irene")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	_, err = repo.GetUserByEmail(ctx, "nobody@agrox.test")
	assert.True(t, IsNotFound(err))

	assert.Error(t, repo.CreateUser(ctx, &models.User{Username: "irene", Email: "second@agrox.test"}))
}
