package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"agrosite/internal/models"
	"agrosite/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	day          = 24 * time.Hour
	daysPerYear  = 365
	rewardPlaces = 8

	// MaxLockDays bounds duration_days so end dates stay within the store's range
	MaxLockDays = 100 * daysPerYear
)

// StakingStore is the persistence the staking engine needs
type StakingStore interface {
	CreateStakingPosition(ctx context.Context, position *models.StakingPosition) error
	GetStakingPosition(ctx context.Context, id uint) (*models.StakingPosition, error)
	ListStakingPositionsByUser(ctx context.Context, userID uint) ([]models.StakingPosition, error)
	CloseStakingPosition(ctx context.Context, id uint, reward decimal.Decimal, closedAt time.Time) error
	UserExists(ctx context.Context, id uint) (bool, error)
}

// StakingService opens, closes and values AGROX staking positions
type StakingService struct {
	store StakingStore
	rates *RateTable
	now   func() time.Time
	log   logrus.FieldLogger
}

type StakingOption func(*StakingService)

// WithClock replaces the wall clock used for start dates and reward accrual
func WithClock(now func() time.Time) StakingOption {
	return func(s *StakingService) {
		s.now = now
	}
}

// WithStakingLogger sets the logger used for position lifecycle events
func WithStakingLogger(log logrus.FieldLogger) StakingOption {
	return func(s *StakingService) {
		s.log = log
	}
}

// NewStakingService creates a new staking service over store using rates
func NewStakingService(store StakingStore, rates *RateTable, opts ...StakingOption) *StakingService {
	s := &StakingService{
		store: store,
		rates: rates,
		now:   time.Now,
		log:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OpenPosition locks principal for the requested whole number of days starting now
func (s *StakingService) OpenPosition(ctx context.Context, req models.LockStakeRequest) (*models.StakingPosition, error) {
	if req.UserID == nil || req.Amount == nil || req.APYType == "" || req.DurationDays == nil {
		return nil, fmt.Errorf("%w: user_id, amount, apy_type and duration_days are required", ErrInvalidArgument)
	}
	exists, err := s.store.UserExists(ctx, *req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, *req.UserID)
	}

	category, err := parseCategory(req.APYType)
	if err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than zero", ErrInvalidArgument)
	}
	days, err := lockDays(*req.DurationDays)
	if err != nil {
		return nil, err
	}

	start := s.clock()
	position := &models.StakingPosition{
		UserID:        *req.UserID,
		Amount:        *req.Amount,
		APYType:       category,
		StartDate:     start,
		EndDate:       start.AddDate(0, 0, days),
		Status:        models.StakingStatusActive,
		RewardsEarned: decimal.Zero,
	}
	if err := s.store.CreateStakingPosition(ctx, position); err != nil {
		return nil, fmt.Errorf("failed to create staking position: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"staking_id": position.ID,
		"user_id":    position.UserID,
		"amount":     position.Amount.String(),
		"apy_type":   position.APYType,
		"end_date":   Timestamp(position.EndDate),
	}).Info("staking position opened")

	return position, nil
}

// ClosePosition settles a matured ACTIVE position. Reward accrues over whole days actually
// staked, including any days past the end date.
func (s *StakingService) ClosePosition(ctx context.Context, id uint) (*models.StakingPosition, error) {
	position, err := s.store.GetStakingPosition(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: staking position %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get staking position: %w", err)
	}
	if !position.IsActive() {
		return nil, fmt.Errorf("%w: staking position already closed", ErrInvalidState)
	}

	now := s.clock()
	if now.Before(position.EndDate) {
		return nil, fmt.Errorf("%w: lock period has not ended (ends %s)", ErrInvalidState, Timestamp(position.EndDate))
	}

	rate := s.rates.RateOf(position.APYType)
	reward := accrue(position.Amount, rate, wholeDays(position.StartDate, now))

	if err := s.store.CloseStakingPosition(ctx, position.ID, reward, now); err != nil {
		if errors.Is(err, repository.ErrNotActive) {
			return nil, fmt.Errorf("%w: staking position already closed", ErrInvalidState)
		}
		return nil, fmt.Errorf("failed to close staking position: %w", err)
	}

	position.Status = models.StakingStatusClosed
	position.RewardsEarned = reward
	position.ClosedAt = &now

	s.log.WithFields(logrus.Fields{
		"staking_id":     position.ID,
		"user_id":        position.UserID,
		"rewards_earned": reward.String(),
	}).Info("staking position closed")

	return position, nil
}

// ListPositions returns every position owned by userID valued at the current rates
func (s *StakingService) ListPositions(ctx context.Context, userID uint) ([]models.StakingPositionView, error) {
	exists, err := s.store.UserExists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}

	positions, err := s.store.ListStakingPositionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list staking positions: %w", err)
	}

	now := s.clock()
	views := make([]models.StakingPositionView, 0, len(positions))
	for i := range positions {
		views = append(views, s.view(&positions[i], now))
	}
	return views, nil
}

func (s *StakingService) view(p *models.StakingPosition, now time.Time) models.StakingPositionView {
	rate := s.rates.RateOf(p.APYType)
	v := models.StakingPositionView{
		ID:            p.ID,
		Amount:        p.Amount,
		APYType:       p.APYType,
		APYRate:       rate,
		StartDate:     Timestamp(p.StartDate),
		EndDate:       Timestamp(p.EndDate),
		IsActive:      p.IsActive(),
		Status:        p.Status,
		RewardsEarned: p.RewardsEarned,
	}
	if p.IsActive() {
		current := accrue(p.Amount, rate, wholeDays(p.StartDate, now))
		projected := accrue(p.Amount, rate, wholeDays(p.StartDate, p.EndDate))
		v.CurrentRewards = &current
		v.ProjectedRewards = &projected
	}
	return v
}

// Preview projects the return of a hypothetical position without touching the store
func (s *StakingService) Preview(req models.CalculatorRequest) (*models.StakingProjection, error) {
	if req.Amount == nil || req.APYType == "" || req.DurationDays == nil {
		return nil, fmt.Errorf("%w: amount, apy_type and duration_days are required", ErrInvalidArgument)
	}
	category, err := parseCategory(req.APYType)
	if err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than zero", ErrInvalidArgument)
	}
	days, err := lockDays(*req.DurationDays)
	if err != nil {
		return nil, err
	}

	rate := s.rates.RateOf(category)
	rewards := accrue(*req.Amount, rate, int64(days))
	return &models.StakingProjection{
		InitialAmount:    *req.Amount,
		APYType:          category,
		APYRate:          rate,
		DurationDays:     days,
		ProjectedRewards: rewards,
		TotalReturn:      req.Amount.Add(rewards),
	}, nil
}

// Rates reports the rate schedule and its snapshot time
func (s *StakingService) Rates() *models.APYRatesResponse {
	return &models.APYRatesResponse{
		APYRates:    s.rates.All(),
		LastUpdated: Timestamp(s.rates.UpdatedAt()),
	}
}

// clock truncates to microseconds so values match what Postgres stores
func (s *StakingService) clock() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func parseCategory(raw string) (models.Category, error) {
	category, ok := models.ParseCategory(raw)
	if !ok {
		names := make([]string, 0, len(models.Categories()))
		for _, c := range models.Categories() {
			names = append(names, string(c))
		}
		return "", fmt.Errorf("%w: invalid apy_type %q, must be one of: %s", ErrInvalidArgument, raw, strings.Join(names, ", "))
	}
	return category, nil
}

// lockDays validates a requested duration and truncates it to whole days
func lockDays(raw decimal.Decimal) (int, error) {
	if !raw.IsPositive() {
		return 0, fmt.Errorf("%w: duration_days must be greater than zero", ErrInvalidArgument)
	}
	days := raw.Truncate(0)
	if days.LessThan(decimal.NewFromInt(1)) {
		return 0, fmt.Errorf("%w: duration_days must be at least one whole day", ErrInvalidArgument)
	}
	if days.GreaterThan(decimal.NewFromInt(MaxLockDays)) {
		return 0, fmt.Errorf("%w: duration_days must not exceed %d", ErrInvalidArgument, MaxLockDays)
	}
	return int(days.IntPart()), nil
}

// wholeDays counts complete 24h periods from start to end, never negative
func wholeDays(start, end time.Time) int64 {
	if end.Before(start) {
		return 0
	}
	return int64(end.Sub(start) / day)
}

// accrue is simple interest: amount * rate * days / 365, rounded to the stored precision
func accrue(amount, rate decimal.Decimal, days int64) decimal.Decimal {
	return amount.
		Mul(rate).
		Mul(decimal.NewFromInt(days)).
		Div(decimal.NewFromInt(daysPerYear)).
		Round(rewardPlaces)
}

// Timestamp renders t as an ISO 8601 UTC string
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
