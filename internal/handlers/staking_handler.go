package handlers

import (
	"net/http"

	"agrosite/internal/models"
	"agrosite/internal/services"

	"github.com/gin-gonic/gin"
)

// StakingHandler handles HTTP requests for AGROX staking
type StakingHandler struct {
	stakingService *services.StakingService
}

// NewStakingHandler creates a new staking handler
func NewStakingHandler(stakingService *services.StakingService) *StakingHandler {
	return &StakingHandler{stakingService: stakingService}
}

// Lock handles POST /api/staking/lock
func (h *StakingHandler) Lock(c *gin.Context) {
	var req models.LockStakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	position, err := h.stakingService.OpenPosition(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.LockStakeResponse{
		Message:   "Tokens locked successfully",
		StakingID: position.ID,
		StartDate: services.Timestamp(position.StartDate),
		EndDate:   services.Timestamp(position.EndDate),
	})
}

// Unlock handles POST /api/staking/unlock/:staking_id
func (h *StakingHandler) Unlock(c *gin.Context) {
	id, ok := parseID(c, "staking_id")
	if !ok {
		return
	}

	position, err := h.stakingService.ClosePosition(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.UnlockStakeResponse{
		Message:       "Tokens unlocked successfully",
		StakingID:     position.ID,
		Amount:        position.Amount,
		RewardsEarned: position.RewardsEarned,
		TotalReturn:   position.Amount.Add(position.RewardsEarned),
	})
}

// ListUserStakes handles GET /api/staking/user/:user_id
func (h *StakingHandler) ListUserStakes(c *gin.Context) {
	userID, ok := parseID(c, "user_id")
	if !ok {
		return
	}

	positions, err := h.stakingService.ListPositions(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":  userID,
		"stakings": positions,
	})
}

// Rates handles GET /api/staking/apy/rates
func (h *StakingHandler) Rates(c *gin.Context) {
	c.JSON(http.StatusOK, h.stakingService.Rates())
}

// Calculator handles POST /api/staking/calculator
func (h *StakingHandler) Calculator(c *gin.Context) {
	var req models.CalculatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	projection, err := h.stakingService.Preview(req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, projection)
}
