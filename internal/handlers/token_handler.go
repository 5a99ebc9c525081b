package handlers

import (
	"net/http"

	"agrosite/internal/models"
	"agrosite/internal/services"

	"github.com/gin-gonic/gin"
)

// TokenHandler handles the agricultural token catalog
type TokenHandler struct {
	tokenService *services.TokenService
}

// NewTokenHandler creates a new token handler
func NewTokenHandler(tokenService *services.TokenService) *TokenHandler {
	return &TokenHandler{tokenService: tokenService}
}

// Create handles POST /api/token/create
func (h *TokenHandler) Create(c *gin.Context) {
	var req models.CreateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	token, err := h.tokenService.CreateToken(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Token created successfully",
		"token":   token,
	})
}

// Get handles GET /api/token/:id
func (h *TokenHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	token, err := h.tokenService.GetToken(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, token)
}

// List handles GET /api/token/list
func (h *TokenHandler) List(c *gin.Context) {
	var q models.TokenListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.tokenService.ListTokens(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// Leaderboard handles GET /api/token/leaderboard
func (h *TokenHandler) Leaderboard(c *gin.Context) {
	var q models.LeaderboardQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	board, err := h.tokenService.Leaderboard(c.Request.Context(), q.Category, q.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, board)
}

// Types handles GET /api/token/types
func (h *TokenHandler) Types(c *gin.Context) {
	types, err := h.tokenService.Types(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"types": types})
}

// Countries handles GET /api/token/countries
func (h *TokenHandler) Countries(c *gin.Context) {
	countries, err := h.tokenService.Countries(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"countries": countries})
}
