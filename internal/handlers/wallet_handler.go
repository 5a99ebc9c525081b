package handlers

import (
	"net/http"

	"agrosite/internal/models"
	"agrosite/internal/services"

	"github.com/gin-gonic/gin"
)

// WalletHandler handles wallet linking and simulated balances
type WalletHandler struct {
	walletService *services.WalletService
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(walletService *services.WalletService) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

// Connect handles POST /api/wallet/connect
func (h *WalletHandler) Connect(c *gin.Context) {
	var req models.ConnectWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	wallet, created, err := h.walletService.ConnectWallet(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	if !created {
		c.JSON(http.StatusOK, gin.H{
			"message": "Wallet already connected",
			"wallet":  wallet,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Wallet connected successfully",
		"wallet":  wallet,
	})
}

// Disconnect handles POST /api/wallet/disconnect
func (h *WalletHandler) Disconnect(c *gin.Context) {
	var req models.DisconnectWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	if err := h.walletService.DisconnectWallet(c.Request.Context(), req.Address); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Wallet disconnected successfully"})
}

// ListUserWallets handles GET /api/wallet/user/:user_id
func (h *WalletHandler) ListUserWallets(c *gin.Context) {
	userID, ok := parseID(c, "user_id")
	if !ok {
		return
	}

	wallets, err := h.walletService.GetUserWallets(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": userID,
		"wallets": wallets,
	})
}

// Balance handles GET /api/wallet/balance/:address
func (h *WalletHandler) Balance(c *gin.Context) {
	wallet, err := h.walletService.GetWallet(c.Request.Context(), c.Param("address"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address":       wallet.Address,
		"balance_agrox": wallet.BalanceAgrox,
		"last_active":   wallet.LastActive,
	})
}

// UpdateBalance handles POST /api/wallet/balance/update
func (h *WalletHandler) UpdateBalance(c *gin.Context) {
	var req models.UpdateBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	wallet, err := h.walletService.UpdateBalance(c.Request.Context(), req.Address, *req.Balance)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Balance updated successfully",
		"address":       wallet.Address,
		"balance_agrox": wallet.BalanceAgrox,
	})
}
