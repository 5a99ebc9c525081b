package handlers

import (
	"net/http"
	"time"

	"agrosite/internal/auth"

	"github.com/gin-gonic/gin"
)

// Handlers bundles every HTTP handler the API exposes
type Handlers struct {
	Staking *StakingHandler
	User    *UserHandler
	Wallet  *WalletHandler
	Token   *TokenHandler
	Upload  *UploadHandler
}

// RegisterRoutes mounts the health check and the /api tree on router
func RegisterRoutes(router *gin.Engine, h Handlers) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	api := router.Group("/api")

	staking := api.Group("/staking")
	{
		staking.POST("/lock", h.Staking.Lock)
		staking.POST("/unlock/:staking_id", h.Staking.Unlock)
		staking.GET("/user/:user_id", h.Staking.ListUserStakes)
		staking.GET("/apy/rates", h.Staking.Rates)
		staking.POST("/calculator", h.Staking.Calculator)
	}

	user := api.Group("/user")
	{
		user.POST("/register", h.User.Register)
		user.POST("/login", h.User.Login)
		user.GET("/me", auth.AuthMiddleware(), h.User.GetProfile)
		user.GET("/:id", h.User.GetUser)
	}

	wallet := api.Group("/wallet")
	{
		wallet.POST("/connect", h.Wallet.Connect)
		wallet.POST("/disconnect", h.Wallet.Disconnect)
		wallet.GET("/user/:user_id", h.Wallet.ListUserWallets)
		wallet.GET("/balance/:address", h.Wallet.Balance)
		wallet.POST("/balance/update", h.Wallet.UpdateBalance)
	}

	token := api.Group("/token")
	{
		token.POST("/create", h.Token.Create)
		token.POST("/upload/image", h.Upload.UploadImage)
		token.GET("/list", h.Token.List)
		token.GET("/leaderboard", h.Token.Leaderboard)
		token.GET("/types", h.Token.Types)
		token.GET("/countries", h.Token.Countries)
		token.GET("/:id", h.Token.Get)
	}
}
