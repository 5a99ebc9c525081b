package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"agrosite/internal/auth"
	"agrosite/internal/config"
	"agrosite/internal/database"
	"agrosite/internal/handlers"
	"agrosite/internal/logging"
	"agrosite/internal/ratelimit"
	"agrosite/internal/repository"
	"agrosite/internal/services"
	"agrosite/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logging.Setup(cfg.App.LogLevel, cfg.App.LogFormat)

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(database.GetDB()); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
	}

	rateTable, err := buildRateTable(cfg.App.RatesFile)
	if err != nil {
		logrus.Fatalf("Failed to load staking rates: %v", err)
	}

	ctx := context.Background()
	blobs, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logrus.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize repository and services
	repo := repository.NewRepository(database.GetDB())
	stakingService := services.NewStakingService(repo, rateTable)
	userService := services.NewUserService(repo)
	walletService := services.NewWalletService(repo)
	tokenService := services.NewTokenService(repo)

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logging.Middleware(logrus.StandardLogger()))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", logging.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if cfg.Redis.Addr != "" {
		rdb, err := ratelimit.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logrus.WithError(err).Warn("rate limiting disabled")
		} else {
			defer rdb.Close()
			router.Use(ratelimit.Middleware(ratelimit.NewRedisLimiter(rdb), cfg.Redis.RequestsLimit, cfg.Redis.Window))
		}
	}

	if cfg.Storage.Driver == config.StorageDriverLocal {
		router.Static("/uploads", filepath.Join(cfg.Storage.LocalDir, "uploads"))
	}

	handlers.RegisterRoutes(router, handlers.Handlers{
		Staking: handlers.NewStakingHandler(stakingService),
		User:    handlers.NewUserHandler(userService),
		Wallet:  handlers.NewWalletHandler(walletService),
		Token:   handlers.NewTokenHandler(tokenService),
		Upload:  handlers.NewUploadHandler(blobs),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logrus.Infof("Server starting on port %s", cfg.Server.Port)
		logrus.Infof("Health check: http://localhost:%s/health", cfg.Server.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Graceful shutdown with 5 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

// buildRateTable starts from the built-in schedule and applies the optional TOML overrides
func buildRateTable(path string) (*services.RateTable, error) {
	rates := services.DefaultRates()
	fallback := services.FallbackRate

	if path != "" {
		schedule, err := config.LoadRateSchedule(path)
		if err != nil {
			return nil, err
		}
		for category, rate := range schedule.Rates {
			rates[category] = rate
		}
		if schedule.Fallback != nil {
			fallback = *schedule.Fallback
		}
		logrus.WithField("file", path).Info("staking rate overrides loaded")
	}

	return services.NewRateTable(rates, fallback, time.Now().UTC()), nil
}
