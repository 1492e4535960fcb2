package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"affiliate-engine/internal/auth"
	"affiliate-engine/internal/config"
	"affiliate-engine/internal/database"
	"affiliate-engine/internal/handlers"
	"affiliate-engine/internal/jobs"
	"affiliate-engine/internal/logging"
	"affiliate-engine/internal/middleware"
	"affiliate-engine/internal/repository"
	"affiliate-engine/internal/services"
	"affiliate-engine/internal/settings"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.App.Production)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	db, err := database.Connect(cfg.GetDSN(), logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("failed to access database handle", zap.Error(err))
	}
	if _, err := database.RunMigrations(context.Background(), sqlDB, cfg.App.MigrationsDir, logger); err != nil {
		logger.Fatal("failed to apply SQL migrations", zap.Error(err))
	}

	// Settings cache is optional; without Redis every reload reads the database
	var cache settings.Cache
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = database.NewRedisClient(database.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			logger.Warn("redis unavailable, settings cache disabled", zap.Error(err))
		} else {
			cache = settings.NewRedisCache(redisClient)
			logger.Info("settings cache enabled", zap.String("addr", cfg.Redis.Addr))
		}
	}

	// Initialize repository and settings
	repo := repository.NewRepository(db)
	provider := settings.NewProvider(repo, cache, cfg.Redis.SettingsTTL, logger)
	if err := provider.Reload(context.Background()); err != nil {
		logger.Fatal("failed to load affiliate settings", zap.Error(err))
	}

	// Initialize services
	adminService := services.NewAdminService(repo, logger)
	affiliateService := services.NewAffiliateService(repo, provider, adminService, logger)
	couponService := services.NewCouponService(repo, provider, adminService, logger)

	// Initialize handlers
	affiliateHandler := handlers.NewAffiliateHandler(affiliateService, logger)
	couponHandler := handlers.NewCouponHandler(couponService, logger)
	adminHandler := handlers.NewAdminHandler(provider, affiliateService, couponService, adminService, logger)

	// Start settings refresher
	refresher := jobs.NewSettingsRefresher(provider, cfg.Jobs.SettingsRefreshInterval, logger)
	go refresher.Start()

	// Set up Gin router
	if cfg.App.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.Logger(logger), middleware.Metrics())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterRoutes(router, affiliateHandler, couponHandler, adminHandler, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	refresher.Stop()

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	if redisClient != nil {
		redisClient.Close()
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("failed to close database", zap.Error(err))
	}

	logger.Info("server exited")
}
