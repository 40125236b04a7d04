package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/prabhata303-del/Dd/internal/api"
	"github.com/prabhata303-del/Dd/internal/auth"
	"github.com/prabhata303-del/Dd/internal/cache"
	"github.com/prabhata303-del/Dd/internal/catalog"
	"github.com/prabhata303-del/Dd/internal/config"
	"github.com/prabhata303-del/Dd/internal/firebase"
	"github.com/prabhata303-del/Dd/internal/middleware"
	"github.com/prabhata303-del/Dd/internal/orders"
	"github.com/prabhata303-del/Dd/internal/settings"
	"github.com/prabhata303-del/Dd/internal/store"
	"github.com/prabhata303-del/Dd/internal/users"
	"github.com/prabhata303-del/Dd/internal/wishlist"
)

func main() {
	// Load .env locally. In production, environment variables are set
	// directly.
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file loaded:", err)
		}
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := buildLogger(cfg.GinMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	logger.Info("Configuration loaded",
		zap.String("port", cfg.Port),
		zap.String("ginMode", cfg.GinMode),
		zap.String("projectId", cfg.FirebaseProjectID))

	initCtx, cancelInit := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInit()
	clients, err := firebase.Init(initCtx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize Firebase", zap.Error(err))
	}
	logger.Info("Firebase Admin SDK initialized")

	streamer := store.NewStreamer(cfg.FirebaseDatabaseURL, clients.StreamHTTP, logger)
	recordStore := store.NewRTDB(clients.DB, streamer)

	var appCache cache.Cache = cache.Noop{}
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisCache.Close()
		appCache = redisCache
		logger.Info("Redis cache connected", zap.String("addr", cfg.RedisAddr))
	} else {
		logger.Info("Running without Redis; caching disabled")
	}
	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second

	authService := auth.NewService(clients.Auth, cfg.FirebaseWebAPIKey, nil, logger)
	userService := users.NewService(recordStore, logger)
	catalogService := catalog.NewService(recordStore, appCache, cacheTTL, logger)
	settingsService := settings.NewService(recordStore, appCache, cacheTTL, logger)
	wishlistService := wishlist.NewService(recordStore, logger)
	orderService := orders.NewService(recordStore, logger)
	logger.Info("Services initialized")

	if strings.EqualFold(cfg.GinMode, "release") {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()

	// Order matters: the request id must exist before logging, and
	// recovery must wrap everything behind it.
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS(cfg.ClientURL))
	router.Use(middleware.Metrics())

	api.SetupRoutes(router, logger,
		authService, userService, catalogService, settingsService, wishlistService, orderService)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("HTTP server starting", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("Shutdown signal received", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Forced shutdown", zap.Error(err))
	}
	logger.Info("Server exited gracefully")
}

func buildLogger(ginMode string) (*zap.Logger, error) {
	if strings.EqualFold(ginMode, "release") {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
