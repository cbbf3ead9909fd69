package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/fuzfriend/catalog-api/config"
	"github.com/fuzfriend/catalog-api/internal/pkg/cache"
	"github.com/fuzfriend/catalog-api/internal/pkg/database/postgres"
	"github.com/fuzfriend/catalog-api/internal/pkg/logger"
	"github.com/fuzfriend/catalog-api/internal/pkg/middleware"
	"github.com/fuzfriend/catalog-api/internal/product"
	prodH "github.com/fuzfriend/catalog-api/internal/product/handler"
	prodRepoPkg "github.com/fuzfriend/catalog-api/internal/product/repository"
	prodUCPkg "github.com/fuzfriend/catalog-api/internal/product/usecase"
	"github.com/fuzfriend/catalog-api/internal/seed"
)

func main() {
	_ = godotenv.Load() // load .env if it exists
	cfg := config.LoadEnv()

	logConfig := &logger.Config{
		IsDevelopment:     cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development",
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	ctx := context.Background()

	// Product store: postgres by default, in-memory for local development.
	var repo product.Repository
	switch cfg.Store.Backend {
	case "memory":
		repo = prodRepoPkg.NewMemoryRepository()
		appLogger.Info("Using in-memory product store")
	default:
		db, err := postgres.NewPostgres(&postgres.Config{
			Host:            cfg.Postgres.Host,
			Port:            cfg.Postgres.Port,
			User:            cfg.Postgres.User,
			Password:        cfg.Postgres.Password,
			DBName:          cfg.Postgres.DBName,
			SSLMode:         cfg.Postgres.SSLMode,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
			ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to database", zap.Error(err))
		}
		defer db.Close()
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			appLogger.Fatal("Could not apply schema", zap.Error(err))
		}
		repo = prodRepoPkg.NewPGRepository(db)
		appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))
	}

	// Response cache: redis when configured, in-process map otherwise.
	var store cache.Store
	if cfg.Redis.Addr != "" {
		redisClient, err := cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		store = redisClient
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	} else {
		store = cache.NewMemory()
		appLogger.Info("Using in-process response cache")
	}

	if cfg.Store.Seed {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		if err := seed.Run(ctx, rng, repo, cfg.Store.SeedNum, appLogger); err != nil {
			appLogger.Fatal("Could not seed product store", zap.Error(err))
		}
	}

	prodUC := prodUCPkg.NewProductUseCase(repo, appLogger)
	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	prodHandler := prodH.NewProductHandler(prodUC, store, ttl, appLogger)

	if cfg.Server.AppEnv != "dev" && cfg.Server.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(appLogger))
	router.Use(middleware.CORS())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	prodHandler.MapRoutes(router.Group("/api/products"))

	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	srv := &http.Server{
		Addr:    port,
		Handler: router,
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("forced shutdown", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
