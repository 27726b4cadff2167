package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/catalog-api/catalog-api/internal/app"
	"github.com/catalog-api/catalog-api/internal/catalog/attributes"
	"github.com/catalog-api/catalog-api/internal/catalog/products"
	"github.com/catalog-api/catalog-api/internal/observability"
	"github.com/catalog-api/catalog-api/internal/platform/cache"
	"github.com/catalog-api/catalog-api/internal/platform/db"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	// The cache degrades to direct reads when Redis is unreachable.
	var redisClient *redis.Client
	candidate := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := candidate.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping, continuing without cache", slog.Any("error", err))
		_ = candidate.Close()
	} else {
		redisClient = candidate
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}
	catalogCache := cache.New(redisClient, cfg.CacheTTL)

	attributeRepo := attributes.NewRepository(pool)
	attributeService := attributes.NewService(attributeRepo, catalogCache)
	attributeHandler := attributes.NewHandler(logger, attributeService)

	productRepo := products.NewRepository(pool)
	productService := products.NewService(productRepo, catalogCache)
	productHandler := products.NewHandler(logger, productService)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		AttributesHandler: attributeHandler,
		ProductsHandler:   productHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
