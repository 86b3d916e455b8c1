package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NYTimes/gziphandler"
	"golang.org/x/time/rate"

	"storefront-backend/config"
	"storefront-backend/internal/delivery/http/middleware"
	v1 "storefront-backend/internal/delivery/http/v1"
	"storefront-backend/internal/infrastructure/cache"
	"storefront-backend/internal/pricing"
	"storefront-backend/internal/repository/postgres"
	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/utils"
)

const serviceName = "storefront-backend"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	utils.SetSecret(cfg.JWTSecret)

	// Initialize Logger
	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	// Initialize Database with pgx
	pgxPool, err := postgres.NewPgxPool(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pgxPool.Close()
	log.Info().Msg("Successfully connected to PostgreSQL via pgx")

	// Initialize Repositories
	productRepo := postgres.NewProductRepository(pgxPool)
	wishlistRepo := postgres.NewWishlistRepository(pgxPool)
	orderRepo := postgres.NewOrderRepository(pgxPool)
	txManager := postgres.NewTransactionManager(pgxPool)

	// Initialize Caches (In-Memory)
	// Sessions slide on every request; local wishlist data outlives them
	sessionCache := cache.NewMemoryCache(cfg.SessionTTL, 10*time.Minute)
	localCache := cache.NewMemoryCache(cfg.LocalStorageTTL, time.Hour)
	productCache := cache.NewMemoryCache(cfg.CacheProductTTL, 30*time.Minute)

	sessionCache.OnEvicted(func(key string, _ interface{}) {
		log.Debug().Str("key", key).Msg("Session evicted")
	})

	rules := pricing.Rules{
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		ShippingFee:           cfg.ShippingFee,
		TaxRate:               cfg.TaxRate,
	}

	// --- Modules Initialization ---

	// Catalog Module
	catalogUC := usecase.NewCatalogUsecase(productRepo, productCache, cfg.CacheProductTTL)

	// Session Module
	sessionUC := usecase.NewSessionUsecase(sessionCache, localCache, wishlistRepo, catalogUC, usecase.SessionOptions{
		SessionTTL:      cfg.SessionTTL,
		LocalStorageTTL: cfg.LocalStorageTTL,
		MaxCartQuantity: cfg.MaxCartQuantity,
		SyncConcurrency: cfg.SyncConcurrency,
	})

	cartUC := usecase.NewCartUsecase(sessionUC, catalogUC, rules)
	wishlistUC := usecase.NewWishlistUsecase(sessionUC, catalogUC)
	orderUC := usecase.NewOrderUsecase(sessionUC, orderRepo, txManager, rules)

	router := v1.NewRouter(v1.Handlers{
		Cart:         v1.NewCartHandler(cartUC),
		Wishlist:     v1.NewWishlistHandler(wishlistUC),
		Order:        v1.NewOrderHandler(orderUC),
		Catalog:      v1.NewCatalogHandler(catalogUC),
		AdminCatalog: v1.NewAdminCatalogHandler(catalogUC),
		Health:       v1.NewHealthHandler(pgxPool, sessionUC),
	}, middleware.NewVisitorMiddleware(cfg.LocalStorageTTL, cfg.Env == "production"))

	// Initialize Rate Limiter with lifecycle management
	// cleanup every minute, TTL 3 minutes
	rateLimiter := middleware.NewRateLimiter(
		context.Background(),
		rate.Limit(cfg.RateLimitRPS),
		cfg.RateLimitBurst,
		time.Minute,   // cleanup period
		3*time.Minute, // client TTL
	)

	// Apply CORS (with config injection), Request Logger, Rate Limit, and Gzip
	handler := middleware.NewCORSMiddleware(cfg)(router)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful Shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	logger.ServiceStart(serviceName, "v1", cfg.Port)

	// Wait for interrupt signal via channel
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	// Stop rate limiter cleanup goroutine
	rateLimiter.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.ServiceStop(serviceName)
}
