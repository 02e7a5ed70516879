package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gul-marketplace/config"
	"gul-marketplace/internal/adapter/fallback"
	httpHandler "gul-marketplace/internal/adapter/http/handler"
	"gul-marketplace/internal/adapter/solana"
	pgStorage "gul-marketplace/internal/adapter/storage/postgres"
	redisStorage "gul-marketplace/internal/adapter/storage/redis"
	"gul-marketplace/internal/core/ports"
	"gul-marketplace/internal/service"
	"gul-marketplace/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Gul Marketplace API")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	userRepo := pgStorage.NewUserRepo(pool)
	listingRepo := pgStorage.NewListingRepo(pool)
	purchaseRepo := pgStorage.NewPurchaseRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	listingCache := redisStorage.NewListingCache(rdb)
	purchaseCache := redisStorage.NewPurchaseCache(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize chain gateway
	chainGw := solana.NewClient(cfg.Solana, log)
	var verifier ports.TransferVerifier
	if cfg.Solana.VerifyTransfer {
		verifier = chainGw
		log.Info().Str("rpc", cfg.Solana.RPCEndpoint).Msg("on-chain transfer verification enabled")
	} else {
		log.Warn().Msg("on-chain transfer verification disabled; settling on reported signatures")
	}

	// Initialize business services
	directorySvc := service.NewDirectoryService(userRepo, listingRepo, purchaseRepo)
	catalogSvc := service.NewCatalogService(listingRepo, listingCache, cfg.Catalog.CacheTTL, log)
	settlementSvc := service.NewSettlementService(
		listingRepo,
		purchaseRepo,
		purchaseCache,
		listingCache,
		verifier,
		transactor,
		log,
	)

	// Demo catalog fallback for storefront resilience
	var demoCatalog *fallback.DemoCatalog
	if cfg.Catalog.DemoFallback {
		demoCatalog = fallback.NewDemoCatalog()
		log.Info().Msg("demo catalog fallback enabled")
	}

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		DirectorySvc:   directorySvc,
		CatalogSvc:     catalogSvc,
		SettlementSvc:  settlementSvc,
		ChainGw:        chainGw,
		RateLimitStore: rateLimitStore,
		DemoCatalog:    demoCatalog,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		AdminKey:       cfg.Admin.Key,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
