package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/warelot/stockledger/internal/adapter/http"
	"github.com/warelot/stockledger/internal/adapter/http/handler"
	postgresRepo "github.com/warelot/stockledger/internal/adapter/repository/postgres"
	redisRepo "github.com/warelot/stockledger/internal/adapter/repository/redis"
	"github.com/warelot/stockledger/internal/domain"
	"github.com/warelot/stockledger/internal/infrastructure/config"
	"github.com/warelot/stockledger/internal/infrastructure/logger"
	"github.com/warelot/stockledger/internal/infrastructure/metrics"
	"github.com/warelot/stockledger/internal/infrastructure/postgres"
	"github.com/warelot/stockledger/internal/infrastructure/redis"
	"github.com/warelot/stockledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	log.Logger = appLogger

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
		URL:            cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	appLogger.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	appLogger.Info().Msg("connected to redis")

	// Metrics
	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool, m)
	itemDirectory := postgresRepo.NewItemDirectory(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(appLogger)

	// Item directory cache, shared by both ledgers
	directoryCache := usecase.NewDirectoryCache(itemDirectory, cfg.DirectoryCacheTTL, cfg.DirectoryCacheSweep, m)
	defer directoryCache.Close()

	// Initialize use cases, one set per ledger flavor
	finishedProfile := domain.FinishedGoodsProfile()
	materialProfile := domain.RawMaterialProfile()

	ledgerUCs := map[domain.Ledger]handler.LedgerService{
		domain.LedgerFinished: usecase.NewLedgerUseCase(finishedProfile, txManager, entryRepo, directoryCache, idGen, retrier, m),
		domain.LedgerMaterial: usecase.NewLedgerUseCase(materialProfile, txManager, entryRepo, directoryCache, idGen, retrier, m),
	}
	batchUCs := map[domain.Ledger]handler.BatchService{
		domain.LedgerFinished: usecase.NewBatchUseCase(finishedProfile, entryRepo, m),
		domain.LedgerMaterial: usecase.NewBatchUseCase(materialProfile, entryRepo, m),
	}
	reworkUC := usecase.NewReworkUseCase(entryRepo, m)

	// Initialize handlers
	entryHandler := handler.NewEntryHandler(ledgerUCs)
	batchHandler := handler.NewBatchHandler(batchUCs, reworkUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		EntryHandler:     entryHandler,
		BatchHandler:     batchHandler,
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		Logger:           appLogger,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		appLogger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info().Msg("server stopped")
}
