package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/warelot/stockledger/internal/adapter/http/handler"
	"github.com/warelot/stockledger/internal/adapter/http/middleware"
	"github.com/warelot/stockledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	EntryHandler     *handler.EntryHandler
	BatchHandler     *handler.BatchHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Rework reconciliation is finished-goods only; the static segment
		// takes precedence over {ledger}.
		r.Get("/ledgers/finished/items/{item}/rework-batches", cfg.BatchHandler.ListOpenRework)

		r.Route("/ledgers/{ledger}", func(r chi.Router) {
			r.Post("/entries", cfg.EntryHandler.Create)
			r.Delete("/entries/{id}", cfg.EntryHandler.Delete)
			r.Get("/items/{item}/batches", cfg.BatchHandler.ListAvailable)
			r.Get("/items/{item}/batches/{batch}/stock", cfg.BatchHandler.GetStock)
		})
	})

	return r
}
