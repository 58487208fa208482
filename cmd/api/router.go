package main

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/groupfund/groupfund/internal/config"
	"github.com/groupfund/groupfund/internal/handler"
	"github.com/groupfund/groupfund/internal/metrics"
	"github.com/groupfund/groupfund/internal/middleware"
	"github.com/groupfund/groupfund/internal/service"
)

type routerDeps struct {
	cfg     *config.Config
	logger  *slog.Logger
	ledger  *service.LedgerService
	reports *service.ReportService
	// store and readiness are pinged by /readyz; readiness is nil without Redis.
	store     handler.HealthChecker
	readiness handler.HealthChecker
	limiter   middleware.WriteLimiter
	recorder  interface {
		metrics.Recorder
		metrics.Exposer
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(d routerDeps) *chi.Mux {
	cfg, logger := d.cfg, d.logger

	h := handler.New()
	healthHandler := handler.NewHealthHandler(d.store, d.readiness)
	metricsHandler := handler.NewMetricsHandler(d.recorder)
	participants := handler.NewParticipantHandler(d.ledger, logger)
	categories := handler.NewCategoryHandler(d.ledger, logger)
	expenses := handler.NewExpenseHandler(d.ledger, logger)
	deposits := handler.NewDepositHandler(d.ledger, logger)
	reports := handler.NewReportHandler(d.reports, logger)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()}))
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	r.Get("/", h.Hello)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimitWrite(middleware.RateLimitConfig{
			Logger:  logger,
			Limiter: d.limiter,
			Metrics: d.recorder,
			Enabled: cfg.RateLimitWriteEnabled,
			RPS:     cfg.RateLimitWriteRPS,
			Burst:   cfg.RateLimitWriteBurst,
		}))

		r.Get("/bootstrap", reports.Bootstrap)
		r.Get("/summary", reports.Summary)

		r.Route("/participants", func(r chi.Router) {
			r.Get("/", participants.List)
			r.Post("/", participants.Create)
			r.Get("/{id}", participants.Get)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categories.List)
			r.Post("/", categories.Create)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", expenses.List)
			r.Post("/", expenses.Create)
			r.Get("/{id}", expenses.Get)
			r.Patch("/{id}", expenses.Update)
			r.Delete("/{id}", expenses.Delete)
		})

		r.Route("/deposits", func(r chi.Router) {
			r.Get("/", deposits.List)
			r.Post("/", deposits.Create)
			r.Get("/{id}", deposits.Get)
			r.Patch("/{id}", deposits.Update)
			r.Delete("/{id}", deposits.Delete)
		})
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
