package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kingstons-portal/irr-engine-backend/internal/api/handlers"
	custommiddleware "github.com/kingstons-portal/irr-engine-backend/internal/api/middleware"
	"github.com/kingstons-portal/irr-engine-backend/internal/config"
	"github.com/kingstons-portal/irr-engine-backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	valuationService *service.ValuationService,
	orchestrator *service.CascadeOrchestrator,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// Mutations are triggered by the CRUD layer and must carry the internal
	// API key; read-only routes are open.
	apiKey := custommiddleware.APIKey(func() (string, error) {
		return systemService.ResolveInternalAPIKey(cfg.Security.InternalAPIKey)
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/valuations", func(r chi.Router) {
			valuationHandler := handlers.NewValuationHandler(valuationService)
			r.With(apiKey).Put("/", valuationHandler.UpsertValuation)
			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.With(apiKey).Delete("/", valuationHandler.DeleteValuation)
			})
		})

		r.Route("/activities", func(r chi.Router) {
			activityHandler := handlers.NewActivityHandler(valuationService)
			r.With(apiKey).Post("/", activityHandler.ApplyActivityBatch)
		})

		r.Route("/portfolios", func(r chi.Router) {
			portfolioHandler := handlers.NewPortfolioHandler(valuationService, orchestrator)
			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/irr", portfolioHandler.IRRSeries)
				r.With(apiKey).Post("/recalculate", portfolioHandler.Recalculate)
			})
		})

		r.Route("/portfolio-funds", func(r chi.Router) {
			valuationHandler := handlers.NewValuationHandler(valuationService)
			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/irr", valuationHandler.FundIRRSeries)
			})
		})
	})

	return r
}
