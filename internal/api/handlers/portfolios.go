package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kingstons-portal/irr-engine-backend/internal/api/request"
	"github.com/kingstons-portal/irr-engine-backend/internal/repository"
	"github.com/kingstons-portal/irr-engine-backend/internal/service"
	"github.com/kingstons-portal/irr-engine-backend/internal/validation"
)

// PortfolioHandler handles portfolio-level HTTP requests
type PortfolioHandler struct {
	valuationService *service.ValuationService
	orchestrator     *service.CascadeOrchestrator
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(valuationService *service.ValuationService, orchestrator *service.CascadeOrchestrator) *PortfolioHandler {
	return &PortfolioHandler{
		valuationService: valuationService,
		orchestrator:     orchestrator,
	}
}

// Recalculate handles POST requests that recompute every derived value of a
// portfolio dated on or after the given cut-over date, oldest first. This is
// the entry point for out-of-band historical corrections.
//
// Endpoint: POST /api/portfolios/{uuid}/recalculate
// Response: 200 OK with []DateOutcomeResponse, oldest date first
// Error: 400 Bad Request on invalid input, 404 Not Found when the portfolio
// does not exist
func (h *PortfolioHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	var req request.RecalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error":  "invalid request body",
			"detail": err.Error(),
		})
		return
	}

	fromDate, err := validation.ParseDate(req.FromDate)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error":  "invalid fromDate",
			"detail": err.Error(),
		})
		return
	}

	outcomes, err := h.orchestrator.HandleHistoricalChange(portfolioID, fromDate)
	if err != nil {
		respondServiceError(w, "failed to recalculate portfolio", err)
		return
	}

	respondJSON(w, http.StatusOK, dateOutcomeResponses(outcomes))
}

// PortfolioIRRResponse represents one computed portfolio IRR data point.
type PortfolioIRRResponse struct {
	Date string  `json:"date"`
	Rate float64 `json:"rate"`
}

// IRRSeries handles GET requests for a portfolio's computed IRR series.
//
// Endpoint: GET /api/portfolios/{uuid}/irr
// Response: 200 OK with []PortfolioIRRResponse in date order
// Error: 404 Not Found when the portfolio does not exist
func (h *PortfolioHandler) IRRSeries(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	series, err := h.valuationService.GetPortfolioIRRSeries(portfolioID)
	if err != nil {
		respondServiceError(w, "failed to retrieve portfolio IRR series", err)
		return
	}

	response := make([]PortfolioIRRResponse, len(series))
	for i, irr := range series {
		response[i] = PortfolioIRRResponse{
			Date: repository.FormatDate(irr.Date),
			Rate: irr.Rate,
		}
	}

	respondJSON(w, http.StatusOK, response)
}
