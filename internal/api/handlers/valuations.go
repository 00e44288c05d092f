package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kingstons-portal/irr-engine-backend/internal/api/request"
	"github.com/kingstons-portal/irr-engine-backend/internal/model"
	"github.com/kingstons-portal/irr-engine-backend/internal/repository"
	"github.com/kingstons-portal/irr-engine-backend/internal/service"
	"github.com/kingstons-portal/irr-engine-backend/internal/validation"
)

// ValuationHandler handles fund valuation HTTP requests
type ValuationHandler struct {
	valuationService *service.ValuationService
}

// NewValuationHandler creates a new ValuationHandler
func NewValuationHandler(valuationService *service.ValuationService) *ValuationHandler {
	return &ValuationHandler{
		valuationService: valuationService,
	}
}

// DateOutcomeResponse represents the recomputation result for one date.
type DateOutcomeResponse struct {
	Date    string `json:"date"`
	Outcome string `json:"outcome"`
}

func dateOutcomeResponses(outcomes []model.DateOutcome) []DateOutcomeResponse {
	response := make([]DateOutcomeResponse, len(outcomes))
	for i, o := range outcomes {
		response[i] = DateOutcomeResponse{
			Date:    repository.FormatDate(o.Date),
			Outcome: string(o.Outcome),
		}
	}
	return response
}

// UpsertSummaryResponse represents the cascade result of a valuation upsert.
type UpsertSummaryResponse struct {
	FundIRRComputed           bool                  `json:"fund_irr_computed"`
	Complete                  bool                  `json:"complete"`
	PortfolioIRRComputed      bool                  `json:"portfolio_irr_computed"`
	PortfolioValuationDeleted bool                  `json:"portfolio_valuation_deleted"`
	PortfolioIRRDeleted       bool                  `json:"portfolio_irr_deleted"`
	Propagated                []DateOutcomeResponse `json:"propagated"`
}

// UpsertValuation handles PUT requests to create or edit a fund valuation and
// cascade the change through the derived IRR values.
//
// Endpoint: PUT /api/valuations
// Response: 200 OK with UpsertSummaryResponse
// Error: 400 Bad Request on invalid input, 404 Not Found when the holding
// does not exist
func (h *ValuationHandler) UpsertValuation(w http.ResponseWriter, r *http.Request) {
	var req request.UpsertValuationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error":  "invalid request body",
			"detail": err.Error(),
		})
		return
	}

	if err := validation.ValidateValuationUpsert(req.PortfolioFundID, req.Date); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "validation failed",
			"detail": err,
		})
		return
	}
	date, _ := validation.ParseDate(req.Date)

	summary, err := h.valuationService.UpsertFundValuation(req.PortfolioFundID, date, req.Amount)
	if err != nil {
		respondServiceError(w, "failed to record valuation", err)
		return
	}

	respondJSON(w, http.StatusOK, UpsertSummaryResponse{
		FundIRRComputed:           summary.FundIRRComputed,
		Complete:                  summary.Complete,
		PortfolioIRRComputed:      summary.PortfolioIRRComputed,
		PortfolioValuationDeleted: summary.PortfolioValuationDeleted,
		PortfolioIRRDeleted:       summary.PortfolioIRRDeleted,
		Propagated:                dateOutcomeResponses(summary.Propagated),
	})
}

// DeletionSummaryResponse represents the cascade result of a valuation deletion.
type DeletionSummaryResponse struct {
	FundValuationDeleted      bool `json:"fund_valuation_deleted"`
	FundIRRDeleted            bool `json:"fund_irr_deleted"`
	PortfolioValuationDeleted bool `json:"portfolio_valuation_deleted"`
	PortfolioIRRDeleted       bool `json:"portfolio_irr_deleted"`
}

// DeleteValuation handles DELETE requests to remove a fund valuation together
// with the derived values that depended on it. Deleting a valuation that no
// longer exists succeeds with an empty summary.
//
// Endpoint: DELETE /api/valuations/{uuid}
// Response: 200 OK with DeletionSummaryResponse
func (h *ValuationHandler) DeleteValuation(w http.ResponseWriter, r *http.Request) {
	valuationID := chi.URLParam(r, "uuid")

	summary, err := h.valuationService.DeleteFundValuation(valuationID)
	if err != nil {
		respondServiceError(w, "failed to delete valuation", err)
		return
	}

	respondJSON(w, http.StatusOK, DeletionSummaryResponse{
		FundValuationDeleted:      summary.FundValuationDeleted,
		FundIRRDeleted:            summary.FundIRRDeleted,
		PortfolioValuationDeleted: summary.PortfolioValuationDeleted,
		PortfolioIRRDeleted:       summary.PortfolioIRRDeleted,
	})
}

// FundIRRResponse represents one computed fund IRR data point.
type FundIRRResponse struct {
	Date string  `json:"date"`
	Rate float64 `json:"rate"`
}

// FundIRRSeries handles GET requests for a holding's computed IRR series.
//
// Endpoint: GET /api/portfolio-funds/{uuid}/irr
// Response: 200 OK with []FundIRRResponse in date order
// Error: 404 Not Found when the holding does not exist
func (h *ValuationHandler) FundIRRSeries(w http.ResponseWriter, r *http.Request) {
	portfolioFundID := chi.URLParam(r, "uuid")

	series, err := h.valuationService.GetFundIRRSeries(portfolioFundID)
	if err != nil {
		respondServiceError(w, "failed to retrieve fund IRR series", err)
		return
	}

	response := make([]FundIRRResponse, len(series))
	for i, irr := range series {
		response[i] = FundIRRResponse{
			Date: repository.FormatDate(irr.Date),
			Rate: irr.Rate,
		}
	}

	respondJSON(w, http.StatusOK, response)
}
