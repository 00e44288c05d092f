package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/kingstons-portal/irr-engine-backend/internal/api/request"
	"github.com/kingstons-portal/irr-engine-backend/internal/model"
	"github.com/kingstons-portal/irr-engine-backend/internal/service"
	"github.com/kingstons-portal/irr-engine-backend/internal/validation"
)

// ActivityHandler handles activity batch HTTP requests
type ActivityHandler struct {
	valuationService *service.ValuationService
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(valuationService *service.ValuationService) *ActivityHandler {
	return &ActivityHandler{
		valuationService: valuationService,
	}
}

// ApplyActivityBatch handles POST requests that replace a portfolio's
// activities on the dates the batch touches, then recompute every derived
// value from the earliest affected date onward.
//
// Endpoint: POST /api/activities
// Response: 200 OK with []DateOutcomeResponse, oldest date first
// Error: 400 Bad Request on invalid input, 404 Not Found when the portfolio
// does not exist
func (h *ActivityHandler) ApplyActivityBatch(w http.ResponseWriter, r *http.Request) {
	var req request.ActivityBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error":  "invalid request body",
			"detail": err.Error(),
		})
		return
	}

	if err := validation.ValidateUUID(req.PortfolioID); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error":  "invalid portfolio ID",
			"detail": err.Error(),
		})
		return
	}
	if len(req.Activities) == 0 {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error": "activity batch is empty",
		})
		return
	}

	activities := make([]model.Activity, len(req.Activities))
	for i, a := range req.Activities {
		if err := validation.ValidateActivityInput(a.PortfolioFundID, a.Date, a.Kind); err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":  "validation failed",
				"detail": err,
			})
			return
		}
		date, _ := validation.ParseDate(a.Date)
		activities[i] = model.Activity{
			PortfolioFundID: a.PortfolioFundID,
			Date:            date,
			Kind:            a.Kind,
			Amount:          a.Amount,
		}
	}

	outcomes, err := h.valuationService.ApplyActivityBatch(req.PortfolioID, activities)
	if err != nil {
		respondServiceError(w, "failed to apply activity batch", err)
		return
	}

	respondJSON(w, http.StatusOK, dateOutcomeResponses(outcomes))
}
