package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/kingstons-portal/irr-engine-backend/internal/apperrors"
)

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Failed to encode JSON: %v", err)
		}
	}
}

// respondServiceError maps service-layer errors to HTTP status codes.
// Missing referenced entities become 404, everything else 500.
func respondServiceError(w http.ResponseWriter, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrPortfolioNotFound),
		errors.Is(err, apperrors.ErrFundNotFound),
		errors.Is(err, apperrors.ErrPortfolioFundNotFound),
		errors.Is(err, apperrors.ErrValuationNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrEmptyActivityBatch),
		errors.Is(err, apperrors.ErrUnknownActivityKind):
		status = http.StatusBadRequest
	}

	respondJSON(w, status, map[string]string{
		"error":  message,
		"detail": err.Error(),
	})
}
