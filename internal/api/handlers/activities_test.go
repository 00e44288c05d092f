package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kingstons-portal/irr-engine-backend/internal/testutil"
)

func setupActivityHandler(t *testing.T) (*ActivityHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestValuationService(t, db)
	return NewActivityHandler(svc), db
}

func TestActivityHandler_ApplyActivityBatch(t *testing.T) {
	t.Run("applies a batch and returns the recomputed dates", func(t *testing.T) {
		handler, db := setupActivityHandler(t)

		portfolio := testutil.NewPortfolio().Build(t, db)
		holding := testutil.CreateHolding(t, db, portfolio.ID)
		testutil.NewFundValuation(holding.ID).
			WithDate(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)).
			WithAmount(1100).
			Build(t, db)

		body := `{
			"portfolioId": "` + portfolio.ID + `",
			"activities": [
				{"portfolioFundId": "` + holding.ID + `", "date": "2024-01-01", "kind": "contribution", "amount": "1000"}
			]
		}`
		req := httptest.NewRequest(http.MethodPost, "/api/activities", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.ApplyActivityBatch(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []DateOutcomeResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if len(response) != 1 {
			t.Fatalf("Expected 1 recomputed date, got %d", len(response))
		}
		if response[0].Date != "2024-06-30" {
			t.Errorf("Expected date 2024-06-30, got %s", response[0].Date)
		}
		if response[0].Outcome != "recomputed" {
			t.Errorf("Expected outcome recomputed, got %s", response[0].Outcome)
		}

		testutil.AssertRowCount(t, db, "activity", 1)
	})

	t.Run("returns 400 on malformed body", func(t *testing.T) {
		handler, _ := setupActivityHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/api/activities", strings.NewReader("{not json"))
		w := httptest.NewRecorder()

		handler.ApplyActivityBatch(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 on empty batch", func(t *testing.T) {
		handler, db := setupActivityHandler(t)

		portfolio := testutil.NewPortfolio().Build(t, db)

		body := `{"portfolioId": "` + portfolio.ID + `", "activities": []}`
		req := httptest.NewRequest(http.MethodPost, "/api/activities", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.ApplyActivityBatch(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 on unknown activity kind", func(t *testing.T) {
		handler, db := setupActivityHandler(t)

		portfolio := testutil.NewPortfolio().Build(t, db)
		holding := testutil.CreateHolding(t, db, portfolio.ID)

		body := `{
			"portfolioId": "` + portfolio.ID + `",
			"activities": [
				{"portfolioFundId": "` + holding.ID + `", "date": "2024-01-01", "kind": "transfer", "amount": "1000"}
			]
		}`
		req := httptest.NewRequest(http.MethodPost, "/api/activities", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.ApplyActivityBatch(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 404 for unknown portfolio", func(t *testing.T) {
		handler, _ := setupActivityHandler(t)

		body := `{
			"portfolioId": "` + testutil.MakeID() + `",
			"activities": [
				{"portfolioFundId": "` + testutil.MakeID() + `", "date": "2024-01-01", "kind": "contribution", "amount": "1000"}
			]
		}`
		req := httptest.NewRequest(http.MethodPost, "/api/activities", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.ApplyActivityBatch(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}
