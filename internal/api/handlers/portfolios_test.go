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

func setupPortfolioHandler(t *testing.T) (*PortfolioHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestValuationService(t, db)
	orchestrator := testutil.NewTestOrchestrator(t, db)
	return NewPortfolioHandler(svc, orchestrator), db
}

func TestPortfolioHandler_Recalculate(t *testing.T) {
	t.Run("recomputes from the given date", func(t *testing.T) {
		handler, db := setupPortfolioHandler(t)

		portfolio := testutil.NewPortfolio().Build(t, db)
		holding := testutil.CreateHolding(t, db, portfolio.ID)
		testutil.NewActivity(holding.ID).
			WithDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)).
			WithAmount(1000).
			Build(t, db)
		testutil.NewFundValuation(holding.ID).
			WithDate(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)).
			WithAmount(1100).
			Build(t, db)

		req := testutil.NewRequestWithURLParamsAndBody(
			http.MethodPost,
			"/api/portfolios/"+portfolio.ID+"/recalculate",
			map[string]string{"uuid": portfolio.ID},
			strings.NewReader(`{"fromDate":"2024-01-01"}`),
		)
		w := httptest.NewRecorder()

		handler.Recalculate(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []DateOutcomeResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if len(response) != 1 {
			t.Fatalf("Expected 1 recomputed date, got %d", len(response))
		}
		if response[0].Outcome != "recomputed" {
			t.Errorf("Expected outcome recomputed, got %s", response[0].Outcome)
		}

		testutil.AssertRowCount(t, db, "portfolio_irr", 1)
	})

	t.Run("returns 400 on invalid fromDate", func(t *testing.T) {
		handler, db := setupPortfolioHandler(t)

		portfolio := testutil.NewPortfolio().Build(t, db)

		req := testutil.NewRequestWithURLParamsAndBody(
			http.MethodPost,
			"/api/portfolios/"+portfolio.ID+"/recalculate",
			map[string]string{"uuid": portfolio.ID},
			strings.NewReader(`{"fromDate":"01-01-2024"}`),
		)
		w := httptest.NewRecorder()

		handler.Recalculate(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 404 for unknown portfolio", func(t *testing.T) {
		handler, _ := setupPortfolioHandler(t)

		id := testutil.MakeID()
		req := testutil.NewRequestWithURLParamsAndBody(
			http.MethodPost,
			"/api/portfolios/"+id+"/recalculate",
			map[string]string{"uuid": id},
			strings.NewReader(`{"fromDate":"2024-01-01"}`),
		)
		w := httptest.NewRecorder()

		handler.Recalculate(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestPortfolioHandler_IRRSeries(t *testing.T) {
	t.Run("returns 404 for unknown portfolio", func(t *testing.T) {
		handler, _ := setupPortfolioHandler(t)

		id := testutil.MakeID()
		req := testutil.NewRequestWithURLParams(
			http.MethodGet,
			"/api/portfolios/"+id+"/irr",
			map[string]string{"uuid": id},
		)
		w := httptest.NewRecorder()

		handler.IRRSeries(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns an empty series for a portfolio without IRRs", func(t *testing.T) {
		handler, db := setupPortfolioHandler(t)

		portfolio := testutil.NewPortfolio().Build(t, db)

		req := testutil.NewRequestWithURLParams(
			http.MethodGet,
			"/api/portfolios/"+portfolio.ID+"/irr",
			map[string]string{"uuid": portfolio.ID},
		)
		w := httptest.NewRecorder()

		handler.IRRSeries(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []PortfolioIRRResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if len(response) != 0 {
			t.Errorf("Expected empty series, got %d points", len(response))
		}
	})
}
