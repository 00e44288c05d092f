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

func setupValuationHandler(t *testing.T) (*ValuationHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestValuationService(t, db)
	return NewValuationHandler(svc), db
}

func TestValuationHandler_UpsertValuation(t *testing.T) {
	activityDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("records a valuation and returns the cascade summary", func(t *testing.T) {
		handler, db := setupValuationHandler(t)

		portfolio := testutil.NewPortfolio().Build(t, db)
		holding := testutil.CreateHolding(t, db, portfolio.ID)
		testutil.NewActivity(holding.ID).WithDate(activityDate).WithAmount(1000).Build(t, db)

		body := `{"portfolioFundId":"` + holding.ID + `","date":"2024-06-30","amount":"1100"}`
		req := httptest.NewRequest(http.MethodPut, "/api/valuations", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.UpsertValuation(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response UpsertSummaryResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if !response.FundIRRComputed {
			t.Error("Expected fund_irr_computed to be true")
		}
		if !response.Complete {
			t.Error("Expected complete to be true for a single-holding portfolio")
		}
	})

	t.Run("returns 400 on malformed body", func(t *testing.T) {
		handler, _ := setupValuationHandler(t)

		req := httptest.NewRequest(http.MethodPut, "/api/valuations", strings.NewReader("{not json"))
		w := httptest.NewRecorder()

		handler.UpsertValuation(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 on invalid fields", func(t *testing.T) {
		handler, _ := setupValuationHandler(t)

		body := `{"portfolioFundId":"not-a-uuid","date":"30-06-2024","amount":"1100"}`
		req := httptest.NewRequest(http.MethodPut, "/api/valuations", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.UpsertValuation(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 404 for unknown holding", func(t *testing.T) {
		handler, _ := setupValuationHandler(t)

		body := `{"portfolioFundId":"` + testutil.MakeID() + `","date":"2024-06-30","amount":"1100"}`
		req := httptest.NewRequest(http.MethodPut, "/api/valuations", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.UpsertValuation(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestValuationHandler_DeleteValuation(t *testing.T) {
	valuationDate := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	t.Run("deletes a valuation and reports the cascade", func(t *testing.T) {
		handler, db := setupValuationHandler(t)

		portfolio := testutil.NewPortfolio().Build(t, db)
		holding := testutil.CreateHolding(t, db, portfolio.ID)
		valuation := testutil.NewFundValuation(holding.ID).WithDate(valuationDate).Build(t, db)

		req := testutil.NewRequestWithURLParams(
			http.MethodDelete,
			"/api/valuations/"+valuation.ID,
			map[string]string{"uuid": valuation.ID},
		)
		w := httptest.NewRecorder()

		handler.DeleteValuation(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response DeletionSummaryResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if !response.FundValuationDeleted {
			t.Error("Expected fund_valuation_deleted to be true")
		}
		testutil.AssertRowCount(t, db, "fund_valuation", 0)
	})

	t.Run("unknown valuation returns an empty summary", func(t *testing.T) {
		handler, _ := setupValuationHandler(t)

		id := testutil.MakeID()
		req := testutil.NewRequestWithURLParams(
			http.MethodDelete,
			"/api/valuations/"+id,
			map[string]string{"uuid": id},
		)
		w := httptest.NewRecorder()

		handler.DeleteValuation(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response DeletionSummaryResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.FundValuationDeleted || response.FundIRRDeleted {
			t.Errorf("Expected empty summary, got %+v", response)
		}
	})
}

func TestValuationHandler_FundIRRSeries(t *testing.T) {
	t.Run("returns 404 for unknown holding", func(t *testing.T) {
		handler, _ := setupValuationHandler(t)

		id := testutil.MakeID()
		req := testutil.NewRequestWithURLParams(
			http.MethodGet,
			"/api/portfolio-funds/"+id+"/irr",
			map[string]string{"uuid": id},
		)
		w := httptest.NewRecorder()

		handler.FundIRRSeries(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns the computed series", func(t *testing.T) {
		handler, db := setupValuationHandler(t)

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

		orchestrator := testutil.NewTestOrchestrator(t, db)
		if _, err := orchestrator.HandleValuationUpsert(holding.ID, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)); err != nil {
			t.Fatalf("Setup cascade failed: %v", err)
		}

		req := testutil.NewRequestWithURLParams(
			http.MethodGet,
			"/api/portfolio-funds/"+holding.ID+"/irr",
			map[string]string{"uuid": holding.ID},
		)
		w := httptest.NewRecorder()

		handler.FundIRRSeries(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []FundIRRResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if len(response) != 1 {
			t.Fatalf("Expected 1 IRR point, got %d", len(response))
		}
		if response[0].Date != "2024-06-30" {
			t.Errorf("Expected date 2024-06-30, got %s", response[0].Date)
		}
	})
}
