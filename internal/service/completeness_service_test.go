package service_test

import (
	"testing"
	"time"

	"github.com/kingstons-portal/irr-engine-backend/internal/testutil"
)

// TestCompletenessChecker_IsComplete tests the completeness gate.
//
// WHY: Portfolio-level derived values may only exist while every active fund
// is valued on the date. Every cascade decision hangs off this check, so its
// edge cases (no funds, ended holdings, partial coverage) must be exact.
func TestCompletenessChecker_IsComplete(t *testing.T) {
	valuationDate := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	t.Run("false when the portfolio has no active funds", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		checker := testutil.NewTestCompletenessChecker(t, db)

		portfolio := testutil.NewPortfolio().Build(t, db)

		if checker.IsComplete(portfolio.ID, valuationDate) {
			t.Error("Expected portfolio with no funds to be incomplete")
		}
	})

	t.Run("false when one of two holdings lacks a valuation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		checker := testutil.NewTestCompletenessChecker(t, db)

		portfolio := testutil.NewPortfolio().Build(t, db)
		holdingA := testutil.CreateHolding(t, db, portfolio.ID)
		testutil.CreateHolding(t, db, portfolio.ID)

		testutil.NewFundValuation(holdingA.ID).WithDate(valuationDate).Build(t, db)

		if checker.IsComplete(portfolio.ID, valuationDate) {
			t.Error("Expected partially valued portfolio to be incomplete")
		}
	})

	t.Run("true when every active holding is valued", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		checker := testutil.NewTestCompletenessChecker(t, db)

		portfolio := testutil.NewPortfolio().Build(t, db)
		holdingA := testutil.CreateHolding(t, db, portfolio.ID)
		holdingB := testutil.CreateHolding(t, db, portfolio.ID)

		testutil.NewFundValuation(holdingA.ID).WithDate(valuationDate).Build(t, db)
		testutil.NewFundValuation(holdingB.ID).WithDate(valuationDate).Build(t, db)

		if !checker.IsComplete(portfolio.ID, valuationDate) {
			t.Error("Expected fully valued portfolio to be complete")
		}
	})

	t.Run("valuation on another date does not count", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		checker := testutil.NewTestCompletenessChecker(t, db)

		portfolio := testutil.NewPortfolio().Build(t, db)
		holding := testutil.CreateHolding(t, db, portfolio.ID)

		testutil.NewFundValuation(holding.ID).
			WithDate(valuationDate.AddDate(0, 0, -1)).
			Build(t, db)

		if checker.IsComplete(portfolio.ID, valuationDate) {
			t.Error("Expected valuation on a different date not to satisfy completeness")
		}
	})

	t.Run("ended holdings are not required", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		checker := testutil.NewTestCompletenessChecker(t, db)

		portfolio := testutil.NewPortfolio().Build(t, db)
		active := testutil.CreateHolding(t, db, portfolio.ID)

		// Ended before the valuation date, so it does not gate completeness.
		fund := testutil.NewFund().Build(t, db)
		testutil.NewPortfolioFund(portfolio.ID, fund.ID).
			EndedOn(valuationDate.AddDate(0, -1, 0)).
			Build(t, db)

		testutil.NewFundValuation(active.ID).WithDate(valuationDate).Build(t, db)

		if !checker.IsComplete(portfolio.ID, valuationDate) {
			t.Error("Expected ended holding to be excluded from the completeness check")
		}
	})

	t.Run("holding ending on the date is not active on it", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		checker := testutil.NewTestCompletenessChecker(t, db)

		portfolio := testutil.NewPortfolio().Build(t, db)
		active := testutil.CreateHolding(t, db, portfolio.ID)

		fund := testutil.NewFund().Build(t, db)
		testutil.NewPortfolioFund(portfolio.ID, fund.ID).
			EndedOn(valuationDate).
			Build(t, db)

		testutil.NewFundValuation(active.ID).WithDate(valuationDate).Build(t, db)

		if !checker.IsComplete(portfolio.ID, valuationDate) {
			t.Error("Expected holding ending on the date to be excluded")
		}
	})
}
