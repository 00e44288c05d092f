package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kingstons-portal/irr-engine-backend/internal/apperrors"
	"github.com/kingstons-portal/irr-engine-backend/internal/irr"
	"github.com/kingstons-portal/irr-engine-backend/internal/model"
	"github.com/shopspring/decimal"
)

// flowsFromActivities converts activity records into signed cash flows for
// the IRR solver.
func flowsFromActivities(activities []model.Activity) []irr.CashFlow {
	flows := make([]irr.CashFlow, 0, len(activities))
	for _, a := range activities {
		flows = append(flows, irr.CashFlow{Date: a.Date, Amount: a.Flow()})
	}
	return flows
}

// recomputeFundIRR refreshes the fund IRR for one holding and date from the
// holding's full activity history up to and including that date, using the
// valuation on that date as the terminal value.
//
// Absence of the valuation, or a series that does not determine a rate,
// results in absence of the fund IRR rather than an error: a fund IRR must
// never outlive its same-date valuation.
func recomputeFundIRR(r repoSet, pfID string, date time.Time) (computed, deleted bool, err error) {
	valuation, err := r.valuations.GetFundValuationOnDate(pfID, date)
	if errors.Is(err, apperrors.ErrValuationNotFound) {
		deleted, err = r.irrs.DeleteFundIRR(pfID, date)
		return false, deleted, err
	}
	if err != nil {
		return false, false, err
	}

	activities, err := r.activities.GetActivitiesUpTo(pfID, date)
	if err != nil {
		return false, false, err
	}

	rate, err := irr.Compute(flowsFromActivities(activities), date, valuation.Amount.InexactFloat64())
	if errors.Is(err, irr.ErrNotComputable) {
		deleted, err = r.irrs.DeleteFundIRR(pfID, date)
		return false, deleted, err
	}
	if err != nil {
		return false, false, err
	}

	err = r.irrs.UpsertFundIRR(model.FundIRR{
		ID:              uuid.NewString(),
		PortfolioFundID: pfID,
		Date:            date,
		Rate:            rate,
	})
	if err != nil {
		return false, false, err
	}
	return true, false, nil
}

// portfolioRefresh reports what refreshPortfolioDerived did for one date.
type portfolioRefresh struct {
	Complete          bool
	IRRComputed       bool
	ValuationDeleted  bool
	IRRDeleted        bool
	ValuationUpserted bool
}

// refreshPortfolioDerived enforces the completeness invariant for one
// portfolio and date. When the date is complete the portfolio valuation is
// rewritten as the sum of the active funds' valuations and the portfolio IRR
// recomputed against it; otherwise any portfolio-level rows for the date are
// removed so derived metrics never outrun their fund-level inputs.
func refreshPortfolioDerived(r repoSet, checker *CompletenessChecker, portfolioID string, date time.Time) (portfolioRefresh, error) {
	var result portfolioRefresh

	if !checker.IsComplete(portfolioID, date) {
		valDeleted, err := r.valuations.DeletePortfolioValuation(portfolioID, date)
		if err != nil {
			return result, err
		}
		irrDeleted, err := r.irrs.DeletePortfolioIRR(portfolioID, date)
		if err != nil {
			return result, err
		}
		result.ValuationDeleted = valDeleted
		result.IRRDeleted = irrDeleted
		return result, nil
	}
	result.Complete = true

	valuations, err := r.valuations.GetActiveFundValuations(portfolioID, date)
	if err != nil {
		return result, err
	}

	total := decimal.Zero
	for _, v := range valuations {
		total = total.Add(v.Amount)
	}

	err = r.valuations.UpsertPortfolioValuation(model.PortfolioValuation{
		ID:          uuid.NewString(),
		PortfolioID: portfolioID,
		Date:        date,
		Amount:      total,
	})
	if err != nil {
		return result, err
	}
	result.ValuationUpserted = true

	activities, err := r.activities.GetPortfolioActivitiesUpTo(portfolioID, date)
	if err != nil {
		return result, err
	}

	rate, err := irr.Compute(flowsFromActivities(activities), date, total.InexactFloat64())
	if errors.Is(err, irr.ErrNotComputable) {
		// Not enough flow history yet; the valuation stands, the IRR does not.
		result.IRRDeleted, err = r.irrs.DeletePortfolioIRR(portfolioID, date)
		return result, err
	}
	if err != nil {
		return result, err
	}

	err = r.irrs.UpsertPortfolioIRR(model.PortfolioIRR{
		ID:          uuid.NewString(),
		PortfolioID: portfolioID,
		Date:        date,
		Rate:        rate,
	})
	if err != nil {
		return result, err
	}
	result.IRRComputed = true
	return result, nil
}
