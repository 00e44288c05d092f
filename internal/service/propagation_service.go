package service

import (
	"time"

	"github.com/kingstons-portal/irr-engine-backend/internal/model"
	"github.com/kingstons-portal/irr-engine-backend/internal/repository"
)

// HistoricalPropagator recomputes every derived value that depends
// transitively on data up to and including a change date. Because an IRR is
// a function of the entire cash-flow history up to its valuation date, a
// change on a past date invalidates all IRRs on or after it.
type HistoricalPropagator struct {
	repos repoSet
}

// NewHistoricalPropagator creates a new HistoricalPropagator with the provided repositories.
func NewHistoricalPropagator(
	portfolioRepo *repository.PortfolioRepository,
	valuationRepo *repository.ValuationRepository,
	activityRepo *repository.ActivityRepository,
	irrRepo *repository.IRRRepository,
) *HistoricalPropagator {
	return &HistoricalPropagator{
		repos: newRepoSet(portfolioRepo, valuationRepo, activityRepo, irrRepo),
	}
}

// PropagateFrom recomputes the portfolio's derived values for every date on
// or after fromDate that currently carries a fund valuation, a portfolio
// valuation, or an IRR value. Dates are processed oldest first: later IRRs
// are path-dependent on the cumulative history, so an out-of-order failure
// could strand a future date computed against stale earlier state.
//
// Callers are responsible for transaction and per-portfolio serialisation;
// the orchestrator wraps this in both.
func (p *HistoricalPropagator) PropagateFrom(portfolioID string, fromDate time.Time) ([]model.DateOutcome, error) {
	dates, err := p.repos.irrs.GetRecomputationDates(portfolioID, fromDate)
	if err != nil {
		return nil, err
	}

	checker := &CompletenessChecker{repos: p.repos}
	outcomes := make([]model.DateOutcome, 0, len(dates))

	for _, date := range dates {
		active, err := p.repos.portfolios.GetActiveFunds(portfolioID, date)
		if err != nil {
			return nil, err
		}

		recomputed, removed := 0, 0
		for _, pf := range active {
			computed, deleted, err := recomputeFundIRR(p.repos, pf.ID, date)
			if err != nil {
				return nil, err
			}
			if computed {
				recomputed++
			}
			if deleted {
				removed++
			}
		}

		refresh, err := refreshPortfolioDerived(p.repos, checker, portfolioID, date)
		if err != nil {
			return nil, err
		}

		var outcome model.Outcome
		switch {
		case refresh.Complete:
			outcome = model.OutcomeRecomputed
		case recomputed > 0 || removed > 0 || refresh.ValuationDeleted || refresh.IRRDeleted:
			outcome = model.OutcomeDeletedIncomplete
		default:
			outcome = model.OutcomeSkippedNoData
		}
		outcomes = append(outcomes, model.DateOutcome{Date: date, Outcome: outcome})
	}

	return outcomes, nil
}
