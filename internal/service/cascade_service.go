package service

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kingstons-portal/irr-engine-backend/internal/apperrors"
	"github.com/kingstons-portal/irr-engine-backend/internal/model"
	"github.com/kingstons-portal/irr-engine-backend/internal/repository"
)

// CascadeOrchestrator owns the propagation of raw data changes through the
// derived IRR values. It is the only writer of fund_irr, portfolio_irr and
// portfolio_valuation rows.
//
// Every handler runs as one database transaction, and handlers for the same
// portfolio are serialised by a per-portfolio mutex: the completeness read
// and the subsequent write are not atomic as a pair, so two concurrent
// cascades on one portfolio could otherwise race the portfolio-level rows.
// Distinct portfolios proceed in parallel.
type CascadeOrchestrator struct {
	db    *sql.DB
	repos repoSet
	locks portfolioLocks
}

// NewCascadeOrchestrator creates a new CascadeOrchestrator with the provided dependencies.
func NewCascadeOrchestrator(
	db *sql.DB,
	portfolioRepo *repository.PortfolioRepository,
	valuationRepo *repository.ValuationRepository,
	activityRepo *repository.ActivityRepository,
	irrRepo *repository.IRRRepository,
) *CascadeOrchestrator {
	return &CascadeOrchestrator{
		db:    db,
		repos: newRepoSet(portfolioRepo, valuationRepo, activityRepo, irrRepo),
	}
}

// HandleValuationDeletion removes a fund valuation together with every
// derived value that depended on it: the fund IRR for the same date, and,
// when the deletion breaks completeness, the portfolio valuation and
// portfolio IRR for that date.
//
// The operation is idempotent: a valuation that no longer exists yields an
// empty summary and no error, so retries after a timeout are safe.
func (o *CascadeOrchestrator) HandleValuationDeletion(valuationID string) (model.DeletionSummary, error) {
	var summary model.DeletionSummary

	// Resolve the portfolio before taking its lock.
	valuation, err := o.repos.valuations.GetFundValuation(valuationID)
	if errors.Is(err, apperrors.ErrValuationNotFound) {
		return summary, nil
	}
	if err != nil {
		return summary, err
	}

	pf, err := o.repos.portfolios.GetPortfolioFund(valuation.PortfolioFundID)
	if err != nil {
		return summary, err
	}

	unlock := o.locks.lock(pf.PortfolioID)
	defer unlock()

	tx, err := o.db.Begin()
	if err != nil {
		return summary, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	r := o.repos.withTx(tx)

	// Re-read under the lock; a concurrent cascade may have removed it first.
	valuation, err = r.valuations.GetFundValuation(valuationID)
	if errors.Is(err, apperrors.ErrValuationNotFound) {
		return model.DeletionSummary{}, nil
	}
	if err != nil {
		return summary, err
	}

	if summary.FundIRRDeleted, err = r.irrs.DeleteFundIRR(valuation.PortfolioFundID, valuation.Date); err != nil {
		return model.DeletionSummary{}, err
	}

	if summary.FundValuationDeleted, err = r.valuations.DeleteFundValuation(valuationID); err != nil {
		return model.DeletionSummary{}, err
	}

	checker := &CompletenessChecker{repos: r}
	if checker.IsComplete(pf.PortfolioID, valuation.Date) {
		// Still complete: the valuation belonged to a holding that had
		// already ended by this date. Refresh the aggregate instead of
		// leaving it computed against the removed amount.
		if _, err := refreshPortfolioDerived(r, checker, pf.PortfolioID, valuation.Date); err != nil {
			return model.DeletionSummary{}, err
		}
	} else {
		if summary.PortfolioValuationDeleted, err = r.valuations.DeletePortfolioValuation(pf.PortfolioID, valuation.Date); err != nil {
			return model.DeletionSummary{}, err
		}
		if summary.PortfolioIRRDeleted, err = r.irrs.DeletePortfolioIRR(pf.PortfolioID, valuation.Date); err != nil {
			return model.DeletionSummary{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return model.DeletionSummary{}, fmt.Errorf("failed to commit cascade: %w", err)
	}
	return summary, nil
}

// HandleValuationUpsert recomputes the derived values affected by a created
// or edited fund valuation: the holding's fund IRR for that date, then the
// portfolio valuation and IRR gated by the completeness check. When the date
// lies before the portfolio's most recent valuation date, every later date
// is recomputed as well, oldest first.
//
// Returns ErrPortfolioFundNotFound when the holding does not exist.
func (o *CascadeOrchestrator) HandleValuationUpsert(portfolioFundID string, date time.Time) (model.UpsertSummary, error) {
	var summary model.UpsertSummary

	pf, err := o.repos.portfolios.GetPortfolioFund(portfolioFundID)
	if err != nil {
		return summary, err
	}

	unlock := o.locks.lock(pf.PortfolioID)
	defer unlock()

	tx, err := o.db.Begin()
	if err != nil {
		return summary, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	r := o.repos.withTx(tx)

	// Fund level before portfolio level: a portfolio IRR must never be
	// written while its underlying fund IRR for the same date is stale.
	if summary.FundIRRComputed, _, err = recomputeFundIRR(r, portfolioFundID, date); err != nil {
		return model.UpsertSummary{}, err
	}

	checker := &CompletenessChecker{repos: r}
	refresh, err := refreshPortfolioDerived(r, checker, pf.PortfolioID, date)
	if err != nil {
		return model.UpsertSummary{}, err
	}
	summary.Complete = refresh.Complete
	summary.PortfolioIRRComputed = refresh.IRRComputed
	summary.PortfolioValuationDeleted = refresh.ValuationDeleted
	summary.PortfolioIRRDeleted = refresh.IRRDeleted

	latest, hasData, err := r.valuations.GetLatestValuationDate(pf.PortfolioID)
	if err != nil {
		return model.UpsertSummary{}, err
	}
	if hasData && date.Before(latest) {
		propagator := &HistoricalPropagator{repos: r}
		summary.Propagated, err = propagator.PropagateFrom(pf.PortfolioID, date.AddDate(0, 0, 1))
		if err != nil {
			return model.UpsertSummary{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return model.UpsertSummary{}, fmt.Errorf("failed to commit cascade: %w", err)
	}
	return summary, nil
}

// HandleActivityBatchChange reacts to a batch of cash-flow mutations. The
// affected dates are treated as a lower bound: IRR is a function of the
// entire history up to each valuation date, so every derived value on or
// after the earliest affected date is recomputed, not merely those on the
// listed dates.
func (o *CascadeOrchestrator) HandleActivityBatchChange(portfolioID string, affectedDates []time.Time) ([]model.DateOutcome, error) {
	if len(affectedDates) == 0 {
		return nil, apperrors.ErrEmptyActivityBatch
	}

	earliest := affectedDates[0]
	for _, d := range affectedDates[1:] {
		if d.Before(earliest) {
			earliest = d
		}
	}

	return o.HandleHistoricalChange(portfolioID, earliest)
}

// HandleActivityBatchReplace replaces the portfolio's activities on the
// affected dates and recomputes every derived value dated on or after the
// earliest of them. Replacement and recomputation share one transaction: a
// failure anywhere rolls the whole batch back, leaving the prior activities
// in place.
func (o *CascadeOrchestrator) HandleActivityBatchReplace(portfolioID string, activities []model.Activity, affectedDates []time.Time) ([]model.DateOutcome, error) {
	if len(activities) == 0 || len(affectedDates) == 0 {
		return nil, apperrors.ErrEmptyActivityBatch
	}

	earliest := affectedDates[0]
	for _, d := range affectedDates[1:] {
		if d.Before(earliest) {
			earliest = d
		}
	}

	unlock := o.locks.lock(portfolioID)
	defer unlock()

	tx, err := o.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	r := o.repos.withTx(tx)

	if err := r.activities.DeleteActivitiesOnDates(portfolioID, affectedDates); err != nil {
		return nil, err
	}
	if err := r.activities.InsertActivities(activities); err != nil {
		return nil, err
	}

	propagator := &HistoricalPropagator{repos: r}
	outcomes, err := propagator.PropagateFrom(portfolioID, earliest)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit cascade: %w", err)
	}
	return outcomes, nil
}

// HandleHistoricalChange recomputes every derived value of the portfolio
// dated on or after fromDate, in ascending date order, as one transaction.
//
// Returns ErrPortfolioNotFound when the portfolio does not exist.
func (o *CascadeOrchestrator) HandleHistoricalChange(portfolioID string, fromDate time.Time) ([]model.DateOutcome, error) {
	if _, err := o.repos.portfolios.GetPortfolioOnID(portfolioID); err != nil {
		return nil, err
	}

	unlock := o.locks.lock(portfolioID)
	defer unlock()

	tx, err := o.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	propagator := &HistoricalPropagator{repos: o.repos.withTx(tx)}
	outcomes, err := propagator.PropagateFrom(portfolioID, fromDate)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit cascade: %w", err)
	}
	return outcomes, nil
}

// portfolioLocks serialises cascades per portfolio identifier.
type portfolioLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// lock acquires the mutex for the given portfolio, creating it on first use,
// and returns the matching unlock function.
func (l *portfolioLocks) lock(portfolioID string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	m, ok := l.locks[portfolioID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[portfolioID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
