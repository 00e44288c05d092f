package service

import (
	"log"
	"time"

	"github.com/kingstons-portal/irr-engine-backend/internal/repository"
)

// CompletenessChecker decides whether a portfolio's fund valuations are
// complete for a date: every active fund must have a valuation recorded for
// exactly that date. Portfolio-level derived values may only exist while
// this holds.
type CompletenessChecker struct {
	repos repoSet
}

// NewCompletenessChecker creates a new CompletenessChecker with the provided repositories.
func NewCompletenessChecker(
	portfolioRepo *repository.PortfolioRepository,
	valuationRepo *repository.ValuationRepository,
) *CompletenessChecker {
	return &CompletenessChecker{
		repos: repoSet{portfolios: portfolioRepo, valuations: valuationRepo},
	}
}

// IsComplete reports whether every fund of the portfolio that is active on
// the given date has a valuation for that date. A portfolio with no active
// funds is incomplete: no portfolio IRR can be derived from zero funds.
//
// Completeness is a boolean gate, not a user-facing operation, so lookup
// failures yield false rather than an error; the anomaly is logged for
// operational visibility.
func (c *CompletenessChecker) IsComplete(portfolioID string, date time.Time) bool {
	active, err := c.repos.portfolios.GetActiveFunds(portfolioID, date)
	if err != nil {
		log.Printf("completeness check: active fund lookup failed for portfolio %s on %s: %v",
			portfolioID, repository.FormatDate(date), err)
		return false
	}
	if len(active) == 0 {
		return false
	}

	valued, err := c.repos.valuations.GetValuedFundIDs(portfolioID, date)
	if err != nil {
		log.Printf("completeness check: valuation lookup failed for portfolio %s on %s: %v",
			portfolioID, repository.FormatDate(date), err)
		return false
	}

	for _, pf := range active {
		if !valued[pf.ID] {
			return false
		}
	}
	return true
}
