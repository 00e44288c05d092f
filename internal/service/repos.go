package service

import (
	"database/sql"

	"github.com/kingstons-portal/irr-engine-backend/internal/repository"
)

// repoSet bundles the repositories a cascade touches so a whole handler
// invocation can be re-scoped onto one transaction in a single step.
type repoSet struct {
	portfolios *repository.PortfolioRepository
	valuations *repository.ValuationRepository
	activities *repository.ActivityRepository
	irrs       *repository.IRRRepository
}

func newRepoSet(
	portfolioRepo *repository.PortfolioRepository,
	valuationRepo *repository.ValuationRepository,
	activityRepo *repository.ActivityRepository,
	irrRepo *repository.IRRRepository,
) repoSet {
	return repoSet{
		portfolios: portfolioRepo,
		valuations: valuationRepo,
		activities: activityRepo,
		irrs:       irrRepo,
	}
}

// withTx returns a copy of the set with every repository scoped to tx.
func (s repoSet) withTx(tx *sql.Tx) repoSet {
	return repoSet{
		portfolios: s.portfolios.WithTx(tx),
		valuations: s.valuations.WithTx(tx),
		activities: s.activities.WithTx(tx),
		irrs:       s.irrs.WithTx(tx),
	}
}
