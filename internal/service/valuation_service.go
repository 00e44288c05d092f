package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/kingstons-portal/irr-engine-backend/internal/apperrors"
	"github.com/kingstons-portal/irr-engine-backend/internal/model"
	"github.com/kingstons-portal/irr-engine-backend/internal/repository"
	"github.com/shopspring/decimal"
)

// ValuationService is the write-through surface the API layer uses for raw
// valuation and activity mutations. It persists the raw records and then
// hands the change to the CascadeOrchestrator, so no mutation path can skip
// the cascade. Derived rows are never written here.
type ValuationService struct {
	repos        repoSet
	orchestrator *CascadeOrchestrator
}

// NewValuationService creates a new ValuationService with the provided dependencies.
func NewValuationService(
	portfolioRepo *repository.PortfolioRepository,
	valuationRepo *repository.ValuationRepository,
	activityRepo *repository.ActivityRepository,
	irrRepo *repository.IRRRepository,
	orchestrator *CascadeOrchestrator,
) *ValuationService {
	return &ValuationService{
		repos:        newRepoSet(portfolioRepo, valuationRepo, activityRepo, irrRepo),
		orchestrator: orchestrator,
	}
}

// UpsertFundValuation records a fund valuation (creating or editing the
// amount for that date) and cascades the change.
func (s *ValuationService) UpsertFundValuation(portfolioFundID string, date time.Time, amount decimal.Decimal) (model.UpsertSummary, error) {
	if _, err := s.repos.portfolios.GetPortfolioFund(portfolioFundID); err != nil {
		return model.UpsertSummary{}, err
	}

	_, err := s.repos.valuations.UpsertFundValuation(model.FundValuation{
		ID:              uuid.NewString(),
		PortfolioFundID: portfolioFundID,
		Date:            date,
		Amount:          amount,
	})
	if err != nil {
		return model.UpsertSummary{}, err
	}

	return s.orchestrator.HandleValuationUpsert(portfolioFundID, date)
}

// DeleteFundValuation removes a fund valuation and cascades the deletion.
func (s *ValuationService) DeleteFundValuation(valuationID string) (model.DeletionSummary, error) {
	return s.orchestrator.HandleValuationDeletion(valuationID)
}

// ApplyActivityBatch replaces the portfolio's activities on the dates the
// batch touches and cascades from the earliest of them. The batch is treated
// as a unit: replacement and recomputation commit in one transaction, so a
// rejected batch leaves the prior activities in place.
func (s *ValuationService) ApplyActivityBatch(portfolioID string, activities []model.Activity) ([]model.DateOutcome, error) {
	if _, err := s.repos.portfolios.GetPortfolioOnID(portfolioID); err != nil {
		return nil, err
	}
	if len(activities) == 0 {
		return nil, apperrors.ErrEmptyActivityBatch
	}

	seen := make(map[string]bool)
	affectedDates := make([]time.Time, 0, len(activities))
	for i := range activities {
		if !model.ValidActivityKind(activities[i].Kind) {
			return nil, apperrors.ErrUnknownActivityKind
		}
		if activities[i].ID == "" {
			activities[i].ID = uuid.NewString()
		}
		key := repository.FormatDate(activities[i].Date)
		if !seen[key] {
			seen[key] = true
			affectedDates = append(affectedDates, activities[i].Date)
		}
	}

	return s.orchestrator.HandleActivityBatchReplace(portfolioID, activities, affectedDates)
}

// GetPortfolioIRRSeries returns every computed portfolio IRR in date order.
func (s *ValuationService) GetPortfolioIRRSeries(portfolioID string) ([]model.PortfolioIRR, error) {
	if _, err := s.repos.portfolios.GetPortfolioOnID(portfolioID); err != nil {
		return nil, err
	}
	return s.repos.irrs.GetPortfolioIRRSeries(portfolioID)
}

// GetFundIRRSeries returns every computed fund IRR for a holding in date order.
func (s *ValuationService) GetFundIRRSeries(portfolioFundID string) ([]model.FundIRR, error) {
	if _, err := s.repos.portfolios.GetPortfolioFund(portfolioFundID); err != nil {
		return nil, err
	}
	return s.repos.irrs.GetFundIRRSeries(portfolioFundID)
}
