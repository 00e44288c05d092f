package service

import (
	"fmt"
	"log"

	"github.com/kingstons-portal/irr-engine-backend/internal/model"
	"github.com/kingstons-portal/irr-engine-backend/internal/repository"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

// SweepService periodically recomputes every portfolio's derived values from
// its earliest valuation date. The sweep self-heals after out-of-band data
// fixes (imports, manual SQL corrections) that bypassed the trigger surface.
type SweepService struct {
	orchestrator  *CascadeOrchestrator
	portfolioRepo *repository.PortfolioRepository
	valuationRepo *repository.ValuationRepository
	concurrency   int
	cron          *cron.Cron
}

// NewSweepService creates a new SweepService. concurrency bounds how many
// portfolios are swept in parallel; values below 1 are treated as 1.
func NewSweepService(
	orchestrator *CascadeOrchestrator,
	portfolioRepo *repository.PortfolioRepository,
	valuationRepo *repository.ValuationRepository,
	concurrency int,
) *SweepService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &SweepService{
		orchestrator:  orchestrator,
		portfolioRepo: portfolioRepo,
		valuationRepo: valuationRepo,
		concurrency:   concurrency,
	}
}

// Start schedules the sweep with the given cron expression (standard
// five-field form, e.g. "0 2 * * *" for 02:00 daily).
func (s *SweepService) Start(schedule string) error {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if err := s.RunOnce(); err != nil {
			log.Printf("revaluation sweep failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule revaluation sweep: %w", err)
	}

	c.Start()
	s.cron = c
	log.Printf("revaluation sweep scheduled: %s", schedule)
	return nil
}

// Stop cancels the schedule. A sweep already in flight runs to completion.
func (s *SweepService) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// RunOnce sweeps every non-archived portfolio immediately. Portfolios are
// independent cascade scopes, so they are processed in parallel under the
// configured concurrency bound; each one still serialises against any live
// trigger handlers through the orchestrator's per-portfolio locks.
func (s *SweepService) RunOnce() error {
	portfolios, err := s.portfolioRepo.GetPortfolios(model.PortfolioFilter{})
	if err != nil {
		return err
	}

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)

	for _, p := range portfolios {
		g.Go(func() error {
			earliest, hasData, err := s.valuationRepo.GetEarliestValuationDate(p.ID)
			if err != nil {
				return fmt.Errorf("sweep of portfolio %s: %w", p.ID, err)
			}
			if !hasData {
				return nil
			}

			outcomes, err := s.orchestrator.HandleHistoricalChange(p.ID, earliest)
			if err != nil {
				return fmt.Errorf("sweep of portfolio %s: %w", p.ID, err)
			}
			log.Printf("revaluation sweep: portfolio %s, %d dates", p.ID, len(outcomes))
			return nil
		})
	}

	return g.Wait()
}
