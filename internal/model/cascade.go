package model

import "time"

// Outcome tags the result of recomputing one date during historical propagation.
type Outcome string

const (
	// OutcomeRecomputed: fund IRRs refreshed and the portfolio valuation and
	// IRR rewritten because the date was complete.
	OutcomeRecomputed Outcome = "recomputed"

	// OutcomeDeletedIncomplete: the date failed the completeness check, so
	// portfolio-level rows for it were removed (fund IRRs for valued funds
	// were still refreshed).
	OutcomeDeletedIncomplete Outcome = "deleted-incomplete"

	// OutcomeSkippedNoData: the date carried no valuations and nothing needed
	// deleting.
	OutcomeSkippedNoData Outcome = "skipped-no-data"
)

// DateOutcome is one entry of a propagation result, for observability.
type DateOutcome struct {
	Date    time.Time `json:"date"`
	Outcome Outcome   `json:"outcome"`
}

// DeletionSummary reports which records a valuation deletion removed.
type DeletionSummary struct {
	FundValuationDeleted      bool `json:"fundValuationDeleted"`
	FundIRRDeleted            bool `json:"fundIrrDeleted"`
	PortfolioValuationDeleted bool `json:"portfolioValuationDeleted"`
	PortfolioIRRDeleted       bool `json:"portfolioIrrDeleted"`
}

// Empty reports whether the deletion removed nothing, which is the case when
// the initiating valuation no longer existed.
func (s DeletionSummary) Empty() bool {
	return !s.FundValuationDeleted && !s.FundIRRDeleted &&
		!s.PortfolioValuationDeleted && !s.PortfolioIRRDeleted
}

// UpsertSummary reports the effects of a valuation creation or edit.
type UpsertSummary struct {
	FundIRRComputed           bool          `json:"fundIrrComputed"`
	Complete                  bool          `json:"complete"`
	PortfolioIRRComputed      bool          `json:"portfolioIrrComputed"`
	PortfolioValuationDeleted bool          `json:"portfolioValuationDeleted"`
	PortfolioIRRDeleted       bool          `json:"portfolioIrrDeleted"`
	Propagated                []DateOutcome `json:"propagated,omitempty"`
}
