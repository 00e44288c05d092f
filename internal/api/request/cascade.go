package request

import "github.com/shopspring/decimal"

// UpsertValuationRequest represents the request body for creating or editing
// a fund valuation. Dates are YYYY-MM-DD.
type UpsertValuationRequest struct {
	PortfolioFundID string          `json:"portfolioFundId"`
	Date            string          `json:"date"`
	Amount          decimal.Decimal `json:"amount"`
}

// ActivityInput is a single activity row within a batch change.
type ActivityInput struct {
	PortfolioFundID string          `json:"portfolioFundId"`
	Date            string          `json:"date"`
	Kind            string          `json:"kind"`
	Amount          decimal.Decimal `json:"amount"`
}

// ActivityBatchRequest represents the request body for replacing the
// activities of a portfolio on the dates the batch touches.
type ActivityBatchRequest struct {
	PortfolioID string          `json:"portfolioId"`
	Activities  []ActivityInput `json:"activities"`
}

// RecalculateRequest represents the request body for a historical
// recalculation of a portfolio from a known cut-over date.
type RecalculateRequest struct {
	FromDate string `json:"fromDate"`
}
