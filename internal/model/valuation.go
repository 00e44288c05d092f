package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// FundValuation is a single observation of the market value of one fund
// holding on one date. The date is the natural key within a portfolio-fund:
// at most one valuation exists per (portfolio_fund_id, date).
type FundValuation struct {
	ID              string          `json:"id"`
	PortfolioFundID string          `json:"portfolioFundId"`
	Date            time.Time       `json:"date"`
	Amount          decimal.Decimal `json:"amount"`
	CreatedAt       time.Time       `json:"createdAt,omitempty"`
}

// PortfolioValuation is the aggregate value of a portfolio on a date.
// It is derived from the sum of the active funds' valuations on that date and
// exists only while every active fund has a valuation for the date.
type PortfolioValuation struct {
	ID          string          `json:"id"`
	PortfolioID string          `json:"portfolioId"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
}
