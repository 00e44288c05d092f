package model

import "time"

// FundIRR is the computed internal rate of return for one portfolio-fund as
// of one date. A fund IRR may only exist while a fund valuation exists for
// the same portfolio-fund and date.
type FundIRR struct {
	ID              string    `json:"id"`
	PortfolioFundID string    `json:"portfolioFundId"`
	Date            time.Time `json:"date"`
	Rate            float64   `json:"rate"`
	ComputedAt      time.Time `json:"computedAt"`
}

// PortfolioIRR is the computed IRR for a portfolio as of one date. It may
// only exist while a portfolio valuation exists for the same date, which in
// turn requires every active fund to be valued on that date.
type PortfolioIRR struct {
	ID          string    `json:"id"`
	PortfolioID string    `json:"portfolioId"`
	Date        time.Time `json:"date"`
	Rate        float64   `json:"rate"`
	ComputedAt  time.Time `json:"computedAt"`
}
