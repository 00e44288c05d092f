package model

import "time"

// Portfolio represents a portfolio from the database
type Portfolio struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsArchived  bool   `json:"isArchived"`
}

// PortfolioFilter for querying portfolios
type PortfolioFilter struct {
	IncludeArchived bool
}

// Fund represents a fund from the database
type Fund struct {
	ID       string
	Name     string
	Isin     string
	Currency string
}

// PortfolioFund represents the holding of one fund within one portfolio.
// A holding is active on a date when EndDate is nil or strictly after that date.
type PortfolioFund struct {
	ID          string     `json:"id"`
	PortfolioID string     `json:"portfolioId"`
	FundID      string     `json:"fundId"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}

// ActiveOn reports whether the holding is active on the given date.
func (pf PortfolioFund) ActiveOn(date time.Time) bool {
	return pf.EndDate == nil || pf.EndDate.After(date)
}
