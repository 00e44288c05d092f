package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/kingstons-portal/irr-engine-backend/internal/model"
	"github.com/shopspring/decimal"
)

// PortfolioBuilder provides a fluent interface for creating test portfolios.
//
// Example usage:
//
//	// Simple creation with defaults
//	portfolio := testutil.NewPortfolio().Build(t, db)
//
//	// Customized portfolio
//	portfolio := testutil.NewPortfolio().
//	    WithName("Custom Portfolio").
//	    Archived().
//	    Build(t, db)
type PortfolioBuilder struct {
	ID          string
	Name        string
	Description string
	IsArchived  bool
}

// NewPortfolio creates a PortfolioBuilder with sensible defaults.
func NewPortfolio() *PortfolioBuilder {
	return &PortfolioBuilder{
		ID:          MakeID(),
		Name:        MakePortfolioName("Test Portfolio"),
		Description: "Test description",
		IsArchived:  false,
	}
}

// WithID sets a custom ID.
func (b *PortfolioBuilder) WithID(id string) *PortfolioBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *PortfolioBuilder) WithName(name string) *PortfolioBuilder {
	b.Name = name
	return b
}

// Archived marks the portfolio as archived.
func (b *PortfolioBuilder) Archived() *PortfolioBuilder {
	b.IsArchived = true
	return b
}

// Build creates the portfolio in the database and returns it.
func (b *PortfolioBuilder) Build(t *testing.T, db *sql.DB) model.Portfolio {
	t.Helper()

	query := `
		INSERT INTO portfolio (id, name, description, is_archived)
		VALUES (?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Name, b.Description, b.IsArchived)
	if err != nil {
		t.Fatalf("Failed to create test portfolio: %v", err)
	}

	return model.Portfolio{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		IsArchived:  b.IsArchived,
	}
}

// CreatePortfolio creates a portfolio with the given name and default values.
func CreatePortfolio(t *testing.T, db *sql.DB, name string) model.Portfolio {
	t.Helper()
	return NewPortfolio().WithName(name).Build(t, db)
}

// FundBuilder provides a fluent interface for creating test funds.
type FundBuilder struct {
	ID       string
	Name     string
	ISIN     string
	Currency string
}

// NewFund creates a FundBuilder with sensible defaults.
func NewFund() *FundBuilder {
	return &FundBuilder{
		ID:       MakeID(),
		Name:     MakeFundName("Test Fund"),
		ISIN:     MakeISIN("US"),
		Currency: "GBP",
	}
}

// WithName sets a custom name.
func (b *FundBuilder) WithName(name string) *FundBuilder {
	b.Name = name
	return b
}

// WithCurrency sets the currency.
func (b *FundBuilder) WithCurrency(currency string) *FundBuilder {
	b.Currency = currency
	return b
}

// Build creates the fund in the database and returns it.
func (b *FundBuilder) Build(t *testing.T, db *sql.DB) model.Fund {
	t.Helper()

	query := `
		INSERT INTO fund (id, name, isin, currency)
		VALUES (?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Name, b.ISIN, b.Currency)
	if err != nil {
		t.Fatalf("Failed to create test fund: %v", err)
	}

	return model.Fund{
		ID:       b.ID,
		Name:     b.Name,
		Isin:     b.ISIN,
		Currency: b.Currency,
	}
}

// CreateFund creates a fund with the given name and default values.
func CreateFund(t *testing.T, db *sql.DB, name string) model.Fund {
	t.Helper()
	return NewFund().WithName(name).Build(t, db)
}

// PortfolioFundBuilder provides a fluent interface for creating holdings
type PortfolioFundBuilder struct {
	ID          string
	PortfolioID string
	FundID      string
	EndDate     *time.Time
}

// NewPortfolioFund creates a PortfolioFundBuilder
func NewPortfolioFund(portfolioID, fundID string) *PortfolioFundBuilder {
	return &PortfolioFundBuilder{
		ID:          MakeID(),
		PortfolioID: portfolioID,
		FundID:      fundID,
	}
}

// EndedOn sets the holding's end date. The holding is no longer active on
// that date or after it.
func (b *PortfolioFundBuilder) EndedOn(date time.Time) *PortfolioFundBuilder {
	b.EndDate = &date
	return b
}

// Build creates the portfolio_fund in the database
func (b *PortfolioFundBuilder) Build(t *testing.T, db *sql.DB) model.PortfolioFund {
	t.Helper()

	query := `
		INSERT INTO portfolio_fund (id, portfolio_id, fund_id, end_date)
		VALUES (?, ?, ?, ?)
	`

	var endDate any
	if b.EndDate != nil {
		endDate = b.EndDate.Format("2006-01-02")
	}

	_, err := db.Exec(query, b.ID, b.PortfolioID, b.FundID, endDate)
	if err != nil {
		t.Fatalf("Failed to create portfolio_fund: %v", err)
	}

	return model.PortfolioFund{
		ID:          b.ID,
		PortfolioID: b.PortfolioID,
		FundID:      b.FundID,
		EndDate:     b.EndDate,
	}
}

// CreateHolding creates a fund and links it to the portfolio, returning the
// holding. Most cascade tests only care about the holding ID.
func CreateHolding(t *testing.T, db *sql.DB, portfolioID string) model.PortfolioFund {
	t.Helper()
	fund := NewFund().Build(t, db)
	return NewPortfolioFund(portfolioID, fund.ID).Build(t, db)
}

// FundValuationBuilder provides a fluent interface for creating fund valuations
type FundValuationBuilder struct {
	ID              string
	PortfolioFundID string
	Date            time.Time
	Amount          decimal.Decimal
}

// NewFundValuation creates a FundValuationBuilder with defaults
func NewFundValuation(portfolioFundID string) *FundValuationBuilder {
	return &FundValuationBuilder{
		ID:              MakeID(),
		PortfolioFundID: portfolioFundID,
		Date:            time.Now(),
		Amount:          decimal.NewFromInt(1000),
	}
}

// WithDate sets the valuation date
func (b *FundValuationBuilder) WithDate(date time.Time) *FundValuationBuilder {
	b.Date = date
	return b
}

// WithAmount sets the valuation amount
func (b *FundValuationBuilder) WithAmount(amount float64) *FundValuationBuilder {
	b.Amount = decimal.NewFromFloat(amount)
	return b
}

// Build creates the fund valuation in the database
func (b *FundValuationBuilder) Build(t *testing.T, db *sql.DB) model.FundValuation {
	t.Helper()

	query := `
		INSERT INTO fund_valuation (id, portfolio_fund_id, date, amount)
		VALUES (?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.PortfolioFundID, b.Date.Format("2006-01-02"), b.Amount.String())
	if err != nil {
		t.Fatalf("Failed to create fund valuation: %v", err)
	}

	return model.FundValuation{
		ID:              b.ID,
		PortfolioFundID: b.PortfolioFundID,
		Date:            b.Date,
		Amount:          b.Amount,
	}
}

// ActivityBuilder provides a fluent interface for creating activities
type ActivityBuilder struct {
	ID              string
	PortfolioFundID string
	Date            time.Time
	Kind            string
	Amount          decimal.Decimal
}

// NewActivity creates an ActivityBuilder with defaults
func NewActivity(portfolioFundID string) *ActivityBuilder {
	return &ActivityBuilder{
		ID:              MakeID(),
		PortfolioFundID: portfolioFundID,
		Date:            time.Now(),
		Kind:            model.ActivityContribution,
		Amount:          decimal.NewFromInt(1000),
	}
}

// WithDate sets the activity date
func (b *ActivityBuilder) WithDate(date time.Time) *ActivityBuilder {
	b.Date = date
	return b
}

// WithKind sets the activity kind
func (b *ActivityBuilder) WithKind(kind string) *ActivityBuilder {
	b.Kind = kind
	return b
}

// WithAmount sets the activity amount
func (b *ActivityBuilder) WithAmount(amount float64) *ActivityBuilder {
	b.Amount = decimal.NewFromFloat(amount)
	return b
}

// Build creates the activity in the database
func (b *ActivityBuilder) Build(t *testing.T, db *sql.DB) model.Activity {
	t.Helper()

	query := `
		INSERT INTO activity (id, portfolio_fund_id, date, kind, amount)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.PortfolioFundID, b.Date.Format("2006-01-02"), b.Kind, b.Amount.String())
	if err != nil {
		t.Fatalf("Failed to create activity: %v", err)
	}

	return model.Activity{
		ID:              b.ID,
		PortfolioFundID: b.PortfolioFundID,
		Date:            b.Date,
		Kind:            b.Kind,
		Amount:          b.Amount,
	}
}
