package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/kingstons-portal/irr-engine-backend/internal/apperrors"
	"github.com/kingstons-portal/irr-engine-backend/internal/model"
)

// PortfolioRepository provides data access methods for the portfolio and
// portfolio_fund tables.
type PortfolioRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPortfolioRepository creates a new PortfolioRepository with the provided database connection.
func NewPortfolioRepository(db *sql.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// WithTx returns a new PortfolioRepository scoped to the provided transaction.
func (r *PortfolioRepository) WithTx(tx *sql.Tx) *PortfolioRepository {
	return &PortfolioRepository{db: r.db, tx: tx}
}

func (r *PortfolioRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetPortfolios retrieves portfolios from the database based on filter criteria.
// Returns an empty slice if no portfolios match.
func (r *PortfolioRepository) GetPortfolios(filter model.PortfolioFilter) ([]model.Portfolio, error) {
	query := `
		SELECT id, name, description, is_archived
		FROM portfolio
		WHERE 1=1
	`
	var args []any

	if !filter.IncludeArchived {
		query += " AND is_archived = ?"
		args = append(args, 0)
	}

	rows, err := r.getQuerier().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio table: %w", err)
	}
	defer rows.Close()

	portfolios := []model.Portfolio{}

	for rows.Next() {
		var p model.Portfolio
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.IsArchived); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio row: %w", err)
		}
		portfolios = append(portfolios, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio table: %w", err)
	}

	return portfolios, nil
}

// GetPortfolioOnID retrieves a single portfolio by its ID.
// Returns ErrPortfolioNotFound if no portfolio with the given ID exists.
func (r *PortfolioRepository) GetPortfolioOnID(portfolioID string) (model.Portfolio, error) {
	query := `
		SELECT id, name, description, is_archived
		FROM portfolio
		WHERE id = ?
	`

	var p model.Portfolio
	err := r.getQuerier().QueryRow(query, portfolioID).Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.IsArchived,
	)
	if err == sql.ErrNoRows {
		return model.Portfolio{}, apperrors.ErrPortfolioNotFound
	}
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to query portfolio: %w", err)
	}

	return p, nil
}

// GetPortfolioFund retrieves a single portfolio_fund record by its ID.
// Returns ErrPortfolioFundNotFound if no record with the given ID exists.
func (r *PortfolioRepository) GetPortfolioFund(pfID string) (model.PortfolioFund, error) {
	if pfID == "" {
		return model.PortfolioFund{}, apperrors.ErrInvalidPortfolioFundID
	}

	query := `
		SELECT id, portfolio_id, fund_id, end_date
		FROM portfolio_fund
		WHERE id = ?
	`

	var pf model.PortfolioFund
	var endDate sql.NullString
	err := r.getQuerier().QueryRow(query, pfID).Scan(
		&pf.ID,
		&pf.PortfolioID,
		&pf.FundID,
		&endDate,
	)
	if err == sql.ErrNoRows {
		return model.PortfolioFund{}, apperrors.ErrPortfolioFundNotFound
	}
	if err != nil {
		return model.PortfolioFund{}, fmt.Errorf("failed to query portfolio_fund: %w", err)
	}

	if endDate.Valid {
		parsed, err := ParseTime(endDate.String)
		if err != nil {
			return model.PortfolioFund{}, fmt.Errorf("failed to parse end_date: %w", err)
		}
		pf.EndDate = &parsed
	}

	return pf, nil
}

// GetActiveFunds retrieves the portfolio-fund relationships that are active
// on the given date: those with no end-date, or an end-date strictly after it.
func (r *PortfolioRepository) GetActiveFunds(portfolioID string, date time.Time) ([]model.PortfolioFund, error) {
	if portfolioID == "" {
		return nil, apperrors.ErrInvalidPortfolioID
	}

	query := `
		SELECT id, portfolio_id, fund_id, end_date
		FROM portfolio_fund
		WHERE portfolio_id = ?
		AND (end_date IS NULL OR end_date > ?)
		ORDER BY id
	`

	rows, err := r.getQuerier().Query(query, portfolioID, FormatDate(date))
	if err != nil {
		return nil, fmt.Errorf("failed to query active portfolio funds: %w", err)
	}
	defer rows.Close()

	funds := []model.PortfolioFund{}

	for rows.Next() {
		var pf model.PortfolioFund
		var endDate sql.NullString
		if err := rows.Scan(&pf.ID, &pf.PortfolioID, &pf.FundID, &endDate); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio_fund row: %w", err)
		}
		if endDate.Valid {
			parsed, err := ParseTime(endDate.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse end_date: %w", err)
			}
			pf.EndDate = &parsed
		}
		funds = append(funds, pf)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio_fund table: %w", err)
	}

	return funds, nil
}
