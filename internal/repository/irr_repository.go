package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/kingstons-portal/irr-engine-backend/internal/apperrors"
	"github.com/kingstons-portal/irr-engine-backend/internal/model"
)

// IRRRepository provides data access methods for the fund_irr and
// portfolio_irr tables. These tables hold derived values and are written
// exclusively through the cascade engine.
type IRRRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewIRRRepository creates a new IRRRepository with the provided database connection.
func NewIRRRepository(db *sql.DB) *IRRRepository {
	return &IRRRepository{db: db}
}

// WithTx returns a new IRRRepository scoped to the provided transaction.
func (r *IRRRepository) WithTx(tx *sql.Tx) *IRRRepository {
	return &IRRRepository{db: r.db, tx: tx}
}

func (r *IRRRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// UpsertFundIRR writes a fund IRR value, replacing any existing value for
// the same holding and date.
func (r *IRRRepository) UpsertFundIRR(v model.FundIRR) error {
	query := `
		INSERT INTO fund_irr (id, portfolio_fund_id, date, rate, computed_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(portfolio_fund_id, date) DO UPDATE
		SET rate = excluded.rate, computed_at = CURRENT_TIMESTAMP
	`

	if _, err := r.getQuerier().Exec(query, v.ID, v.PortfolioFundID, FormatDate(v.Date), v.Rate); err != nil {
		return fmt.Errorf("failed to upsert fund_irr: %w", err)
	}
	return nil
}

// GetFundIRR retrieves the fund IRR for an exact date.
// Returns ErrIRRNotFound when none exists.
func (r *IRRRepository) GetFundIRR(pfID string, date time.Time) (model.FundIRR, error) {
	query := `
		SELECT id, portfolio_fund_id, date, rate, computed_at
		FROM fund_irr
		WHERE portfolio_fund_id = ? AND date = ?
	`

	var v model.FundIRR
	var dateStr, computedAt string
	err := r.getQuerier().QueryRow(query, pfID, FormatDate(date)).Scan(
		&v.ID, &v.PortfolioFundID, &dateStr, &v.Rate, &computedAt,
	)
	if err == sql.ErrNoRows {
		return model.FundIRR{}, apperrors.ErrIRRNotFound
	}
	if err != nil {
		return model.FundIRR{}, fmt.Errorf("failed to query fund_irr: %w", err)
	}

	if v.Date, err = ParseTime(dateStr); err != nil {
		return model.FundIRR{}, err
	}
	if parsed, err := ParseTime(computedAt); err == nil {
		v.ComputedAt = parsed
	}
	return v, nil
}

// GetFundIRRSeries retrieves every fund IRR for a holding in ascending date order.
func (r *IRRRepository) GetFundIRRSeries(pfID string) ([]model.FundIRR, error) {
	query := `
		SELECT id, portfolio_fund_id, date, rate, computed_at
		FROM fund_irr
		WHERE portfolio_fund_id = ?
		ORDER BY date ASC
	`

	rows, err := r.getQuerier().Query(query, pfID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fund_irr series: %w", err)
	}
	defer rows.Close()

	series := []model.FundIRR{}
	for rows.Next() {
		var v model.FundIRR
		var dateStr, computedAt string
		if err := rows.Scan(&v.ID, &v.PortfolioFundID, &dateStr, &v.Rate, &computedAt); err != nil {
			return nil, fmt.Errorf("failed to scan fund_irr row: %w", err)
		}
		if v.Date, err = ParseTime(dateStr); err != nil {
			return nil, err
		}
		if parsed, err := ParseTime(computedAt); err == nil {
			v.ComputedAt = parsed
		}
		series = append(series, v)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund_irr table: %w", err)
	}

	return series, nil
}

// DeleteFundIRR removes the fund IRR for a date.
// Returns false without error when no row existed.
func (r *IRRRepository) DeleteFundIRR(pfID string, date time.Time) (bool, error) {
	result, err := r.getQuerier().Exec(
		`DELETE FROM fund_irr WHERE portfolio_fund_id = ? AND date = ?`,
		pfID, FormatDate(date),
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete fund_irr: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected > 0, nil
}

// UpsertPortfolioIRR writes a portfolio IRR value, replacing any existing
// value for the same portfolio and date.
func (r *IRRRepository) UpsertPortfolioIRR(v model.PortfolioIRR) error {
	query := `
		INSERT INTO portfolio_irr (id, portfolio_id, date, rate, computed_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(portfolio_id, date) DO UPDATE
		SET rate = excluded.rate, computed_at = CURRENT_TIMESTAMP
	`

	if _, err := r.getQuerier().Exec(query, v.ID, v.PortfolioID, FormatDate(v.Date), v.Rate); err != nil {
		return fmt.Errorf("failed to upsert portfolio_irr: %w", err)
	}
	return nil
}

// GetPortfolioIRR retrieves the portfolio IRR for an exact date.
// Returns ErrIRRNotFound when none exists.
func (r *IRRRepository) GetPortfolioIRR(portfolioID string, date time.Time) (model.PortfolioIRR, error) {
	query := `
		SELECT id, portfolio_id, date, rate, computed_at
		FROM portfolio_irr
		WHERE portfolio_id = ? AND date = ?
	`

	var v model.PortfolioIRR
	var dateStr, computedAt string
	err := r.getQuerier().QueryRow(query, portfolioID, FormatDate(date)).Scan(
		&v.ID, &v.PortfolioID, &dateStr, &v.Rate, &computedAt,
	)
	if err == sql.ErrNoRows {
		return model.PortfolioIRR{}, apperrors.ErrIRRNotFound
	}
	if err != nil {
		return model.PortfolioIRR{}, fmt.Errorf("failed to query portfolio_irr: %w", err)
	}

	if v.Date, err = ParseTime(dateStr); err != nil {
		return model.PortfolioIRR{}, err
	}
	if parsed, err := ParseTime(computedAt); err == nil {
		v.ComputedAt = parsed
	}
	return v, nil
}

// GetPortfolioIRRSeries retrieves every portfolio IRR in ascending date order.
func (r *IRRRepository) GetPortfolioIRRSeries(portfolioID string) ([]model.PortfolioIRR, error) {
	query := `
		SELECT id, portfolio_id, date, rate, computed_at
		FROM portfolio_irr
		WHERE portfolio_id = ?
		ORDER BY date ASC
	`

	rows, err := r.getQuerier().Query(query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio_irr series: %w", err)
	}
	defer rows.Close()

	series := []model.PortfolioIRR{}
	for rows.Next() {
		var v model.PortfolioIRR
		var dateStr, computedAt string
		if err := rows.Scan(&v.ID, &v.PortfolioID, &dateStr, &v.Rate, &computedAt); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio_irr row: %w", err)
		}
		if v.Date, err = ParseTime(dateStr); err != nil {
			return nil, err
		}
		if parsed, err := ParseTime(computedAt); err == nil {
			v.ComputedAt = parsed
		}
		series = append(series, v)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio_irr table: %w", err)
	}

	return series, nil
}

// DeletePortfolioIRR removes the portfolio IRR for a date.
// Returns false without error when no row existed.
func (r *IRRRepository) DeletePortfolioIRR(portfolioID string, date time.Time) (bool, error) {
	result, err := r.getQuerier().Exec(
		`DELETE FROM portfolio_irr WHERE portfolio_id = ? AND date = ?`,
		portfolioID, FormatDate(date),
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete portfolio_irr: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected > 0, nil
}

// GetRecomputationDates gathers the sorted distinct dates on or after
// fromDate for which the portfolio or any of its funds currently has a fund
// valuation, a portfolio valuation, or an IRR value. This is the frontier of
// dates whose derived values depend on data up to and including fromDate.
func (r *IRRRepository) GetRecomputationDates(portfolioID string, fromDate time.Time) ([]time.Time, error) {
	query := `
		SELECT DISTINCT date FROM (
			SELECT fv.date AS date
			FROM fund_valuation fv
			JOIN portfolio_fund pf ON fv.portfolio_fund_id = pf.id
			WHERE pf.portfolio_id = ?
			UNION
			SELECT date FROM portfolio_valuation WHERE portfolio_id = ?
			UNION
			SELECT fi.date AS date
			FROM fund_irr fi
			JOIN portfolio_fund pf ON fi.portfolio_fund_id = pf.id
			WHERE pf.portfolio_id = ?
			UNION
			SELECT date FROM portfolio_irr WHERE portfolio_id = ?
		)
		WHERE date >= ?
		ORDER BY date ASC
	`

	rows, err := r.getQuerier().Query(query, portfolioID, portfolioID, portfolioID, portfolioID, FormatDate(fromDate))
	if err != nil {
		return nil, fmt.Errorf("failed to query recomputation dates: %w", err)
	}
	defer rows.Close()

	dates := []time.Time{}
	for rows.Next() {
		var dateStr string
		if err := rows.Scan(&dateStr); err != nil {
			return nil, fmt.Errorf("failed to scan date row: %w", err)
		}
		date, err := ParseTime(dateStr)
		if err != nil {
			return nil, err
		}
		dates = append(dates, date)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recomputation dates: %w", err)
	}

	return dates, nil
}
