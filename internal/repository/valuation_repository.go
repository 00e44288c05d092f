package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/kingstons-portal/irr-engine-backend/internal/apperrors"
	"github.com/kingstons-portal/irr-engine-backend/internal/model"
)

// ValuationRepository provides data access methods for the fund_valuation
// and portfolio_valuation tables.
type ValuationRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewValuationRepository creates a new ValuationRepository with the provided database connection.
func NewValuationRepository(db *sql.DB) *ValuationRepository {
	return &ValuationRepository{db: db}
}

// WithTx returns a new ValuationRepository scoped to the provided transaction.
func (r *ValuationRepository) WithTx(tx *sql.Tx) *ValuationRepository {
	return &ValuationRepository{db: r.db, tx: tx}
}

func (r *ValuationRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func scanFundValuation(row *sql.Row) (model.FundValuation, error) {
	var v model.FundValuation
	var dateStr string
	var createdAt sql.NullString

	err := row.Scan(&v.ID, &v.PortfolioFundID, &dateStr, &v.Amount, &createdAt)
	if err != nil {
		return model.FundValuation{}, err
	}

	v.Date, err = ParseTime(dateStr)
	if err != nil {
		return model.FundValuation{}, fmt.Errorf("failed to parse valuation date: %w", err)
	}
	if createdAt.Valid {
		// created_at is informational; tolerate formats the driver emits
		if parsed, err := ParseTime(createdAt.String); err == nil {
			v.CreatedAt = parsed
		}
	}

	return v, nil
}

// GetFundValuation retrieves a single fund valuation by its ID.
// Returns ErrValuationNotFound if no valuation with the given ID exists.
func (r *ValuationRepository) GetFundValuation(valuationID string) (model.FundValuation, error) {
	if valuationID == "" {
		return model.FundValuation{}, apperrors.ErrEmptyID
	}

	query := `
		SELECT id, portfolio_fund_id, date, amount, created_at
		FROM fund_valuation
		WHERE id = ?
	`

	v, err := scanFundValuation(r.getQuerier().QueryRow(query, valuationID))
	if err == sql.ErrNoRows {
		return model.FundValuation{}, apperrors.ErrValuationNotFound
	}
	if err != nil {
		return model.FundValuation{}, fmt.Errorf("failed to query fund_valuation: %w", err)
	}

	return v, nil
}

// GetFundValuationOnDate retrieves the valuation of a portfolio-fund on an exact date.
// Returns ErrValuationNotFound if the holding has no valuation for that date.
func (r *ValuationRepository) GetFundValuationOnDate(pfID string, date time.Time) (model.FundValuation, error) {
	query := `
		SELECT id, portfolio_fund_id, date, amount, created_at
		FROM fund_valuation
		WHERE portfolio_fund_id = ? AND date = ?
	`

	v, err := scanFundValuation(r.getQuerier().QueryRow(query, pfID, FormatDate(date)))
	if err == sql.ErrNoRows {
		return model.FundValuation{}, apperrors.ErrValuationNotFound
	}
	if err != nil {
		return model.FundValuation{}, fmt.Errorf("failed to query fund_valuation: %w", err)
	}

	return v, nil
}

// UpsertFundValuation inserts a fund valuation, replacing the amount if one
// already exists for the same holding and date. Returns the stored record.
func (r *ValuationRepository) UpsertFundValuation(v model.FundValuation) (model.FundValuation, error) {
	query := `
		INSERT INTO fund_valuation (id, portfolio_fund_id, date, amount)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(portfolio_fund_id, date) DO UPDATE SET amount = excluded.amount
	`

	if _, err := r.getQuerier().Exec(query, v.ID, v.PortfolioFundID, FormatDate(v.Date), v.Amount); err != nil {
		return model.FundValuation{}, fmt.Errorf("failed to upsert fund_valuation: %w", err)
	}

	// The conflict path keeps the original row ID; read back the stored record.
	return r.GetFundValuationOnDate(v.PortfolioFundID, v.Date)
}

// DeleteFundValuation removes a fund valuation by ID.
// Returns false without error when no row existed.
func (r *ValuationRepository) DeleteFundValuation(valuationID string) (bool, error) {
	result, err := r.getQuerier().Exec(`DELETE FROM fund_valuation WHERE id = ?`, valuationID)
	if err != nil {
		return false, fmt.Errorf("failed to delete fund_valuation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected > 0, nil
}

// GetValuedFundIDs returns the set of portfolio-fund IDs belonging to the
// portfolio that have a valuation recorded for exactly the given date.
func (r *ValuationRepository) GetValuedFundIDs(portfolioID string, date time.Time) (map[string]bool, error) {
	query := `
		SELECT pf.id
		FROM portfolio_fund pf
		JOIN fund_valuation fv ON fv.portfolio_fund_id = pf.id
		WHERE pf.portfolio_id = ? AND fv.date = ?
	`

	rows, err := r.getQuerier().Query(query, portfolioID, FormatDate(date))
	if err != nil {
		return nil, fmt.Errorf("failed to query valued funds: %w", err)
	}
	defer rows.Close()

	valued := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan valued fund row: %w", err)
		}
		valued[id] = true
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating valued funds: %w", err)
	}

	return valued, nil
}

// GetActiveFundValuations retrieves the valuations on the given date for
// every holding of the portfolio that is active on that date.
func (r *ValuationRepository) GetActiveFundValuations(portfolioID string, date time.Time) ([]model.FundValuation, error) {
	query := `
		SELECT fv.id, fv.portfolio_fund_id, fv.date, fv.amount, fv.created_at
		FROM fund_valuation fv
		JOIN portfolio_fund pf ON fv.portfolio_fund_id = pf.id
		WHERE pf.portfolio_id = ?
		AND fv.date = ?
		AND (pf.end_date IS NULL OR pf.end_date > ?)
		ORDER BY pf.id
	`

	dateStr := FormatDate(date)
	rows, err := r.getQuerier().Query(query, portfolioID, dateStr, dateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to query active fund valuations: %w", err)
	}
	defer rows.Close()

	valuations := []model.FundValuation{}
	for rows.Next() {
		var v model.FundValuation
		var dStr string
		var createdAt sql.NullString
		if err := rows.Scan(&v.ID, &v.PortfolioFundID, &dStr, &v.Amount, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan fund_valuation row: %w", err)
		}
		v.Date, err = ParseTime(dStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse valuation date: %w", err)
		}
		valuations = append(valuations, v)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund_valuation table: %w", err)
	}

	return valuations, nil
}

// GetLatestValuationDate returns the most recent date with any fund valuation
// for the portfolio. The boolean is false when the portfolio has no valuations.
func (r *ValuationRepository) GetLatestValuationDate(portfolioID string) (time.Time, bool, error) {
	query := `
		SELECT MAX(fv.date)
		FROM fund_valuation fv
		JOIN portfolio_fund pf ON fv.portfolio_fund_id = pf.id
		WHERE pf.portfolio_id = ?
	`

	var dateStr sql.NullString
	if err := r.getQuerier().QueryRow(query, portfolioID).Scan(&dateStr); err != nil {
		return time.Time{}, false, fmt.Errorf("failed to query latest valuation date: %w", err)
	}
	if !dateStr.Valid {
		return time.Time{}, false, nil
	}

	date, err := ParseTime(dateStr.String)
	if err != nil {
		return time.Time{}, false, err
	}
	return date, true, nil
}

// GetEarliestValuationDate returns the oldest date with any fund valuation
// for the portfolio. The boolean is false when the portfolio has no valuations.
func (r *ValuationRepository) GetEarliestValuationDate(portfolioID string) (time.Time, bool, error) {
	query := `
		SELECT MIN(fv.date)
		FROM fund_valuation fv
		JOIN portfolio_fund pf ON fv.portfolio_fund_id = pf.id
		WHERE pf.portfolio_id = ?
	`

	var dateStr sql.NullString
	if err := r.getQuerier().QueryRow(query, portfolioID).Scan(&dateStr); err != nil {
		return time.Time{}, false, fmt.Errorf("failed to query earliest valuation date: %w", err)
	}
	if !dateStr.Valid {
		return time.Time{}, false, nil
	}

	date, err := ParseTime(dateStr.String)
	if err != nil {
		return time.Time{}, false, err
	}
	return date, true, nil
}

// UpsertPortfolioValuation writes the derived portfolio valuation for a date,
// replacing the amount if one already exists.
func (r *ValuationRepository) UpsertPortfolioValuation(v model.PortfolioValuation) error {
	query := `
		INSERT INTO portfolio_valuation (id, portfolio_id, date, amount)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(portfolio_id, date) DO UPDATE SET amount = excluded.amount
	`

	if _, err := r.getQuerier().Exec(query, v.ID, v.PortfolioID, FormatDate(v.Date), v.Amount); err != nil {
		return fmt.Errorf("failed to upsert portfolio_valuation: %w", err)
	}
	return nil
}

// GetPortfolioValuation retrieves the portfolio valuation for an exact date.
// Returns ErrPortfolioValuationNotFound when none exists.
func (r *ValuationRepository) GetPortfolioValuation(portfolioID string, date time.Time) (model.PortfolioValuation, error) {
	query := `
		SELECT id, portfolio_id, date, amount
		FROM portfolio_valuation
		WHERE portfolio_id = ? AND date = ?
	`

	var v model.PortfolioValuation
	var dateStr string
	err := r.getQuerier().QueryRow(query, portfolioID, FormatDate(date)).Scan(
		&v.ID, &v.PortfolioID, &dateStr, &v.Amount,
	)
	if err == sql.ErrNoRows {
		return model.PortfolioValuation{}, apperrors.ErrPortfolioValuationNotFound
	}
	if err != nil {
		return model.PortfolioValuation{}, fmt.Errorf("failed to query portfolio_valuation: %w", err)
	}

	v.Date, err = ParseTime(dateStr)
	if err != nil {
		return model.PortfolioValuation{}, err
	}
	return v, nil
}

// DeletePortfolioValuation removes the portfolio valuation for a date.
// Returns false without error when no row existed.
func (r *ValuationRepository) DeletePortfolioValuation(portfolioID string, date time.Time) (bool, error) {
	result, err := r.getQuerier().Exec(
		`DELETE FROM portfolio_valuation WHERE portfolio_id = ? AND date = ?`,
		portfolioID, FormatDate(date),
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete portfolio_valuation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected > 0, nil
}
