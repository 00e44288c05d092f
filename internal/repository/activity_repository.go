package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/kingstons-portal/irr-engine-backend/internal/model"
)

// ActivityRepository provides data access methods for the activity table.
type ActivityRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewActivityRepository creates a new ActivityRepository with the provided database connection.
func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// WithTx returns a new ActivityRepository scoped to the provided transaction.
func (r *ActivityRepository) WithTx(tx *sql.Tx) *ActivityRepository {
	return &ActivityRepository{db: r.db, tx: tx}
}

func (r *ActivityRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *ActivityRepository) scanActivities(rows *sql.Rows) ([]model.Activity, error) {
	defer rows.Close()

	activities := []model.Activity{}
	for rows.Next() {
		var a model.Activity
		var dateStr string
		var createdAt sql.NullString

		if err := rows.Scan(&a.ID, &a.PortfolioFundID, &dateStr, &a.Kind, &a.Amount, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}

		date, err := ParseTime(dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse activity date: %w", err)
		}
		a.Date = date

		if createdAt.Valid {
			if parsed, err := ParseTime(createdAt.String); err == nil {
				a.CreatedAt = parsed
			}
		}

		activities = append(activities, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity table: %w", err)
	}

	return activities, nil
}

// GetActivitiesUpTo retrieves the activities of one holding dated on or
// before the given date, in ascending date order.
func (r *ActivityRepository) GetActivitiesUpTo(pfID string, date time.Time) ([]model.Activity, error) {
	query := `
		SELECT id, portfolio_fund_id, date, kind, amount, created_at
		FROM activity
		WHERE portfolio_fund_id = ? AND date <= ?
		ORDER BY date ASC, created_at ASC
	`

	rows, err := r.getQuerier().Query(query, pfID, FormatDate(date))
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}

	return r.scanActivities(rows)
}

// GetPortfolioActivitiesUpTo retrieves the union of activities across the
// portfolio's holdings that are active on the given date, dated on or before
// that date, in ascending date order.
func (r *ActivityRepository) GetPortfolioActivitiesUpTo(portfolioID string, date time.Time) ([]model.Activity, error) {
	query := `
		SELECT a.id, a.portfolio_fund_id, a.date, a.kind, a.amount, a.created_at
		FROM activity a
		JOIN portfolio_fund pf ON a.portfolio_fund_id = pf.id
		WHERE pf.portfolio_id = ?
		AND a.date <= ?
		AND (pf.end_date IS NULL OR pf.end_date > ?)
		ORDER BY a.date ASC, a.created_at ASC
	`

	dateStr := FormatDate(date)
	rows, err := r.getQuerier().Query(query, portfolioID, dateStr, dateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio activities: %w", err)
	}

	return r.scanActivities(rows)
}

// InsertActivities writes a batch of activity records.
func (r *ActivityRepository) InsertActivities(activities []model.Activity) error {
	query := `
		INSERT INTO activity (id, portfolio_fund_id, date, kind, amount)
		VALUES (?, ?, ?, ?, ?)
	`

	for _, a := range activities {
		if _, err := r.getQuerier().Exec(query, a.ID, a.PortfolioFundID, FormatDate(a.Date), a.Kind, a.Amount); err != nil {
			return fmt.Errorf("failed to insert activity: %w", err)
		}
	}
	return nil
}

// DeleteActivitiesOnDates removes every activity of the portfolio's holdings
// dated on any of the given dates. Used when a batch replaces those dates.
func (r *ActivityRepository) DeleteActivitiesOnDates(portfolioID string, dates []time.Time) error {
	if len(dates) == 0 {
		return nil
	}

	placeholders := make([]string, len(dates))
	args := make([]any, 0, len(dates)+1)
	args = append(args, portfolioID)
	for i, d := range dates {
		placeholders[i] = "?"
		args = append(args, FormatDate(d))
	}

	query := `
		DELETE FROM activity
		WHERE portfolio_fund_id IN (
			SELECT id FROM portfolio_fund WHERE portfolio_id = ?
		)
		AND date IN (` + strings.Join(placeholders, ",") + `)
	`

	if _, err := r.getQuerier().Exec(query, args...); err != nil {
		return fmt.Errorf("failed to delete activities: %w", err)
	}
	return nil
}
