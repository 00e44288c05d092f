package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Repositories run against a transaction when one is set via WithTx,
// otherwise against the connection pool.
type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ParseTime parses a date string in "2006-01-02" or RFC3339 format.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse("2006-01-02", str)
	if err != nil {
		returnTime, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}
	return returnTime.UTC(), nil
}

// FormatDate renders a time as the date-only form used in the database.
// All comparisons in this schema are date-only; ISO dates compare correctly
// as strings.
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
