package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Every pooled connection to :memory: would get its own empty database,
	// so pin the pool to a single connection.
	db.SetMaxOpenConns(1)

	// Test connection
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	// Configure SQLite for testing
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA timezone = 'UTC'",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	// Create schema
	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the production migrations.
func createTestSchema(db *sql.DB) error {
	schema := `
		-- Portfolio table
		CREATE TABLE IF NOT EXISTS portfolio (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			description TEXT,
			is_archived BOOLEAN DEFAULT FALSE NOT NULL
		);

		-- Fund table
		CREATE TABLE IF NOT EXISTS fund (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			isin VARCHAR(12) NOT NULL UNIQUE,
			currency VARCHAR(3) NOT NULL
		);

		-- Portfolio-Fund junction table
		CREATE TABLE IF NOT EXISTS portfolio_fund (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			portfolio_id VARCHAR(36) NOT NULL,
			fund_id VARCHAR(36) NOT NULL,
			end_date DATE,
			FOREIGN KEY(portfolio_id) REFERENCES portfolio(id) ON DELETE CASCADE,
			FOREIGN KEY(fund_id) REFERENCES fund(id) ON DELETE CASCADE,
			CONSTRAINT unique_portfolio_fund UNIQUE (portfolio_id, fund_id)
		);

		-- Fund valuation table
		CREATE TABLE IF NOT EXISTS fund_valuation (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			portfolio_fund_id VARCHAR(36) NOT NULL,
			date DATE NOT NULL,
			amount NUMERIC NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(portfolio_fund_id) REFERENCES portfolio_fund(id) ON DELETE CASCADE,
			CONSTRAINT unique_fund_valuation UNIQUE (portfolio_fund_id, date)
		);

		-- Portfolio valuation table
		CREATE TABLE IF NOT EXISTS portfolio_valuation (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			portfolio_id VARCHAR(36) NOT NULL,
			date DATE NOT NULL,
			amount NUMERIC NOT NULL,
			FOREIGN KEY(portfolio_id) REFERENCES portfolio(id) ON DELETE CASCADE,
			CONSTRAINT unique_portfolio_valuation UNIQUE (portfolio_id, date)
		);

		-- Activity table
		CREATE TABLE IF NOT EXISTS activity (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			portfolio_fund_id VARCHAR(36) NOT NULL,
			date DATE NOT NULL,
			kind VARCHAR(12) NOT NULL,
			amount NUMERIC NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(portfolio_fund_id) REFERENCES portfolio_fund(id) ON DELETE CASCADE
		);

		-- Fund IRR table
		CREATE TABLE IF NOT EXISTS fund_irr (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			portfolio_fund_id VARCHAR(36) NOT NULL,
			date DATE NOT NULL,
			rate FLOAT NOT NULL,
			computed_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(portfolio_fund_id) REFERENCES portfolio_fund(id) ON DELETE CASCADE,
			CONSTRAINT unique_fund_irr UNIQUE (portfolio_fund_id, date)
		);

		-- Portfolio IRR table
		CREATE TABLE IF NOT EXISTS portfolio_irr (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			portfolio_id VARCHAR(36) NOT NULL,
			date DATE NOT NULL,
			rate FLOAT NOT NULL,
			computed_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(portfolio_id) REFERENCES portfolio(id) ON DELETE CASCADE,
			CONSTRAINT unique_portfolio_irr UNIQUE (portfolio_id, date)
		);

		-- System setting table
		CREATE TABLE IF NOT EXISTS system_setting (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			"key" VARCHAR(32) NOT NULL UNIQUE,
			value VARCHAR(500) NOT NULL,
			updated_at DATETIME
		);

		-- Indexes for performance
		CREATE INDEX IF NOT EXISTS idx_fund_valuation_date ON fund_valuation(date);
		CREATE INDEX IF NOT EXISTS idx_activity_pf_date ON activity(portfolio_fund_id, date);
		CREATE INDEX IF NOT EXISTS idx_portfolio_irr_date ON portfolio_irr(portfolio_id, date);
	`

	_, err := db.Exec(schema)
	return err
}

// CleanDatabase truncates all tables in dependency order.
// Useful for reusing the same database across multiple tests.
func CleanDatabase(t *testing.T, db *sql.DB) {
	t.Helper()

	// Order matters: delete children before parents due to foreign keys
	tables := []string{
		"portfolio_irr",
		"fund_irr",
		"activity",
		"portfolio_valuation",
		"fund_valuation",
		"portfolio_fund",
		"fund",
		"portfolio",
		"system_setting",
	}

	for _, table := range tables {
		query := "DELETE FROM " + table
		if _, err := db.Exec(query); err != nil {
			t.Fatalf("Failed to clean table %s: %v", table, err)
		}
	}
}

// CountRows returns the number of rows in a table.
// Useful for assertions in tests.
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var count int
	query := "SELECT COUNT(*) FROM " + table
	err := db.QueryRow(query).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}

	return count
}

// AssertRowCount asserts that a table has the expected number of rows.
func AssertRowCount(t *testing.T, db *sql.DB, table string, expected int) {
	t.Helper()

	actual := CountRows(t, db, table)
	if actual != expected {
		t.Errorf("Expected %d rows in %s, got %d", expected, table, actual)
	}
}
