package testutil

import (
	"database/sql"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/kingstons-portal/irr-engine-backend/internal/repository"
	"github.com/kingstons-portal/irr-engine-backend/internal/secrets"
	"github.com/kingstons-portal/irr-engine-backend/internal/service"
)

func NewTestCompletenessChecker(t *testing.T, db *sql.DB) *service.CompletenessChecker {
	t.Helper()

	portfolioRepo := repository.NewPortfolioRepository(db)
	valuationRepo := repository.NewValuationRepository(db)

	return service.NewCompletenessChecker(
		portfolioRepo,
		valuationRepo,
	)
}

func NewTestOrchestrator(t *testing.T, db *sql.DB) *service.CascadeOrchestrator {
	t.Helper()

	portfolioRepo := repository.NewPortfolioRepository(db)
	valuationRepo := repository.NewValuationRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	irrRepo := repository.NewIRRRepository(db)

	return service.NewCascadeOrchestrator(
		db,
		portfolioRepo,
		valuationRepo,
		activityRepo,
		irrRepo,
	)
}

func NewTestPropagator(t *testing.T, db *sql.DB) *service.HistoricalPropagator {
	t.Helper()

	portfolioRepo := repository.NewPortfolioRepository(db)
	valuationRepo := repository.NewValuationRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	irrRepo := repository.NewIRRRepository(db)

	return service.NewHistoricalPropagator(
		portfolioRepo,
		valuationRepo,
		activityRepo,
		irrRepo,
	)
}

func NewTestValuationService(t *testing.T, db *sql.DB) *service.ValuationService {
	t.Helper()

	portfolioRepo := repository.NewPortfolioRepository(db)
	valuationRepo := repository.NewValuationRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	irrRepo := repository.NewIRRRepository(db)
	orchestrator := service.NewCascadeOrchestrator(db, portfolioRepo, valuationRepo, activityRepo, irrRepo)

	return service.NewValuationService(
		portfolioRepo,
		valuationRepo,
		activityRepo,
		irrRepo,
		orchestrator,
	)
}

func NewTestSweepService(t *testing.T, db *sql.DB) *service.SweepService {
	t.Helper()

	portfolioRepo := repository.NewPortfolioRepository(db)
	valuationRepo := repository.NewValuationRepository(db)

	return service.NewSweepService(
		NewTestOrchestrator(t, db),
		portfolioRepo,
		valuationRepo,
		2,
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	key, err := secrets.GenerateKey()
	if err != nil {
		t.Fatalf("Failed to generate fernet key: %v", err)
	}
	codec, err := secrets.NewCodec(key)
	if err != nil {
		t.Fatalf("Failed to create codec: %v", err)
	}

	return service.NewSystemService(db, codec)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeISIN generates a realistic ISIN code for testing.
//
// Example usage:
//
//	isin := testutil.MakeISIN("GB")
//	// Returns: "GB1A2B3C4D5E"
func MakeISIN(prefix string) string {
	if prefix == "" {
		prefix = "GB"
	}
	return prefix + randomAlphanumeric(10)
}

// MakePortfolioName generates a unique portfolio name for testing.
func MakePortfolioName(base string) string {
	if base == "" {
		base = "Portfolio"
	}
	return base + " " + randomAlphanumeric(6)
}

// MakeFundName generates a unique fund name for testing.
func MakeFundName(base string) string {
	if base == "" {
		base = "Fund"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
