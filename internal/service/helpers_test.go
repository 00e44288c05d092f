package service_test

import (
	"database/sql"
	"testing"

	"github.com/kingstons-portal/irr-engine-backend/internal/service"
	"github.com/kingstons-portal/irr-engine-backend/internal/testutil"
)

// dbdeps bundles the database and orchestrator most cascade tests need.
type dbdeps struct {
	db           *sql.DB
	orchestrator *service.CascadeOrchestrator
}

func setupDeps(t *testing.T) dbdeps {
	t.Helper()

	db := testutil.SetupTestDB(t)
	return dbdeps{
		db:           db,
		orchestrator: testutil.NewTestOrchestrator(t, db),
	}
}
