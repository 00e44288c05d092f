package service_test

import (
	"testing"

	"github.com/kingstons-portal/irr-engine-backend/internal/testutil"
)

// TestSystemService_InternalAPIKey tests storage and retrieval of the
// internal API key.
//
// WHY: The key gates every mutating endpoint and is stored encrypted; a
// broken round-trip would lock the CRUD layer out of the engine entirely.
func TestSystemService_InternalAPIKey(t *testing.T) {
	t.Run("stores and retrieves the key", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSystemService(t, db)

		if err := svc.SetInternalAPIKey("trigger-key-1"); err != nil {
			t.Fatalf("SetInternalAPIKey() returned unexpected error: %v", err)
		}

		key, err := svc.InternalAPIKey()
		if err != nil {
			t.Fatalf("InternalAPIKey() returned unexpected error: %v", err)
		}
		if key != "trigger-key-1" {
			t.Errorf("Expected 'trigger-key-1', got %q", key)
		}
	})

	t.Run("stores the key encrypted at rest", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSystemService(t, db)

		if err := svc.SetInternalAPIKey("trigger-key-1"); err != nil {
			t.Fatalf("SetInternalAPIKey() returned unexpected error: %v", err)
		}

		var stored string
		if err := db.QueryRow(`SELECT value FROM system_setting WHERE "key" = 'internal_api_key'`).Scan(&stored); err != nil {
			t.Fatalf("Failed to read stored setting: %v", err)
		}
		if stored == "trigger-key-1" {
			t.Error("Expected stored value to be encrypted, found plaintext")
		}
	})

	t.Run("rotating the key overwrites the stored value", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSystemService(t, db)

		if err := svc.SetInternalAPIKey("old-key"); err != nil {
			t.Fatalf("First SetInternalAPIKey() failed: %v", err)
		}
		if err := svc.SetInternalAPIKey("new-key"); err != nil {
			t.Fatalf("Second SetInternalAPIKey() failed: %v", err)
		}

		key, err := svc.InternalAPIKey()
		if err != nil {
			t.Fatalf("InternalAPIKey() returned unexpected error: %v", err)
		}
		if key != "new-key" {
			t.Errorf("Expected 'new-key', got %q", key)
		}
		testutil.AssertRowCount(t, db, "system_setting", 1)
	})

	t.Run("resolution falls back to the environment key", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSystemService(t, db)

		key, err := svc.ResolveInternalAPIKey("env-fallback")
		if err != nil {
			t.Fatalf("ResolveInternalAPIKey() returned unexpected error: %v", err)
		}
		if key != "env-fallback" {
			t.Errorf("Expected fallback key, got %q", key)
		}
	})

	t.Run("stored key wins over the fallback", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSystemService(t, db)

		if err := svc.SetInternalAPIKey("stored-key"); err != nil {
			t.Fatalf("SetInternalAPIKey() returned unexpected error: %v", err)
		}

		key, err := svc.ResolveInternalAPIKey("env-fallback")
		if err != nil {
			t.Fatalf("ResolveInternalAPIKey() returned unexpected error: %v", err)
		}
		if key != "stored-key" {
			t.Errorf("Expected stored key, got %q", key)
		}
	})
}
