package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kingstons-portal/irr-engine-backend/internal/apperrors"
	"github.com/kingstons-portal/irr-engine-backend/internal/database"
	"github.com/kingstons-portal/irr-engine-backend/internal/model"
	"github.com/kingstons-portal/irr-engine-backend/internal/secrets"
)

// AppVersion is the application version reported by the version endpoint.
const AppVersion = "1.0.0"

const settingInternalAPIKey = "internal_api_key"

// SystemService handles system-level operations: health, version information
// and the internal API key, which is stored fernet-encrypted at rest in the
// system_setting table.
type SystemService struct {
	db    *sql.DB
	codec *secrets.Codec
}

// NewSystemService creates a new SystemService.
func NewSystemService(db *sql.DB, codec *secrets.Codec) *SystemService {
	return &SystemService{db: db, codec: codec}
}

// CheckHealth verifies database connectivity.
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// VersionInfo returns the application and schema versions.
func (s *SystemService) VersionInfo() (model.VersionInfo, error) {
	dbVersion, err := database.Version(s.db)
	if err != nil {
		return model.VersionInfo{}, err
	}
	return model.VersionInfo{AppVersion: AppVersion, DBVersion: dbVersion}, nil
}

// SetInternalAPIKey encrypts and stores the key the CRUD layer must present
// on mutating requests.
func (s *SystemService) SetInternalAPIKey(key string) error {
	token, err := s.codec.Encrypt(key)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO system_setting (id, "key", value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT("key") DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.Exec(query, uuid.NewString(), settingInternalAPIKey, token); err != nil {
		return fmt.Errorf("failed to store internal API key: %w", err)
	}
	return nil
}

// InternalAPIKey returns the stored internal API key in the clear.
// Returns ErrSettingNotFound when no key has been stored.
func (s *SystemService) InternalAPIKey() (string, error) {
	var token string
	err := s.db.QueryRow(`SELECT value FROM system_setting WHERE "key" = ?`, settingInternalAPIKey).Scan(&token)
	if err == sql.ErrNoRows {
		return "", apperrors.ErrSettingNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read internal API key: %w", err)
	}

	return s.codec.Decrypt(token)
}

// ResolveInternalAPIKey returns the stored key, falling back to the given
// environment-provided key when no key is stored or no fernet key is
// configured. An empty result means the API-key gate cannot operate.
func (s *SystemService) ResolveInternalAPIKey(fallback string) (string, error) {
	key, err := s.InternalAPIKey()
	if err == nil {
		return key, nil
	}
	if errors.Is(err, apperrors.ErrSettingNotFound) || errors.Is(err, secrets.ErrNoKey) {
		return fallback, nil
	}
	return "", err
}
