// Package testutils builds isolated databases, apps and fixtures for tests.
package testutils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"dndbuilder_backend/internals/configs"
	database "dndbuilder_backend/internals/databases"
)

// TestSettings returns settings for an in-memory SQLite database private to
// one test. A single connection keeps the shared-cache database alive and
// serialises access to it.
func TestSettings() *configs.Settings {
	return &configs.Settings{
		AppName:                  "D&D Character Builder API",
		AppVersion:               "1.0.0",
		AppEnv:                   "test",
		APIV1Str:                 "/api/v1",
		DatabaseURL:              "file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)",
		DBMaxOpenConns:           1,
		DBMaxIdleConns:           1,
		DBSlowThreshold:          time.Second,
		SecretKey:                "test-secret",
		Algorithm:                "HS256",
		AccessTokenExpireMinutes: 30,
		CORSOrigins:              []string{"http://localhost:5173"},
		CacheTTL:                 time.Minute,
		RequestTimeout:           5 * time.Second,
		LogDir:                   "",
	}
}

// NewTestDB opens and migrates a fresh database closed at test cleanup.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return NewTestDBWith(t, TestSettings())
}

func NewTestDBWith(t *testing.T, s *configs.Settings) *gorm.DB {
	t.Helper()
	db, err := database.Open(s)
	require.NoError(t, err, "open test database")
	require.NoError(t, database.Migrate(db, database.NewRegistry()), "migrate test database")
	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}
