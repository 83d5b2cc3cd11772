package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"dndbuilder_backend/internals/configs"
)

// Open connects to DATABASE_URL. postgres:// and postgresql:// URLs use the
// pgx-backed Postgres driver; anything else is treated as a SQLite DSN.
func Open(s *configs.Settings) (*gorm.DB, error) {
	dialector, err := dialectorFor(s.DatabaseURL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   configs.NewGormLogger(s.DBSlowThreshold, s.DBLogQueries),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := SetupJoinTables(db, NewRegistry()); err != nil {
		return nil, err
	}
	if err := TunePool(db, s); err != nil {
		return nil, err
	}
	log.Printf("[INFO] database connected (%s)", Dialect(s.DatabaseURL))
	return db, nil
}

// Dialect names the driver a DATABASE_URL selects.
func Dialect(dsn string) string {
	if isPostgres(dsn) {
		return "postgres"
	}
	return "sqlite"
}

func isPostgres(dsn string) bool {
	lower := strings.ToLower(dsn)
	return strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://")
}

func dialectorFor(dsn string) (gorm.Dialector, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("empty DATABASE_URL")
	}
	if isPostgres(dsn) {
		return postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), nil
	}
	if dir := sqliteDir(dsn); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
	}
	return sqlite.Open(dsn), nil
}

// sqliteDir returns the directory a file-backed SQLite DSN lives in, or ""
// for in-memory databases and bare file names.
func sqliteDir(dsn string) string {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return ""
	}
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return ""
	}
	return dir
}

func TunePool(db *gorm.DB, s *configs.Settings) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("pool tune: %w", err)
	}
	sqlDB.SetMaxOpenConns(s.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(s.DBMaxIdleConns)
	sqlDB.SetConnMaxIdleTime(s.DBConnMaxIdleTime)
	sqlDB.SetConnMaxLifetime(s.DBConnMaxLifetime)
	return nil
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
