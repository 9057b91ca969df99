package database

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"rentals/internal/config"
	"rentals/internal/logger"
)

// Open connects to the database described by cfg.
func Open(cfg config.DatabaseConfig, log *logrus.Logger) (*gorm.DB, error) {
	switch cfg.Driver {
	case "postgres":
		return open(postgres.Open(cfg.Postgres()), log, 0)
	case "sqlite":
		return OpenSQLite(cfg.DSN, log)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// OpenSQLite opens a SQLite database with foreign keys enforced. SQLite only
// allows one writer, and the migration runner toggles a per-connection pragma,
// so the pool is pinned to a single connection.
func OpenSQLite(path string, log *logrus.Logger) (*gorm.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "_foreign_keys") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_foreign_keys=1"
	}
	return open(sqlite.Open(dsn), log, 1)
}

// OpenMemory opens a fresh, private in-memory SQLite database.
func OpenMemory(log *logrus.Logger) (*gorm.DB, error) {
	return OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()), log)
}

func open(dialector gorm.Dialector, log *logrus.Logger, maxConns int) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Gorm(log),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if maxConns > 0 {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(maxConns)
	}
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
