// Package database opens the SQLite database shared by the auth and task modules.
package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Memory is the DSN of a private in-memory database.
const Memory = ":memory:"

// Options configures Open.
type Options struct {
	Path  string
	Debug bool
}

// Open connects to the SQLite database at opts.Path.
// Both modules write to the same file through separate pools, so file
// databases wait on locks and take the write lock when a transaction begins.
func Open(opts Options) (*gorm.DB, error) {
	dsn := opts.Path
	if dsn != Memory {
		dsn += "?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate"
	}

	logMode := logger.Silent
	if opts.Debug {
		logMode = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logMode),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if opts.Path == Memory {
		// Every connection to :memory: is its own database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database connection: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the database answers.
func Ping(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.Ping()
}
