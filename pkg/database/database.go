// Package database opens the gorm connections used by the session store and the sandbox API.
package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options connection settings
type Options struct {
	Driver string // sqlite | postgres
	DSN    string
	// Verbose prints every SQL statement
	Verbose bool
}

// Open connects and migrates models.
// sqlite file databases get their directory created and a single connection, sqlite allows one writer.
func Open(opts Options, models ...interface{}) (*gorm.DB, error) {
	// gorm's own logger, silenced unless verbose so it never paints over the TUI
	dbLogger := logger.Default.LogMode(logger.Silent)
	if opts.Verbose {
		dbLogger = logger.Default.LogMode(logger.Info)
	}

	var dialector gorm.Dialector
	switch opts.Driver {
	case "", "sqlite":
		if opts.DSN != ":memory:" && opts.DSN != "" {
			if err := os.MkdirAll(filepath.Dir(opts.DSN), 0o700); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
		dialector = sqlite.Open(opts.DSN)
	case "postgres":
		dialector = postgres.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unknown database driver %q", opts.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: dbLogger})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	if opts.Driver == "postgres" {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	} else {
		sqlDB.SetMaxOpenConns(1)
	}

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
	}
	return db, nil
}
