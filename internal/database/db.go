package database

import (
	"errors"
	"fmt"

	"caterer/internal/config"
	"caterer/internal/models"

	"github.com/jinzhu/gorm"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Open connects to the configured database and migrates the schema.
// The returned handle is safe for concurrent use and is the only state
// shared between requests.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(cfg.Driver, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	switch cfg.Driver {
	case "sqlite3":
		// One connection serializes writers; each :memory: connection would
		// otherwise be a separate database.
		db.DB().SetMaxOpenConns(1)
	default:
		if cfg.MaxOpenConns > 0 {
			db.DB().SetMaxOpenConns(cfg.MaxOpenConns)
		}
	}
	db.LogMode(cfg.LogMode)

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates all tables
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Menu{},
		&models.PricingRecord{},
		&models.Invoice{},
		&models.Payment{},
	).Error; err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// IsPostgres reports whether row locks can be requested with FOR UPDATE
func IsPostgres(db *gorm.DB) bool {
	return db.Dialect().GetName() == "postgres"
}

// ForUpdate adds a row lock to the next query on databases that support it
func ForUpdate(db *gorm.DB) *gorm.DB {
	if IsPostgres(db) {
		return db.Set("gorm:query_option", "FOR UPDATE")
	}
	return db
}

// IsUniqueViolation reports whether err was caused by a unique constraint
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
