package database

import (
	"errors"
	"fmt"
	"testing"

	"caterer/internal/config"
	"caterer/internal/models"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_MigratesSchema(t *testing.T) {
	db, err := Open(config.DatabaseConfig{Driver: "sqlite3", URL: ":memory:"})
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"menus", "pricing_records", "invoices", "payments"} {
		assert.True(t, db.HasTable(table), "table %s should exist", table)
	}
	assert.False(t, IsPostgres(db))
}

func TestOpen_EnforcesOneInvoicePerMenu(t *testing.T) {
	db, err := Open(config.DatabaseConfig{Driver: "sqlite3", URL: ":memory:"})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Create(&models.Invoice{OwnerID: "o1", MenuID: 7, OrderStatus: models.OrderStatusPending}).Error)
	err = db.Create(&models.Invoice{OwnerID: "o1", MenuID: 7, OrderStatus: models.OrderStatusPending}).Error

	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.True(t, IsUniqueViolation(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}
