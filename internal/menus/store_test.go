package menus

import (
	"context"
	"testing"

	"caterer/internal/config"
	"caterer/internal/database"
	"caterer/internal/models"

	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite3", URL: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db, zap.NewNop()), db
}

func weddingMenu() *models.Menu {
	m := &models.Menu{
		EventType:      "Wedding",
		Cuisine:        "South Indian",
		GuestCount:     500,
		BudgetPerPlate: decimal.NewFromInt(800),
	}
	m.SetCourses(models.Courses{
		models.CategoryStarters:  {"Medu Vada", "Paneer 65"},
		models.CategoryDesserts:  {"Payasam"},
		models.CategoryBeverages: {"Filter Coffee"},
	})
	return m
}

func TestStore_SaveAndGet(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, "owner-1", weddingMenu())
	require.NoError(t, err)
	require.NotZero(t, saved.ID)

	got, err := store.Get(ctx, "owner-1", saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Wedding", got.EventType)
	assert.True(t, decimal.NewFromInt(800).Equal(got.BudgetPerPlate))

	courses := got.Courses()
	assert.Equal(t, []string{"Medu Vada", "Paneer 65"}, courses[models.CategoryStarters])
	assert.Equal(t, []string{}, courses[models.CategoryRice])
	assert.Len(t, courses, len(models.MenuCategories))
}

func TestStore_GetIsOwnerScoped(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, "owner-1", weddingMenu())
	require.NoError(t, err)

	_, err = store.Get(ctx, "owner-2", saved.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	list, err := store.List(ctx, "owner-2")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_ReplaceCategoryKeepsSiblings(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, "owner-1", weddingMenu())
	require.NoError(t, err)

	fresh := []string{"Gulab Jamun - ₹40", "Rasmalai - ₹55", "Kulfi - ₹35", "Jalebi - ₹30", "Mysore Pak - ₹45"}
	require.NoError(t, store.ReplaceCategory(ctx, "owner-1", saved.ID, models.CategoryDesserts, fresh))

	got, err := store.Get(ctx, "owner-1", saved.ID)
	require.NoError(t, err)
	courses := got.Courses()
	assert.Equal(t, fresh, courses[models.CategoryDesserts])
	assert.Equal(t, []string{"Medu Vada", "Paneer 65"}, courses[models.CategoryStarters])
	assert.Equal(t, []string{"Filter Coffee"}, courses[models.CategoryBeverages])
}

func TestStore_ReplaceCategoryErrors(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, "owner-1", weddingMenu())
	require.NoError(t, err)

	err = store.ReplaceCategory(ctx, "owner-1", saved.ID, models.MenuCategory("soups"), []string{"x"})
	assert.ErrorIs(t, err, models.ErrInvalidCategory)

	err = store.ReplaceCategory(ctx, "owner-2", saved.ID, models.CategoryRice, []string{"x"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStore_DeleteLeavesInvoices(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, "owner-1", weddingMenu())
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Invoice{OwnerID: "owner-1", MenuID: saved.ID, OrderStatus: models.OrderStatusPending}).Error)

	require.NoError(t, store.Delete(ctx, "owner-1", saved.ID))
	assert.ErrorIs(t, store.Delete(ctx, "owner-1", saved.ID), models.ErrNotFound)

	_, err = store.Get(ctx, "owner-1", saved.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	var count int
	require.NoError(t, db.Model(&models.Invoice{}).Where("menu_id = ?", saved.ID).Count(&count).Error)
	assert.Equal(t, 1, count)
}
