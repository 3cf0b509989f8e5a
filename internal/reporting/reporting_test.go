package reporting

import (
	"context"
	"errors"
	"testing"

	"caterer/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRevenue(t *testing.T) {
	tests := []struct {
		revenue float64
		want    string
	}{
		{0, "₹0"},
		{500, "₹0.01 L"},
		{99999, "₹1.00 L"},
		{45000, "₹0.45 L"},
		{100000, "₹1.0 L"},
		{425000, "₹4.2 L"},
		{9999999, "₹100.0 L"},
		{10000000, "₹1.00 Cr"},
		{123456789, "₹12.35 Cr"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatRevenue(tt.revenue), "revenue %v", tt.revenue)
	}
}

func TestTopCuisine(t *testing.T) {
	tests := []struct {
		name     string
		cuisines []string
		want     string
	}{
		{"no menus", nil, MultiCuisine},
		{"single", []string{"Punjabi"}, "Punjabi"},
		{"unique max", []string{"Punjabi", "Gujarati", "Punjabi"}, "Punjabi"},
		{"two way tie", []string{"Punjabi", "Gujarati"}, MultiCuisine},
		{"tie at top with a third", []string{"Chinese", "Punjabi", "Gujarati", "Gujarati", "Punjabi"}, MultiCuisine},
		{"max after tied runners up", []string{"Bengali", "Chinese", "Kerala", "Kerala"}, "Kerala"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TopCuisine(tt.cuisines))
		})
	}
}

func menu(cuisine string, guests int, budget int64) models.Menu {
	return models.Menu{Cuisine: cuisine, GuestCount: guests, BudgetPerPlate: decimal.NewFromInt(budget)}
}

func TestDashboard(t *testing.T) {
	stats := Dashboard([]models.Menu{
		menu("South Indian", 500, 800),
		menu("South Indian", 200, 650),
		menu("Mughlai", 150, 1200),
	})

	assert.Equal(t, 3, stats.TotalEvents)
	assert.Equal(t, 850, stats.TotalGuests)
	assert.Equal(t, "₹7.1 L", stats.ProjectedRevenue)
	assert.Equal(t, "South Indian", stats.TopCuisine)

	empty := Dashboard(nil)
	assert.Equal(t, Stats{ProjectedRevenue: "₹0", TopCuisine: MultiCuisine}, empty)
}

type stubLister struct {
	menus []models.Menu
	err   error
	owner string
}

func (s *stubLister) List(_ context.Context, owner string) ([]models.Menu, error) {
	s.owner = owner
	return s.menus, s.err
}

func TestServiceDashboardStats(t *testing.T) {
	lister := &stubLister{menus: []models.Menu{menu("Goan", 100, 1000000)}}
	stats, err := NewService(lister).DashboardStats(context.Background(), "owner-1")

	require.NoError(t, err)
	assert.Equal(t, "owner-1", lister.owner)
	assert.Equal(t, "₹10.00 Cr", stats.ProjectedRevenue)

	_, err = NewService(&stubLister{err: errors.New("db down")}).DashboardStats(context.Background(), "owner-1")
	assert.Error(t, err)
}
