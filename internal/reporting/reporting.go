// Package reporting derives dashboard figures from an owner's menus.
package reporting

import (
	"context"
	"fmt"

	"caterer/internal/models"

	"github.com/shopspring/decimal"
)

// MultiCuisine is reported when there are no menus or the top cuisines tie
const MultiCuisine = "Multi-Cuisine"

const (
	lakh  = 100000
	crore = 10000000
)

// Stats are the dashboard figures for one owner
type Stats struct {
	TotalEvents      int    `json:"total_events"`
	TotalGuests      int    `json:"total_guests"`
	ProjectedRevenue string `json:"projected_revenue"`
	TopCuisine       string `json:"top_cuisine"`
}

// MenuLister is the read side of the menu store
type MenuLister interface {
	List(ctx context.Context, owner string) ([]models.Menu, error)
}

// Service computes dashboard stats from stored menus
type Service struct {
	menus MenuLister
}

// NewService creates a reporting service
func NewService(menus MenuLister) *Service {
	return &Service{menus: menus}
}

// DashboardStats loads the owner's menus and summarizes them
func (s *Service) DashboardStats(ctx context.Context, owner string) (*Stats, error) {
	menus, err := s.menus.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load menus for dashboard: %w", err)
	}
	stats := Dashboard(menus)
	return &stats, nil
}

// Dashboard summarizes a set of menus
func Dashboard(menus []models.Menu) Stats {
	var guests int
	revenue := decimal.Zero
	cuisines := make([]string, len(menus))
	for i := range menus {
		guests += menus[i].GuestCount
		revenue = revenue.Add(menus[i].ProjectedRevenue())
		cuisines[i] = menus[i].Cuisine
	}
	return Stats{
		TotalEvents:      len(menus),
		TotalGuests:      guests,
		ProjectedRevenue: FormatRevenue(revenue.InexactFloat64()),
		TopCuisine:       TopCuisine(cuisines),
	}
}

// FormatRevenue renders an amount in lakh or crore. Below one lakh two
// decimals are shown, from one lakh up to one crore only one.
func FormatRevenue(r float64) string {
	switch {
	case r == 0:
		return "₹0"
	case r < lakh:
		return fmt.Sprintf("₹%.2f L", r/lakh)
	case r < crore:
		return fmt.Sprintf("₹%.1f L", r/lakh)
	default:
		return fmt.Sprintf("₹%.2f Cr", r/crore)
	}
}

// TopCuisine returns the most frequent cuisine, or MultiCuisine when there
// is none or the two highest counts are equal.
func TopCuisine(cuisines []string) string {
	counts := make(map[string]int, len(cuisines))
	for _, c := range cuisines {
		counts[c]++
	}

	var top string
	best, runnerUp := 0, 0
	for c, n := range counts {
		switch {
		case n > best:
			top, runnerUp, best = c, best, n
		case n > runnerUp:
			runnerUp = n
		}
	}
	if best == 0 || best == runnerUp {
		return MultiCuisine
	}
	return top
}
