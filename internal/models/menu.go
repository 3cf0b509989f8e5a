package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MenuCategory represents one of the fixed sections of a catering menu
type MenuCategory string

const (
	CategoryStarters   MenuCategory = "starters"
	CategoryMainCourse MenuCategory = "main_course"
	CategoryBreads     MenuCategory = "breads"
	CategoryRice       MenuCategory = "rice"
	CategoryDesserts   MenuCategory = "desserts"
	CategoryBeverages  MenuCategory = "beverages"
)

// MenuCategories lists every category in display order. The set is closed.
var MenuCategories = []MenuCategory{
	CategoryStarters,
	CategoryMainCourse,
	CategoryBreads,
	CategoryRice,
	CategoryDesserts,
	CategoryBeverages,
}

// IsValid checks if the category is one of the fixed menu categories
func (c MenuCategory) IsValid() bool {
	for _, known := range MenuCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseMenuCategory converts a raw category name into a MenuCategory
func ParseMenuCategory(name string) (MenuCategory, error) {
	c := MenuCategory(name)
	if !c.IsValid() {
		return "", NewDomainError(ErrInvalidCategory.Code, fmt.Sprintf("unknown menu category: %q", name))
	}
	return c, nil
}

// StringSlice represents a slice of strings that can be stored in the database
type StringSlice []string

// Value converts the slice to a JSON string for storage
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan converts the database value back to a slice
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("unsupported type for StringSlice")
	}
}

// Courses maps each menu category to its ordered list of items
type Courses map[MenuCategory][]string

// NewCourses returns a Courses value with every category present and empty
func NewCourses() Courses {
	c := make(Courses, len(MenuCategories))
	for _, category := range MenuCategories {
		c[category] = []string{}
	}
	return c
}

// WithCategory returns a copy of the courses where only the given category is replaced.
func (c Courses) WithCategory(category MenuCategory, items []string) Courses {
	out := make(Courses, len(c))
	for k, v := range c {
		out[k] = v
	}
	out[category] = append([]string(nil), items...)
	return out
}

// Menu represents a generated catering menu owned by a single account
type Menu struct {
	ID                  uint            `gorm:"primary_key" json:"id"`
	OwnerID             string          `gorm:"type:varchar(64);not null;index" json:"owner_id"`
	EventType           string          `json:"event_type"`
	Cuisine             string          `json:"cuisine"`
	GuestCount          int             `json:"guest_count"`
	BudgetPerPlate      decimal.Decimal `gorm:"type:decimal(18,2)" json:"budget_per_plate"`
	DietaryPreference   string          `json:"dietary_preference"`
	SpecialRequirements string          `gorm:"type:text" json:"special_requirements"`
	Starters            StringSlice     `gorm:"type:text" json:"starters"`
	MainCourse          StringSlice     `gorm:"type:text" json:"main_course"`
	Breads              StringSlice     `gorm:"type:text" json:"breads"`
	Rice                StringSlice     `gorm:"type:text" json:"rice"`
	Desserts            StringSlice     `gorm:"type:text" json:"desserts"`
	Beverages           StringSlice     `gorm:"type:text" json:"beverages"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// TableName sets the table name for Menu
func (Menu) TableName() string {
	return "menus"
}

// Courses returns the menu items grouped by category
func (m *Menu) Courses() Courses {
	return Courses{
		CategoryStarters:   nonNil(m.Starters),
		CategoryMainCourse: nonNil(m.MainCourse),
		CategoryBreads:     nonNil(m.Breads),
		CategoryRice:       nonNil(m.Rice),
		CategoryDesserts:   nonNil(m.Desserts),
		CategoryBeverages:  nonNil(m.Beverages),
	}
}

// SetCourses copies every category of c onto the menu columns
func (m *Menu) SetCourses(c Courses) {
	m.Starters = StringSlice(nonNil(c[CategoryStarters]))
	m.MainCourse = StringSlice(nonNil(c[CategoryMainCourse]))
	m.Breads = StringSlice(nonNil(c[CategoryBreads]))
	m.Rice = StringSlice(nonNil(c[CategoryRice]))
	m.Desserts = StringSlice(nonNil(c[CategoryDesserts]))
	m.Beverages = StringSlice(nonNil(c[CategoryBeverages]))
}

// ProjectedRevenue is the budget per plate multiplied by the guest count
func (m *Menu) ProjectedRevenue() decimal.Decimal {
	return m.BudgetPerPlate.Mul(decimal.NewFromInt(int64(m.GuestCount)))
}

// ColumnName returns the menus column holding the category
func (c MenuCategory) ColumnName() string {
	return string(c)
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

// MenuRequest describes the event a menu should be generated for
type MenuRequest struct {
	EventType           string          `json:"event_type" binding:"required"`
	Cuisine             string          `json:"cuisine" binding:"required"`
	GuestCount          int             `json:"guest_count" binding:"required,gt=0"`
	BudgetPerPlate      decimal.Decimal `json:"budget_per_plate"`
	DietaryPreference   string          `json:"dietary_preference"`
	SpecialRequirements string          `json:"special_requirements"`
}
