package menus

import (
	"context"
	"fmt"

	"caterer/internal/models"

	"github.com/jinzhu/gorm"
	"go.uber.org/zap"
)

// Store keeps generated menus. Every query is scoped to the owning account.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStore creates a menu store on top of the shared database handle
func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger.Named("menus")}
}

// Save persists a new menu for the owner and returns it with its id
func (s *Store) Save(ctx context.Context, owner string, menu *models.Menu) (*models.Menu, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	menu.ID = 0
	menu.OwnerID = owner
	menu.SetCourses(menu.Courses())

	if err := s.db.Create(menu).Error; err != nil {
		return nil, fmt.Errorf("failed to save menu: %w", err)
	}
	s.logger.Info("menu saved", zap.Uint("menu_id", menu.ID), zap.String("owner_id", owner))
	return menu, nil
}

// Get returns a single menu or models.ErrNotFound
func (s *Store) Get(ctx context.Context, owner string, id uint) (*models.Menu, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var menu models.Menu
	err := s.db.Where("id = ? AND owner_id = ?", id, owner).First(&menu).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load menu %d: %w", id, err)
	}
	return &menu, nil
}

// List returns all menus of the owner, newest first
func (s *Store) List(ctx context.Context, owner string) ([]models.Menu, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var menus []models.Menu
	if err := s.db.Where("owner_id = ?", owner).Order("id desc").Find(&menus).Error; err != nil {
		return nil, fmt.Errorf("failed to list menus: %w", err)
	}
	return menus, nil
}

// Delete removes the menu. Invoices referencing it are left in place.
func (s *Store) Delete(ctx context.Context, owner string, id uint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res := s.db.Where("id = ? AND owner_id = ?", id, owner).Delete(&models.Menu{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete menu %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	s.logger.Info("menu deleted", zap.Uint("menu_id", id), zap.String("owner_id", owner))
	return nil
}

// ReplaceCategory overwrites the items of one category and nothing else.
// Only the category's own column is written, so siblings survive concurrent edits.
func (s *Store) ReplaceCategory(ctx context.Context, owner string, id uint, category models.MenuCategory, items []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !category.IsValid() {
		return models.ErrInvalidCategory
	}

	res := s.db.Model(&models.Menu{}).
		Where("id = ? AND owner_id = ?", id, owner).
		UpdateColumn(category.ColumnName(), models.StringSlice(items))
	if res.Error != nil {
		return fmt.Errorf("failed to replace %s of menu %d: %w", category, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
