package services

import (
	"context"
	"io"

	"food-delivery-admin-api/apperror"
	"food-delivery-admin-api/logger"
	"food-delivery-admin-api/media"
	"food-delivery-admin-api/models"

	"gorm.io/gorm"
)

type MenuService struct {
	db     *gorm.DB
	images media.Store
}

type MenuFilter struct {
	RestaurantID uint
	Category     models.MenuCategory
	IsAvailable  *bool
	Search       string
}

type MenuItemInput struct {
	RestaurantID       uint                `json:"restaurant_id" binding:"required"`
	Name               string              `json:"name" binding:"required,min=2"`
	Description        string              `json:"description"`
	Price              float64             `json:"price" binding:"required,gt=0"`
	Category           models.MenuCategory `json:"category" binding:"required,menu_category"`
	IsVegetarian       bool                `json:"is_vegetarian"`
	IsAvailable        *bool               `json:"is_available"`
	PreparationMinutes int                 `json:"preparation_minutes" binding:"gte=0"`
	Stock              *models.Stock       `json:"stock"`
}

type MenuItemUpdate struct {
	RestaurantID       *uint                `json:"restaurant_id"`
	Name               *string              `json:"name" binding:"omitempty,min=2"`
	Description        *string              `json:"description"`
	Price              *float64             `json:"price" binding:"omitempty,gt=0"`
	Category           *models.MenuCategory `json:"category" binding:"omitempty,menu_category"`
	IsVegetarian       *bool                `json:"is_vegetarian"`
	IsAvailable        *bool                `json:"is_available"`
	PreparationMinutes *int                 `json:"preparation_minutes" binding:"omitempty,gte=0"`
	Stock              *models.Stock        `json:"stock"`
}

func (s *MenuService) List(ctx context.Context, f MenuFilter) ([]models.MenuItem, error) {
	q := s.db.WithContext(ctx)
	if f.RestaurantID != 0 {
		q = q.Where("restaurant_id = ?", f.RestaurantID)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.IsAvailable != nil {
		q = q.Where("is_available = ?", *f.IsAvailable)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", p, p)
	}
	var items []models.MenuItem
	if err := q.Order("restaurant_id, category, name").Find(&items).Error; err != nil {
		return nil, apperror.Wrap(err, "Failed to list menu items")
	}
	return items, nil
}

func (s *MenuService) Get(ctx context.Context, id uint) (*models.MenuItem, error) {
	var m models.MenuItem
	if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, lookupErr(err, "Menu item")
	}
	return &m, nil
}

func (s *MenuService) Create(ctx context.Context, in MenuItemInput) (*models.MenuItem, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Restaurant{}).Where("id = ?", in.RestaurantID).Count(&n).Error; err != nil {
		return nil, apperror.Wrap(err, "Failed to load restaurant")
	}
	if n == 0 {
		return nil, apperror.NotFound("Restaurant not found")
	}
	m := models.MenuItem{
		RestaurantID:       in.RestaurantID,
		Name:               in.Name,
		Description:        in.Description,
		Price:              in.Price,
		Category:           in.Category,
		IsVegetarian:       in.IsVegetarian,
		IsAvailable:        in.IsAvailable == nil || *in.IsAvailable,
		PreparationMinutes: in.PreparationMinutes,
	}
	if in.Stock != nil {
		m.Stock = *in.Stock
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, apperror.Wrap(err, "Failed to create menu item")
	}
	return &m, nil
}

// Update edits a menu item in place. Moving it to another restaurant is not allowed.
func (s *MenuService) Update(ctx context.Context, id uint, in MenuItemUpdate) (*models.MenuItem, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.RestaurantID != nil && *in.RestaurantID != m.RestaurantID {
		return nil, apperror.Validation("Menu item cannot be moved to another restaurant")
	}
	if in.Name != nil {
		m.Name = *in.Name
	}
	if in.Description != nil {
		m.Description = *in.Description
	}
	if in.Price != nil {
		m.Price = *in.Price
	}
	if in.Category != nil {
		m.Category = *in.Category
	}
	if in.IsVegetarian != nil {
		m.IsVegetarian = *in.IsVegetarian
	}
	if in.IsAvailable != nil {
		m.IsAvailable = *in.IsAvailable
	}
	if in.PreparationMinutes != nil {
		m.PreparationMinutes = *in.PreparationMinutes
	}
	if in.Stock != nil {
		m.Stock = *in.Stock
	}
	if err := s.save(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ToggleAvailability flips IsAvailable; an out-of-stock item stays unavailable.
func (s *MenuService) ToggleAvailability(ctx context.Context, id uint) (*models.MenuItem, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	m.IsAvailable = !m.IsAvailable
	if err := s.save(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MenuService) Delete(ctx context.Context, id uint) error {
	m, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(m).Error; err != nil {
		return apperror.Wrap(err, "Failed to delete menu item")
	}
	media.DeleteQuietly(ctx, s.images, m.ImageID, logger.From(ctx))
	return nil
}

func (s *MenuService) SetImage(ctx context.Context, id uint, name string, r io.Reader) (*models.MenuItem, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	asset, err := replaceImage(ctx, s.images, m.ImageID, name, r)
	if err != nil {
		return nil, err
	}
	m.ImageURL, m.ImageID = asset.URL, asset.ID
	if err := s.save(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MenuService) save(ctx context.Context, m *models.MenuItem) error {
	if err := s.db.WithContext(ctx).Save(m).Error; err != nil {
		return apperror.Wrap(err, "Failed to save menu item")
	}
	return nil
}
