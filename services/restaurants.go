package services

import (
	"context"
	"io"
	"log/slog"

	"food-delivery-admin-api/apperror"
	"food-delivery-admin-api/logger"
	"food-delivery-admin-api/media"
	"food-delivery-admin-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RestaurantService struct {
	db     *gorm.DB
	images media.Store
}

type RestaurantFilter struct {
	Status   models.RestaurantStatus
	IsActive *bool
	Cuisine  string
	Search   string
}

// VendorRef names the owner of a new restaurant, either by id or by contact.
type VendorRef struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone"`
}

type RestaurantInput struct {
	VendorID                 uint                    `json:"vendor_id"`
	Vendor                   *VendorRef              `json:"vendor"`
	Name                     string                  `json:"name" binding:"required,min=2"`
	Description              string                  `json:"description"`
	Cuisine                  string                  `json:"cuisine"`
	Address                  models.Address          `json:"address"`
	Phone                    string                  `json:"phone"`
	Email                    string                  `json:"email" binding:"omitempty,email"`
	DeliveryFee              float64                 `json:"delivery_fee" binding:"gte=0"`
	MinimumOrder             float64                 `json:"minimum_order" binding:"gte=0"`
	EstimatedDeliveryMinutes int                     `json:"estimated_delivery_minutes" binding:"gte=0"`
	IsActive                 *bool                   `json:"is_active"`
	Status                   models.RestaurantStatus `json:"status" binding:"omitempty,restaurant_status"`
}

type RestaurantUpdate struct {
	Name                     *string                  `json:"name" binding:"omitempty,min=2"`
	Description              *string                  `json:"description"`
	Cuisine                  *string                  `json:"cuisine"`
	Address                  *models.Address          `json:"address"`
	Phone                    *string                  `json:"phone"`
	Email                    *string                  `json:"email" binding:"omitempty,email"`
	DeliveryFee              *float64                 `json:"delivery_fee" binding:"omitempty,gte=0"`
	MinimumOrder             *float64                 `json:"minimum_order" binding:"omitempty,gte=0"`
	EstimatedDeliveryMinutes *int                     `json:"estimated_delivery_minutes" binding:"omitempty,gte=0"`
	Rating                   *float64                 `json:"rating" binding:"omitempty,gte=0,lte=5"`
	IsActive                 *bool                    `json:"is_active"`
	Status                   *models.RestaurantStatus `json:"status" binding:"omitempty,restaurant_status"`
}

// RestaurantDetail is a restaurant with its menu counts.
type RestaurantDetail struct {
	*models.Restaurant
	MenuItemCount      int64 `json:"menu_item_count"`
	AvailableItemCount int64 `json:"available_item_count"`
	ActiveOrders       int64 `json:"active_orders"`
}

func (s *RestaurantService) List(ctx context.Context, f RestaurantFilter) ([]models.Restaurant, error) {
	q := s.db.WithContext(ctx).Preload("Vendor")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}
	if f.Cuisine != "" {
		q = q.Where("LOWER(cuisine) = LOWER(?)", f.Cuisine)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(cuisine) LIKE ? OR LOWER(address_city) LIKE ?", p, p, p)
	}
	var restaurants []models.Restaurant
	if err := q.Order("created_at desc").Find(&restaurants).Error; err != nil {
		return nil, apperror.Wrap(err, "Failed to list restaurants")
	}
	return restaurants, nil
}

func (s *RestaurantService) Get(ctx context.Context, id uint) (*models.Restaurant, error) {
	var r models.Restaurant
	if err := s.db.WithContext(ctx).Preload("Vendor").First(&r, id).Error; err != nil {
		return nil, lookupErr(err, "Restaurant")
	}
	return &r, nil
}

func (s *RestaurantService) Detail(ctx context.Context, id uint) (*RestaurantDetail, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &RestaurantDetail{Restaurant: r}
	db := s.db.WithContext(ctx)
	if err := db.Model(&models.MenuItem{}).Where("restaurant_id = ?", id).Count(&d.MenuItemCount).Error; err != nil {
		return nil, apperror.Wrap(err, "Failed to count menu items")
	}
	if err := db.Model(&models.MenuItem{}).Where("restaurant_id = ? AND is_available = ?", id, true).Count(&d.AvailableItemCount).Error; err != nil {
		return nil, apperror.Wrap(err, "Failed to count menu items")
	}
	if d.ActiveOrders, err = activeOrderCount(ctx, s.db, "restaurant_id = ?", id); err != nil {
		return nil, apperror.Wrap(err, "Failed to count orders")
	}
	return d, nil
}

// Create stores a restaurant, resolving its vendor first. A vendor email that
// is not on file creates the vendor account on the fly.
func (s *RestaurantService) Create(ctx context.Context, in RestaurantInput) (*models.Restaurant, error) {
	vendor, err := s.resolveVendor(ctx, in)
	if err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = models.RestaurantOpen
	}
	r := models.Restaurant{
		VendorID:                 vendor.ID,
		Name:                     in.Name,
		Description:              in.Description,
		Cuisine:                  in.Cuisine,
		Address:                  in.Address,
		Phone:                    in.Phone,
		Email:                    normalizeEmail(in.Email),
		DeliveryFee:              in.DeliveryFee,
		MinimumOrder:             in.MinimumOrder,
		EstimatedDeliveryMinutes: in.EstimatedDeliveryMinutes,
		IsActive:                 in.IsActive == nil || *in.IsActive,
		Status:                   status,
	}
	if err := s.db.WithContext(ctx).Omit("Vendor").Create(&r).Error; err != nil {
		return nil, apperror.Wrap(err, "Failed to create restaurant")
	}
	r.Vendor = vendor
	return &r, nil
}

func (s *RestaurantService) resolveVendor(ctx context.Context, in RestaurantInput) (*models.Account, error) {
	db := s.db.WithContext(ctx)
	if in.VendorID != 0 {
		var v models.Account
		if err := db.First(&v, in.VendorID).Error; err != nil {
			return nil, lookupErr(err, "Vendor")
		}
		if v.Role != models.RoleVendor {
			return nil, apperror.Validation("Account is not a vendor")
		}
		return &v, nil
	}
	if in.Vendor == nil || in.Vendor.Email == "" {
		return nil, apperror.Validation("vendor_id or vendor.email is required")
	}

	email := normalizeEmail(in.Vendor.Email)
	var existing models.Account
	err := db.Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil:
		if existing.Role != models.RoleVendor {
			return nil, conflictf("Email %s belongs to a %s account", email, existing.Role)
		}
		return &existing, nil
	case !isNotFound(err):
		return nil, apperror.Wrap(err, "Failed to load vendor")
	}

	phone := normalizePhone(in.Vendor.Phone)
	if err := ensureUnique(ctx, s.db, email, phone, 0); err != nil {
		return nil, err
	}
	// the vendor never logs in here; the password only has to be unguessable
	hash, err := hashPassword(uuid.NewString())
	if err != nil {
		return nil, err
	}
	name := in.Vendor.Name
	if name == "" {
		name = in.Name
	}
	v := models.Account{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		Role:         models.RoleVendor,
		IsActive:     true,
	}
	if err := db.Create(&v).Error; err != nil {
		return nil, apperror.Wrap(err, "Failed to create vendor")
	}
	logger.Action(logger.From(ctx), "vendor_created").Info("vendor created for restaurant",
		slog.Uint64("vendor_id", uint64(v.ID)), slog.String("email", email))
	return &v, nil
}

func (s *RestaurantService) Update(ctx context.Context, id uint, in RestaurantUpdate) (*models.Restaurant, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		r.Name = *in.Name
	}
	if in.Description != nil {
		r.Description = *in.Description
	}
	if in.Cuisine != nil {
		r.Cuisine = *in.Cuisine
	}
	if in.Address != nil {
		r.Address = *in.Address
	}
	if in.Phone != nil {
		r.Phone = *in.Phone
	}
	if in.Email != nil {
		r.Email = normalizeEmail(*in.Email)
	}
	if in.DeliveryFee != nil {
		r.DeliveryFee = *in.DeliveryFee
	}
	if in.MinimumOrder != nil {
		r.MinimumOrder = *in.MinimumOrder
	}
	if in.EstimatedDeliveryMinutes != nil {
		r.EstimatedDeliveryMinutes = *in.EstimatedDeliveryMinutes
	}
	if in.Rating != nil {
		r.Rating = *in.Rating
	}
	if in.IsActive != nil {
		r.IsActive = *in.IsActive
	}
	if in.Status != nil {
		r.Status = *in.Status
	}
	if err := s.save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// ToggleStatus flips IsActive. Status (open/closed/busy) is left alone.
func (s *RestaurantService) ToggleStatus(ctx context.Context, id uint) (*models.Restaurant, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.IsActive = !r.IsActive
	if err := s.save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Delete refuses while orders are open, then removes the restaurant and its menu.
// Image cleanup is best effort.
func (s *RestaurantService) Delete(ctx context.Context, id uint) error {
	r, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	n, err := activeOrderCount(ctx, s.db, "restaurant_id = ?", id)
	if err != nil {
		return apperror.Wrap(err, "Failed to check active orders")
	}
	if n > 0 {
		return conflictf("Cannot delete restaurant with %d active order(s)", n)
	}

	db := s.db.WithContext(ctx)
	var items []models.MenuItem
	if err := db.Where("restaurant_id = ?", id).Find(&items).Error; err != nil {
		return apperror.Wrap(err, "Failed to load menu items")
	}
	if err := db.Where("restaurant_id = ?", id).Delete(&models.MenuItem{}).Error; err != nil {
		return apperror.Wrap(err, "Failed to delete menu items")
	}
	if err := db.Delete(&models.Restaurant{}, id).Error; err != nil {
		return apperror.Wrap(err, "Failed to delete restaurant")
	}

	log := logger.From(ctx)
	for _, it := range items {
		media.DeleteQuietly(ctx, s.images, it.ImageID, log)
	}
	media.DeleteQuietly(ctx, s.images, r.ImageID, log)
	logger.Action(log, "restaurant_deleted").Info("restaurant deleted",
		slog.Uint64("restaurant_id", uint64(id)), slog.Int("menu_items", len(items)))
	return nil
}

func (s *RestaurantService) SetImage(ctx context.Context, id uint, name string, rd io.Reader) (*models.Restaurant, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	asset, err := replaceImage(ctx, s.images, r.ImageID, name, rd)
	if err != nil {
		return nil, err
	}
	r.ImageURL, r.ImageID = asset.URL, asset.ID
	if err := s.save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *RestaurantService) save(ctx context.Context, r *models.Restaurant) error {
	if err := s.db.WithContext(ctx).Omit("Vendor", "MenuItems").Save(r).Error; err != nil {
		return apperror.Wrap(err, "Failed to save restaurant")
	}
	return nil
}
