package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"food-delivery-admin-api/apperror"
	"food-delivery-admin-api/logger"
	"food-delivery-admin-api/media"
	"food-delivery-admin-api/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var vehicleTypes = map[string]bool{"bike": true, "scooter": true, "motorcycle": true, "car": true, "van": true}

// ValidVehicleType reports whether t is a supported driver vehicle.
func ValidVehicleType(t string) bool { return vehicleTypes[t] }

// AccountService manages customer and driver accounts.
type AccountService struct {
	db     *gorm.DB
	images media.Store
}

type AccountFilter struct {
	IsActive *bool
	Search   string
}

type AccountInput struct {
	Name           string              `json:"name" binding:"required,min=2"`
	Email          string              `json:"email" binding:"required,email"`
	Phone          string              `json:"phone"`
	Password       string              `json:"password" binding:"required"`
	IsActive       *bool               `json:"is_active"`
	SavedAddresses []models.Address    `json:"saved_addresses"`
	Vehicle        *models.VehicleInfo `json:"vehicle"`
	IsAvailable    *bool               `json:"is_available"`
}

type AccountUpdate struct {
	Name           *string             `json:"name" binding:"omitempty,min=2"`
	Email          *string             `json:"email" binding:"omitempty,email"`
	Phone          *string             `json:"phone"`
	Password       *string             `json:"password"`
	IsActive       *bool               `json:"is_active"`
	SavedAddresses *[]models.Address   `json:"saved_addresses"`
	Vehicle        *models.VehicleInfo `json:"vehicle"`
	IsAvailable    *bool               `json:"is_available"`
	CurrentLat     *float64            `json:"current_lat"`
	CurrentLng     *float64            `json:"current_lng"`
}

// AccountSummary is the activity attached to an account detail view.
type AccountSummary struct {
	Orders              int64   `json:"orders"`
	ActiveOrders        int64   `json:"active_orders"`
	TotalSpent          float64 `json:"total_spent,omitempty"`
	Deliveries          int64   `json:"deliveries,omitempty"`
	CompletedDeliveries int64   `json:"completed_deliveries,omitempty"`
	Restaurants         int64   `json:"restaurants,omitempty"`
}

func (s *AccountService) List(ctx context.Context, role models.Role, f AccountFilter) ([]models.Account, error) {
	q := s.db.WithContext(ctx).Where("role = ?", role)
	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", p, p, p)
	}
	var accounts []models.Account
	if err := q.Order("created_at desc").Find(&accounts).Error; err != nil {
		return nil, apperror.Wrap(err, "Failed to list accounts")
	}
	return accounts, nil
}

// Get loads an account of the given role; other roles look like a missing record.
func (s *AccountService) Get(ctx context.Context, role models.Role, id uint) (*models.Account, error) {
	var acc models.Account
	if err := s.db.WithContext(ctx).Where("role = ?", role).First(&acc, id).Error; err != nil {
		return nil, lookupErr(err, roleTitle(role))
	}
	return &acc, nil
}

func (s *AccountService) Summary(ctx context.Context, acc *models.Account) (AccountSummary, error) {
	db := s.db.WithContext(ctx)
	var sum AccountSummary
	var err error
	switch acc.Profile().(type) {
	case models.CustomerProfile:
		if err = db.Model(&models.Order{}).Where("customer_id = ?", acc.ID).Count(&sum.Orders).Error; err != nil {
			break
		}
		if sum.ActiveOrders, err = activeOrderCount(ctx, s.db, "customer_id = ?", acc.ID); err != nil {
			break
		}
		err = db.Model(&models.Order{}).
			Where("customer_id = ? AND status = ?", acc.ID, models.StatusDelivered).
			Select("COALESCE(SUM(total_amount), 0)").Scan(&sum.TotalSpent).Error
	case models.DriverProfile:
		if err = db.Model(&models.Order{}).Where("driver_id = ?", acc.ID).Count(&sum.Orders).Error; err != nil {
			break
		}
		if sum.ActiveOrders, err = activeOrderCount(ctx, s.db, "driver_id = ?", acc.ID); err != nil {
			break
		}
		if err = db.Model(&models.Delivery{}).Where("driver_id = ?", acc.ID).Count(&sum.Deliveries).Error; err != nil {
			break
		}
		err = db.Model(&models.Delivery{}).
			Where("driver_id = ? AND status = ?", acc.ID, models.DeliveryCompleted).
			Count(&sum.CompletedDeliveries).Error
	case models.VendorProfile:
		err = db.Model(&models.Restaurant{}).Where("vendor_id = ?", acc.ID).Count(&sum.Restaurants).Error
	case models.AdminProfile:
	}
	if err != nil {
		return sum, apperror.Wrap(err, "Failed to load account activity")
	}
	return sum, nil
}

// Create registers a customer or driver account.
func (s *AccountService) Create(ctx context.Context, role models.Role, in AccountInput) (*models.Account, error) {
	email := normalizeEmail(in.Email)
	phone := normalizePhone(in.Phone)
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	if role == models.RoleDriver {
		if in.Vehicle == nil || !ValidVehicleType(in.Vehicle.Type) {
			return nil, apperror.Validation("Driver vehicle type must be one of: bike, scooter, motorcycle, car, van")
		}
	}
	if err := ensureUnique(ctx, s.db, email, phone, 0); err != nil {
		return nil, err
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	acc := models.Account{
		Name:         in.Name,
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		Role:         role,
		IsActive:     in.IsActive == nil || *in.IsActive,
	}
	switch role {
	case models.RoleCustomer:
		acc.SavedAddresses = datatypes.JSONSlice[models.Address](in.SavedAddresses)
	case models.RoleDriver:
		acc.Vehicle = datatypes.NewJSONType(*in.Vehicle)
		acc.IsAvailable = in.IsAvailable == nil || *in.IsAvailable
	}
	if err := s.db.WithContext(ctx).Create(&acc).Error; err != nil {
		return nil, apperror.Wrap(err, "Failed to create "+string(role))
	}
	return &acc, nil
}

func (s *AccountService) Update(ctx context.Context, role models.Role, id uint, in AccountUpdate) (*models.Account, error) {
	acc, err := s.Get(ctx, role, id)
	if err != nil {
		return nil, err
	}

	email := acc.Email
	if in.Email != nil {
		email = normalizeEmail(*in.Email)
	}
	phone := acc.Phone
	if in.Phone != nil {
		phone = normalizePhone(*in.Phone)
	}
	if err := ensureUnique(ctx, s.db, email, phone, acc.ID); err != nil {
		return nil, err
	}
	acc.Email, acc.Phone = email, phone

	if in.Name != nil {
		acc.Name = *in.Name
	}
	if in.Password != nil {
		if err := ValidatePassword(*in.Password); err != nil {
			return nil, err
		}
		if acc.PasswordHash, err = hashPassword(*in.Password); err != nil {
			return nil, err
		}
	}
	if in.IsActive != nil {
		acc.IsActive = *in.IsActive
	}

	switch acc.Profile().(type) {
	case models.CustomerProfile:
		if in.SavedAddresses != nil {
			acc.SavedAddresses = datatypes.JSONSlice[models.Address](*in.SavedAddresses)
		}
	case models.DriverProfile:
		if in.Vehicle != nil {
			if !ValidVehicleType(in.Vehicle.Type) {
				return nil, apperror.Validation("Driver vehicle type must be one of: bike, scooter, motorcycle, car, van")
			}
			acc.Vehicle = datatypes.NewJSONType(*in.Vehicle)
		}
		if in.IsAvailable != nil {
			acc.IsAvailable = *in.IsAvailable
		}
		if in.CurrentLat != nil {
			acc.CurrentLat = in.CurrentLat
		}
		if in.CurrentLng != nil {
			acc.CurrentLng = in.CurrentLng
		}
	}

	if err := s.db.WithContext(ctx).Save(acc).Error; err != nil {
		return nil, apperror.Wrap(err, "Failed to update "+string(role))
	}
	return acc, nil
}

// Delete removes an account unless an order or delivery referencing it is still open.
func (s *AccountService) Delete(ctx context.Context, role models.Role, id uint) error {
	acc, err := s.Get(ctx, role, id)
	if err != nil {
		return err
	}
	if err := s.ensureNoActiveWork(ctx, acc); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(acc).Error; err != nil {
		return apperror.Wrap(err, "Failed to delete "+string(role))
	}
	media.DeleteQuietly(ctx, s.images, acc.AvatarID, logger.From(ctx))
	logger.Action(logger.From(ctx), "account_deleted").Info("account deleted",
		slog.Uint64("account_id", uint64(acc.ID)), slog.String("role", string(acc.Role)))
	return nil
}

func (s *AccountService) ensureNoActiveWork(ctx context.Context, acc *models.Account) error {
	orders, err := activeOrderCount(ctx, s.db, "customer_id = ? OR driver_id = ?", acc.ID, acc.ID)
	if err != nil {
		return apperror.Wrap(err, "Failed to check active orders")
	}
	if acc.Role == models.RoleVendor {
		n, err := activeOrderCount(ctx, s.db,
			"restaurant_id IN (?)", s.db.Model(&models.Restaurant{}).Select("id").Where("vendor_id = ?", acc.ID))
		if err != nil {
			return apperror.Wrap(err, "Failed to check active orders")
		}
		orders += n
	}
	if orders > 0 {
		return conflictf("Cannot delete %s with %d active order(s)", acc.Role, orders)
	}
	deliveries, err := activeDeliveryCount(ctx, s.db, acc.ID)
	if err != nil {
		return apperror.Wrap(err, "Failed to check active deliveries")
	}
	if deliveries > 0 {
		return conflictf("Cannot delete %s with %d active deliveries", acc.Role, deliveries)
	}
	return nil
}

// SetAvatar uploads a new avatar and drops the previous one.
func (s *AccountService) SetAvatar(ctx context.Context, role models.Role, id uint, name string, r io.Reader) (*models.Account, error) {
	acc, err := s.Get(ctx, role, id)
	if err != nil {
		return nil, err
	}
	asset, err := replaceImage(ctx, s.images, acc.AvatarID, name, r)
	if err != nil {
		return nil, err
	}
	acc.AvatarURL, acc.AvatarID = asset.URL, asset.ID
	if err := s.db.WithContext(ctx).Save(acc).Error; err != nil {
		return nil, apperror.Wrap(err, "Failed to save avatar")
	}
	return acc, nil
}

// replaceImage uploads first so a failed upload leaves the old image in place.
func replaceImage(ctx context.Context, images media.Store, oldID, name string, r io.Reader) (media.Asset, error) {
	asset, err := images.Upload(ctx, name, r)
	if err != nil {
		return media.Asset{}, apperror.Upstream("Image upload failed", err)
	}
	media.DeleteQuietly(ctx, images, oldID, logger.From(ctx))
	return asset, nil
}

func roleTitle(r models.Role) string {
	switch r {
	case models.RoleCustomer:
		return "Customer"
	case models.RoleDriver:
		return "Driver"
	case models.RoleVendor:
		return "Vendor"
	case models.RoleAdmin:
		return "Admin"
	}
	return fmt.Sprintf("Account (%s)", r)
}
