// Package services holds the stores behind the admin API. Every operation is a
// handful of gorm reads/writes on the request context; there are no
// transactions, locks or caches, so concurrent writers race and the last one wins.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"food-delivery-admin-api/apperror"
	"food-delivery-admin-api/media"
	"food-delivery-admin-api/models"
	"food-delivery-admin-api/statemachine"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Services bundles the stores handed to the HTTP layer.
type Services struct {
	Auth        *AuthService
	Accounts    *AccountService
	Restaurants *RestaurantService
	Menu        *MenuService
	Orders      *OrderService
	Dashboard   *DashboardService
}

// New wires every store on the same database, image host and clock.
// A nil clock means time.Now.
func New(db *gorm.DB, images media.Store, now func() time.Time) *Services {
	if now == nil {
		now = time.Now
	}
	if images == nil {
		images = media.NopStore{}
	}
	return &Services{
		Auth:        &AuthService{db: db, now: now},
		Accounts:    &AccountService{db: db, images: images},
		Restaurants: &RestaurantService{db: db, images: images},
		Menu:        &MenuService{db: db, images: images},
		Orders:      &OrderService{db: db, now: now},
		Dashboard:   &DashboardService{db: db, now: now},
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// lookupErr turns a First() error into NotFound or Internal.
func lookupErr(err error, what string) error {
	if isNotFound(err) {
		return apperror.NotFound(what + " not found")
	}
	return apperror.Wrap(err, "Failed to load "+strings.ToLower(what))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizePhone(phone string) *string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil
	}
	return &phone
}

// ValidatePassword enforces the account password policy.
func ValidatePassword(p string) error {
	if len(p) < 8 {
		return apperror.Validation("Password must be at least 8 characters long")
	}
	var letter, digit bool
	for _, r := range p {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !letter || !digit {
		return apperror.Validation("Password must contain at least one letter and one number")
	}
	return nil
}

func hashPassword(p string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.DefaultCost)
	if err != nil {
		return "", apperror.Wrap(err, "Failed to hash password")
	}
	return string(hash), nil
}

// ensureUnique rejects an email or phone already used by another account.
func ensureUnique(ctx context.Context, db *gorm.DB, email string, phone *string, exceptID uint) error {
	var n int64
	q := db.WithContext(ctx).Model(&models.Account{}).Where("email = ?", email)
	if exceptID > 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return apperror.Wrap(err, "Failed to check email")
	}
	if n > 0 {
		return apperror.Conflict("Email already registered")
	}
	if phone == nil {
		return nil
	}
	q = db.WithContext(ctx).Model(&models.Account{}).Where("phone = ?", *phone)
	if exceptID > 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return apperror.Wrap(err, "Failed to check phone")
	}
	if n > 0 {
		return apperror.Conflict("Phone number already registered")
	}
	return nil
}

// activeOrderCount counts non-terminal orders matching the condition.
func activeOrderCount(ctx context.Context, db *gorm.DB, query string, args ...any) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&models.Order{}).
		Where("status IN ?", statemachine.ActiveOrderStatuses()).
		Where(query, args...).
		Count(&n).Error
	return n, err
}

func activeDeliveryCount(ctx context.Context, db *gorm.DB, driverID uint) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&models.Delivery{}).
		Where("status IN ? AND driver_id = ?", statemachine.ActiveDeliveryStatuses(), driverID).
		Count(&n).Error
	return n, err
}

func statusList(set []models.OrderStatus) string {
	parts := make([]string, len(set))
	for i, s := range set {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

func likePattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

func conflictf(format string, args ...any) error {
	return apperror.Conflict(fmt.Sprintf(format, args...))
}
