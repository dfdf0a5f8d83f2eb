package services

import (
	"context"
	"log/slog"
	"time"

	"food-delivery-admin-api/apperror"
	"food-delivery-admin-api/logger"
	"food-delivery-admin-api/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService checks admin credentials. Tokens are issued by the HTTP layer.
type AuthService struct {
	db  *gorm.DB
	now func() time.Time
}

type RegisterInput struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates an admin account. While no admin exists anyone may
// register; afterwards the caller must be an admin.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, caller models.Role) (*models.Account, error) {
	var admins int64
	if err := s.db.WithContext(ctx).Model(&models.Account{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error; err != nil {
		return nil, apperror.Wrap(err, "Failed to check admin accounts")
	}
	if admins > 0 {
		switch caller {
		case models.RoleAdmin:
		case "":
			return nil, apperror.Unauthorized("An admin token is required to register another admin")
		default:
			return nil, apperror.Forbidden("Admin access required")
		}
	}
	email := normalizeEmail(in.Email)
	phone := normalizePhone(in.Phone)
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
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
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(&acc).Error; err != nil {
		return nil, apperror.Wrap(err, "Failed to create admin")
	}
	logger.Action(logger.From(ctx), "admin_registered").Info("admin registered", slog.Uint64("account_id", uint64(acc.ID)))
	return &acc, nil
}

// Login returns the admin matching the credentials and stamps the login time.
// Unknown email and wrong password give the same answer.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.Account, error) {
	var acc models.Account
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(in.Email)).First(&acc).Error
	if err != nil {
		if isNotFound(err) {
			return nil, apperror.Unauthorized("Invalid email or password")
		}
		return nil, apperror.Wrap(err, "Failed to load account")
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(in.Password)) != nil {
		return nil, apperror.Unauthorized("Invalid email or password")
	}
	if acc.Role != models.RoleAdmin {
		return nil, apperror.Forbidden("Admin access required")
	}
	if !acc.IsActive {
		return nil, apperror.Forbidden("Account is deactivated")
	}

	now := s.now()
	acc.LastLoginAt = &now
	if err := s.db.WithContext(ctx).Model(&acc).Update("last_login_at", now).Error; err != nil {
		return nil, apperror.Wrap(err, "Failed to record login")
	}
	return &acc, nil
}

// Current resolves the account behind a verified token.
func (s *AuthService) Current(ctx context.Context, id uint) (*models.Account, error) {
	var acc models.Account
	if err := s.db.WithContext(ctx).First(&acc, id).Error; err != nil {
		if isNotFound(err) {
			return nil, apperror.Unauthorized("Account no longer exists")
		}
		return nil, apperror.Wrap(err, "Failed to load account")
	}
	if !acc.IsActive {
		return nil, apperror.Unauthorized("Account is deactivated")
	}
	return &acc, nil
}
