package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Role is the account discriminator
type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleDriver   Role = "driver"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleVendor, RoleDriver, RoleAdmin:
		return true
	}
	return false
}

// VehicleInfo is kept as a JSON column on driver accounts
type VehicleInfo struct {
	Type        string `json:"type" binding:"omitempty,vehicle_type"`
	Model       string `json:"model,omitempty"`
	PlateNumber string `json:"plate_number,omitempty"`
	Color       string `json:"color,omitempty"`
}

// Account is the single stored record for customers, vendors, drivers and admins.
// Role-specific columns are only meaningful for their role; use Profile to read them.
type Account struct {
	ID           uint       `gorm:"primaryKey"`
	Name         string     `gorm:"not null"`
	Email        string     `gorm:"uniqueIndex;not null"`
	Phone        *string    `gorm:"uniqueIndex"`
	PasswordHash string     `gorm:"not null"`
	Role         Role       `gorm:"not null;index"`
	IsActive     bool       `gorm:"not null"`
	AvatarURL    string
	AvatarID     string
	LastLoginAt  *time.Time

	// customer
	SavedAddresses datatypes.JSONSlice[Address]

	// driver
	Vehicle     datatypes.JSONType[VehicleInfo]
	IsAvailable bool `gorm:"not null"`
	CurrentLat  *float64
	CurrentLng  *float64
	Rating      float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile is the role-specific part of an account. Exactly one of
// CustomerProfile, VendorProfile, DriverProfile or AdminProfile.
type Profile interface {
	Role() Role
}

type CustomerProfile struct {
	SavedAddresses []Address `json:"saved_addresses"`
}

type VendorProfile struct{}

type DriverProfile struct {
	Vehicle     VehicleInfo `json:"vehicle"`
	IsAvailable bool        `json:"is_available"`
	CurrentLat  *float64    `json:"current_lat,omitempty"`
	CurrentLng  *float64    `json:"current_lng,omitempty"`
	Rating      float64     `json:"rating"`
}

type AdminProfile struct {
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func (CustomerProfile) Role() Role { return RoleCustomer }
func (VendorProfile) Role() Role   { return RoleVendor }
func (DriverProfile) Role() Role   { return RoleDriver }
func (AdminProfile) Role() Role    { return RoleAdmin }

// Profile returns the variant matching the account role, or nil for an unknown role.
func (a *Account) Profile() Profile {
	switch a.Role {
	case RoleCustomer:
		addrs := []Address(a.SavedAddresses)
		if addrs == nil {
			addrs = []Address{}
		}
		return CustomerProfile{SavedAddresses: addrs}
	case RoleVendor:
		return VendorProfile{}
	case RoleDriver:
		return DriverProfile{
			Vehicle:     a.Vehicle.Data(),
			IsAvailable: a.IsAvailable,
			CurrentLat:  a.CurrentLat,
			CurrentLng:  a.CurrentLng,
			Rating:      a.Rating,
		}
	case RoleAdmin:
		return AdminProfile{LastLoginAt: a.LastLoginAt}
	}
	return nil
}

// MarshalJSON writes the shared fields plus the role profile. The password hash never leaves.
func (a Account) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID        uint      `json:"id"`
		Name      string    `json:"name"`
		Email     string    `json:"email"`
		Phone     *string   `json:"phone"`
		Role      Role      `json:"role"`
		IsActive  bool      `json:"is_active"`
		AvatarURL string    `json:"avatar_url,omitempty"`
		Profile   Profile   `json:"profile,omitempty"`
		CreatedAt time.Time `json:"created_at"`
		UpdatedAt time.Time `json:"updated_at"`
	}{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Phone:     a.Phone,
		Role:      a.Role,
		IsActive:  a.IsActive,
		AvatarURL: a.AvatarURL,
		Profile:   a.Profile(),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	})
}
