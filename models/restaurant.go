package models

import "time"

// RestaurantStatus is independent of IsActive; callers check both.
type RestaurantStatus string

const (
	RestaurantOpen   RestaurantStatus = "open"
	RestaurantClosed RestaurantStatus = "closed"
	RestaurantBusy   RestaurantStatus = "busy"
)

func (s RestaurantStatus) Valid() bool {
	return s == RestaurantOpen || s == RestaurantClosed || s == RestaurantBusy
}

type Restaurant struct {
	ID                       uint             `json:"id" gorm:"primaryKey"`
	VendorID                 uint             `json:"vendor_id" gorm:"not null;index"`
	Vendor                   *Account         `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
	Name                     string           `json:"name" gorm:"not null"`
	Description              string           `json:"description"`
	Cuisine                  string           `json:"cuisine"`
	Address                  Address          `json:"address" gorm:"embedded;embeddedPrefix:address_"`
	Phone                    string           `json:"phone"`
	Email                    string           `json:"email"`
	ImageURL                 string           `json:"image_url,omitempty"`
	ImageID                  string           `json:"image_id,omitempty"`
	DeliveryFee              float64          `json:"delivery_fee"`
	MinimumOrder             float64          `json:"minimum_order"`
	EstimatedDeliveryMinutes int              `json:"estimated_delivery_minutes"`
	Rating                   float64          `json:"rating"`
	IsActive                 bool             `json:"is_active" gorm:"not null"`
	Status                   RestaurantStatus `json:"status" gorm:"not null;default:'open'"`
	MenuItems                []MenuItem       `json:"menu_items,omitempty" gorm:"foreignKey:RestaurantID"`
	CreatedAt                time.Time        `json:"created_at"`
	UpdatedAt                time.Time        `json:"updated_at"`
}
