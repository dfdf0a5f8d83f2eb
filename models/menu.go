package models

import (
	"time"

	"gorm.io/gorm"
)

type MenuCategory string

const (
	CategoryAppetizer  MenuCategory = "appetizer"
	CategoryMainCourse MenuCategory = "main_course"
	CategoryDessert    MenuCategory = "dessert"
	CategoryBeverage   MenuCategory = "beverage"
	CategorySide       MenuCategory = "side"
	CategoryCombo      MenuCategory = "combo"
)

var MenuCategories = []MenuCategory{
	CategoryAppetizer, CategoryMainCourse, CategoryDessert,
	CategoryBeverage, CategorySide, CategoryCombo,
}

func (c MenuCategory) Valid() bool {
	for _, v := range MenuCategories {
		if c == v {
			return true
		}
	}
	return false
}

// Stock is optional inventory tracking for a menu item
type Stock struct {
	TrackInventory    bool `json:"track_inventory"`
	CurrentStock      int  `json:"current_stock"`
	LowStockThreshold int  `json:"low_stock_threshold"`
	IsOutOfStock      bool `json:"is_out_of_stock"`
}

type MenuItem struct {
	ID                 uint         `json:"id" gorm:"primaryKey"`
	RestaurantID       uint         `json:"restaurant_id" gorm:"not null;index"`
	Name               string       `json:"name" gorm:"not null"`
	Description        string       `json:"description"`
	Price              float64      `json:"price" gorm:"not null"`
	Category           MenuCategory `json:"category" gorm:"not null;index"`
	IsVegetarian       bool         `json:"is_vegetarian"`
	IsAvailable        bool         `json:"is_available" gorm:"not null"`
	PreparationMinutes int          `json:"preparation_minutes"`
	ImageURL           string       `json:"image_url,omitempty"`
	ImageID            string       `json:"image_id,omitempty"`
	Stock              Stock        `json:"stock" gorm:"embedded;embeddedPrefix:stock_"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// BeforeSave keeps the stock flags consistent on every create and save.
func (m *MenuItem) BeforeSave(tx *gorm.DB) error {
	m.ApplyStock()
	return nil
}

// ApplyStock derives IsOutOfStock from CurrentStock and, when out of stock,
// forces the item unavailable. Restocking does not make it available again.
func (m *MenuItem) ApplyStock() {
	m.Stock.IsOutOfStock = m.Stock.TrackInventory && m.Stock.CurrentStock <= 0
	if m.Stock.IsOutOfStock {
		m.IsAvailable = false
	}
}

// LowStock reports a tracked item at or below its threshold but not yet out.
func (m *MenuItem) LowStock() bool {
	return m.Stock.TrackInventory && !m.Stock.IsOutOfStock &&
		m.Stock.LowStockThreshold > 0 && m.Stock.CurrentStock <= m.Stock.LowStockThreshold
}
