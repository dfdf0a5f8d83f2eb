package models

import "time"

// OrderStatus is the lifecycle value stored on an order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusAssigned  OrderStatus = "assigned"
	StatusPickedUp  OrderStatus = "picked_up"
	StatusInTransit OrderStatus = "in_transit"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentWallet PaymentMethod = "wallet"
)

func (p PaymentMethod) Valid() bool {
	return p == PaymentCash || p == PaymentCard || p == PaymentWallet
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentPending, PaymentPaid, PaymentRefunded, PaymentFailed:
		return true
	}
	return false
}

// Order references its customer, restaurant and driver by id only. Any of
// them may have been deleted since; the preloaded pointers are nil then.
type Order struct {
	ID                    uint                 `json:"id" gorm:"primaryKey"`
	OrderNumber           string               `json:"order_number" gorm:"uniqueIndex;not null"`
	CustomerID            uint                 `json:"customer_id" gorm:"not null;index"`
	Customer              *Account             `json:"customer" gorm:"foreignKey:CustomerID"`
	RestaurantID          uint                 `json:"restaurant_id" gorm:"not null;index"`
	Restaurant            *Restaurant          `json:"restaurant" gorm:"foreignKey:RestaurantID"`
	DriverID              *uint                `json:"driver_id" gorm:"index"`
	Driver                *Account             `json:"driver" gorm:"foreignKey:DriverID"`
	Items                 []OrderItem          `json:"items" gorm:"foreignKey:OrderID"`
	Subtotal              float64              `json:"subtotal"`
	DeliveryFee           float64              `json:"delivery_fee"`
	Tax                   float64              `json:"tax"`
	TotalAmount           float64              `json:"total_amount"`
	DeliveryAddress       Address              `json:"delivery_address" gorm:"embedded;embeddedPrefix:delivery_"`
	PaymentMethod         PaymentMethod        `json:"payment_method" gorm:"not null;default:'cash'"`
	PaymentStatus         PaymentStatus        `json:"payment_status" gorm:"not null;default:'pending'"`
	Status                OrderStatus          `json:"status" gorm:"not null;index"`
	StatusHistory         []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`
	SpecialInstructions   string               `json:"special_instructions,omitempty"`
	EstimatedDeliveryTime *time.Time           `json:"estimated_delivery_time,omitempty"`
	DeliveredAt           *time.Time           `json:"delivered_at,omitempty"`
	CancelledAt           *time.Time           `json:"cancelled_at,omitempty"`
	CancellationReason    string               `json:"cancellation_reason,omitempty"`
	Delivery              *Delivery            `json:"delivery,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt             time.Time            `json:"created_at"`
	UpdatedAt             time.Time            `json:"updated_at"`
}

// OrderItem is a snapshot of the menu item at purchase time.
type OrderItem struct {
	ID                  uint    `json:"id" gorm:"primaryKey"`
	OrderID             uint    `json:"order_id" gorm:"not null;index"`
	MenuItemID          uint    `json:"menu_item_id" gorm:"not null"`
	Name                string  `json:"name" gorm:"not null"`
	Description         string  `json:"description,omitempty"`
	Price               float64 `json:"price" gorm:"not null"`
	Quantity            int     `json:"quantity" gorm:"not null"`
	Subtotal            float64 `json:"subtotal"`
	SpecialInstructions string  `json:"special_instructions,omitempty"`
}

// OrderStatusHistory is append-only
type OrderStatusHistory struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	OrderID   uint        `json:"order_id" gorm:"not null;index"`
	Status    OrderStatus `json:"status" gorm:"not null"`
	Note      string      `json:"note,omitempty"`
	ChangedBy *uint       `json:"changed_by,omitempty"`
	CreatedAt time.Time   `json:"timestamp"`
}
