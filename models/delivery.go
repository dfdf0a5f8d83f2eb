package models

import (
	"math"
	"time"

	"gorm.io/gorm"
)

// DeliveryStatus mirrors, but is not the same vocabulary as, OrderStatus.
type DeliveryStatus string

const (
	DeliveryAssigned  DeliveryStatus = "assigned"
	DeliveryOngoing   DeliveryStatus = "ongoing"
	DeliveryCompleted DeliveryStatus = "completed"
	DeliveryCancelled DeliveryStatus = "cancelled"
)

type Delivery struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	OrderID          uint           `json:"order_id" gorm:"uniqueIndex;not null"`
	DriverID         uint           `json:"driver_id" gorm:"not null;index"`
	Status           DeliveryStatus `json:"status" gorm:"not null;index"`
	PickupAddress    Address        `json:"pickup_address" gorm:"embedded;embeddedPrefix:pickup_"`
	DropoffAddress   Address        `json:"dropoff_address" gorm:"embedded;embeddedPrefix:dropoff_"`
	StartTime        *time.Time     `json:"start_time,omitempty"`
	EndTime          *time.Time     `json:"end_time,omitempty"`
	EstimatedMinutes int            `json:"estimated_minutes"`
	ActualDuration   *int           `json:"actual_duration,omitempty"` // minutes
	DistanceKm       float64        `json:"distance_km"`
	DriverEarnings   float64        `json:"driver_earnings"`
	Notes            string         `json:"notes,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func (d *Delivery) BeforeSave(tx *gorm.DB) error {
	d.ComputeDuration()
	return nil
}

// ComputeDuration sets ActualDuration to the rounded minutes between start and end
// when both are present.
func (d *Delivery) ComputeDuration() {
	if d.StartTime == nil || d.EndTime == nil {
		return
	}
	ms := d.EndTime.Sub(*d.StartTime).Milliseconds()
	mins := int(math.Round(float64(ms) / 60000))
	d.ActualDuration = &mins
}
