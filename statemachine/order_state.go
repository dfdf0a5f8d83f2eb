package statemachine

import (
	"time"

	"food-delivery-admin-api/models"
)

// OrderStatuses is the closed set accepted when an admin sets an order status.
var OrderStatuses = []models.OrderStatus{
	models.StatusPending,
	models.StatusConfirmed,
	models.StatusPickedUp,
	models.StatusInTransit,
	models.StatusDelivered,
	models.StatusCancelled,
}

// OrderStatusesWithAssigned adds the status written by driver assignment.
var OrderStatusesWithAssigned = append([]models.OrderStatus{models.StatusAssigned}, OrderStatuses...)

// Transition is one edge of the advisory order lifecycle
type Transition struct {
	From    models.OrderStatus `json:"from"`
	To      models.OrderStatus `json:"to"`
	Trigger string             `json:"trigger"`
}

// lifecycle documents the expected flow. Status updates are not checked against it.
var lifecycle = []Transition{
	{From: models.StatusPending, To: models.StatusConfirmed, Trigger: "status_update"},
	{From: models.StatusConfirmed, To: models.StatusAssigned, Trigger: "assign_driver"},
	{From: models.StatusConfirmed, To: models.StatusPickedUp, Trigger: "status_update"},
	{From: models.StatusAssigned, To: models.StatusPickedUp, Trigger: "status_update"},
	{From: models.StatusPickedUp, To: models.StatusInTransit, Trigger: "status_update"},
	{From: models.StatusInTransit, To: models.StatusDelivered, Trigger: "status_update"},
	{From: models.StatusPending, To: models.StatusCancelled, Trigger: "status_update"},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Trigger: "status_update"},
	{From: models.StatusAssigned, To: models.StatusCancelled, Trigger: "status_update"},
	{From: models.StatusPickedUp, To: models.StatusCancelled, Trigger: "status_update"},
	{From: models.StatusInTransit, To: models.StatusCancelled, Trigger: "status_update"},
}

func contains(set []models.OrderStatus, s models.OrderStatus) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// IsSettable reports whether s may be requested through a status update.
func IsSettable(s models.OrderStatus) bool {
	return contains(OrderStatuses, s)
}

// IsKnown reports whether s belongs to either order status vocabulary.
func IsKnown(s models.OrderStatus) bool {
	return contains(OrderStatusesWithAssigned, s)
}

func IsTerminal(s models.OrderStatus) bool {
	return s == models.StatusDelivered || s == models.StatusCancelled
}

func IsDeliveryTerminal(s models.DeliveryStatus) bool {
	return s == models.DeliveryCompleted || s == models.DeliveryCancelled
}

// ActiveOrderStatuses are the non-terminal order statuses.
func ActiveOrderStatuses() []models.OrderStatus {
	var out []models.OrderStatus
	for _, s := range OrderStatusesWithAssigned {
		if !IsTerminal(s) {
			out = append(out, s)
		}
	}
	return out
}

// ActiveDeliveryStatuses are the non-terminal delivery statuses.
func ActiveDeliveryStatuses() []models.DeliveryStatus {
	return []models.DeliveryStatus{models.DeliveryAssigned, models.DeliveryOngoing}
}

// DeliveryStatusFor maps an order status onto the delivery vocabulary.
// The mapping is lossy: everything that is not delivered, picked up or in
// transit collapses to assigned, cancelled included.
func DeliveryStatusFor(s models.OrderStatus) models.DeliveryStatus {
	switch s {
	case models.StatusDelivered:
		return models.DeliveryCompleted
	case models.StatusPickedUp, models.StatusInTransit:
		return models.DeliveryOngoing
	default:
		return models.DeliveryAssigned
	}
}

// SyncDelivery applies an order status change to its delivery record.
// StartTime and EndTime are only ever set when unset; going back never clears them.
func SyncDelivery(d *models.Delivery, s models.OrderStatus, now time.Time) {
	d.Status = DeliveryStatusFor(s)
	switch d.Status {
	case models.DeliveryCompleted:
		if d.EndTime == nil {
			t := now
			d.EndTime = &t
		}
	case models.DeliveryOngoing:
		if d.StartTime == nil {
			t := now
			d.StartTime = &t
		}
	}
	d.ComputeDuration()
}

// ValidTransitionsFrom returns the advisory next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range lifecycle {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// Flow returns the full advisory lifecycle for documentation
func Flow() []Transition {
	out := make([]Transition, len(lifecycle))
	copy(out, lifecycle)
	return out
}
