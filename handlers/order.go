package handlers

import (
	"food-delivery-admin-api/apperror"
	"food-delivery-admin-api/middleware"
	"food-delivery-admin-api/models"
	"food-delivery-admin-api/services"
	"food-delivery-admin-api/statemachine"

	"github.com/gin-gonic/gin"
)

// ── Order Management ─────────────────────────────────────────────────────────

type orderQuery struct {
	Status       models.OrderStatus `form:"status" binding:"omitempty,order_status"`
	CustomerID   uint               `form:"customer_id"`
	RestaurantID uint               `form:"restaurant_id"`
	DriverID     uint               `form:"driver_id"`
}

func (h *Handler) ListOrders(c *gin.Context) {
	var q orderQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.fail(c, apperror.Validation(validationMessage(err)))
		return
	}
	orders, err := h.svc.Orders.List(c.Request.Context(), services.OrderFilter(q))
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, orders, "")
}

// GetOrderStatusFlow documents the order lifecycle for the dashboard
func (h *Handler) GetOrderStatusFlow(c *gin.Context) {
	ok(c, gin.H{
		"statuses":          statemachine.OrderStatuses,
		"assignment_status": models.StatusAssigned,
		"transitions":       statemachine.Flow(),
		"delivery_mapping": gin.H{
			string(models.StatusPickedUp):  statemachine.DeliveryStatusFor(models.StatusPickedUp),
			string(models.StatusInTransit): statemachine.DeliveryStatusFor(models.StatusInTransit),
			string(models.StatusDelivered): statemachine.DeliveryStatusFor(models.StatusDelivered),
			"otherwise":                    statemachine.DeliveryStatusFor(models.StatusPending),
		},
		"note": "Transitions are advisory; any listed status may be set directly.",
	}, "")
}

// GetOrder returns the order with items, status history and delivery
func (h *Handler) GetOrder(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	o, err := h.svc.Orders.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, gin.H{"order": o, "next_statuses": statemachine.ValidTransitionsFrom(o.Status)}, "")
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req services.OrderInput
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	o, err := h.svc.Orders.Create(c.Request.Context(), req, middleware.GetAccountID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	created(c, o, "Order created successfully")
}

// UpdateOrder edits address, instructions, payment and ETA only
func (h *Handler) UpdateOrder(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var req services.OrderUpdate
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	o, err := h.svc.Orders.Update(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, o, "Order updated successfully")
}

// UpdateOrderStatus sets the status and syncs the delivery record
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var req services.StatusInput
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	o, err := h.svc.Orders.UpdateStatus(c.Request.Context(), id, req, middleware.GetAccountID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, o, "Order status updated to "+string(o.Status))
}

func (h *Handler) AssignDriver(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var req services.AssignDriverInput
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	o, err := h.svc.Orders.AssignDriver(c.Request.Context(), id, req, middleware.GetAccountID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, o, "Driver assigned successfully")
}

// CreateDelivery opens the delivery record for an order with a driver
func (h *Handler) CreateDelivery(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var req services.DeliveryInput
	if c.Request.ContentLength != 0 {
		if err := bind(c, &req); err != nil {
			h.fail(c, err)
			return
		}
	}
	d, err := h.svc.Orders.CreateDelivery(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	created(c, d, "Delivery created successfully")
}

func (h *Handler) DeleteOrder(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.svc.Orders.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	ok(c, nil, "Order deleted successfully")
}
