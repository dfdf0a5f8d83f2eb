package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"food-delivery-admin-api/apperror"
	"food-delivery-admin-api/logger"
	"food-delivery-admin-api/models"
	"food-delivery-admin-api/statemachine"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderService owns orders, their status history and their delivery record.
type OrderService struct {
	db  *gorm.DB
	now func() time.Time
}

type OrderFilter struct {
	Status       models.OrderStatus
	CustomerID   uint
	RestaurantID uint
	DriverID     uint
}

type OrderItemInput struct {
	MenuItemID          uint     `json:"menu_item_id" binding:"required"`
	Quantity            int      `json:"quantity" binding:"required,min=1"`
	Subtotal            *float64 `json:"subtotal" binding:"omitempty,gte=0"`
	SpecialInstructions string   `json:"special_instructions"`
}

type OrderInput struct {
	CustomerID            uint                 `json:"customer_id" binding:"required"`
	RestaurantID          uint                 `json:"restaurant_id" binding:"required"`
	Items                 []OrderItemInput     `json:"items" binding:"required,min=1,dive"`
	DeliveryAddress       models.Address       `json:"delivery_address"`
	PaymentMethod         models.PaymentMethod `json:"payment_method" binding:"omitempty,payment_method"`
	DeliveryFee           *float64             `json:"delivery_fee" binding:"omitempty,gte=0"`
	Tax                   float64              `json:"tax" binding:"gte=0"`
	TotalAmount           *float64             `json:"total_amount" binding:"omitempty,gte=0"`
	SpecialInstructions   string               `json:"special_instructions"`
	EstimatedDeliveryTime *time.Time           `json:"estimated_delivery_time"`
}

// OrderUpdate lists the only fields editable after creation.
type OrderUpdate struct {
	DeliveryAddress       *models.Address       `json:"delivery_address"`
	SpecialInstructions   *string               `json:"special_instructions"`
	PaymentMethod         *models.PaymentMethod `json:"payment_method" binding:"omitempty,payment_method"`
	PaymentStatus         *models.PaymentStatus `json:"payment_status" binding:"omitempty,payment_status"`
	EstimatedDeliveryTime *time.Time            `json:"estimated_delivery_time"`
}

type StatusInput struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Note   string             `json:"note"`
}

type AssignDriverInput struct {
	DriverID uint   `json:"driver_id" binding:"required"`
	Note     string `json:"note"`
}

type DeliveryInput struct {
	EstimatedMinutes int     `json:"estimated_minutes" binding:"gte=0"`
	DistanceKm       float64 `json:"distance_km" binding:"gte=0"`
	DriverEarnings   float64 `json:"driver_earnings" binding:"gte=0"`
	Notes            string  `json:"notes"`
}

func (s *OrderService) List(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	if f.Status != "" && !statemachine.IsKnown(f.Status) {
		return nil, apperror.Validation("Invalid status. Must be one of: " + statusList(statemachine.OrderStatusesWithAssigned))
	}
	q := s.db.WithContext(ctx).Preload("Customer").Preload("Restaurant").Preload("Driver").Preload("Items")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.CustomerID != 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.RestaurantID != 0 {
		q = q.Where("restaurant_id = ?", f.RestaurantID)
	}
	if f.DriverID != 0 {
		q = q.Where("driver_id = ?", f.DriverID)
	}
	var orders []models.Order
	if err := q.Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, apperror.Wrap(err, "Failed to list orders")
	}
	return orders, nil
}

// Get loads an order with everything it references. Customer, restaurant
// and driver stay nil when the referenced record has been deleted.
func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	err := s.db.WithContext(ctx).
		Preload("Customer").Preload("Restaurant").Preload("Driver").
		Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Delivery").
		First(&o, id).Error
	if err != nil {
		return nil, lookupErr(err, "Order")
	}
	return &o, nil
}

func (s *OrderService) find(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	if err := s.db.WithContext(ctx).First(&o, id).Error; err != nil {
		return nil, lookupErr(err, "Order")
	}
	return &o, nil
}

// Create prices an order from menu snapshots. Supplied item subtotals and a
// supplied total are stored as given.
func (s *OrderService) Create(ctx context.Context, in OrderInput, actor uint) (*models.Order, error) {
	db := s.db.WithContext(ctx)

	var customer models.Account
	if err := db.Where("role = ?", models.RoleCustomer).First(&customer, in.CustomerID).Error; err != nil {
		return nil, lookupErr(err, "Customer")
	}
	var restaurant models.Restaurant
	if err := db.First(&restaurant, in.RestaurantID).Error; err != nil {
		return nil, lookupErr(err, "Restaurant")
	}

	ids := make([]uint, 0, len(in.Items))
	for _, it := range in.Items {
		ids = append(ids, it.MenuItemID)
	}
	var menu []models.MenuItem
	if err := db.Where("id IN ?", ids).Find(&menu).Error; err != nil {
		return nil, apperror.Wrap(err, "Failed to load menu items")
	}
	byID := make(map[uint]models.MenuItem, len(menu))
	for _, m := range menu {
		byID[m.ID] = m
	}

	items := make([]models.OrderItem, 0, len(in.Items))
	var subtotal float64
	for _, it := range in.Items {
		m, ok := byID[it.MenuItemID]
		if !ok || m.RestaurantID != restaurant.ID {
			return nil, apperror.Validation(fmt.Sprintf("Menu item %d does not belong to this restaurant", it.MenuItemID))
		}
		if !m.IsAvailable {
			return nil, apperror.Validation("Menu item " + m.Name + " is not available")
		}
		line := m.Price * float64(it.Quantity)
		if it.Subtotal != nil {
			line = *it.Subtotal
		}
		subtotal += line
		items = append(items, models.OrderItem{
			MenuItemID:          m.ID,
			Name:                m.Name,
			Description:         m.Description,
			Price:               m.Price,
			Quantity:            it.Quantity,
			Subtotal:            line,
			SpecialInstructions: it.SpecialInstructions,
		})
	}

	fee := restaurant.DeliveryFee
	if in.DeliveryFee != nil {
		fee = *in.DeliveryFee
	}
	total := subtotal + fee + in.Tax
	if in.TotalAmount != nil {
		total = *in.TotalAmount
	}
	method := in.PaymentMethod
	if method == "" {
		method = models.PaymentCash
	}

	now := s.now()
	o := models.Order{
		OrderNumber:           newOrderNumber(),
		CustomerID:            customer.ID,
		RestaurantID:          restaurant.ID,
		Items:                 items,
		Subtotal:              subtotal,
		DeliveryFee:           fee,
		Tax:                   in.Tax,
		TotalAmount:           total,
		DeliveryAddress:       in.DeliveryAddress,
		PaymentMethod:         method,
		PaymentStatus:         models.PaymentPending,
		Status:                models.StatusPending,
		StatusHistory:         []models.OrderStatusHistory{historyEntry(models.StatusPending, "Order created", actor, now)},
		SpecialInstructions:   in.SpecialInstructions,
		EstimatedDeliveryTime: in.EstimatedDeliveryTime,
		CreatedAt:             now,
	}
	if err := db.Omit("Customer", "Restaurant", "Driver", "Delivery").Create(&o).Error; err != nil {
		return nil, apperror.Wrap(err, "Failed to create order")
	}
	logger.Action(logger.From(ctx), "order_created").Info("order created",
		slog.String("order_number", o.OrderNumber), slog.Float64("total_amount", o.TotalAmount))
	return s.Get(ctx, o.ID)
}

func (s *OrderService) Update(ctx context.Context, id uint, in OrderUpdate) (*models.Order, error) {
	o, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.DeliveryAddress != nil {
		o.DeliveryAddress = *in.DeliveryAddress
	}
	if in.SpecialInstructions != nil {
		o.SpecialInstructions = *in.SpecialInstructions
	}
	if in.PaymentMethod != nil {
		o.PaymentMethod = *in.PaymentMethod
	}
	if in.PaymentStatus != nil {
		o.PaymentStatus = *in.PaymentStatus
	}
	if in.EstimatedDeliveryTime != nil {
		o.EstimatedDeliveryTime = in.EstimatedDeliveryTime
	}
	if err := s.saveOrder(ctx, o); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// UpdateStatus stores the requested status, appends it to the history and
// carries the change over to the delivery record when there is one. The
// status is checked against the settable set only; any order is allowed.
// Order and delivery are written separately: if the delivery write fails the
// order keeps its new status.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, in StatusInput, actor uint) (*models.Order, error) {
	if !statemachine.IsSettable(in.Status) {
		return nil, apperror.Validation("Invalid status. Must be one of: " + statusList(statemachine.OrderStatuses))
	}
	o, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	from := o.Status
	o.Status = in.Status
	switch in.Status {
	case models.StatusDelivered:
		// first delivery time wins, matching the delivery end time
		if o.DeliveredAt == nil {
			o.DeliveredAt = &now
		}
		if o.PaymentMethod == models.PaymentCash && o.PaymentStatus == models.PaymentPending {
			o.PaymentStatus = models.PaymentPaid
		}
	case models.StatusCancelled:
		o.CancelledAt = &now
		o.CancellationReason = in.Note
	}
	if err := s.saveOrder(ctx, o); err != nil {
		return nil, err
	}
	if err := s.appendHistory(ctx, o.ID, in.Status, in.Note, actor, now); err != nil {
		return nil, err
	}

	log := logger.Action(logger.From(ctx), "order_status_updated").With(
		slog.String("order_number", o.OrderNumber),
		slog.String("from", string(from)),
		slog.String("to", string(in.Status)))

	var d models.Delivery
	err = s.db.WithContext(ctx).Where("order_id = ?", o.ID).First(&d).Error
	switch {
	case err == nil:
		statemachine.SyncDelivery(&d, in.Status, now)
		if err := s.db.WithContext(ctx).Save(&d).Error; err != nil {
			log.Error("delivery sync failed after order update", slog.Any("error", err))
			return nil, apperror.Wrap(err, "Order updated but delivery sync failed")
		}
	case !isNotFound(err):
		log.Error("delivery lookup failed after order update", slog.Any("error", err))
		return nil, apperror.Wrap(err, "Order updated but delivery sync failed")
	}
	log.Info("order status updated")
	return s.Get(ctx, o.ID)
}

// AssignDriver links a driver and moves the order to assigned. It never
// touches the delivery record; reassigning overwrites the previous driver.
func (s *OrderService) AssignDriver(ctx context.Context, id uint, in AssignDriverInput, actor uint) (*models.Order, error) {
	o, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	var driver models.Account
	if err := s.db.WithContext(ctx).First(&driver, in.DriverID).Error; err != nil {
		return nil, lookupErr(err, "Driver")
	}
	if driver.Role != models.RoleDriver {
		return nil, apperror.Validation("Account is not a driver")
	}

	now := s.now()
	o.DriverID = &driver.ID
	o.Status = models.StatusAssigned
	if err := s.saveOrder(ctx, o); err != nil {
		return nil, err
	}
	note := in.Note
	if note == "" {
		note = "Driver " + driver.Name + " assigned"
	}
	if err := s.appendHistory(ctx, o.ID, models.StatusAssigned, note, actor, now); err != nil {
		return nil, err
	}
	logger.Action(logger.From(ctx), "driver_assigned").Info("driver assigned",
		slog.String("order_number", o.OrderNumber), slog.Uint64("driver_id", uint64(driver.ID)))
	return s.Get(ctx, o.ID)
}

// CreateDelivery opens the delivery record for an order that has a driver.
// Its status is derived from the order's current status.
func (s *OrderService) CreateDelivery(ctx context.Context, id uint, in DeliveryInput) (*models.Delivery, error) {
	o, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.DriverID == nil {
		return nil, apperror.Validation("Order has no driver assigned")
	}
	if statemachine.IsTerminal(o.Status) {
		return nil, apperror.Validation("Order is already " + string(o.Status))
	}
	db := s.db.WithContext(ctx)
	var n int64
	if err := db.Model(&models.Delivery{}).Where("order_id = ?", o.ID).Count(&n).Error; err != nil {
		return nil, apperror.Wrap(err, "Failed to check delivery")
	}
	if n > 0 {
		return nil, apperror.Conflict("Delivery already exists for this order")
	}

	var pickup models.Address
	var restaurant models.Restaurant
	if err := db.First(&restaurant, o.RestaurantID).Error; err == nil {
		pickup = restaurant.Address
	} else if !isNotFound(err) {
		return nil, apperror.Wrap(err, "Failed to load restaurant")
	}

	d := models.Delivery{
		OrderID:          o.ID,
		DriverID:         *o.DriverID,
		PickupAddress:    pickup,
		DropoffAddress:   o.DeliveryAddress,
		EstimatedMinutes: in.EstimatedMinutes,
		DistanceKm:       in.DistanceKm,
		DriverEarnings:   in.DriverEarnings,
		Notes:            in.Notes,
	}
	statemachine.SyncDelivery(&d, o.Status, s.now())
	if err := db.Create(&d).Error; err != nil {
		return nil, apperror.Wrap(err, "Failed to create delivery")
	}
	return &d, nil
}

// Delete removes a finished order along with its items, history and delivery.
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	o, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !statemachine.IsTerminal(o.Status) {
		return conflictf("Cannot delete an order that is still %s", o.Status)
	}
	db := s.db.WithContext(ctx)
	for _, m := range []any{&models.OrderItem{}, &models.OrderStatusHistory{}, &models.Delivery{}} {
		if err := db.Where("order_id = ?", id).Delete(m).Error; err != nil {
			return apperror.Wrap(err, "Failed to delete order")
		}
	}
	if err := db.Delete(&models.Order{}, id).Error; err != nil {
		return apperror.Wrap(err, "Failed to delete order")
	}
	return nil
}

func (s *OrderService) saveOrder(ctx context.Context, o *models.Order) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(o).Error; err != nil {
		return apperror.Wrap(err, "Failed to save order")
	}
	return nil
}

func (s *OrderService) appendHistory(ctx context.Context, orderID uint, status models.OrderStatus, note string, actor uint, at time.Time) error {
	h := historyEntry(status, note, actor, at)
	h.OrderID = orderID
	if err := s.db.WithContext(ctx).Create(&h).Error; err != nil {
		return apperror.Wrap(err, "Failed to record status history")
	}
	return nil
}

func historyEntry(status models.OrderStatus, note string, actor uint, at time.Time) models.OrderStatusHistory {
	h := models.OrderStatusHistory{Status: status, Note: note, CreatedAt: at}
	if actor != 0 {
		h.ChangedBy = &actor
	}
	return h
}

func newOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}
