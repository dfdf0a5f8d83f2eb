package handlers

import (
	"food-delivery-admin-api/apperror"
	"food-delivery-admin-api/models"
	"food-delivery-admin-api/services"

	"github.com/gin-gonic/gin"
)

// ── Menu Management ──────────────────────────────────────────────────────────

func (h *Handler) ListMenuItems(c *gin.Context) {
	restaurantID, err := queryUint(c, "restaurant_id")
	if err != nil {
		h.fail(c, err)
		return
	}
	category := models.MenuCategory(c.Query("category"))
	if category != "" && !category.Valid() {
		h.fail(c, apperror.Validation("Invalid category: "+string(category)))
		return
	}
	available, err := queryBool(c, "is_available")
	if err != nil {
		h.fail(c, err)
		return
	}
	items, err := h.svc.Menu.List(c.Request.Context(), services.MenuFilter{
		RestaurantID: restaurantID,
		Category:     category,
		IsAvailable:  available,
		Search:       c.Query("search"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, items, "")
}

func (h *Handler) GetMenuItem(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	m, err := h.svc.Menu.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, m, "")
}

func (h *Handler) CreateMenuItem(c *gin.Context) {
	var req services.MenuItemInput
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	m, err := h.svc.Menu.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	created(c, m, "Menu item created successfully")
}

// UpdateMenuItem rejects any attempt to move the item to another restaurant
func (h *Handler) UpdateMenuItem(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var req services.MenuItemUpdate
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	m, err := h.svc.Menu.Update(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, m, "Menu item updated successfully")
}

func (h *Handler) ToggleMenuItemAvailability(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	m, err := h.svc.Menu.ToggleAvailability(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	msg := "Menu item is now unavailable"
	if m.IsAvailable {
		msg = "Menu item is now available"
	}
	ok(c, m, msg)
}

func (h *Handler) DeleteMenuItem(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.svc.Menu.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	ok(c, nil, "Menu item deleted successfully")
}

func (h *Handler) UploadMenuItemImage(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	name, f, err := readImage(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	defer f.Close()
	m, err := h.svc.Menu.SetImage(c.Request.Context(), id, name, f)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, m, "Image uploaded")
}
