package handlers

import (
	"food-delivery-admin-api/apperror"
	"food-delivery-admin-api/models"
	"food-delivery-admin-api/services"

	"github.com/gin-gonic/gin"
)

// ── Restaurant Management ────────────────────────────────────────────────────

// ListRestaurants supports status, is_active, cuisine and search filters
func (h *Handler) ListRestaurants(c *gin.Context) {
	status := models.RestaurantStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		h.fail(c, apperror.Validation("status must be one of: open, closed, busy"))
		return
	}
	active, err := queryBool(c, "is_active")
	if err != nil {
		h.fail(c, err)
		return
	}
	restaurants, err := h.svc.Restaurants.List(c.Request.Context(), services.RestaurantFilter{
		Status:   status,
		IsActive: active,
		Cuisine:  c.Query("cuisine"),
		Search:   c.Query("search"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, restaurants, "")
}

func (h *Handler) GetRestaurant(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	d, err := h.svc.Restaurants.Detail(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, d, "")
}

// CreateRestaurant resolves or creates the vendor named in the request
func (h *Handler) CreateRestaurant(c *gin.Context) {
	var req services.RestaurantInput
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	r, err := h.svc.Restaurants.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	created(c, r, "Restaurant created successfully")
}

func (h *Handler) UpdateRestaurant(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var req services.RestaurantUpdate
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	r, err := h.svc.Restaurants.Update(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, r, "Restaurant updated successfully")
}

// ToggleRestaurantStatus flips is_active
func (h *Handler) ToggleRestaurantStatus(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	r, err := h.svc.Restaurants.ToggleStatus(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	msg := "Restaurant deactivated"
	if r.IsActive {
		msg = "Restaurant activated"
	}
	ok(c, r, msg)
}

func (h *Handler) DeleteRestaurant(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.svc.Restaurants.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	ok(c, nil, "Restaurant deleted successfully")
}

func (h *Handler) UploadRestaurantImage(c *gin.Context) {
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
	r, err := h.svc.Restaurants.SetImage(c.Request.Context(), id, name, f)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, r, "Image uploaded")
}
