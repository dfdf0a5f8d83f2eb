package handlers

import (
	"net/http"

	"food-delivery-admin-api/models"

	"github.com/gin-gonic/gin"
)

const (
	serviceName    = "Food Delivery Admin API"
	serviceVersion = "1.0.0"
)

// Health is used by load balancers; it does not touch the database.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

func (h *Handler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the " + serviceName,
		"docs":    "/api/orders/status-flow",
		"health":  "/health",
		"roles":   []models.Role{models.RoleCustomer, models.RoleVendor, models.RoleDriver, models.RoleAdmin},
	})
}
