package handlers

import (
	"food-delivery-admin-api/models"

	"github.com/gin-gonic/gin"
)

// ── Driver Management ────────────────────────────────────────────────────────

func (h *Handler) ListDrivers(c *gin.Context) { h.listAccounts(c, models.RoleDriver) }

// GetDriver returns the driver with delivery counts
func (h *Handler) GetDriver(c *gin.Context) { h.getAccount(c, models.RoleDriver) }

func (h *Handler) CreateDriver(c *gin.Context) {
	h.createAccount(c, models.RoleDriver, "Driver created successfully")
}

func (h *Handler) UpdateDriver(c *gin.Context) {
	h.updateAccount(c, models.RoleDriver, "Driver updated successfully")
}

// DeleteDriver refuses while the driver has open orders or deliveries
func (h *Handler) DeleteDriver(c *gin.Context) {
	h.deleteAccount(c, models.RoleDriver, "Driver deleted successfully")
}

func (h *Handler) UploadDriverAvatar(c *gin.Context) { h.uploadAvatar(c, models.RoleDriver) }
