package handlers

import (
	"food-delivery-admin-api/models"

	"github.com/gin-gonic/gin"
)

// ── Customer Management ──────────────────────────────────────────────────────

func (h *Handler) ListCustomers(c *gin.Context) { h.listAccounts(c, models.RoleCustomer) }

// GetCustomer returns the customer with order count and total spent
func (h *Handler) GetCustomer(c *gin.Context) { h.getAccount(c, models.RoleCustomer) }

func (h *Handler) CreateCustomer(c *gin.Context) {
	h.createAccount(c, models.RoleCustomer, "Customer created successfully")
}

func (h *Handler) UpdateCustomer(c *gin.Context) {
	h.updateAccount(c, models.RoleCustomer, "Customer updated successfully")
}

// DeleteCustomer refuses while the customer has open orders
func (h *Handler) DeleteCustomer(c *gin.Context) {
	h.deleteAccount(c, models.RoleCustomer, "Customer deleted successfully")
}

func (h *Handler) UploadCustomerAvatar(c *gin.Context) { h.uploadAvatar(c, models.RoleCustomer) }
