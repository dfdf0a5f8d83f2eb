package handlers

import (
	"food-delivery-admin-api/models"
	"food-delivery-admin-api/services"

	"github.com/gin-gonic/gin"
)

// Customers and drivers share one store; these helpers take the role from the route.

// accountView adds the activity figures that make sense for the account's role.
func accountView(acc *models.Account, sum services.AccountSummary) gin.H {
	view := gin.H{"account": acc}
	switch p := acc.Profile().(type) {
	case models.CustomerProfile:
		view["stats"] = gin.H{
			"orders":          sum.Orders,
			"active_orders":   sum.ActiveOrders,
			"total_spent":     sum.TotalSpent,
			"saved_addresses": len(p.SavedAddresses),
		}
	case models.DriverProfile:
		view["stats"] = gin.H{
			"orders":               sum.Orders,
			"active_orders":        sum.ActiveOrders,
			"deliveries":           sum.Deliveries,
			"completed_deliveries": sum.CompletedDeliveries,
			"is_available":         p.IsAvailable,
		}
	case models.VendorProfile:
		view["stats"] = gin.H{"restaurants": sum.Restaurants}
	case models.AdminProfile:
		view["stats"] = gin.H{"last_login_at": p.LastLoginAt}
	}
	return view
}

func (h *Handler) listAccounts(c *gin.Context, role models.Role) {
	active, err := queryBool(c, "is_active")
	if err != nil {
		h.fail(c, err)
		return
	}
	accounts, err := h.svc.Accounts.List(c.Request.Context(), role, services.AccountFilter{
		IsActive: active,
		Search:   c.Query("search"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, accounts, "")
}

func (h *Handler) getAccount(c *gin.Context, role models.Role) {
	id, err := parseID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	acc, err := h.svc.Accounts.Get(c.Request.Context(), role, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	sum, err := h.svc.Accounts.Summary(c.Request.Context(), acc)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, accountView(acc, sum), "")
}

func (h *Handler) createAccount(c *gin.Context, role models.Role, message string) {
	var req services.AccountInput
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	acc, err := h.svc.Accounts.Create(c.Request.Context(), role, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	created(c, acc, message)
}

func (h *Handler) updateAccount(c *gin.Context, role models.Role, message string) {
	id, err := parseID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var req services.AccountUpdate
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	acc, err := h.svc.Accounts.Update(c.Request.Context(), role, id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, acc, message)
}

func (h *Handler) deleteAccount(c *gin.Context, role models.Role, message string) {
	id, err := parseID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.svc.Accounts.Delete(c.Request.Context(), role, id); err != nil {
		h.fail(c, err)
		return
	}
	ok(c, nil, message)
}

func (h *Handler) uploadAvatar(c *gin.Context, role models.Role) {
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
	acc, err := h.svc.Accounts.SetAvatar(c.Request.Context(), role, id, name, f)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, acc, "Avatar updated")
}
