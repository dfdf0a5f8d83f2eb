package handlers

import (
	"food-delivery-admin-api/apperror"
	"food-delivery-admin-api/middleware"
	"food-delivery-admin-api/models"
	"food-delivery-admin-api/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) tokenResponse(acc *models.Account) (gin.H, error) {
	token, exp, err := h.jwt.GenerateToken(acc)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to generate token")
	}
	return gin.H{"token": token, "expires_at": exp, "account": acc}, nil
}

// Register creates a new admin account. Only the first one can be created anonymously.
func (h *Handler) Register(c *gin.Context) {
	var req services.RegisterInput
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	acc, err := h.svc.Auth.Register(c.Request.Context(), req, middleware.GetRole(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	resp, err := h.tokenResponse(acc)
	if err != nil {
		h.fail(c, err)
		return
	}
	created(c, resp, "Admin registered successfully")
}

// Login authenticates an admin and returns a JWT
func (h *Handler) Login(c *gin.Context) {
	var req services.LoginInput
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	acc, err := h.svc.Auth.Login(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	resp, err := h.tokenResponse(acc)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, resp, "Login successful")
}

// Verify returns the account behind the bearer token
func (h *Handler) Verify(c *gin.Context) {
	acc, err := h.svc.Auth.Current(c.Request.Context(), middleware.GetAccountID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, gin.H{"account": acc}, "")
}
