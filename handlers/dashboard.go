package handlers

import (
	"strconv"

	"food-delivery-admin-api/apperror"
	"food-delivery-admin-api/services"

	"github.com/gin-gonic/gin"
)

// ── Dashboard ────────────────────────────────────────────────────────────────

func (h *Handler) DashboardStats(c *gin.Context) {
	st, err := h.svc.Dashboard.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, st, "")
}

// DashboardChartData takes ?days= (default 7, capped at 90)
func (h *Handler) DashboardChartData(c *gin.Context) {
	days := services.DefaultChartDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.fail(c, apperror.Validation("days must be a positive integer"))
			return
		}
		days = n
	}
	data, err := h.svc.Dashboard.ChartData(c.Request.Context(), days)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, data, "")
}

// DashboardSuggestions returns rule-based hints for the operator
func (h *Handler) DashboardSuggestions(c *gin.Context) {
	s, err := h.svc.Dashboard.Suggestions(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, gin.H{"suggestions": s, "count": len(s)}, "")
}
