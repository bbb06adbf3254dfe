package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	cartapp "github.com/storefront/backend/internal/application/cart"
)

// AnalyticsHandler serves cart abandonment and recovery analytics
type AnalyticsHandler struct {
	BaseHandler
	abandonment *cartapp.AbandonmentService
	recovery    *cartapp.RecoveryService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(abandonment *cartapp.AbandonmentService, recovery *cartapp.RecoveryService) *AnalyticsHandler {
	return &AnalyticsHandler{abandonment: abandonment, recovery: recovery}
}

// RegisterRoutes registers analytics routes
func (h *AnalyticsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	analytics := rg.Group("/analytics")
	{
		analytics.GET("/cart-abandonment", h.CartAbandonment)
		analytics.GET("/recovery-stats", h.RecoveryStats)
	}
}

// CartAbandonment handles GET /analytics/cart-abandonment?days=N.
// Reading this endpoint is what triggers the abandonment sweep.
func (h *AnalyticsHandler) CartAbandonment(c *gin.Context) {
	days, ok := h.windowParam(c, "days")
	if !ok {
		return
	}
	stats, err := h.abandonment.Stats(c.Request.Context(), days)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// RecoveryStats handles GET /analytics/recovery-stats?period=N
func (h *AnalyticsHandler) RecoveryStats(c *gin.Context) {
	period, ok := h.windowParam(c, "period")
	if !ok {
		return
	}
	stats, err := h.recovery.Stats(c.Request.Context(), period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// windowParam parses an optional day-count query parameter. Zero means
// "use the service default"; negative or garbage values are rejected.
func (h *AnalyticsHandler) windowParam(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 || value > 365 {
		h.BadRequest(c, "The "+name+" parameter must be a number of days between 0 and 365")
		return 0, false
	}
	return value, true
}
