package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cartapp "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/domain/cart"
)

// CartHandler serves cart session tracking and completion
type CartHandler struct {
	BaseHandler
	tracking *cartapp.TrackingService
	recovery *cartapp.RecoveryService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(tracking *cartapp.TrackingService, recovery *cartapp.RecoveryService) *CartHandler {
	return &CartHandler{tracking: tracking, recovery: recovery}
}

// RegisterRoutes registers cart routes
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	carts := rg.Group("/carts")
	{
		carts.POST("/track", h.Track)
		carts.POST("/:id/complete", h.Complete)
	}
}

// trackRequest is the body of POST /carts/track
type trackRequest struct {
	SessionID   *string         `json:"session_id" binding:"omitempty,uuid"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int             `json:"item_count"`
	EventType   string          `json:"event_type" binding:"omitempty,oneof=view update"`
	Recovery    bool            `json:"recovery"`
}

// Track handles POST /carts/track
func (h *CartHandler) Track(c *gin.Context) {
	var req trackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid cart tracking payload")
		return
	}

	in := cartapp.TrackInput{
		TotalAmount: req.TotalAmount,
		ItemCount:   req.ItemCount,
		EventType:   cart.EventType(req.EventType),
		Recovery:    req.Recovery,
	}
	if req.SessionID != nil {
		id, err := uuid.Parse(*req.SessionID)
		if err != nil {
			h.BadRequest(c, "Invalid session ID")
			return
		}
		in.SessionID = &id
	}

	session, err := h.tracking.TrackActivity(c.Request.Context(), in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// completeRequest is the body of POST /carts/:id/complete
type completeRequest struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
	Recovery    bool            `json:"recovery"`
}

// Complete handles POST /carts/:id/complete. The recovery flag selects
// the recovery path, which records the recovery before completing.
func (h *CartHandler) Complete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid session ID")
		return
	}
	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid completion payload")
		return
	}

	if req.Recovery {
		recovery, err := h.recovery.Recover(c.Request.Context(), id, req.TotalAmount)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, recovery)
		return
	}

	session, err := h.tracking.Complete(c.Request.Context(), id, req.TotalAmount)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}
