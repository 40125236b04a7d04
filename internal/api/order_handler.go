package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prabhata303-del/Dd/internal/middleware"
	"github.com/prabhata303-del/Dd/internal/models"
	"github.com/prabhata303-del/Dd/internal/orders"
)

// OrderHandler serves order placement and the customer's order feed.
type OrderHandler struct {
	orders *orders.Service
	logger *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(os *orders.Service, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: os, logger: logger}
}

// Place handles POST /api/v1/orders.
func (h *OrderHandler) Place(c *gin.Context) {
	var req models.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	uid := c.GetString(middleware.ContextUserID)
	order, err := h.orders.Place(c.Request.Context(), uid, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// List handles GET /api/v1/orders. Orders come back newest first with
// customer-facing statuses and, for on-way orders, the driver profile.
func (h *OrderHandler) List(c *gin.Context) {
	uid := c.GetString(middleware.ContextUserID)
	feed, err := h.orders.List(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

// Cancel handles POST /api/v1/orders/:orderId/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	uid := c.GetString(middleware.ContextUserID)
	if err := h.orders.Cancel(c.Request.Context(), uid, c.Param("orderId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Order cancelled"})
}

// Stream handles GET /api/v1/orders/stream. It upgrades to a websocket
// and pushes the aggregated feed after every change to the orders tree.
func (h *OrderHandler) Stream(c *gin.Context) {
	uid := c.GetString(middleware.ContextUserID)
	feed, cancel, err := h.orders.Track(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	pumpFeed(c, h.logger, feed, cancel)
}
