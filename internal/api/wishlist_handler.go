package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prabhata303-del/Dd/internal/middleware"
	"github.com/prabhata303-del/Dd/internal/models"
	"github.com/prabhata303-del/Dd/internal/wishlist"
)

// WishlistHandler serves the caller's saved dishes.
type WishlistHandler struct {
	wishlist *wishlist.Service
	logger   *zap.Logger
}

// NewWishlistHandler creates a new WishlistHandler.
func NewWishlistHandler(ws *wishlist.Service, logger *zap.Logger) *WishlistHandler {
	return &WishlistHandler{wishlist: ws, logger: logger}
}

// List handles GET /api/v1/wishlist.
func (h *WishlistHandler) List(c *gin.Context) {
	uid := c.GetString(middleware.ContextUserID)
	items, err := h.wishlist.List(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Add handles POST /api/v1/wishlist.
func (h *WishlistHandler) Add(c *gin.Context) {
	var req models.AddWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	uid := c.GetString(middleware.ContextUserID)
	if err := h.wishlist.Add(c.Request.Context(), uid, req.DishID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, SuccessResponse{Message: "Added to wishlist"})
}

// Remove handles DELETE /api/v1/wishlist/:dishId.
func (h *WishlistHandler) Remove(c *gin.Context) {
	uid := c.GetString(middleware.ContextUserID)
	if err := h.wishlist.Remove(c.Request.Context(), uid, c.Param("dishId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Removed from wishlist"})
}

// Stream handles GET /api/v1/wishlist/stream. It upgrades to a websocket
// and pushes the full wishlist after every change.
func (h *WishlistHandler) Stream(c *gin.Context) {
	uid := c.GetString(middleware.ContextUserID)
	feed, cancel, err := h.wishlist.Watch(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	pumpFeed(c, h.logger, feed, cancel)
}
