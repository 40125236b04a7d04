package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prabhata303-del/Dd/internal/middleware"
	"github.com/prabhata303-del/Dd/internal/models"
	"github.com/prabhata303-del/Dd/internal/users"
)

// UserHandler serves the authenticated caller's profile.
type UserHandler struct {
	users *users.Service
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(us *users.Service) *UserHandler {
	return &UserHandler{users: us}
}

// Me handles GET /api/v1/users/me.
func (h *UserHandler) Me(c *gin.Context) {
	uid := c.GetString(middleware.ContextUserID)
	profile, err := h.users.Fetch(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Update handles PUT /api/v1/users/me. Only the fields present in the
// request body change; everything else keeps its stored value.
func (h *UserHandler) Update(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	uid := c.GetString(middleware.ContextUserID)
	profile, err := h.users.Apply(c.Request.Context(), uid, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Partner handles GET /api/v1/users/me/partner. It reports whether the
// caller is registered as a delivery partner.
func (h *UserHandler) Partner(c *gin.Context) {
	uid := c.GetString(middleware.ContextUserID)
	partner, err := h.users.IsDeliveryPartner(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deliveryPartner": partner})
}
